package repository

import (
	"context"
	"database/sql"

	"github.com/cinetix/cinetix/internal/model"
)

// MovieRepo manages persistence for the movies table.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = `id, title, description, genre, duration, rating, poster_url, trailer_url, release_date, status, created_at`

// Create inserts a movie and assigns the generated ID back onto m.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, genre, duration, rating, poster_url, trailer_url, release_date, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Genre, m.Duration, m.Rating,
		m.PosterURL, m.TrailerURL, m.ReleaseDate, m.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM movies WHERE id = ?`, m.ID).Scan(&m.CreatedAt)
}

// GetByID returns a movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx, `SELECT `+movieCols+` FROM movies WHERE id = ?`, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.Genre, &m.Duration, &m.Rating,
		&m.PosterURL, &m.TrailerURL, &m.ReleaseDate, &m.Status, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all movies, optionally filtered by status ("showing" or
// "coming_soon").  An empty status returns everything, newest first.
func (r *MovieRepo) List(ctx context.Context, status string) ([]model.Movie, error) {
	q := `SELECT ` + movieCols + ` FROM movies`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY release_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Genre, &m.Duration, &m.Rating,
			&m.PosterURL, &m.TrailerURL, &m.ReleaseDate, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Update overwrites the editable fields of a movie.  It returns
// ErrMovieNotFound when no row matches.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies SET title = ?, description = ?, genre = ?, duration = ?, rating = ?,
	           poster_url = ?, trailer_url = ?, release_date = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Genre, m.Duration, m.Rating,
		m.PosterURL, m.TrailerURL, m.ReleaseDate, m.Status, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or unchanged; distinguish by existence.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, m.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrMovieNotFound
		}
	}
	return nil
}

// Delete removes a movie.  It returns ErrMovieNotFound when no row
// matched.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
