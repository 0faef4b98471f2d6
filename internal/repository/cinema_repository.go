package repository

import (
	"context"
	"database/sql"

	"github.com/cinetix/cinetix/internal/model"
)

// CinemaRepo manages persistence for cinemas.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the given DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo { return &CinemaRepo{db: db} }

// Create inserts a cinema and assigns the generated ID back onto c.
func (r *CinemaRepo) Create(ctx context.Context, c *model.Cinema) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cinemas (name, address, city, phone) VALUES (?, ?, ?, ?)`,
		c.Name, c.Address, c.City, c.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM cinemas WHERE id = ?`, c.ID).Scan(&c.CreatedAt)
}

// GetByID returns a cinema or ErrCinemaNotFound.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (*model.Cinema, error) {
	var c model.Cinema
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address, city, phone, created_at FROM cinemas WHERE id = ?`, id).Scan(
		&c.ID, &c.Name, &c.Address, &c.City, &c.Phone, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCinemaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all cinemas ordered by name.
func (r *CinemaRepo) List(ctx context.Context) ([]model.Cinema, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, city, phone, created_at FROM cinemas ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cinemas := make([]model.Cinema, 0)
	for rows.Next() {
		var c model.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		cinemas = append(cinemas, c)
	}
	return cinemas, rows.Err()
}

// Update overwrites the editable fields of a cinema.
func (r *CinemaRepo) Update(ctx context.Context, c *model.Cinema) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cinemas SET name = ?, address = ?, city = ?, phone = ? WHERE id = ?`,
		c.Name, c.Address, c.City, c.Phone, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM cinemas WHERE id = ?`, c.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrCinemaNotFound
		}
	}
	return nil
}

// Delete removes a cinema.  Rooms referencing it block the delete with
// ErrConflict so showtimes cannot be orphaned silently.
func (r *CinemaRepo) Delete(ctx context.Context, id uint64) error {
	var rooms int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE cinema_id = ?`, id).Scan(&rooms); err != nil {
		return err
	}
	if rooms > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM cinemas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCinemaNotFound
	}
	return nil
}
