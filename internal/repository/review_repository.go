package repository

import (
	"context"
	"database/sql"

	"github.com/cinetix/cinetix/internal/model"
)

// ReviewRepo manages persistence for movie reviews.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo with the given DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and assigns the generated ID back onto rv.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, movie_id, rating, comment) VALUES (?, ?, ?, ?)`,
		rv.UserID, rv.MovieID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM reviews WHERE id = ?`, rv.ID).Scan(&rv.CreatedAt)
}

// ListByMovie returns reviews of one movie, newest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, movie_id, rating, comment, created_at FROM reviews WHERE movie_id = ? ORDER BY created_at DESC`,
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.MovieID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
