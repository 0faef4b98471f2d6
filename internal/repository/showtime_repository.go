package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
)

const showtimeCols = `id, movie_id, room_id, start_time, end_time, price, available_seats, created_at`

// ShowtimeRepo manages persistence for showtimes.  The available_seats
// column is the seat ledger; repositories only read it or write it
// verbatim, the booking coordinator owns its transitions.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

func scanShowtime(row interface{ Scan(...interface{}) error }) (*model.Showtime, error) {
	var (
		st       model.Showtime
		price    string
		seatsRaw []byte
	)
	if err := row.Scan(&st.ID, &st.MovieID, &st.RoomID, &st.StartTime, &st.EndTime, &price, &seatsRaw, &st.CreatedAt); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	st.Price = p
	seats, err := decodeSeats(seatsRaw)
	if err != nil {
		return nil, err
	}
	st.AvailableSeats = seats
	return &st, nil
}

// Create inserts a showtime.  The caller seeds AvailableSeats with the
// room's full seat grid (see booking.Layout); the repository stores
// whatever ledger it is handed.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
	seats, err := encodeSeats(st.AvailableSeats)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO showtimes (movie_id, room_id, start_time, end_time, price, available_seats) VALUES (?, ?, ?, ?, ?, ?)`,
		st.MovieID, st.RoomID, st.StartTime, st.EndTime, st.Price.String(), seats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM showtimes WHERE id = ?`, st.ID).Scan(&st.CreatedAt)
}

// GetByID returns a showtime or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	st, err := scanShowtime(r.db.QueryRowContext(ctx, `SELECT `+showtimeCols+` FROM showtimes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrShowtimeNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// List returns showtimes, optionally restricted to one movie (movieID
// non-zero), ordered by start time.
func (r *ShowtimeRepo) List(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
	q := `SELECT ` + showtimeCols + ` FROM showtimes`
	args := []interface{}{}
	if movieID != 0 {
		q += ` WHERE movie_id = ?`
		args = append(args, movieID)
	}
	q += ` ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// UpdateSchedule rewrites a showtime's schedule fields (movie, room,
// times, price).  The seat ledger is deliberately untouched: booking and
// cancellation are the only writers, via the booking store.
func (r *ShowtimeRepo) UpdateSchedule(ctx context.Context, st *model.Showtime) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE showtimes SET movie_id = ?, room_id = ?, start_time = ?, end_time = ?, price = ? WHERE id = ?`,
		st.MovieID, st.RoomID, st.StartTime, st.EndTime, st.Price.String(), st.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, st.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrShowtimeNotFound
		}
	}
	return nil
}

// Delete removes a showtime unless tickets exist for it, in which case
// ErrConflict is returned.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	var tickets int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE showtime_id = ?`, id).Scan(&tickets); err != nil {
		return err
	}
	if tickets > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}
