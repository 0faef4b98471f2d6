package repository

import (
	"context"
	"database/sql"

	"github.com/cinetix/cinetix/internal/model"
)

// RoomRepo manages persistence for screening rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a room.  Capacity is derived from the grid dimensions
// when left zero.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	if rm.Capacity == 0 && rm.Rows > 0 && rm.SeatsPerRow > 0 {
		rm.Capacity = uint32(rm.Rows * rm.SeatsPerRow)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (cinema_id, name, capacity, seat_rows, seats_per_row) VALUES (?, ?, ?, ?, ?)`,
		rm.CinemaID, rm.Name, rm.Capacity, rm.Rows, rm.SeatsPerRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM rooms WHERE id = ?`, rm.ID).Scan(&rm.CreatedAt)
}

// GetByID returns a room or ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := r.db.QueryRowContext(ctx,
		`SELECT id, cinema_id, name, capacity, seat_rows, seats_per_row, created_at FROM rooms WHERE id = ?`, id).Scan(
		&rm.ID, &rm.CinemaID, &rm.Name, &rm.Capacity, &rm.Rows, &rm.SeatsPerRow, &rm.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// ListByCinema returns all rooms of one cinema ordered by name.
func (r *RoomRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cinema_id, name, capacity, seat_rows, seats_per_row, created_at
		 FROM rooms WHERE cinema_id = ? ORDER BY name`, cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.CinemaID, &rm.Name, &rm.Capacity, &rm.Rows, &rm.SeatsPerRow, &rm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
