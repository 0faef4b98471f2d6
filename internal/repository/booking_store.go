package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/booking"
	"github.com/cinetix/cinetix/internal/model"
)

// BookingStore implements booking.Store on MySQL.  Each call to Booking
// opens one transaction; ShowtimeForUpdate locks the showtime row with
// SELECT ... FOR UPDATE, which is the per-showtime serialization point:
// a concurrent booking for the same showtime blocks there until this
// transaction commits or rolls back, so the availability checks and the
// ledger write can never interleave.  Context deadlines propagate into
// every statement, so an abandoned request aborts the transaction
// instead of hanging on the lock.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore constructs a BookingStore with the given DB handle.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// Booking runs fn inside a transaction, committing on nil and rolling
// back on any error (typed rejections included).
func (s *BookingStore) Booking(ctx context.Context, fn func(ops booking.Ops) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingOps{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type bookingOps struct {
	tx *sql.Tx
}

// ShowtimeForUpdate loads and row-locks the showtime.
func (o *bookingOps) ShowtimeForUpdate(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, room_id, start_time, end_time, price, available_seats, created_at
	           FROM showtimes WHERE id = ? FOR UPDATE`
	var (
		st       model.Showtime
		price    string
		seatsRaw []byte
	)
	err := o.tx.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.MovieID, &st.RoomID,
		&st.StartTime, &st.EndTime, &price, &seatsRaw, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, booking.ErrShowtimeNotFound
	}
	if err != nil {
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

// Room reads the room inside the transaction.  No lock is needed; room
// dimensions are effectively immutable once showtimes exist.
func (o *bookingOps) Room(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := o.tx.QueryRowContext(ctx,
		`SELECT id, cinema_id, name, capacity, seat_rows, seats_per_row, created_at FROM rooms WHERE id = ?`, id).Scan(
		&rm.ID, &rm.CinemaID, &rm.Name, &rm.Capacity, &rm.Rows, &rm.SeatsPerRow, &rm.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, booking.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// TakenSeats unions the seat lists of every non-cancelled ticket on the
// showtime.  Runs under the showtime row lock held by the transaction.
func (o *bookingOps) TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
	rows, err := o.tx.QueryContext(ctx,
		`SELECT seats FROM tickets WHERE showtime_id = ? AND status <> ?`,
		showtimeID, model.TicketCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := make([]string, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		seats, err := decodeSeats(raw)
		if err != nil {
			return nil, err
		}
		taken = append(taken, seats...)
	}
	return taken, rows.Err()
}

// InsertTicket persists the ticket and assigns its ID.  The unique index
// on booking_code converts races on code generation into
// booking.ErrDuplicateCode so the coordinator can retry.
func (o *bookingOps) InsertTicket(ctx context.Context, t *model.Ticket) error {
	seats, err := encodeSeats(t.Seats)
	if err != nil {
		return err
	}
	cust, err := json.Marshal(t.Customer)
	if err != nil {
		return err
	}
	var promo interface{}
	if t.PromoCode != "" {
		promo = t.PromoCode
	}
	res, err := o.tx.ExecContext(ctx,
		`INSERT INTO tickets (user_id, showtime_id, seats, total_price, status, payment_method, booking_code, promo_code, customer_info)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.ShowtimeID, seats, t.TotalPrice.String(), t.Status, t.PaymentMethod, t.BookingCode, promo, cust)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return booking.ErrDuplicateCode
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return o.tx.QueryRowContext(ctx, `SELECT created_at FROM tickets WHERE id = ?`, t.ID).Scan(&t.CreatedAt)
}

// SetAvailableSeats overwrites the showtime's seat ledger.
func (o *bookingOps) SetAvailableSeats(ctx context.Context, showtimeID uint64, seats []string) error {
	encoded, err := encodeSeats(seats)
	if err != nil {
		return err
	}
	_, err = o.tx.ExecContext(ctx, `UPDATE showtimes SET available_seats = ? WHERE id = ?`, encoded, showtimeID)
	return err
}

// RedeemPromotion increments current_usage only while it is still below
// the limit.  The conditional update is the serialization point for the
// usage counter: when two bookings race for the last redemption, exactly
// one matches the WHERE clause.
func (o *bookingOps) RedeemPromotion(ctx context.Context, promotionID uint64) error {
	res, err := o.tx.ExecContext(ctx,
		`UPDATE promotions SET current_usage = current_usage + 1
		 WHERE id = ? AND (usage_limit IS NULL OR current_usage < usage_limit)`,
		promotionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrPromotionExhausted
	}
	return nil
}

// TicketForUpdate loads and row-locks a ticket for cancellation.
func (o *bookingOps) TicketForUpdate(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT id, user_id, showtime_id, seats, total_price, status, payment_method, booking_code, promo_code, customer_info, created_at
	           FROM tickets WHERE id = ? FOR UPDATE`
	var (
		t        model.Ticket
		seatsRaw []byte
		price    string
		custRaw  []byte
		promo    sql.NullString
	)
	err := o.tx.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.UserID, &t.ShowtimeID, &seatsRaw, &price,
		&t.Status, &t.PaymentMethod, &t.BookingCode, &promo, &custRaw, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, booking.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	seats, err := decodeSeats(seatsRaw)
	if err != nil {
		return nil, err
	}
	t.Seats = seats
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	t.TotalPrice = p
	if promo.Valid {
		t.PromoCode = promo.String
	}
	if len(custRaw) > 0 {
		if err := json.Unmarshal(custRaw, &t.Customer); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// SetTicketStatus updates a ticket's status inside the transaction.
func (o *bookingOps) SetTicketStatus(ctx context.Context, id uint64, status string) error {
	_, err := o.tx.ExecContext(ctx, `UPDATE tickets SET status = ? WHERE id = ?`, status, id)
	return err
}
