package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
)

const ticketCols = `id, user_id, showtime_id, seats, total_price, status, payment_method, booking_code, promo_code, customer_info, created_at`

// TicketRepo manages read access to tickets.  Ticket creation and
// cancellation go through the booking store so they share a transaction
// with the seat ledger; this repository serves listings and lookups.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

func scanTicket(row interface{ Scan(...interface{}) error }) (*model.Ticket, error) {
	var (
		t        model.Ticket
		seatsRaw []byte
		price    string
		custRaw  []byte
		promo    sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.ShowtimeID, &seatsRaw, &price, &t.Status,
		&t.PaymentMethod, &t.BookingCode, &promo, &custRaw, &t.CreatedAt); err != nil {
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

// GetByID returns a ticket or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, `SELECT `+ticketCols+` FROM tickets WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByUser returns a user's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketCols+` FROM tickets WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// ListAll returns every ticket, optionally filtered by showtime, newest
// first.  Used by staff and admin panels.
func (r *TicketRepo) ListAll(ctx context.Context, showtimeID uint64) ([]model.Ticket, error) {
	if showtimeID != 0 {
		return r.list(ctx, `SELECT `+ticketCols+` FROM tickets WHERE showtime_id = ? ORDER BY created_at DESC, id DESC`, showtimeID)
	}
	return r.list(ctx, `SELECT ` + ticketCols + ` FROM tickets ORDER BY created_at DESC, id DESC`)
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// MarkPaid transitions a pending or confirmed ticket to paid.  It
// returns ErrTicketNotFound for unknown IDs and ErrConflict when the
// ticket is cancelled.
func (r *TicketRepo) MarkPaid(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET status = ? WHERE id = ? AND status IN (?, ?)`,
		model.TicketPaid, id, model.TicketPending, model.TicketConfirmed)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM tickets WHERE id = ?`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrTicketNotFound
		}
		if err != nil {
			return err
		}
		if status != model.TicketPaid {
			return ErrConflict
		}
	}
	return nil
}
