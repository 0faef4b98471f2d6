package booking

import (
	"context"
	"errors"

	"github.com/cinetix/cinetix/internal/model"
)

// Errors returned by Store implementations.  The coordinator converts
// them into typed rejections or retries (duplicate booking codes) as
// appropriate.
var (
	ErrShowtimeNotFound   = errors.New("showtime not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrDuplicateCode      = errors.New("duplicate booking code")
	ErrPromotionExhausted = errors.New("promotion usage limit reached")
)

// Ops is the set of storage operations available inside one booking
// transaction.  Every method sees the same isolated view: the MySQL
// implementation backs them with a single *sql.Tx in which the showtime
// row is locked FOR UPDATE, so the availability checks and the ledger
// write cannot interleave with a concurrent booking for the same
// showtime.
type Ops interface {
	// ShowtimeForUpdate loads the showtime and acquires the per-showtime
	// serialization point for the rest of the transaction.
	ShowtimeForUpdate(ctx context.Context, id uint64) (*model.Showtime, error)
	// Room loads the room that defines the seat grid and tiers.
	Room(ctx context.Context, id uint64) (*model.Room, error)
	// TakenSeats returns the union of seat lists across all non-cancelled
	// tickets for the showtime.
	TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error)
	// InsertTicket persists a ticket, assigning its ID.  It returns
	// ErrDuplicateCode when the booking code is already taken.
	InsertTicket(ctx context.Context, t *model.Ticket) error
	// SetAvailableSeats overwrites the showtime's seat ledger.
	SetAvailableSeats(ctx context.Context, showtimeID uint64, seats []string) error
	// RedeemPromotion increments the promotion's usage counter, failing
	// with ErrPromotionExhausted when the limit is already reached.
	RedeemPromotion(ctx context.Context, promotionID uint64) error
	// TicketForUpdate loads and locks a ticket row for cancellation.
	TicketForUpdate(ctx context.Context, id uint64) (*model.Ticket, error)
	// SetTicketStatus updates a ticket's status.
	SetTicketStatus(ctx context.Context, id uint64, status string) error
}

// Store runs booking transactions.  Booking invokes fn within a new
// transaction and commits when fn returns nil; any error (including a
// *Rejection) rolls the whole transaction back and is returned to the
// caller.  Implementations must honour ctx cancellation and deadlines so
// a caller that gives up does not leave a transaction hanging.
type Store interface {
	Booking(ctx context.Context, fn func(ops Ops) error) error
}
