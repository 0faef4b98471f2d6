package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Showtime is a scheduled screening of a movie in a specific room.
// AvailableSeats is the authoritative seat ledger for the screening: it
// holds the identifiers of seats that can still be booked.  It starts as
// the room's full seat grid and shrinks only when a booking commits;
// cancellation restores the released seats.  All mutation of the ledger
// goes through the booking coordinator so that the check and the write
// happen under the same lock.
//
// Price is the base price per seat; the effective per-seat price is the
// base price times the seat tier multiplier (see the booking package).
type Showtime struct {
	ID             uint64          `json:"id"`
	MovieID        uint64          `json:"movieId"`
	RoomID         uint64          `json:"roomId"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	Price          decimal.Decimal `json:"price"`
	AvailableSeats []string        `json:"availableSeats"`
	CreatedAt      time.Time       `json:"createdAt"`
}
