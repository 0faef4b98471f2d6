package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket statuses.  A ticket is created as confirmed (payment is a label,
// not an integration), may be marked paid by staff, and may be cancelled
// by its owner or by staff/admin.  Cancelling returns the seats to the
// showtime ledger.
const (
	TicketPending   = "pending"
	TicketConfirmed = "confirmed"
	TicketPaid      = "paid"
	TicketCancelled = "cancelled"
)

// Accepted payment method labels.  No gateway is wired behind them.
const (
	PayCash    = "cash"
	PayCard    = "card"
	PayMomo    = "momo"
	PayBanking = "banking"
)

// CustomerInfo is the contact snapshot captured at booking time.  It is
// copied onto the ticket and is not linked to the user profile, so later
// profile edits do not rewrite history.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Ticket is a confirmed (or pending/cancelled) reservation of one or more
// seats on a showtime.
//
// Invariants: Seats is non-empty and, at creation time, disjoint from the
// seat list of every other non-cancelled ticket on the same showtime.
// TotalPrice is computed server-side from seat tiers and the validated
// discount; client-submitted totals are never stored.  BookingCode is
// unique across all tickets.
type Ticket struct {
	ID            uint64          `json:"id"`
	UserID        uint64          `json:"userId"`
	ShowtimeID    uint64          `json:"showtimeId"`
	Seats         []string        `json:"seats"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	BookingCode   string          `json:"bookingCode"`
	PromoCode     string          `json:"promoCode,omitempty"`
	Customer      CustomerInfo    `json:"customerInfo"`
	CreatedAt     time.Time       `json:"createdAt"`
}
