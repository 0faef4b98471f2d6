// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published after a booking commits.  It carries
// enough context for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type BookingConfirmedEvent struct {
	TicketID      uint64   `json:"ticket_id"`
	BookingCode   string   `json:"booking_code"`
	UserID        uint64   `json:"user_id"`
	ShowtimeID    uint64   `json:"showtime_id"`
	MovieTitle    string   `json:"movie_title"`
	CinemaName    string   `json:"cinema_name"`
	RoomName      string   `json:"room_name"`
	StartsAt      string   `json:"starts_at"`
	Seats         []string `json:"seats"`
	TotalPrice    string   `json:"total_price"`
	PaymentMethod string   `json:"payment_method"`
	PromoCode     string   `json:"promo_code,omitempty"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
