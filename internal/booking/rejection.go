package booking

// Reason identifies why a booking operation was refused.  Reasons are
// machine-readable so handlers can map them to HTTP statuses and clients
// can react (e.g. highlight the conflicting seats) without parsing
// message text.
type Reason string

const (
	// ReasonInvalidRequest covers malformed input: no seats, unknown
	// payment method, seats outside the room grid, missing contact info.
	ReasonInvalidRequest Reason = "invalid_request"
	// ReasonShowtimeNotFound means the showtime does not exist.
	ReasonShowtimeNotFound Reason = "showtime_not_found"
	// ReasonSeatsUnavailable means the first-pass ledger check found
	// requested seats missing from the available set.
	ReasonSeatsUnavailable Reason = "seats_unavailable"
	// ReasonSeatsConflict means the authoritative ticket scan found
	// requested seats already committed to another ticket.
	ReasonSeatsConflict Reason = "seats_conflict"
	// ReasonPromotion means the supplied promo code failed validation or
	// its usage limit was exhausted at redemption time.
	ReasonPromotion Reason = "promotion_rejected"
	// ReasonTicketNotFound means the ticket to cancel does not exist.
	ReasonTicketNotFound Reason = "ticket_not_found"
	// ReasonForbidden means the caller may not act on this ticket.
	ReasonForbidden Reason = "forbidden"
	// ReasonAlreadyCancelled means the ticket was cancelled earlier.
	ReasonAlreadyCancelled Reason = "already_cancelled"
)

// Rejection is a typed business-rule refusal returned by the
// coordinator.  Storage failures are returned as plain errors instead;
// handlers treat those as 500s.
type Rejection struct {
	Reason  Reason
	Message string
	// Seats carries the offending seat identifiers for
	// ReasonSeatsUnavailable and ReasonSeatsConflict.
	Seats []string
}

func (r *Rejection) Error() string { return string(r.Reason) + ": " + r.Message }

func reject(reason Reason, msg string, seats ...string) *Rejection {
	return &Rejection{Reason: reason, Message: msg, Seats: seats}
}
