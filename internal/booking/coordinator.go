package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/promotion"
)

// PromoValidator prices a discount code against a purchase total without
// side effects.  *promotion.Evaluator satisfies it.
type PromoValidator interface {
	Validate(ctx context.Context, code string, purchaseTotal decimal.Decimal) (*promotion.Result, error)
}

// Request is a seat-selection submitted for booking.  Any totalPrice a
// client sent alongside it has already been discarded at the HTTP
// boundary; the coordinator computes the charge itself.
type Request struct {
	UserID        uint64
	ShowtimeID    uint64
	Seats         []string
	PaymentMethod string
	PromoCode     string
	Customer      model.CustomerInfo
}

var paymentMethods = map[string]bool{
	model.PayCash:    true,
	model.PayCard:    true,
	model.PayMomo:    true,
	model.PayBanking: true,
}

// Coordinator is the booking state machine.  It owns all mutation of the
// seat ledger: a booking shrinks it, a cancellation restores it, and both
// run inside one store transaction holding the per-showtime lock so the
// availability checks and the commit are atomic.
type Coordinator struct {
	store  Store
	promos PromoValidator
}

// NewCoordinator wires the coordinator to its transactional store and
// the promotion evaluator.
func NewCoordinator(store Store, promos PromoValidator) *Coordinator {
	if store == nil || promos == nil {
		panic("nil dependency passed to NewCoordinator")
	}
	return &Coordinator{store: store, promos: promos}
}

// Book reserves the requested seats and returns the persisted ticket.
// Business-rule refusals come back as *Rejection; other errors indicate
// storage failure and leave no partial state behind, because the ticket
// insert, the promotion redemption and the ledger shrink commit or roll
// back together.
//
// Sequence inside the transaction: lock the showtime row, check the
// ledger (first pass), scan committed ticket seats (authoritative second
// pass), price the selection server-side, validate and apply the promo
// code, insert the ticket with a fresh booking code (retrying on
// duplicates), redeem the promotion, shrink the ledger.
func (co *Coordinator) Book(ctx context.Context, req Request) (*model.Ticket, error) {
	seats := Dedupe(req.Seats)
	if len(seats) == 0 {
		return nil, reject(ReasonInvalidRequest, "at least one seat is required")
	}
	if !paymentMethods[req.PaymentMethod] {
		return nil, reject(ReasonInvalidRequest, fmt.Sprintf("unknown payment method %q", req.PaymentMethod))
	}
	if req.Customer.Name == "" || req.Customer.Phone == "" || req.Customer.Email == "" {
		return nil, reject(ReasonInvalidRequest, "customer name, phone and email are required")
	}

	var ticket *model.Ticket
	err := co.store.Booking(ctx, func(ops Ops) error {
		st, err := ops.ShowtimeForUpdate(ctx, req.ShowtimeID)
		if err != nil {
			if errors.Is(err, ErrShowtimeNotFound) {
				return reject(ReasonShowtimeNotFound, "showtime not found")
			}
			return err
		}
		room, err := ops.Room(ctx, st.RoomID)
		if err != nil {
			return err
		}
		layout := Layout(room.Rows, room.SeatsPerRow)
		if bogus := Missing(layout, seats); len(bogus) > 0 {
			return reject(ReasonInvalidRequest, "seats outside the room layout", bogus...)
		}

		// First pass: the ledger on the locked showtime row.
		if missing := Missing(st.AvailableSeats, seats); len(missing) > 0 {
			return reject(ReasonSeatsUnavailable, "some seats are not available", missing...)
		}
		// Second pass: the union of committed ticket seats.  The ledger
		// could in principle drift (manual edits, partial restores); the
		// ticket scan is authoritative and runs under the same lock.
		taken, err := ops.TakenSeats(ctx, st.ID)
		if err != nil {
			return err
		}
		if conflict := Intersect(seats, taken); len(conflict) > 0 {
			return reject(ReasonSeatsConflict, "some seats are already booked", conflict...)
		}

		total := Quote(room, st.Price, seats)
		promoCode := ""
		var promoID uint64
		if req.PromoCode != "" {
			res, err := co.promos.Validate(ctx, req.PromoCode, total)
			if err != nil {
				if promotion.IsEligibilityError(err) {
					return reject(ReasonPromotion, err.Error())
				}
				return err
			}
			total = total.Sub(res.Discount)
			promoCode = res.Code
			promoID = res.PromotionID
		}

		t := &model.Ticket{
			UserID:        req.UserID,
			ShowtimeID:    st.ID,
			Seats:         seats,
			TotalPrice:    total,
			Status:        model.TicketConfirmed,
			PaymentMethod: req.PaymentMethod,
			PromoCode:     promoCode,
			Customer:      req.Customer,
		}
		if err := co.insertWithFreshCode(ctx, ops, t); err != nil {
			return err
		}
		if promoID != 0 {
			if err := ops.RedeemPromotion(ctx, promoID); err != nil {
				if errors.Is(err, ErrPromotionExhausted) {
					return reject(ReasonPromotion, "promotion usage limit reached")
				}
				return err
			}
		}
		if err := ops.SetAvailableSeats(ctx, st.ID, Remove(st.AvailableSeats, seats)); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// insertWithFreshCode persists the ticket, generating a new booking code
// for each attempt.  After codeMaxAttempts duplicate-key failures it
// switches to the UUID-derived fallback; a duplicate there means storage
// trouble rather than bad luck and is surfaced as-is.
func (co *Coordinator) insertWithFreshCode(ctx context.Context, ops Ops, t *model.Ticket) error {
	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code, err := NewBookingCode()
		if err != nil {
			return err
		}
		t.BookingCode = code
		err = ops.InsertTicket(ctx, t)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateCode) {
			return err
		}
	}
	t.BookingCode = FallbackCode()
	return ops.InsertTicket(ctx, t)
}

// Cancel marks a ticket cancelled and returns its seats to the showtime
// ledger.  Owners may cancel their own tickets; staff and admin may
// cancel any.  The release uses the same per-showtime lock as Book, so a
// release can never race a concurrent reservation of the same seat.
func (co *Coordinator) Cancel(ctx context.Context, ticketID, userID uint64, role string) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := co.store.Booking(ctx, func(ops Ops) error {
		t, err := ops.TicketForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, ErrTicketNotFound) {
				return reject(ReasonTicketNotFound, "ticket not found")
			}
			return err
		}
		if t.UserID != userID && role != model.RoleStaff && role != model.RoleAdmin {
			return reject(ReasonForbidden, "not your ticket")
		}
		if t.Status == model.TicketCancelled {
			return reject(ReasonAlreadyCancelled, "ticket is already cancelled")
		}
		st, err := ops.ShowtimeForUpdate(ctx, t.ShowtimeID)
		if err != nil {
			return err
		}
		room, err := ops.Room(ctx, st.RoomID)
		if err != nil {
			return err
		}
		if err := ops.SetTicketStatus(ctx, t.ID, model.TicketCancelled); err != nil {
			return err
		}
		layout := Layout(room.Rows, room.SeatsPerRow)
		if err := ops.SetAvailableSeats(ctx, st.ID, Restore(st.AvailableSeats, t.Seats, layout)); err != nil {
			return err
		}
		t.Status = model.TicketCancelled
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
