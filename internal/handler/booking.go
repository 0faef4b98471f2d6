package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/cinetix/internal/booking"
	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/queue"
	"github.com/cinetix/cinetix/internal/repository"
	queuepub "github.com/cinetix/cinetix/internal/service"
)

// BookingHandler exposes the booking coordinator over HTTP.  Besides the
// coordinator it holds the read-side repositories needed to enrich the
// confirmation event with movie, cinema and room names.
type BookingHandler struct {
	Coordinator *booking.Coordinator
	Showtimes   *repository.ShowtimeRepo
	Movies      *repository.MovieRepo
	Rooms       *repository.RoomRepo
	Cinemas     *repository.CinemaRepo
}

func NewBookingHandler(co *booking.Coordinator, st *repository.ShowtimeRepo, mv *repository.MovieRepo, rm *repository.RoomRepo, cn *repository.CinemaRepo) *BookingHandler {
	if co == nil {
		panic("nil coordinator passed to NewBookingHandler")
	}
	return &BookingHandler{Coordinator: co, Showtimes: st, Movies: mv, Rooms: rm, Cinemas: cn}
}

// bookingReq mirrors the checkout form.  TotalPrice is bound but never
// read: the coordinator computes the charge from seat tiers and the
// validated promotion, so a tampered client total changes nothing.
type bookingReq struct {
	ShowtimeID    uint64             `json:"showtimeId"`
	Seats         []string           `json:"seats"`
	TotalPrice    string             `json:"totalPrice"`
	PaymentMethod string             `json:"paymentMethod"`
	PromoCode     string             `json:"promoCode"`
	Customer      model.CustomerInfo `json:"customerInfo"`
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtimeId is required"})
	}

	ticket, err := h.Coordinator.Book(c.Request().Context(), booking.Request{
		UserID:        userID,
		ShowtimeID:    req.ShowtimeID,
		Seats:         req.Seats,
		PaymentMethod: req.PaymentMethod,
		PromoCode:     req.PromoCode,
		Customer:      req.Customer,
	})
	if err != nil {
		return writeBookingError(c, err)
	}

	go h.publishConfirmed(ticket)

	return c.JSON(http.StatusCreated, ticket)
}

// writeBookingError maps coordinator errors onto HTTP statuses.  Typed
// rejections carry a reason and optionally the offending seats; anything
// else is a storage failure.
func writeBookingError(c echo.Context, err error) error {
	var rej *booking.Rejection
	if !errors.As(err, &rej) {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking timed out, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	body := echo.Map{"error": string(rej.Reason), "message": rej.Message}
	if len(rej.Seats) > 0 {
		body["seats"] = rej.Seats
	}
	switch rej.Reason {
	case booking.ReasonShowtimeNotFound, booking.ReasonTicketNotFound:
		return c.JSON(http.StatusNotFound, body)
	case booking.ReasonSeatsUnavailable, booking.ReasonSeatsConflict, booking.ReasonAlreadyCancelled:
		return c.JSON(http.StatusConflict, body)
	case booking.ReasonForbidden:
		return c.JSON(http.StatusForbidden, body)
	default: // invalid_request, promotion_rejected
		return c.JSON(http.StatusBadRequest, body)
	}
}

// publishConfirmed emits the booking.confirmed event, best effort.  The
// booking already committed; a broker outage only costs the log entry.
func (h *BookingHandler) publishConfirmed(t *model.Ticket) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		TicketID:      t.ID,
		BookingCode:   t.BookingCode,
		UserID:        t.UserID,
		ShowtimeID:    t.ShowtimeID,
		Seats:         t.Seats,
		TotalPrice:    t.TotalPrice.String(),
		PaymentMethod: t.PaymentMethod,
		PromoCode:     t.PromoCode,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if st, err := h.Showtimes.GetByID(ctx, t.ShowtimeID); err == nil {
		ev.StartsAt = st.StartTime.UTC().Format(time.RFC3339)
		if mv, err := h.Movies.GetByID(ctx, st.MovieID); err == nil {
			ev.MovieTitle = mv.Title
		}
		if rm, err := h.Rooms.GetByID(ctx, st.RoomID); err == nil {
			ev.RoomName = rm.Name
			if cn, err := h.Cinemas.GetByID(ctx, rm.CinemaID); err == nil {
				ev.CinemaName = cn.Name
			}
		}
	}
	if err := queuepub.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed for ticket %d: %v", t.ID, err)
	}
}
