package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/cinetix/internal/booking"
	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/repository"
)

// TicketHandler serves ticket listing and status updates.  Cancellation
// routes through the booking coordinator so released seats go back to
// the showtime ledger under the booking lock; other status changes are
// plain repository updates.
type TicketHandler struct {
	Tickets     *repository.TicketRepo
	Coordinator *booking.Coordinator
}

func NewTicketHandler(t *repository.TicketRepo, co *booking.Coordinator) *TicketHandler {
	return &TicketHandler{Tickets: t, Coordinator: co}
}

// ListMine handles GET /api/tickets: the caller's own tickets.
func (h *TicketHandler) ListMine(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Tickets.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// Get handles GET /api/tickets/:id.  Owners see their own ticket;
// staff and admin see any.
func (h *TicketHandler) Get(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if t.UserID != userID && role != model.RoleStaff && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, t)
}

type ticketUpdateReq struct {
	Status string `json:"status"`
}

// Update handles PUT /api/tickets/:id.  Supported transitions:
// "cancelled" (owner or staff/admin, releases seats) and "paid"
// (staff/admin only).
func (h *TicketHandler) Update(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req ticketUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	switch req.Status {
	case model.TicketCancelled:
		t, err := h.Coordinator.Cancel(c.Request().Context(), id, userID, role)
		if err != nil {
			return writeBookingError(c, err)
		}
		return c.JSON(http.StatusOK, t)
	case model.TicketPaid:
		if role != model.RoleStaff && role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if err := h.Tickets.MarkPaid(c.Request().Context(), id); err != nil {
			if errors.Is(err, repository.ErrTicketNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
			}
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "ticket cannot be marked paid"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		t, err := h.Tickets.GetByID(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, t)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be cancelled or paid"})
	}
}

// ListAll handles GET /api/admin/tickets for staff/admin, optionally
// filtered by ?showtimeId=.
func (h *TicketHandler) ListAll(c echo.Context) error {
	var showtimeID uint64
	if v := c.QueryParam("showtimeId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtimeId"})
		}
		showtimeID = id
	}
	tickets, err := h.Tickets.ListAll(c.Request().Context(), showtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, tickets)
}
