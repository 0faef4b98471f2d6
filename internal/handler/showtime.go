package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/booking"
	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/repository"
)

// ShowtimeHandler serves showtime listing and the staff scheduling
// endpoints.  Creation seeds the seat ledger with the room's full grid;
// schedule updates never touch the ledger, and seat mutations stay with
// the booking coordinator.
type ShowtimeHandler struct {
	Showtimes *repository.ShowtimeRepo
	Movies    *repository.MovieRepo
	Rooms     *repository.RoomRepo
}

func NewShowtimeHandler(st *repository.ShowtimeRepo, mv *repository.MovieRepo, rm *repository.RoomRepo) *ShowtimeHandler {
	return &ShowtimeHandler{Showtimes: st, Movies: mv, Rooms: rm}
}

// List handles GET /api/showtimes with an optional ?movieId= filter.
func (h *ShowtimeHandler) List(c echo.Context) error {
	var movieID uint64
	if v := c.QueryParam("movieId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movieId"})
		}
		movieID = id
	}
	showtimes, err := h.Showtimes.List(c.Request().Context(), movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, showtimes)
}

// Get handles GET /api/showtimes/:id.  The response includes the current
// seat ledger, which is how clients render the seat map.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	st, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, st)
}

type showtimeReq struct {
	MovieID   uint64 `json:"movieId"`
	RoomID    uint64 `json:"roomId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Price     string `json:"price"`
}

// Create handles POST /api/admin/showtimes (staff/admin).  The seat
// ledger starts as the room's full grid.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId and roomId are required"})
	}
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}

	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	room, err := h.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	st := &model.Showtime{
		MovieID:        req.MovieID,
		RoomID:         req.RoomID,
		StartTime:      start,
		EndTime:        end,
		Price:          price,
		AvailableSeats: booking.Layout(room.Rows, room.SeatsPerRow),
	}
	if err := h.Showtimes.Create(ctx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	return c.JSON(http.StatusCreated, st)
}

// Update handles PUT /api/admin/showtimes/:id (staff/admin).  Only the
// schedule and price change; the seat ledger is deliberately untouched
// so existing tickets stay coherent.
func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}

	st := &model.Showtime{ID: id, StartTime: start, EndTime: end, Price: price}
	if err := h.Showtimes.UpdateSchedule(c.Request().Context(), st); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update showtime failed"})
	}
	fresh, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// Delete handles DELETE /api/admin/showtimes/:id (staff/admin).
// Refused while tickets reference the showtime.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	if err := h.Showtimes.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showtime failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
