package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/cinetix/internal/config"
	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/repository"
)

// CinemaHandler serves cinemas and their rooms.  Reads are public;
// writes are admin only.
type CinemaHandler struct {
	Cfg     config.Config
	Cinemas *repository.CinemaRepo
	Rooms   *repository.RoomRepo
}

func NewCinemaHandler(cfg config.Config, cn *repository.CinemaRepo, rm *repository.RoomRepo) *CinemaHandler {
	return &CinemaHandler{Cfg: cfg, Cinemas: cn, Rooms: rm}
}

// List handles GET /api/cinemas.
func (h *CinemaHandler) List(c echo.Context) error {
	cinemas, err := h.Cinemas.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, cinemas)
}

// Get handles GET /api/cinemas/:id.
func (h *CinemaHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	cn, err := h.Cinemas.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, cn)
}

// ListRooms handles GET /api/cinemas/:id/rooms.
func (h *CinemaHandler) ListRooms(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	if _, err := h.Cinemas.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rooms, err := h.Rooms.ListByCinema(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rooms)
}

// Create handles POST /api/admin/cinemas.
func (h *CinemaHandler) Create(c echo.Context) error {
	var cn model.Cinema
	if err := c.Bind(&cn); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(cn.Name) == "" || strings.TrimSpace(cn.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}
	if err := h.Cinemas.Create(c.Request().Context(), &cn); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create cinema failed"})
	}
	return c.JSON(http.StatusCreated, cn)
}

// Update handles PUT /api/admin/cinemas/:id.
func (h *CinemaHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	var cn model.Cinema
	if err := c.Bind(&cn); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cn.ID = id
	if err := h.Cinemas.Update(c.Request().Context(), &cn); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cinema failed"})
	}
	return c.JSON(http.StatusOK, cn)
}

// Delete handles DELETE /api/admin/cinemas/:id.  Refused while rooms
// still reference the cinema.
func (h *CinemaHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	if err := h.Cinemas.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cinema still has rooms"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete cinema failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRoom handles POST /api/admin/cinemas/:id/rooms.  Omitted grid
// dimensions fall back to the configured defaults.
func (h *CinemaHandler) CreateRoom(c echo.Context) error {
	cinemaID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	if _, err := h.Cinemas.GetByID(c.Request().Context(), cinemaID); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var rm model.Room
	if err := c.Bind(&rm); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rm.CinemaID = cinemaID
	if strings.TrimSpace(rm.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if rm.Rows == 0 {
		rm.Rows = h.Cfg.RoomRows
	}
	if rm.SeatsPerRow == 0 {
		rm.SeatsPerRow = h.Cfg.RoomSeatsPer
	}
	// Row labels are single letters, so the grid caps at 26 rows.
	if rm.Rows < 1 || rm.Rows > 26 || rm.SeatsPerRow < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows must be 1-26 and seatsPerRow positive"})
	}
	if err := h.Rooms.Create(c.Request().Context(), &rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, rm)
}
