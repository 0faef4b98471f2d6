package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/repository"
)

// ReviewHandler serves movie reviews.  Listing is public; posting needs
// an authenticated user.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Movies  *repository.MovieRepo
}

func NewReviewHandler(rv *repository.ReviewRepo, mv *repository.MovieRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: rv, Movies: mv}
}

// ListByMovie handles GET /api/movies/:id/reviews.
func (h *ReviewHandler) ListByMovie(c echo.Context) error {
	movieID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	reviews, err := h.Reviews.ListByMovie(c.Request().Context(), movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, reviews)
}

type reviewReq struct {
	MovieID uint64 `json:"movieId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId and a rating of 1-5 are required"})
	}
	if _, err := h.Movies.GetByID(c.Request().Context(), req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rv := &model.Review{
		UserID:  userID,
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(c.Request().Context(), rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, rv)
}
