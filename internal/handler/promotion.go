package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/promotion"
	"github.com/cinetix/cinetix/internal/repository"
)

// PromotionHandler serves promotion listing, the public validate
// endpoint and the admin CRUD.  Validation is delegated to the
// evaluator and never burns usage.
type PromotionHandler struct {
	Promotions *repository.PromotionRepo
	Evaluator  *promotion.Evaluator
}

func NewPromotionHandler(p *repository.PromotionRepo, e *promotion.Evaluator) *PromotionHandler {
	return &PromotionHandler{Promotions: p, Evaluator: e}
}

// List handles GET /api/promotions (all) and, with ?active=true, only
// the currently redeemable ones.
func (h *PromotionHandler) List(c echo.Context) error {
	activeOnly := strings.EqualFold(c.QueryParam("active"), "true")
	promos, err := h.Promotions.List(c.Request().Context(), activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, promos)
}

// Active handles GET /api/promotions/active.
func (h *PromotionHandler) Active(c echo.Context) error {
	promos, err := h.Promotions.List(c.Request().Context(), true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, promos)
}

// Get handles GET /api/promotions/:id.
func (h *PromotionHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	p, err := h.Promotions.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPromotionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, p)
}

type validateReq struct {
	Code       string `json:"code"`
	TotalPrice string `json:"totalPrice"`
}

// Validate handles POST /api/promotions/validate.  Side-effect free, so
// a checkout form may call it on every keystroke.
func (h *PromotionHandler) Validate(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	total, err := decimal.NewFromString(req.TotalPrice)
	if err != nil || total.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid totalPrice"})
	}

	res, err := h.Evaluator.Validate(c.Request().Context(), req.Code, total)
	if err != nil {
		if errors.Is(err, promotion.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		if promotion.IsEligibilityError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, res)
}

// Create handles POST /api/admin/promotions.
func (h *PromotionHandler) Create(c echo.Context) error {
	var p model.Promotion
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validatePromotion(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Promotions.Create(c.Request().Context(), &p); err != nil {
		if errors.Is(err, repository.ErrCodeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "promotion code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create promotion failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/admin/promotions/:id.
func (h *PromotionHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	var p model.Promotion
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p.ID = id
	if err := validatePromotion(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Promotions.Update(c.Request().Context(), &p); err != nil {
		if errors.Is(err, repository.ErrPromotionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
		}
		if errors.Is(err, repository.ErrCodeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "promotion code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update promotion failed"})
	}
	return c.JSON(http.StatusOK, p)
}

func validatePromotion(p *model.Promotion) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Title == "" || p.Code == "" {
		return errors.New("title and code are required")
	}
	if p.DiscountType != model.DiscountPercentage && p.DiscountType != model.DiscountFixed {
		return errors.New("discountType must be percentage or fixed")
	}
	if p.DiscountValue.IsNegative() || p.DiscountValue.IsZero() {
		return errors.New("discountValue must be positive")
	}
	if p.DiscountType == model.DiscountPercentage && p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percentage discount cannot exceed 100")
	}
	if p.Status == "" {
		p.Status = model.PromotionActive
	}
	if p.Status != model.PromotionActive && p.Status != model.PromotionInactive {
		return errors.New("invalid status")
	}
	if !p.EndDate.After(p.StartDate) {
		return errors.New("endDate must be after startDate")
	}
	return nil
}
