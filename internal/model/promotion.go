package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion discount types and statuses.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"

	PromotionActive   = "active"
	PromotionInactive = "inactive"
)

// Promotion is a discount code with eligibility rules.  MinPurchase,
// MaxDiscount, UsageLimit and CinemaID are optional; nil means "no
// constraint".  MaxDiscount only applies to percentage promotions.
//
// CurrentUsage counts successful redemptions and never exceeds UsageLimit
// when a limit is set.  Validation of a code is side-effect free; the
// counter is incremented only inside a committed booking transaction.
type Promotion struct {
	ID            uint64           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Code          string           `json:"code"`
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinPurchase   *decimal.Decimal `json:"minPurchase,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty"`
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	UsageLimit    *uint32          `json:"usageLimit,omitempty"`
	CurrentUsage  uint32           `json:"currentUsage"`
	Status        string           `json:"status"`
	CinemaID      *uint64          `json:"cinemaId,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}
