// Package promotion validates discount codes and prices the discount
// they grant.  Validation is side-effect free by design: a client may
// re-validate a code any number of times while editing the checkout form
// without burning the usage counter.  Redemption (the counter increment)
// happens separately, inside the booking transaction, so usage is counted
// exactly once per committed ticket.
package promotion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
)

// Eligibility rejections, in the order the rules are checked.
var (
	ErrNotFound      = errors.New("promotion code not found")
	ErrInactive      = errors.New("promotion is not active")
	ErrExpired       = errors.New("promotion is not currently valid")
	ErrLimitExceeded = errors.New("promotion usage limit reached")
	ErrMinimumNotMet = errors.New("purchase total below promotion minimum")
)

// IsEligibilityError reports whether err is one of the typed rejections
// above, as opposed to a storage failure.
func IsEligibilityError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInactive) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrLimitExceeded) ||
		errors.Is(err, ErrMinimumNotMet)
}

// Store is the read-side lookup the evaluator needs.  FindByCode returns
// (nil, nil) when no promotion carries the code; errors are reserved for
// storage failures.  *repository.PromotionRepo satisfies it.
type Store interface {
	FindByCode(ctx context.Context, code string) (*model.Promotion, error)
}

// Result is a successful validation: the discount to subtract from the
// purchase total plus enough of the promotion to display and redeem it.
type Result struct {
	PromotionID uint64          `json:"-"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount"`
}

// Evaluator checks codes against the eligibility rule chain (existence,
// active status, validity window, usage limit, minimum purchase) and
// then computes the discount.
type Evaluator struct {
	store Store
	now   func() time.Time
}

// NewEvaluator builds an Evaluator.  The clock defaults to time.Now and
// is injectable for tests.
func NewEvaluator(store Store) *Evaluator {
	if store == nil {
		panic("nil store passed to NewEvaluator")
	}
	return &Evaluator{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the evaluator's clock.  Intended for tests that
// pin the validity window checks.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Validate checks the code against purchaseTotal and returns the
// discount.  Codes are matched case-insensitively and returned in their
// canonical stored form.  Percentage discounts are clamped to the
// promotion's max discount when one is set; fixed discounts are clamped
// to the purchase total so a ticket can never go negative.  Validate
// never mutates usage counters.
func (e *Evaluator) Validate(ctx context.Context, code string, purchaseTotal decimal.Decimal) (*Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrNotFound
	}
	p, err := e.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Status != model.PromotionActive {
		return nil, ErrInactive
	}
	now := e.now()
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return nil, ErrExpired
	}
	if p.UsageLimit != nil && p.CurrentUsage >= *p.UsageLimit {
		return nil, ErrLimitExceeded
	}
	if p.MinPurchase != nil && purchaseTotal.LessThan(*p.MinPurchase) {
		return nil, ErrMinimumNotMet
	}

	var discount decimal.Decimal
	switch p.DiscountType {
	case model.DiscountPercentage:
		discount = purchaseTotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
		if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
			discount = *p.MaxDiscount
		}
	default: // fixed amount
		discount = p.DiscountValue
		if discount.GreaterThan(purchaseTotal) {
			discount = purchaseTotal
		}
	}

	return &Result{
		PromotionID: p.ID,
		Code:        p.Code,
		Description: p.Description,
		Discount:    discount,
	}, nil
}
