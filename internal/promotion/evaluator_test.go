package promotion_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/promotion"
)

// memPromoStore implements promotion.Store over a map keyed by code.
type memPromoStore struct {
	byCode map[string]*model.Promotion
	calls  int
}

func (s *memPromoStore) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	s.calls++
	p, ok := s.byCode[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func promo(code string, mutate func(*model.Promotion)) *model.Promotion {
	p := &model.Promotion{
		ID:            1,
		Title:         code,
		Code:          code,
		DiscountType:  model.DiscountPercentage,
		DiscountValue: dec("20"),
		StartDate:     testNow.AddDate(0, -1, 0),
		EndDate:       testNow.AddDate(0, 1, 0),
		Status:        model.PromotionActive,
	}
	if mutate != nil {
		mutate(p)
	}
	return p
}

func evaluatorWith(promos ...*model.Promotion) (*promotion.Evaluator, *memPromoStore) {
	store := &memPromoStore{byCode: make(map[string]*model.Promotion)}
	for _, p := range promos {
		store.byCode[p.Code] = p
	}
	ev := promotion.NewEvaluator(store).WithClock(func() time.Time { return testNow })
	return ev, store
}

func TestValidatePercentageDiscount(t *testing.T) {
	// 20% off a 100000 purchase is 20000.
	ev, _ := evaluatorWith(promo("STUDENT20", nil))

	res, err := ev.Validate(context.Background(), "STUDENT20", dec("100000"))
	require.NoError(t, err)
	assert.Equal(t, "STUDENT20", res.Code)
	assert.True(t, dec("20000").Equal(res.Discount), "got %s", res.Discount)
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	ev, _ := evaluatorWith(promo("STUDENT20", nil))

	res, err := ev.Validate(context.Background(), "  student20 ", dec("100000"))
	require.NoError(t, err)
	assert.Equal(t, "STUDENT20", res.Code)
}

func TestValidateMinPurchase(t *testing.T) {
	// WEEKEND50 requires a 200000 minimum; 150000 is rejected.
	min := dec("200000")
	ev, _ := evaluatorWith(promo("WEEKEND50", func(p *model.Promotion) {
		p.DiscountType = model.DiscountFixed
		p.DiscountValue = dec("50000")
		p.MinPurchase = &min
	}))

	_, err := ev.Validate(context.Background(), "WEEKEND50", dec("150000"))
	assert.ErrorIs(t, err, promotion.ErrMinimumNotMet)

	res, err := ev.Validate(context.Background(), "WEEKEND50", dec("200000"))
	require.NoError(t, err)
	assert.True(t, dec("50000").Equal(res.Discount))
}

func TestValidateMaxDiscountClamp(t *testing.T) {
	max := dec("30000")
	ev, _ := evaluatorWith(promo("BIG50", func(p *model.Promotion) {
		p.DiscountValue = dec("50")
		p.MaxDiscount = &max
	}))

	// 50% of 100000 would be 50000; the cap holds it at 30000.
	res, err := ev.Validate(context.Background(), "BIG50", dec("100000"))
	require.NoError(t, err)
	assert.True(t, max.Equal(res.Discount), "got %s", res.Discount)
}

func TestValidateFixedDiscountNeverExceedsTotal(t *testing.T) {
	ev, _ := evaluatorWith(promo("FLAT90K", func(p *model.Promotion) {
		p.DiscountType = model.DiscountFixed
		p.DiscountValue = dec("90000")
	}))

	res, err := ev.Validate(context.Background(), "FLAT90K", dec("60000"))
	require.NoError(t, err)
	// Clamped to the purchase total so the ticket cannot go negative.
	assert.True(t, dec("60000").Equal(res.Discount), "got %s", res.Discount)
}

func TestValidateRejections(t *testing.T) {
	limit := uint32(100)
	ev, _ := evaluatorWith(
		promo("INACTIVE", func(p *model.Promotion) { p.Status = model.PromotionInactive }),
		promo("FUTURE", func(p *model.Promotion) { p.StartDate = testNow.AddDate(0, 0, 1) }),
		promo("PAST", func(p *model.Promotion) { p.EndDate = testNow.AddDate(0, 0, -1) }),
		promo("USEDUP", func(p *model.Promotion) {
			p.UsageLimit = &limit
			p.CurrentUsage = 100
		}),
	)
	ctx := context.Background()
	total := dec("100000")

	_, err := ev.Validate(ctx, "NOSUCH", total)
	assert.ErrorIs(t, err, promotion.ErrNotFound)
	_, err = ev.Validate(ctx, "", total)
	assert.ErrorIs(t, err, promotion.ErrNotFound)
	_, err = ev.Validate(ctx, "INACTIVE", total)
	assert.ErrorIs(t, err, promotion.ErrInactive)
	_, err = ev.Validate(ctx, "FUTURE", total)
	assert.ErrorIs(t, err, promotion.ErrExpired)
	_, err = ev.Validate(ctx, "PAST", total)
	assert.ErrorIs(t, err, promotion.ErrExpired)
	_, err = ev.Validate(ctx, "USEDUP", total)
	assert.ErrorIs(t, err, promotion.ErrLimitExceeded)

	for _, err := range []error{promotion.ErrNotFound, promotion.ErrInactive, promotion.ErrExpired, promotion.ErrLimitExceeded, promotion.ErrMinimumNotMet} {
		assert.True(t, promotion.IsEligibilityError(err))
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	p := promo("STUDENT20", nil)
	ev, store := evaluatorWith(p)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := ev.Validate(ctx, "STUDENT20", dec("100000"))
		require.NoError(t, err)
		assert.True(t, dec("20000").Equal(res.Discount))
	}
	// Validation reads only; the usage counter is untouched.
	assert.Equal(t, uint32(0), p.CurrentUsage)
	assert.Equal(t, 5, store.calls)
}
