package booking

import (
	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
)

// Seat tiers.  The tier of a seat is determined by its position in the
// room grid: the first three rows are VIP, the middle band (rows 5-7,
// seats 4-9) is Sweet, the last two rows are Premium and everything else
// is Regular.  The browser renders the same map, but the server is the
// pricing authority: totals submitted by clients are recomputed here and
// never trusted.
const (
	TierRegular = "regular"
	TierVIP     = "vip"
	TierSweet   = "sweet"
	TierPremium = "premium"
)

var tierMultipliers = map[string]decimal.Decimal{
	TierRegular: decimal.NewFromInt(1),
	TierVIP:     decimal.RequireFromString("1.5"),
	TierSweet:   decimal.RequireFromString("1.3"),
	TierPremium: decimal.RequireFromString("1.2"),
}

// SeatTier classifies a seat within a room of the given dimensions.
// Malformed identifiers fall back to Regular; availability validation
// happens before pricing, so such seats are rejected elsewhere.
func SeatTier(seat string, rows int) string {
	row, number, err := splitSeatID(seat)
	if err != nil {
		return TierRegular
	}
	switch {
	case row < 3:
		return TierVIP
	case rows >= 2 && row >= rows-2:
		return TierPremium
	case row >= 4 && row <= 6 && number >= 4 && number <= 9:
		return TierSweet
	default:
		return TierRegular
	}
}

// SeatPrice returns the price of a single seat given the showtime base
// price and the room dimensions.
func SeatPrice(seat string, basePrice decimal.Decimal, rows int) decimal.Decimal {
	return basePrice.Mul(tierMultipliers[SeatTier(seat, rows)])
}

// Quote computes the pre-discount total for a seat selection.  This is
// the amount the promotion evaluator validates against.
func Quote(room *model.Room, basePrice decimal.Decimal, seats []string) decimal.Decimal {
	total := decimal.Zero
	for _, s := range seats {
		total = total.Add(SeatPrice(s, basePrice, room.Rows))
	}
	return total
}
