package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cinetix/cinetix/internal/model"
)

func TestSeatTier(t *testing.T) {
	const rows = 10
	cases := map[string]string{
		"A1":  TierVIP, // rows A-C
		"B6":  TierVIP,
		"C12": TierVIP,
		"D5":  TierRegular, // row D sits between VIP and the sweet band
		"E4":  TierSweet,   // rows E-G, seats 4-9
		"F9":  TierSweet,
		"G6":  TierSweet,
		"E3":  TierRegular, // outside the sweet seat span
		"E10": TierRegular,
		"H5":  TierRegular,
		"I1":  TierPremium, // last two rows
		"J12": TierPremium,
	}
	for seat, want := range cases {
		assert.Equal(t, want, SeatTier(seat, rows), "seat %s", seat)
	}
}

func TestSeatTierSmallRoom(t *testing.T) {
	// In a 4-row room the premium band overlaps the VIP rows; VIP wins
	// because it is checked first.
	assert.Equal(t, TierVIP, SeatTier("A1", 4))
	assert.Equal(t, TierPremium, SeatTier("D2", 4))
}

func TestSeatPrice(t *testing.T) {
	base := decimal.NewFromInt(100000)
	assert.True(t, decimal.NewFromInt(150000).Equal(SeatPrice("A1", base, 10)))
	assert.True(t, decimal.NewFromInt(130000).Equal(SeatPrice("E5", base, 10)))
	assert.True(t, decimal.NewFromInt(120000).Equal(SeatPrice("J1", base, 10)))
	assert.True(t, base.Equal(SeatPrice("D1", base, 10)))
}

func TestQuote(t *testing.T) {
	room := &model.Room{Rows: 10, SeatsPerRow: 12}
	base := decimal.NewFromInt(100000)
	// VIP + regular + premium = 1.5 + 1.0 + 1.2 times base.
	total := Quote(room, base, []string{"A1", "D1", "J1"})
	assert.True(t, decimal.NewFromInt(370000).Equal(total), "got %s", total)
}
