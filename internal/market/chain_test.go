package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestStrike(t *testing.T) {
	tests := []struct {
		spot float64
		want float64
	}{
		{25000, 25000},
		{25024, 25000},
		{25025, 25050},
		{25049, 25050},
		{24987.35, 25000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NearestStrike(tt.spot), "spot %v", tt.spot)
	}
}

func TestStrikes_GridAroundATM(t *testing.T) {
	strikes := Strikes(25000)
	require.Len(t, strikes, 81)

	assert.Equal(t, 23000.0, strikes[0])
	assert.Equal(t, 27000.0, strikes[len(strikes)-1])

	for _, s := range strikes {
		assert.Zero(t, int(s)%50, "strike %v off the grid", s)
	}
}

func TestWeeklyExpiries(t *testing.T) {
	loc := ist(t)

	// Tuesday 2025-06-10: nearest Thursday is the 12th.
	tuesday := time.Date(2025, 6, 10, 10, 0, 0, 0, loc)
	expiries := WeeklyExpiries(tuesday, 3)
	require.Len(t, expiries, 3)
	assert.Equal(t, 12, expiries[0].Day())
	assert.Equal(t, 19, expiries[1].Day())
	assert.Equal(t, 26, expiries[2].Day())
	for _, e := range expiries {
		assert.Equal(t, time.Thursday, e.Weekday())
	}

	// On expiry Thursday itself the current week is skipped.
	thursday := time.Date(2025, 6, 12, 10, 0, 0, 0, loc)
	expiries = WeeklyExpiries(thursday, 1)
	assert.Equal(t, 19, expiries[0].Day())
}

func TestMonthlyExpiry(t *testing.T) {
	loc := ist(t)

	assert.Equal(t, 26, MonthlyExpiry(2025, time.June, loc).Day())
	assert.Equal(t, 31, MonthlyExpiry(2025, time.July, loc).Day())
	assert.Equal(t, time.Thursday, MonthlyExpiry(2025, time.December, loc).Weekday())
}

func TestChain_BothSidesPerStrike(t *testing.T) {
	expiry := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	chain := Chain("NIFTY", 25000, expiry, 50)
	require.Len(t, chain, 162)

	assert.Equal(t, Call, chain[0].Side)
	assert.Equal(t, Put, chain[1].Side)
	assert.Equal(t, chain[0].Strike, chain[1].Strike)
	assert.Equal(t, 50, chain[0].LotSize)
}

func TestInstrument_Symbol(t *testing.T) {
	inst := Instrument{Underlying: "NIFTY", Strike: 25000, Side: Call}
	assert.Equal(t, "NIFTY25000CE", inst.Symbol())

	inst.Side = Put
	inst.Strike = 24950
	assert.Equal(t, "NIFTY24950PE", inst.Symbol())
}

func TestInstrument_Equal(t *testing.T) {
	expiry := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	a := Instrument{Underlying: "NIFTY", Strike: 25000, Side: Call, Expiry: expiry, LotSize: 50}

	b := a
	b.LotSize = 25 // lot size is not identity
	assert.True(t, a.Equal(b))

	b = a
	b.Expiry = expiry.Add(10 * time.Hour) // same date, different time of day
	assert.True(t, a.Equal(b))

	b = a
	b.Side = Put
	assert.False(t, a.Equal(b))

	b = a
	b.Expiry = expiry.AddDate(0, 0, 7)
	assert.False(t, a.Equal(b))
}
