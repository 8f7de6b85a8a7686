package market

import "time"

const strikeStep = 50.0

// Strikes enumerates the strike grid around the current index level,
// from 2000 points below to 2000 points above in 50-point steps.
func Strikes(spot float64) []float64 {
	atm := NearestStrike(spot)
	strikes := make([]float64, 0, 81)
	for i := -40; i <= 40; i++ {
		strike := atm + float64(i)*strikeStep
		if strike > 0 {
			strikes = append(strikes, strike)
		}
	}
	return strikes
}

// NearestStrike rounds the index level to the closest strike on the grid.
func NearestStrike(spot float64) float64 {
	steps := int(spot/strikeStep + 0.5)
	return float64(steps) * strikeStep
}

// WeeklyExpiries returns the next n weekly expiry dates. Index options
// expire on Thursday; if today is Thursday the current week is skipped.
func WeeklyExpiries(today time.Time, n int) []time.Time {
	daysUntilThursday := (int(time.Thursday) - int(today.Weekday()) + 7) % 7
	if daysUntilThursday == 0 {
		daysUntilThursday = 7
	}

	expiries := make([]time.Time, 0, n)
	first := today.AddDate(0, 0, daysUntilThursday)
	for i := 0; i < n; i++ {
		expiries = append(expiries, first.AddDate(0, 0, 7*i))
	}
	return expiries
}

// MonthlyExpiry returns the last Thursday of the given month.
func MonthlyExpiry(year int, month time.Month, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	back := (int(lastDay.Weekday()) - int(time.Thursday) + 7) % 7
	return lastDay.AddDate(0, 0, -back)
}

// Chain builds the contracts for one expiry across the strike grid,
// both sides per strike.
func Chain(underlying string, spot float64, expiry time.Time, lotSize int) []Instrument {
	strikes := Strikes(spot)
	chain := make([]Instrument, 0, len(strikes)*2)
	for _, strike := range strikes {
		for _, side := range []OptionSide{Call, Put} {
			chain = append(chain, Instrument{
				Underlying: underlying,
				Strike:     strike,
				Side:       side,
				Expiry:     expiry,
				LotSize:    lotSize,
			})
		}
	}
	return chain
}
