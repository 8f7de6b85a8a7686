package market

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// SyntheticFeed generates option quotes from the underlying level using a
// simplified intrinsic-plus-time-value model. It stands in for a broker
// market-data API; pricing realism is explicitly out of scope.
type SyntheticFeed struct {
	mu   sync.Mutex
	spot float64
	rng  *rand.Rand
	now  func() time.Time
}

func NewSyntheticFeed(spot float64, seed int64, now func() time.Time) *SyntheticFeed {
	if now == nil {
		now = time.Now
	}
	return &SyntheticFeed{
		spot: spot,
		rng:  rand.New(rand.NewSource(seed)),
		now:  now,
	}
}

func (f *SyntheticFeed) Spot() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spot
}

// SetSpot pins the underlying level, used by tests and replay.
func (f *SyntheticFeed) SetSpot(level float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spot = level
}

// Drift moves the underlying by a small random step, simulating one tick
// of index movement. Step size is roughly 0.05% of the level.
func (f *SyntheticFeed) Drift() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spot += f.spot * 0.0005 * f.rng.NormFloat64()
	return f.spot
}

// Quote prices the contract off the current spot: intrinsic value plus a
// simplified time value, with a 5% bid/ask spread around the mid.
func (f *SyntheticFeed) Quote(ctx context.Context, inst Instrument) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, ErrQuoteUnavailable
	}

	f.mu.Lock()
	spot := f.spot
	now := f.now()
	f.mu.Unlock()

	if inst.Expiry.Before(now.Truncate(24 * time.Hour)) {
		return Quote{}, ErrQuoteUnavailable
	}

	var intrinsic float64
	if inst.Side == Call {
		intrinsic = math.Max(0, spot-inst.Strike)
	} else {
		intrinsic = math.Max(0, inst.Strike-spot)
	}

	yearsToExpiry := inst.Expiry.Sub(now).Hours() / 24 / 365
	timeValue := math.Max(0.1, intrinsic*0.1+yearsToExpiry*0.5)
	price := intrinsic + timeValue

	spread := price * 0.05
	return Quote{
		Bid:  round2(math.Max(0.05, price-spread/2)),
		Ask:  round2(price + spread/2),
		Last: round2(price),
		Time: now,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
