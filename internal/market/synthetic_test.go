package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
}

func TestSyntheticFeed_QuoteCarriesIntrinsic(t *testing.T) {
	feed := NewSyntheticFeed(25000, 1, fixedNow)
	expiry := fixedNow().AddDate(0, 0, 2)

	itm := Instrument{Underlying: "NIFTY", Strike: 24800, Side: Call, Expiry: expiry, LotSize: 50}
	quote, err := feed.Quote(context.Background(), itm)
	require.NoError(t, err)

	// Intrinsic is 200; the quote must sit above it and keep bid < ask.
	assert.Greater(t, quote.Last, 200.0)
	assert.Less(t, quote.Bid, quote.Ask)
	assert.InDelta(t, quote.Last, quote.Mid(), quote.Spread())

	otm := Instrument{Underlying: "NIFTY", Strike: 26000, Side: Call, Expiry: expiry, LotSize: 50}
	quote, err = feed.Quote(context.Background(), otm)
	require.NoError(t, err)
	assert.Greater(t, quote.Last, 0.0, "deep OTM still quotes the time-value floor")
	assert.GreaterOrEqual(t, quote.Bid, 0.05)
}

func TestSyntheticFeed_PutIntrinsic(t *testing.T) {
	feed := NewSyntheticFeed(25000, 1, fixedNow)
	expiry := fixedNow().AddDate(0, 0, 2)

	put := Instrument{Underlying: "NIFTY", Strike: 25200, Side: Put, Expiry: expiry, LotSize: 50}
	quote, err := feed.Quote(context.Background(), put)
	require.NoError(t, err)
	assert.Greater(t, quote.Last, 200.0)
}

func TestSyntheticFeed_ExpiredContract(t *testing.T) {
	feed := NewSyntheticFeed(25000, 1, fixedNow)
	expired := Instrument{
		Underlying: "NIFTY", Strike: 25000, Side: Call,
		Expiry: fixedNow().AddDate(0, 0, -7), LotSize: 50,
	}

	_, err := feed.Quote(context.Background(), expired)
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestSyntheticFeed_CancelledContext(t *testing.T) {
	feed := NewSyntheticFeed(25000, 1, fixedNow)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inst := Instrument{Underlying: "NIFTY", Strike: 25000, Side: Call, Expiry: fixedNow().AddDate(0, 0, 2)}
	_, err := feed.Quote(ctx, inst)
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestSyntheticFeed_DriftIsDeterministicPerSeed(t *testing.T) {
	a := NewSyntheticFeed(25000, 42, fixedNow)
	b := NewSyntheticFeed(25000, 42, fixedNow)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Drift(), b.Drift())
	}
	assert.NotEqual(t, 25000.0, a.Spot())
}

func TestSyntheticFeed_SetSpot(t *testing.T) {
	feed := NewSyntheticFeed(25000, 1, fixedNow)
	feed.SetSpot(24000)
	assert.Equal(t, 24000.0, feed.Spot())
}
