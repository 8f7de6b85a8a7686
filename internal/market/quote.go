package market

import (
	"context"
	"errors"
	"time"
)

// ErrQuoteUnavailable is returned when a feed cannot produce a usable quote.
// Callers must treat it as transient: retry or skip the tick, never assume
// the position is safe.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// Quote is one price observation for an instrument.
type Quote struct {
	Bid  float64
	Ask  float64
	Last float64
	Time time.Time
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// Feed supplies price quotes for instruments.
type Feed interface {
	Quote(ctx context.Context, inst Instrument) (Quote, error)
	// Spot returns the current underlying index level.
	Spot() float64
}
