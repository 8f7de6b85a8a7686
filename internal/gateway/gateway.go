package gateway

import (
	"context"
	"time"

	"github.com/Aditya2838/new-market/internal/market"
)

// Action is the order direction on the wire.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Fill is the outcome of an accepted order. Fills are atomic and
// non-partial: the full quantity executes at FillPrice or the order is
// rejected.
type Fill struct {
	OrderID   string
	FillPrice float64
	Lots      int
	FilledAt  time.Time
}

// RejectedError reports a declined order with the gateway's reason.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "order rejected: " + e.Reason
}

// Gateway places orders with the execution venue. Calls are fallible and
// bounded by the context deadline; on timeout the caller defers to the
// next tick, never assumes success.
type Gateway interface {
	Execute(ctx context.Context, inst market.Instrument, action Action, lots int) (Fill, error)
}
