package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
)

// SimulatedGateway fills orders against the quote feed: buys at the ask,
// sells at the bid. It stands in for a broker order API in sandbox runs.
type SimulatedGateway struct {
	feed market.Feed
	log  *logger.Logger
	now  func() time.Time
}

func NewSimulatedGateway(feed market.Feed, log *logger.Logger, now func() time.Time) *SimulatedGateway {
	if now == nil {
		now = time.Now
	}
	return &SimulatedGateway{feed: feed, log: log, now: now}
}

func (g *SimulatedGateway) Execute(ctx context.Context, inst market.Instrument, action Action, lots int) (Fill, error) {
	if lots < 1 {
		return Fill{}, &RejectedError{Reason: fmt.Sprintf("lots %d must be at least 1", lots)}
	}

	quote, err := g.feed.Quote(ctx, inst)
	if err != nil {
		return Fill{}, fmt.Errorf("quote for fill: %w", err)
	}

	price := quote.Ask
	if action == ActionSell {
		price = quote.Bid
	}

	fill := Fill{
		OrderID:   uuid.NewString(),
		FillPrice: price,
		Lots:      lots,
		FilledAt:  g.now(),
	}

	g.log.Debug("simulated fill",
		"order_id", fill.OrderID, "symbol", inst.Symbol(),
		"action", string(action), "lots", lots, "price", price)
	return fill, nil
}
