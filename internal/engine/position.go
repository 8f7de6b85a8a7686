package engine

import (
	"github.com/google/uuid"

	"github.com/Aditya2838/new-market/internal/market"
)

// Class tags how a position entered the book.
type Class string

const (
	ClassSingle    Class = "SINGLE"
	ClassSpreadLeg Class = "SPREAD_LEG"
)

// Status is the position lifecycle state. EXITED is terminal.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusExited Status = "EXITED"
)

// Position is one open (or historical) leg. Owned exclusively by the
// Ledger while ACTIVE; after exit it moves to the trade history and is
// never deleted.
type Position struct {
	ID          uuid.UUID
	Instrument  market.Instrument
	Setup       Setup
	Class       Class
	CompositeID uuid.UUID // zero when not part of a multi-leg trade
	Status      Status
	Exit        *ExitEvent // set exactly once, when the exit fires

	// bestPrice is the most favorable price observed since entry: the
	// highest for longs, the lowest for shorts. Maintained by the ledger
	// on every tick; the high-water trailing stop trails from it.
	bestPrice float64
}

func (p *Position) IsActive() bool {
	return p.Status == StatusActive
}

// BestPrice returns the running extreme used for trailing stops.
func (p *Position) BestPrice() float64 {
	return p.bestPrice
}

// observePrice advances the running extreme.
func (p *Position) observePrice(price float64) {
	if p.bestPrice == 0 {
		p.bestPrice = price
		return
	}
	if p.Setup.Side() == SideLong && price > p.bestPrice {
		p.bestPrice = price
	}
	if p.Setup.Side() == SideShort && price < p.bestPrice {
		p.bestPrice = price
	}
}
