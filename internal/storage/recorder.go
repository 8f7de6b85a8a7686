package storage

import (
	"github.com/google/uuid"

	"github.com/Aditya2838/new-market/internal/engine"
)

// Recorder adapts the Repository to the ledger's persistence hooks.
type Recorder struct {
	repo *Repository
}

func NewRecorder(repo *Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) RecordTrade(p *engine.Position) error {
	setup := p.Setup
	compositeID := ""
	if p.CompositeID != uuid.Nil {
		compositeID = p.CompositeID.String()
	}
	return r.repo.SaveTrade(&Trade{
		PositionID:  p.ID.String(),
		CompositeID: compositeID,
		Symbol:      p.Instrument.Symbol(),
		OptionSide:  string(p.Instrument.Side),
		Strike:      p.Instrument.Strike,
		Expiry:      p.Instrument.Expiry,
		Action:      setup.Side().String(),
		Class:       string(p.Class),
		Quantity:    setup.Quantity(),
		LotSize:     setup.LotSize(),
		Entry:       setup.Entry(),
		StopLoss:    setup.StopLoss(),
		Target:      setup.Target(),
		EnteredAt:   setup.EnteredAt(),
		Status:      "open",
	})
}

func (r *Recorder) RecordExit(p *engine.Position, ev engine.ExitEvent) error {
	holdingHours := ev.ExitTime.Sub(p.Setup.EnteredAt()).Hours()
	return r.repo.CloseTrade(p.ID.String(), ev.ExitTime, ev.ExitPrice, string(ev.Reason), ev.RealizedPnL, holdingHours)
}
