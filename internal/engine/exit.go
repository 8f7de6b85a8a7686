package engine

import (
	"time"

	"github.com/google/uuid"
)

// ExitReason is why a position left the book.
type ExitReason string

const (
	ExitStopLoss     ExitReason = "STOP_LOSS"
	ExitTargetHit    ExitReason = "TARGET_HIT"
	ExitTimeBased    ExitReason = "TIME_BASED"
	ExitTrailingStop ExitReason = "TRAILING_STOP"
	ExitForcedClose  ExitReason = "FORCED_CLOSE"
)

// ExitEvent records one exit decision. Created exactly once per position;
// append-only thereafter.
type ExitEvent struct {
	PositionID  uuid.UUID
	Reason      ExitReason
	ExitPrice   float64
	ExitTime    time.Time
	RealizedPnL float64
}

// TrailingMode selects how the trailing level is anchored.
type TrailingMode string

const (
	// TrailingTick recomputes the trail from the current tick's own price,
	// reproducing the behavior of the earlier implementation. A price can
	// never cross a level derived from itself, so this mode is effectively
	// inert; it exists for compatibility only.
	TrailingTick TrailingMode = "tick"

	// TrailingHighWater trails from the best price seen since entry.
	TrailingHighWater TrailingMode = "highwater"
)

// ExitEvaluator decides, for one position and one price observation,
// whether an exit condition fires. It holds no shared state and may be run
// concurrently across distinct positions; the resulting events must still
// be applied to the ledger one at a time.
//
// Precedence is fixed: stop-loss, target, time limit, trailing stop. The
// first match wins; a position never exits for two reasons on one tick.
type ExitEvaluator struct {
	Trailing TrailingMode
}

func NewExitEvaluator(mode TrailingMode) ExitEvaluator {
	if mode == "" {
		mode = TrailingHighWater
	}
	return ExitEvaluator{Trailing: mode}
}

// Evaluate returns the exit event and true if any trigger fires. It does
// not touch the position; the caller applies the event to the ledger.
func (e ExitEvaluator) Evaluate(p *Position, price float64, now time.Time) (ExitEvent, bool) {
	if !p.IsActive() {
		return ExitEvent{}, false
	}

	setup := p.Setup
	reason, fired := e.trigger(p, price, now)
	if !fired {
		return ExitEvent{}, false
	}

	return ExitEvent{
		PositionID:  p.ID,
		Reason:      reason,
		ExitPrice:   price,
		ExitTime:    now,
		RealizedPnL: setup.PnLAt(price),
	}, true
}

func (e ExitEvaluator) trigger(p *Position, price float64, now time.Time) (ExitReason, bool) {
	setup := p.Setup
	long := setup.Side() == SideLong

	if long && price <= setup.StopLoss() || !long && price >= setup.StopLoss() {
		return ExitStopLoss, true
	}

	if long && price >= setup.Target() || !long && price <= setup.Target() {
		return ExitTargetHit, true
	}

	if !now.Before(setup.PlannedExit()) {
		return ExitTimeBased, true
	}

	if setup.TrailingEnabled() {
		if e.trailingHit(p, price) {
			return ExitTrailingStop, true
		}
	}

	return "", false
}

func (e ExitEvaluator) trailingHit(p *Position, price float64) bool {
	setup := p.Setup
	f := setup.TrailingFraction()

	anchor := price
	if e.Trailing == TrailingHighWater {
		anchor = p.BestPrice()
		if anchor == 0 {
			anchor = price
		}
	}

	if setup.Side() == SideLong {
		return price <= anchor*(1-f)
	}
	return price >= anchor*(1+f)
}
