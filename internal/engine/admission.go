package engine

import (
	"math"
	"time"

	"github.com/Aditya2838/new-market/internal/market"
)

// DenyReason is the single diagnostic surfaced when admission fails.
type DenyReason string

const (
	ReasonOK           DenyReason = "OK"
	ReasonMarketClosed DenyReason = "MARKET_CLOSED"
	ReasonMaxTotal     DenyReason = "MAX_TOTAL_POSITIONS"
	ReasonMaxClass     DenyReason = "MAX_CLASS_POSITIONS"
	ReasonMaxSpread    DenyReason = "MAX_SPREAD_POSITIONS"
	ReasonDailyLoss    DenyReason = "DAILY_LOSS_LIMIT"
)

// Caps are the portfolio-level exposure limits.
type Caps struct {
	MaxTotal  int
	MaxCall   int
	MaxPut    int
	MaxSpread int

	// DailyLossFraction of account balance; once the magnitude of the
	// day's P&L exceeds it no new entries are admitted for the rest of
	// the day.
	DailyLossFraction float64
}

// Exposure is a point-in-time snapshot of what the ledger holds; the
// admission controller itself keeps no mutable state.
type Exposure struct {
	Call    int
	Put     int
	Spread  int
	PnLDay  float64
	Balance float64
}

func (e Exposure) Total() int {
	return e.Call + e.Put
}

// SessionGate answers whether the market is open. *market.Calendar
// satisfies it.
type SessionGate interface {
	IsOpen(t time.Time) bool
}

// AdmissionController gates new entries against the caps. The check order
// is fixed: the first failing check determines the reported reason, so
// identical portfolio states always surface identical diagnostics.
type AdmissionController struct {
	caps    Caps
	session SessionGate
}

func NewAdmissionController(caps Caps, session SessionGate) *AdmissionController {
	return &AdmissionController{caps: caps, session: session}
}

// CanOpen decides whether one more position of the given class may open.
func (a *AdmissionController) CanOpen(exp Exposure, side market.OptionSide, isSpread bool, now time.Time) (bool, DenyReason) {
	if !a.session.IsOpen(now) {
		return false, ReasonMarketClosed
	}

	if exp.Total() >= a.caps.MaxTotal {
		return false, ReasonMaxTotal
	}

	switch side {
	case market.Call:
		if exp.Call >= a.caps.MaxCall {
			return false, ReasonMaxClass
		}
	case market.Put:
		if exp.Put >= a.caps.MaxPut {
			return false, ReasonMaxClass
		}
	}

	if isSpread && exp.Spread >= a.caps.MaxSpread {
		return false, ReasonMaxSpread
	}

	if math.Abs(exp.PnLDay) > exp.Balance*a.caps.DailyLossFraction {
		return false, ReasonDailyLoss
	}

	return true, ReasonOK
}
