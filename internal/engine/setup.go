package engine

import (
	"math"
	"time"
)

// Side is the direction of the entry.
type Side int

const (
	SideLong Side = iota + 1
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "BUY"
	case SideShort:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// direction is +1 for long, -1 for short; used in P&L arithmetic.
func (s Side) direction() float64 {
	if s == SideShort {
		return -1
	}
	return 1
}

// SetupParams are the raw inputs to NewSetup.
type SetupParams struct {
	Side       Side
	Entry      float64
	StopLoss   float64
	Target     float64
	Quantity   int
	LotSize    int
	EnteredAt  time.Time
	MaxHolding time.Duration

	TrailingEnabled  bool
	TrailingFraction float64
}

// Setup is the validated, immutable entry plan for one leg. A change to any
// risk field (e.g. moving the stop) goes through WithStopLoss, which returns
// a fresh validated value; nothing mutates a Setup in place.
type Setup struct {
	side       Side
	entry      float64
	stopLoss   float64
	target     float64
	quantity   int
	lotSize    int
	enteredAt  time.Time
	maxHolding time.Duration

	trailingEnabled  bool
	trailingFraction float64
}

// NewSetup validates the ordering invariants and returns the setup.
//
// Long:  stop < entry < target. Short: target < entry < stop.
func NewSetup(p SetupParams) (Setup, error) {
	if p.Side != SideLong && p.Side != SideShort {
		return Setup{}, invalidSetupf("side must be BUY or SELL")
	}
	if p.Entry <= 0 {
		return Setup{}, invalidSetupf("entry price %.2f must be positive", p.Entry)
	}
	if p.Quantity < 1 {
		return Setup{}, invalidSetupf("quantity %d must be at least 1", p.Quantity)
	}
	if p.LotSize < 1 {
		return Setup{}, invalidSetupf("lot size %d must be at least 1", p.LotSize)
	}
	if p.MaxHolding <= 0 {
		return Setup{}, invalidSetupf("max holding duration must be positive")
	}

	switch p.Side {
	case SideLong:
		if !(p.StopLoss < p.Entry && p.Entry < p.Target) {
			return Setup{}, invalidSetupf(
				"long ordering violated: want stop %.2f < entry %.2f < target %.2f",
				p.StopLoss, p.Entry, p.Target)
		}
	case SideShort:
		if !(p.Target < p.Entry && p.Entry < p.StopLoss) {
			return Setup{}, invalidSetupf(
				"short ordering violated: want target %.2f < entry %.2f < stop %.2f",
				p.Target, p.Entry, p.StopLoss)
		}
	}

	if p.TrailingEnabled && (p.TrailingFraction <= 0 || p.TrailingFraction >= 1) {
		return Setup{}, invalidSetupf("trailing fraction %.4f must be in (0, 1)", p.TrailingFraction)
	}

	return Setup{
		side:             p.Side,
		entry:            p.Entry,
		stopLoss:         p.StopLoss,
		target:           p.Target,
		quantity:         p.Quantity,
		lotSize:          p.LotSize,
		enteredAt:        p.EnteredAt,
		maxHolding:       p.MaxHolding,
		trailingEnabled:  p.TrailingEnabled,
		trailingFraction: p.TrailingFraction,
	}, nil
}

func (s Setup) Side() Side                { return s.side }
func (s Setup) Entry() float64            { return s.entry }
func (s Setup) StopLoss() float64         { return s.stopLoss }
func (s Setup) Target() float64           { return s.target }
func (s Setup) Quantity() int             { return s.quantity }
func (s Setup) LotSize() int              { return s.lotSize }
func (s Setup) EnteredAt() time.Time      { return s.enteredAt }
func (s Setup) MaxHolding() time.Duration { return s.maxHolding }
func (s Setup) TrailingEnabled() bool     { return s.trailingEnabled }
func (s Setup) TrailingFraction() float64 { return s.trailingFraction }

// PlannedExit is the hard time limit for the position.
func (s Setup) PlannedExit() time.Time {
	return s.enteredAt.Add(s.maxHolding)
}

// Risk is the per-unit distance from entry to stop.
func (s Setup) Risk() float64 {
	return math.Abs(s.entry - s.stopLoss)
}

// Reward is the per-unit distance from entry to target.
func (s Setup) Reward() float64 {
	return math.Abs(s.target - s.entry)
}

// RiskRewardRatio is reward over risk. Zero risk cannot occur after
// validation, but the guard mirrors the P&L arithmetic anyway.
func (s Setup) RiskRewardRatio() float64 {
	risk := s.Risk()
	if risk == 0 {
		return 0
	}
	return s.Reward() / risk
}

func (s Setup) MaxLoss() float64 {
	return s.Risk() * float64(s.quantity) * float64(s.lotSize)
}

func (s Setup) MaxProfit() float64 {
	return s.Reward() * float64(s.quantity) * float64(s.lotSize)
}

// PnLAt is the realized P&L if the position exits at price.
func (s Setup) PnLAt(price float64) float64 {
	return (price - s.entry) * float64(s.quantity) * float64(s.lotSize) * s.side.direction()
}

// WithStopLoss returns a copy of the setup with the stop moved, revalidating
// the ordering invariants against the unchanged entry and target.
func (s Setup) WithStopLoss(stop float64) (Setup, error) {
	return NewSetup(SetupParams{
		Side:             s.side,
		Entry:            s.entry,
		StopLoss:         stop,
		Target:           s.target,
		Quantity:         s.quantity,
		LotSize:          s.lotSize,
		EnteredAt:        s.enteredAt,
		MaxHolding:       s.maxHolding,
		TrailingEnabled:  s.trailingEnabled,
		TrailingFraction: s.trailingFraction,
	})
}
