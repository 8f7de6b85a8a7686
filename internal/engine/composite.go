package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
)

// Strategy tags a multi-leg trade unit.
type Strategy string

const (
	StrategyStraddle Strategy = "STRADDLE"
	StrategyStrangle Strategy = "STRANGLE"
)

// CompositeTrade groups the legs of a straddle or strangle. Each leg
// remains an independent position for exit purposes: legs exit through the
// regular evaluator, asynchronously, and the composite is closed only when
// all legs have exited. Risk and reward aggregate by summation.
type CompositeTrade struct {
	ID        uuid.UUID
	Strategy  Strategy
	Legs      []uuid.UUID
	EnteredAt time.Time

	TotalRisk   float64 // sum of leg max losses
	TotalReward float64 // sum of leg max profits
}

// CompositeParams configure both legs of a straddle or strangle entry.
type CompositeParams struct {
	StopLossPct float64 // stop distance as a fraction of entry, e.g. 0.15
	TargetPct   float64 // target distance as a fraction of entry, e.g. 0.30
	Quantity    int     // lots per leg; 0 sizes each leg from RiskBudget
	RiskBudget  float64 // per-leg risk budget when Quantity is 0
	MaxHolding  time.Duration

	TrailingEnabled  bool
	TrailingFraction float64

	BalanceCapFraction float64
}

// CompositeBuilder opens two-leg long volatility trades through the
// ledger. Each leg passes the admission checklist on its own; if the
// second leg is denied after the first opened, the first is immediately
// rolled back with a compensating close so no unintended naked single-leg
// position survives.
type CompositeBuilder struct {
	ledger     *Ledger
	underlying string
	lotSize    int
	clock      Clock
	log        *logger.Logger
}

func NewCompositeBuilder(ledger *Ledger, underlying string, lotSize int, clock Clock, log *logger.Logger) *CompositeBuilder {
	if clock == nil {
		clock = SystemClock()
	}
	return &CompositeBuilder{
		ledger:     ledger,
		underlying: underlying,
		lotSize:    lotSize,
		clock:      clock,
		log:        log,
	}
}

// Straddle buys both the CE and the PE at the same strike.
func (b *CompositeBuilder) Straddle(strike float64, expiry time.Time, cePrice, pePrice float64, p CompositeParams) (*CompositeTrade, error) {
	return b.open(StrategyStraddle, strike, strike, expiry, cePrice, pePrice, p)
}

// Strangle buys an OTM CE and an OTM PE at different strikes. No
// strike-relationship validation happens beyond each leg's own setup
// invariants; strike selection is the caller's business.
func (b *CompositeBuilder) Strangle(ceStrike, peStrike float64, expiry time.Time, cePrice, pePrice float64, p CompositeParams) (*CompositeTrade, error) {
	return b.open(StrategyStrangle, ceStrike, peStrike, expiry, cePrice, pePrice, p)
}

func (b *CompositeBuilder) open(strategy Strategy, ceStrike, peStrike float64, expiry time.Time, cePrice, pePrice float64, p CompositeParams) (*CompositeTrade, error) {
	compositeID := uuid.New()
	now := b.clock.Now()

	ceInst := market.Instrument{
		Underlying: b.underlying, Strike: ceStrike, Side: market.Call,
		Expiry: expiry, LotSize: b.lotSize,
	}
	peInst := market.Instrument{
		Underlying: b.underlying, Strike: peStrike, Side: market.Put,
		Expiry: expiry, LotSize: b.lotSize,
	}

	ceSetup, err := b.legSetup(cePrice, p, now)
	if err != nil {
		return nil, fmt.Errorf("%s CE leg: %w", strategy, err)
	}
	peSetup, err := b.legSetup(pePrice, p, now)
	if err != nil {
		return nil, fmt.Errorf("%s PE leg: %w", strategy, err)
	}

	ceID, err := b.ledger.Open(ceInst, ceSetup, ClassSpreadLeg, compositeID)
	if err != nil {
		return nil, fmt.Errorf("%s CE leg: %w", strategy, err)
	}

	peID, err := b.ledger.Open(peInst, peSetup, ClassSpreadLeg, compositeID)
	if err != nil {
		b.rollback(ceID, ceSetup, now)
		return nil, fmt.Errorf("%s PE leg: %w", strategy, err)
	}

	trade := &CompositeTrade{
		ID:          compositeID,
		Strategy:    strategy,
		Legs:        []uuid.UUID{ceID, peID},
		EnteredAt:   now,
		TotalRisk:   ceSetup.MaxLoss() + peSetup.MaxLoss(),
		TotalReward: ceSetup.MaxProfit() + peSetup.MaxProfit(),
	}

	b.log.Info("composite trade opened",
		"composite_id", compositeID, "strategy", string(strategy),
		"ce_strike", ceStrike, "pe_strike", peStrike,
		"total_risk", trade.TotalRisk, "total_reward", trade.TotalReward)
	return trade, nil
}

func (b *CompositeBuilder) legSetup(entry float64, p CompositeParams, now time.Time) (Setup, error) {
	quantity := p.Quantity
	stop := entry * (1 - p.StopLossPct)
	target := entry * (1 + p.TargetPct)

	if quantity == 0 {
		lots, err := SizeLots(entry, stop, p.RiskBudget, p.BalanceCapFraction, b.ledger.Balance(), b.lotSize)
		if err != nil {
			return Setup{}, err
		}
		if lots < 1 {
			return Setup{}, invalidSetupf("risk budget %.2f cannot afford one lot at %.2f", p.RiskBudget, entry)
		}
		quantity = lots
	}

	return NewSetup(SetupParams{
		Side:             SideLong,
		Entry:            entry,
		StopLoss:         stop,
		Target:           target,
		Quantity:         quantity,
		LotSize:          b.lotSize,
		EnteredAt:        now,
		MaxHolding:       p.MaxHolding,
		TrailingEnabled:  p.TrailingEnabled,
		TrailingFraction: p.TrailingFraction,
	})
}

// rollback compensates an orphaned first leg with an immediate close at
// its entry price (zero P&L). The AlreadyExited guard makes a repeated
// rollback harmless.
func (b *CompositeBuilder) rollback(legID uuid.UUID, setup Setup, now time.Time) {
	ev := ExitEvent{
		PositionID:  legID,
		Reason:      ExitForcedClose,
		ExitPrice:   setup.Entry(),
		ExitTime:    now,
		RealizedPnL: 0,
	}
	if err := b.ledger.ApplyExit(legID, ev); err != nil {
		b.log.Error("composite rollback", "leg_id", legID, "error", err)
		return
	}
	b.log.Warn("composite second leg denied, first leg rolled back", "leg_id", legID)
}
