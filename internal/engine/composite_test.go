package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya2838/new-market/internal/logger"
)

func newTestBuilder(t *testing.T, caps Caps) (*CompositeBuilder, *Ledger) {
	t.Helper()
	clock := &fakeClock{t: entered}
	ctrl := NewAdmissionController(caps, gateStub(true))
	ledger := NewLedger(100_000, ctrl, NewExitEvaluator(TrailingHighWater), clock, logger.New("error"), nil)
	builder := NewCompositeBuilder(ledger, "NIFTY", 50, clock, logger.New("error"))
	return builder, ledger
}

func compositeParams() CompositeParams {
	return CompositeParams{
		StopLossPct:        0.15,
		TargetPct:          0.30,
		Quantity:           2,
		MaxHolding:         6 * time.Hour,
		BalanceCapFraction: 1.0,
	}
}

func TestStraddle_OpensBothLegs(t *testing.T) {
	builder, ledger := newTestBuilder(t, defaultCaps())

	expiry := entered.AddDate(0, 0, 2)
	trade, err := builder.Straddle(25000, expiry, 100, 90, compositeParams())
	require.NoError(t, err)

	assert.Equal(t, StrategyStraddle, trade.Strategy)
	assert.Len(t, trade.Legs, 2)

	exp := ledger.Exposure()
	assert.Equal(t, 1, exp.Call)
	assert.Equal(t, 1, exp.Put)
	assert.Equal(t, 2, exp.Spread)

	// CE: 15 * 2 * 50 = 1500, PE: 13.5 * 2 * 50 = 1350.
	assert.InDelta(t, 2850, trade.TotalRisk, 0.01)
	assert.InDelta(t, 5700, trade.TotalReward, 0.01)

	for _, p := range ledger.OpenPositions() {
		assert.Equal(t, ClassSpreadLeg, p.Class)
		assert.Equal(t, trade.ID, p.CompositeID)
	}
}

func TestStrangle_SizesLegsFromRiskBudget(t *testing.T) {
	builder, ledger := newTestBuilder(t, defaultCaps())

	params := compositeParams()
	params.Quantity = 0
	params.RiskBudget = 4500

	expiry := entered.AddDate(0, 0, 2)
	trade, err := builder.Strangle(25100, 24900, expiry, 100, 100, params)
	require.NoError(t, err)

	// Risk per lot = 15 * 50 = 750; 4500 buys 6 lots per leg.
	for _, p := range ledger.OpenPositions() {
		assert.Equal(t, 6, p.Setup.Quantity())
	}
	assert.InDelta(t, 9000, trade.TotalRisk, 0.01)
}

func TestStraddle_SecondLegDeniedRollsBackFirst(t *testing.T) {
	caps := defaultCaps()
	caps.MaxPut = 0 // CE admits, PE is denied
	builder, ledger := newTestBuilder(t, caps)

	expiry := entered.AddDate(0, 0, 2)
	_, err := builder.Straddle(25000, expiry, 100, 90, compositeParams())
	require.Error(t, err)

	var denied *AdmissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, ReasonMaxClass, denied.Reason)

	// The orphaned CE leg was compensated at entry with zero P&L.
	assert.Empty(t, ledger.OpenPositions())
	exp := ledger.Exposure()
	assert.Equal(t, 0, exp.Call)
	assert.Equal(t, 0, exp.Spread)
	assert.Equal(t, 100_000.0, ledger.Balance())

	history := ledger.History()
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Exit)
	assert.Equal(t, ExitForcedClose, history[0].Exit.Reason)
	assert.Equal(t, 100.0, history[0].Exit.ExitPrice)
	assert.Equal(t, 0.0, history[0].Exit.RealizedPnL)
}

func TestStraddle_UnaffordableLegFailsBeforeAnyOpen(t *testing.T) {
	builder, ledger := newTestBuilder(t, defaultCaps())

	params := compositeParams()
	params.Quantity = 0
	params.RiskBudget = 3000
	params.BalanceCapFraction = 0.001 // cap of 100 cannot afford any lot

	expiry := entered.AddDate(0, 0, 2)
	_, err := builder.Straddle(25000, expiry, 100, 90, params)
	require.Error(t, err)

	var invalid *InvalidSetupError
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, ledger.OpenPositions())
	assert.Empty(t, ledger.History())
}
