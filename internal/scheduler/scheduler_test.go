package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya2838/new-market/internal/advisor"
	"github.com/Aditya2838/new-market/internal/config"
	"github.com/Aditya2838/new-market/internal/engine"
	"github.com/Aditya2838/new-market/internal/gateway"
	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
	"github.com/Aditya2838/new-market/internal/storage"
	"github.com/Aditya2838/new-market/internal/telegram"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func testConfig() *config.Config {
	return &config.Config{
		Trading: config.TradingConfig{
			Underlying:           "NIFTY",
			LotSize:              50,
			AccountBalance:       100_000,
			Interval:             "1m",
			RiskPerTradeFraction: 0.03,
			SpreadRiskMultiplier: 1.5,
			DailyLossFraction:    0.05,
			BalanceCapFraction:   0.10,
			StopLossPct:          0.15,
			TargetPct:            0.30,
			MaxHoldingHours:      6,
			TrailingFraction:     0.05,
			TrailingMode:         "highwater",
			MaxPositions:         5,
			MaxCallPositions:     3,
			MaxPutPositions:      3,
			MaxSpreadPositions:   2,
			MinConfidence:        70,
		},
		Market:  config.MarketConfig{Timezone: "Asia/Kolkata", Spot: 25000},
		Logging: config.LoggingConfig{Level: "error"},
	}
}

func newTestScheduler(t *testing.T, at time.Time) (*Scheduler, *engine.Ledger, *fakeClock) {
	t.Helper()
	cfg := testConfig()
	log := logger.New("error")
	clock := &fakeClock{t: at}

	cal := market.NewCalendar(cfg.ExchangeLocation())
	feed := market.NewSyntheticFeed(cfg.Market.Spot, 1, clock.Now)

	admission := engine.NewAdmissionController(engine.Caps{
		MaxTotal:          cfg.Trading.MaxPositions,
		MaxCall:           cfg.Trading.MaxCallPositions,
		MaxPut:            cfg.Trading.MaxPutPositions,
		MaxSpread:         cfg.Trading.MaxSpreadPositions,
		DailyLossFraction: cfg.Trading.DailyLossFraction,
	}, cal)
	ledger := engine.NewLedger(cfg.Trading.AccountBalance, admission,
		engine.NewExitEvaluator(engine.TrailingHighWater), clock, log, nil)
	builder := engine.NewCompositeBuilder(ledger, cfg.Trading.Underlying, cfg.Trading.LotSize, clock, log)

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	repo := storage.NewRepository(db)

	adv := advisor.NewDeepSeekAdvisor(cfg, log) // disabled, falls back to the static playbook
	notifier := telegram.NewNotifier(cfg, log)  // disabled
	gw := gateway.NewSimulatedGateway(feed, log, clock.Now)

	sched := NewScheduler(feed, ledger, builder, adv, gw, repo, notifier, cfg, log, cal, clock)
	return sched, ledger, clock
}

func istTime(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return time.Date(2025, 6, day, hour, minute, 0, 0, loc)
}

func TestRunCycle_OpensStraddleAtTheOpen(t *testing.T) {
	sched, ledger, _ := newTestScheduler(t, istTime(t, 10, 9, 20))

	sched.runCycle(context.Background())

	exp := ledger.Exposure()
	assert.Equal(t, 1, exp.Call)
	assert.Equal(t, 1, exp.Put)
	assert.Equal(t, 2, exp.Spread)
	for _, p := range ledger.OpenPositions() {
		assert.Equal(t, engine.ClassSpreadLeg, p.Class)
	}
}

func TestRunCycle_NoEntriesMidDay(t *testing.T) {
	sched, ledger, _ := newTestScheduler(t, istTime(t, 10, 12, 30))

	sched.runCycle(context.Background())

	assert.Empty(t, ledger.OpenPositions())
}

func TestRunCycle_ForceClosesAfterSession(t *testing.T) {
	sched, ledger, clock := newTestScheduler(t, istTime(t, 10, 9, 20))

	sched.runCycle(context.Background())
	require.Len(t, ledger.OpenPositions(), 2)

	clock.t = istTime(t, 10, 16, 0)
	sched.runCycle(context.Background())

	assert.Empty(t, ledger.OpenPositions())
	history := ledger.History()
	require.Len(t, history, 2)
	for _, p := range history {
		require.NotNil(t, p.Exit)
		assert.Equal(t, engine.ExitForcedClose, p.Exit.Reason)
	}
}

func TestRunCycle_DayRolloverResetsDailyPnL(t *testing.T) {
	sched, ledger, clock := newTestScheduler(t, istTime(t, 10, 9, 20))

	sched.runCycle(context.Background())
	require.Len(t, ledger.OpenPositions(), 2)

	// Flatten after the close, then cross into the next day.
	clock.t = istTime(t, 10, 16, 0)
	sched.runCycle(context.Background())
	dayPnL := ledger.DailyPnL()

	clock.t = istTime(t, 11, 9, 20)
	sched.runCycle(context.Background())

	assert.Zero(t, ledger.DailyPnL())
	assert.InDelta(t, 100_000.0+dayPnL, ledger.Balance(), 0.001)
}

// recordingGateway journals filled orders and fills at the ask. When
// buyLimit is set, buys beyond it are rejected; sells always fill.
type recordingGateway struct {
	feed     market.Feed
	buyLimit int

	orders []testOrder
	buys   int
}

type testOrder struct {
	symbol string
	action gateway.Action
	lots   int
}

func (g *recordingGateway) Execute(ctx context.Context, inst market.Instrument, action gateway.Action, lots int) (gateway.Fill, error) {
	if action == gateway.ActionBuy {
		g.buys++
		if g.buyLimit > 0 && g.buys > g.buyLimit {
			return gateway.Fill{}, &gateway.RejectedError{Reason: "no liquidity"}
		}
	}
	quote, err := g.feed.Quote(ctx, inst)
	if err != nil {
		return gateway.Fill{}, err
	}
	g.orders = append(g.orders, testOrder{inst.Symbol(), action, lots})
	return gateway.Fill{OrderID: "test", FillPrice: quote.Ask, Lots: lots, FilledAt: time.Now()}, nil
}

func TestRunCycle_ExecutesBookedQuantityPerLeg(t *testing.T) {
	sched, ledger, _ := newTestScheduler(t, istTime(t, 10, 9, 20))
	gw := &recordingGateway{feed: sched.feed}
	sched.gw = gw

	sched.runCycle(context.Background())

	open := ledger.OpenPositions()
	require.Len(t, open, 2)
	require.Len(t, gw.orders, 2)
	for _, p := range open {
		found := false
		for _, o := range gw.orders {
			if o.symbol != p.Instrument.Symbol() {
				continue
			}
			found = true
			assert.Equal(t, gateway.ActionBuy, o.action)
			assert.Equal(t, p.Setup.Quantity(), o.lots,
				"executed lots must match the booked quantity for %s", o.symbol)
		}
		assert.True(t, found, "no fill for %s", p.Instrument.Symbol())
	}
}

func TestRunCycle_FailedLegFillUnwindsStraddle(t *testing.T) {
	sched, ledger, _ := newTestScheduler(t, istTime(t, 10, 9, 20))
	// The first leg fills, the second is rejected at the venue.
	gw := &recordingGateway{feed: sched.feed, buyLimit: 1}
	sched.gw = gw

	sched.runCycle(context.Background())

	// Nothing stays open and both booked legs leave at entry with zero P&L.
	assert.Empty(t, ledger.OpenPositions())
	history := ledger.History()
	require.Len(t, history, 2)
	for _, p := range history {
		require.NotNil(t, p.Exit)
		assert.Equal(t, engine.ExitForcedClose, p.Exit.Reason)
		assert.Zero(t, p.Exit.RealizedPnL)
	}
	assert.Zero(t, ledger.DailyPnL())
	assert.Equal(t, 100_000.0, ledger.Balance())

	// The filled leg was sold back for exactly the lots it bought.
	var sells []testOrder
	for _, o := range gw.orders {
		if o.action == gateway.ActionSell {
			sells = append(sells, o)
		}
	}
	require.Len(t, sells, 1)
	for _, p := range history {
		if p.Instrument.Symbol() == sells[0].symbol {
			assert.Equal(t, p.Setup.Quantity(), sells[0].lots)
		}
	}
}

func TestRunCycle_SecondCycleAddsNothingBeyondCaps(t *testing.T) {
	sched, ledger, _ := newTestScheduler(t, istTime(t, 10, 9, 20))

	sched.runCycle(context.Background())
	sched.runCycle(context.Background())
	sched.runCycle(context.Background())

	// The spread cap holds the book at one straddle's two legs.
	assert.LessOrEqual(t, ledger.Exposure().Spread, 2)
	assert.LessOrEqual(t, ledger.Exposure().Total(), 5)
}
