package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aditya2838/new-market/internal/advisor"
	"github.com/Aditya2838/new-market/internal/config"
	"github.com/Aditya2838/new-market/internal/engine"
	"github.com/Aditya2838/new-market/internal/gateway"
	"github.com/Aditya2838/new-market/internal/indicators"
	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
	"github.com/Aditya2838/new-market/internal/metrics"
	"github.com/Aditya2838/new-market/internal/storage"
	"github.com/Aditya2838/new-market/internal/telegram"
)

const (
	quoteTimeout    = 5 * time.Second
	priceHistory    = 120
	expiryLookahead = 1
)

// Drifter is implemented by feeds that simulate underlying movement.
type Drifter interface {
	Drift() float64
}

type Scheduler struct {
	feed     market.Feed
	ledger   *engine.Ledger
	builder  *engine.CompositeBuilder
	advisor  *advisor.DeepSeekAdvisor
	gw       gateway.Gateway
	repo     *storage.Repository
	notifier *telegram.Notifier
	config   *config.Config
	logger   *logger.Logger
	cal      *market.Calendar
	clock    engine.Clock

	closes      []float64
	lastDay     time.Time
	sessionOpen bool
}

func NewScheduler(
	feed market.Feed,
	ledger *engine.Ledger,
	builder *engine.CompositeBuilder,
	adv *advisor.DeepSeekAdvisor,
	gw gateway.Gateway,
	repo *storage.Repository,
	notifier *telegram.Notifier,
	cfg *config.Config,
	log *logger.Logger,
	cal *market.Calendar,
	clock engine.Clock,
) *Scheduler {
	if clock == nil {
		clock = engine.SystemClock()
	}
	return &Scheduler{
		feed:     feed,
		ledger:   ledger,
		builder:  builder,
		advisor:  adv,
		gw:       gw,
		repo:     repo,
		notifier: notifier,
		config:   cfg,
		logger:   log,
		cal:      cal,
		clock:    clock,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	interval := s.config.TradingInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", interval.String())

	// Run immediately on start
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in scheduler cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("scheduler panic", fmt.Errorf("%v", r))
		}
	}()

	now := s.clock.Now()
	s.rolloverIfNeeded(now)

	if !s.cal.IsOpen(now) {
		s.closeOutIfNeeded(ctx, now)
		if s.sessionOpen {
			s.sessionOpen = false
			s.saveSummary(now, s.ledger.Exposure())
			s.notifier.NotifyStatus(fmt.Sprintf("🔔 Session closed, day P&L ₹%.2f", s.ledger.DailyPnL()))
		}
		return
	}
	s.sessionOpen = true

	spot := s.feed.Spot()
	if d, ok := s.feed.(Drifter); ok {
		spot = d.Drift()
	}
	s.recordSpot(spot)

	// 1. Evaluate exits for every open position, applied in stable order.
	events := s.ledger.Tick(s.priceOf(ctx))
	for _, ev := range events {
		metrics.ExitsByReason.WithLabelValues(string(ev.Reason)).Inc()
		s.notifyExit(ev)
	}

	// 2. Consider new entries.
	s.enterPositions(ctx, now, spot)

	// 3. Publish state.
	exp := s.ledger.Exposure()
	metrics.OpenPositions.Set(float64(exp.Total()))
	metrics.DailyPnL.Set(exp.PnLDay)
}

// priceOf adapts the feed to the ledger's lookup, bounding each quote call.
func (s *Scheduler) priceOf(ctx context.Context) engine.PriceFunc {
	return func(inst market.Instrument) (float64, error) {
		qctx, cancel := context.WithTimeout(ctx, quoteTimeout)
		defer cancel()
		quote, err := s.feed.Quote(qctx, inst)
		if err != nil {
			return 0, err
		}
		return quote.Mid(), nil
	}
}

func (s *Scheduler) enterPositions(ctx context.Context, now time.Time, spot float64) {
	view := s.marketView(now, spot)

	recs := s.recommendations(ctx, view)
	for _, rec := range recs {
		if rec.Confidence < s.config.Trading.MinConfidence {
			s.logger.Info("entry skipped: low confidence",
				"strategy", rec.Strategy, "confidence", rec.Confidence,
				"min", s.config.Trading.MinConfidence)
			continue
		}

		switch rec.Strategy {
		case advisor.StrategyStraddle:
			s.enterStraddle(ctx, now, rec)
		case advisor.StrategyStrangle:
			s.enterStrangle(ctx, now, rec)
		case advisor.StrategyBuyCE:
			s.enterSingle(ctx, now, rec.Strike, market.Call)
		case advisor.StrategyBuyPE:
			s.enterSingle(ctx, now, rec.Strike, market.Put)
		case advisor.StrategyHold:
			s.logger.Info("HOLD recommendation", "reasoning", rec.Reasoning)
		default:
			s.logger.Info("unknown strategy recommendation", "strategy", rec.Strategy)
		}
	}
}

func (s *Scheduler) recommendations(ctx context.Context, view *advisor.MarketView) []advisor.Recommendation {
	if s.advisor.Enabled() {
		recs, _, err := s.advisor.Recommend(ctx, view)
		if err == nil {
			return recs
		}
		s.logger.Error("advisor failed, using static playbook", "error", err)
	}
	return advisor.StaticRecommendations(view)
}

func (s *Scheduler) marketView(now time.Time, spot float64) *advisor.MarketView {
	exp := s.ledger.Exposure()
	// The synthetic feed carries no volume; equal-weight the window.
	volumes := make([]float64, len(s.closes))
	for i := range volumes {
		volumes[i] = 1
	}
	return &advisor.MarketView{
		Slot:       s.cal.Slot(now),
		Spot:       spot,
		Indicators: indicators.Compute(s.closes, volumes),
		OpenCall:   exp.Call,
		OpenPut:    exp.Put,
		OpenSpread: exp.Spread,
		Balance:    exp.Balance,
		DailyPnL:   exp.PnLDay,
	}
}

func (s *Scheduler) compositeParams() engine.CompositeParams {
	t := s.config.Trading
	return engine.CompositeParams{
		StopLossPct:        t.StopLossPct,
		TargetPct:          t.TargetPct,
		RiskBudget:         s.ledger.Balance() * t.RiskPerTradeFraction * t.SpreadRiskMultiplier,
		MaxHolding:         s.config.MaxHolding(),
		TrailingEnabled:    t.TrailingEnabled,
		TrailingFraction:   t.TrailingFraction,
		BalanceCapFraction: t.BalanceCapFraction,
	}
}

func (s *Scheduler) enterStraddle(ctx context.Context, now time.Time, rec advisor.Recommendation) {
	strike := rec.Strike
	if strike == 0 {
		strike = market.NearestStrike(s.feed.Spot())
	}
	expiry := market.WeeklyExpiries(now, expiryLookahead)[0]

	cePrice, ceOK := s.quotePrice(ctx, s.instrument(strike, market.Call, expiry))
	pePrice, peOK := s.quotePrice(ctx, s.instrument(strike, market.Put, expiry))
	if !ceOK || !peOK {
		return
	}

	trade, err := s.builder.Straddle(strike, expiry, cePrice, pePrice, s.compositeParams())
	if err != nil {
		s.recordDenial(err)
		s.logger.Warn("straddle not opened", "strike", strike, "error", err)
		return
	}
	if !s.executeLegs(ctx, trade) {
		return
	}
	s.notifier.NotifyStatus(fmt.Sprintf("📈 Straddle opened @ %.0f, risk ₹%.0f", strike, trade.TotalRisk))
}

func (s *Scheduler) enterStrangle(ctx context.Context, now time.Time, rec advisor.Recommendation) {
	if rec.CEStrike == 0 || rec.PEStrike == 0 {
		s.logger.Warn("strangle recommendation missing strikes")
		return
	}
	expiry := market.WeeklyExpiries(now, expiryLookahead)[0]

	cePrice, ceOK := s.quotePrice(ctx, s.instrument(rec.CEStrike, market.Call, expiry))
	pePrice, peOK := s.quotePrice(ctx, s.instrument(rec.PEStrike, market.Put, expiry))
	if !ceOK || !peOK {
		return
	}

	trade, err := s.builder.Strangle(rec.CEStrike, rec.PEStrike, expiry, cePrice, pePrice, s.compositeParams())
	if err != nil {
		s.recordDenial(err)
		s.logger.Warn("strangle not opened",
			"ce_strike", rec.CEStrike, "pe_strike", rec.PEStrike, "error", err)
		return
	}
	if !s.executeLegs(ctx, trade) {
		return
	}
	s.notifier.NotifyStatus(fmt.Sprintf("📈 Strangle opened CE %.0f / PE %.0f, risk ₹%.0f",
		rec.CEStrike, rec.PEStrike, trade.TotalRisk))
}

func (s *Scheduler) enterSingle(ctx context.Context, now time.Time, strike float64, side market.OptionSide) {
	if strike == 0 {
		strike = market.NearestStrike(s.feed.Spot())
	}
	t := s.config.Trading
	expiry := market.WeeklyExpiries(now, expiryLookahead)[0]
	inst := s.instrument(strike, side, expiry)

	if ok, reason := s.ledger.CanOpen(side, false); !ok {
		metrics.AdmissionDenials.WithLabelValues(string(reason)).Inc()
		s.logger.Info("single entry denied", "side", string(side), "reason", string(reason))
		return
	}

	price, ok := s.quotePrice(ctx, inst)
	if !ok {
		return
	}

	budget := s.ledger.Balance() * t.RiskPerTradeFraction
	lots, err := engine.SizeLots(price, price*(1-t.StopLossPct), budget, t.BalanceCapFraction, s.ledger.Balance(), t.LotSize)
	if err != nil || lots < 1 {
		s.logger.Info("single entry skipped: cannot size", "strike", strike, "error", err)
		return
	}

	fill, err := s.executeOrder(ctx, inst, gateway.ActionBuy, lots)
	if err != nil {
		s.logger.Error("single entry fill failed", "symbol", inst.Symbol(), "error", err)
		return
	}

	entry := fill.FillPrice
	stop := entry * (1 - t.StopLossPct)
	target := entry * (1 + t.TargetPct)

	setup, err := engine.NewSetup(engine.SetupParams{
		Side:             engine.SideLong,
		Entry:            entry,
		StopLoss:         stop,
		Target:           target,
		Quantity:         lots,
		LotSize:          t.LotSize,
		EnteredAt:        now,
		MaxHolding:       s.config.MaxHolding(),
		TrailingEnabled:  t.TrailingEnabled,
		TrailingFraction: t.TrailingFraction,
	})
	if err != nil {
		s.logger.Error("single entry setup", "error", err)
		s.sellBack(ctx, inst, lots)
		return
	}

	if _, err := s.ledger.Open(inst, setup, engine.ClassSingle, uuid.Nil); err != nil {
		s.recordDenial(err)
		s.logger.Warn("single entry denied at open, unwinding fill", "symbol", inst.Symbol(), "error", err)
		s.sellBack(ctx, inst, lots)
		return
	}
	s.notifier.NotifyEntry(inst.Symbol(), "BUY", entry, lots, stop, target)
}

func (s *Scheduler) instrument(strike float64, side market.OptionSide, expiry time.Time) market.Instrument {
	t := s.config.Trading
	return market.Instrument{
		Underlying: t.Underlying, Strike: strike, Side: side,
		Expiry: expiry, LotSize: t.LotSize,
	}
}

// quotePrice discovers the entry price for sizing. Entries buy at the ask.
func (s *Scheduler) quotePrice(ctx context.Context, inst market.Instrument) (float64, bool) {
	qctx, cancel := context.WithTimeout(ctx, quoteTimeout)
	defer cancel()
	quote, err := s.feed.Quote(qctx, inst)
	if err != nil {
		s.logger.Warn("entry quote failed", "symbol", inst.Symbol(), "error", err)
		return 0, false
	}
	return quote.Ask, true
}

func (s *Scheduler) executeOrder(ctx context.Context, inst market.Instrument, action gateway.Action, lots int) (gateway.Fill, error) {
	octx, cancel := context.WithTimeout(ctx, quoteTimeout)
	defer cancel()
	return s.gw.Execute(octx, inst, action, lots)
}

// executeLegs fills each booked leg at the gateway for its booked
// quantity. A failed fill unwinds the composite: filled legs are sold
// back and every leg is closed at its entry price with zero P&L.
func (s *Scheduler) executeLegs(ctx context.Context, trade *engine.CompositeTrade) bool {
	booked := make(map[uuid.UUID]bool, len(trade.Legs))
	for _, id := range trade.Legs {
		booked[id] = true
	}
	var legs []*engine.Position
	for _, p := range s.ledger.OpenPositions() {
		if booked[p.ID] {
			legs = append(legs, p)
		}
	}

	var filled []*engine.Position
	for _, p := range legs {
		if _, err := s.executeOrder(ctx, p.Instrument, gateway.ActionBuy, p.Setup.Quantity()); err != nil {
			s.logger.Error("composite leg fill failed, unwinding",
				"symbol", p.Instrument.Symbol(), "error", err)
			s.unwindLegs(ctx, legs, filled)
			return false
		}
		filled = append(filled, p)
	}
	return true
}

// unwindLegs compensates a partially filled composite: already-filled
// legs are sold back and every booked leg leaves the ledger at its entry
// price with zero P&L.
func (s *Scheduler) unwindLegs(ctx context.Context, legs, filled []*engine.Position) {
	for _, p := range filled {
		s.sellBack(ctx, p.Instrument, p.Setup.Quantity())
	}

	now := s.clock.Now()
	for _, p := range legs {
		ev := engine.ExitEvent{
			PositionID:  p.ID,
			Reason:      engine.ExitForcedClose,
			ExitPrice:   p.Setup.Entry(),
			ExitTime:    now,
			RealizedPnL: 0,
		}
		if err := s.ledger.ApplyExit(p.ID, ev); err != nil {
			s.logger.Error("composite unwind", "position_id", p.ID, "error", err)
		}
	}
}

func (s *Scheduler) sellBack(ctx context.Context, inst market.Instrument, lots int) {
	if _, err := s.executeOrder(ctx, inst, gateway.ActionSell, lots); err != nil {
		s.logger.Error("compensating sell failed", "symbol", inst.Symbol(), "lots", lots, "error", err)
	}
}

func (s *Scheduler) recordDenial(err error) {
	var denied *engine.AdmissionError
	if errors.As(err, &denied) {
		metrics.AdmissionDenials.WithLabelValues(string(denied.Reason)).Inc()
	}
}

// closeOutIfNeeded flattens the book once the session has ended. Skipped
// positions stay active and are retried on the next cycle via the
// AlreadyExited guard.
func (s *Scheduler) closeOutIfNeeded(ctx context.Context, now time.Time) {
	open := s.ledger.OpenPositions()
	if len(open) == 0 {
		return
	}

	s.logger.Info("session closed with open positions, force closing", "count", len(open))
	closed, skipped := s.ledger.ForceCloseAll(engine.ExitForcedClose, s.priceOf(ctx))
	for _, ev := range closed {
		metrics.ExitsByReason.WithLabelValues(string(ev.Reason)).Inc()
		s.notifyExit(ev)
	}
	for _, sk := range skipped {
		s.logger.Warn("force close skipped position",
			"position_id", sk.PositionID, "symbol", sk.Symbol, "error", sk.Err)
	}
}

func (s *Scheduler) rolloverIfNeeded(now time.Time) {
	if s.lastDay.IsZero() {
		s.lastDay = now
		return
	}
	if s.cal.SameTradingDay(s.lastDay, now) {
		return
	}

	s.logger.Info("new trading day", "daily_pnl_prev", s.ledger.DailyPnL())
	s.ledger.ResetDay()
	s.closes = nil
	s.lastDay = now
	s.notifier.NotifyStatus(fmt.Sprintf("🌅 New trading day, balance ₹%.2f", s.ledger.Balance()))
}

func (s *Scheduler) recordSpot(spot float64) {
	s.closes = append(s.closes, spot)
	if len(s.closes) > priceHistory {
		s.closes = s.closes[1:]
	}
}

func (s *Scheduler) notifyExit(ev engine.ExitEvent) {
	for _, p := range s.ledger.History() {
		if p.ID == ev.PositionID {
			s.notifier.NotifyExit(p.Instrument.Symbol(), ev.ExitPrice, p.Setup.Quantity(), ev.RealizedPnL, string(ev.Reason))
			return
		}
	}
}

func (s *Scheduler) saveSummary(now time.Time, exp engine.Exposure) {
	summary := &storage.DailySummary{
		TradingDay:    now,
		Balance:       exp.Balance,
		DailyPnL:      exp.PnLDay,
		OpenPositions: exp.Total(),
		CallPositions: exp.Call,
		PutPositions:  exp.Put,
		SpreadLegs:    exp.Spread,
	}
	if err := s.repo.SaveDailySummary(summary); err != nil {
		s.logger.Error("save daily summary", "error", err)
	}
}
