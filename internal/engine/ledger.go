package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
)

// PriceFunc looks up the current price for an instrument. Implementations
// wrap the market-data collaborator and may fail.
type PriceFunc func(inst market.Instrument) (float64, error)

// Recorder persists trade and exit events. Calls are fire-and-forget from
// the ledger's point of view: failures are logged, never fatal to decision
// logic.
type Recorder interface {
	RecordTrade(p *Position) error
	RecordExit(p *Position, ev ExitEvent) error
}

// Skipped describes a position force-close could not handle this pass.
type Skipped struct {
	PositionID uuid.UUID
	Symbol     string
	Err        error
}

// Ledger owns the authoritative set of open positions, the per-class
// counters and the daily P&L. All mutations are serialized behind one
// mutex; exit evaluation itself is pure and events are applied in stable
// position-id order so counters and P&L stay deterministic.
type Ledger struct {
	mu sync.Mutex

	clock     Clock
	log       *logger.Logger
	admission *AdmissionController
	evaluator ExitEvaluator
	recorder  Recorder // optional

	balance  float64
	dailyPnL float64

	open    map[uuid.UUID]*Position
	history []*Position

	callCount   int
	putCount    int
	spreadCount int
}

func NewLedger(balance float64, admission *AdmissionController, evaluator ExitEvaluator, clock Clock, log *logger.Logger, recorder Recorder) *Ledger {
	if clock == nil {
		clock = SystemClock()
	}
	return &Ledger{
		clock:     clock,
		log:       log,
		admission: admission,
		evaluator: evaluator,
		recorder:  recorder,
		balance:   balance,
		open:      make(map[uuid.UUID]*Position),
	}
}

// Exposure snapshots the counters for admission checks and dashboards.
func (l *Ledger) Exposure() Exposure {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exposureLocked()
}

func (l *Ledger) exposureLocked() Exposure {
	return Exposure{
		Call:    l.callCount,
		Put:     l.putCount,
		Spread:  l.spreadCount,
		PnLDay:  l.dailyPnL,
		Balance: l.balance,
	}
}

func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) DailyPnL() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dailyPnL
}

// CanOpen runs the admission checklist against the current exposure
// without opening anything.
func (l *Ledger) CanOpen(side market.OptionSide, isSpread bool) (bool, DenyReason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admission.CanOpen(l.exposureLocked(), side, isSpread, l.clock.Now())
}

// Open admits and books a new ACTIVE position. On denial it returns an
// *AdmissionError carrying the checklist reason.
func (l *Ledger) Open(inst market.Instrument, setup Setup, class Class, compositeID uuid.UUID) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	isSpread := class == ClassSpreadLeg
	ok, reason := l.admission.CanOpen(l.exposureLocked(), inst.Side, isSpread, l.clock.Now())
	if !ok {
		return uuid.Nil, &AdmissionError{Reason: reason}
	}

	p := &Position{
		ID:          uuid.New(),
		Instrument:  inst,
		Setup:       setup,
		Class:       class,
		CompositeID: compositeID,
		Status:      StatusActive,
	}
	p.observePrice(setup.Entry())

	l.open[p.ID] = p
	switch inst.Side {
	case market.Call:
		l.callCount++
	case market.Put:
		l.putCount++
	}
	if isSpread {
		l.spreadCount++
	}

	l.record(func(r Recorder) error { return r.RecordTrade(p) }, "record trade", p.ID)

	l.log.Info("position opened",
		"position_id", p.ID, "symbol", inst.Symbol(), "side", setup.Side().String(),
		"lots", setup.Quantity(), "entry", setup.Entry(),
		"stop", setup.StopLoss(), "target", setup.Target())
	return p.ID, nil
}

// ApplyExit applies one exit event. Exits to positions already in the
// history signal ErrAlreadyExited and change nothing, so re-applying the
// same event never double-counts P&L. An id the ledger has never seen is
// a caller bug and fails with ErrUnknownPosition.
func (l *Ledger) ApplyExit(id uuid.UUID, ev ExitEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applyExitLocked(id, ev)
}

func (l *Ledger) applyExitLocked(id uuid.UUID, ev ExitEvent) error {
	p, ok := l.open[id]
	if !ok {
		for _, h := range l.history {
			if h.ID == id {
				return ErrAlreadyExited
			}
		}
		return fmt.Errorf("apply exit %s: %w", id, ErrUnknownPosition)
	}

	exit := ev
	exit.PositionID = id
	p.Exit = &exit
	p.Status = StatusExited

	delete(l.open, id)
	l.history = append(l.history, p)

	switch p.Instrument.Side {
	case market.Call:
		if l.callCount > 0 {
			l.callCount--
		}
	case market.Put:
		if l.putCount > 0 {
			l.putCount--
		}
	}
	if p.Class == ClassSpreadLeg && l.spreadCount > 0 {
		l.spreadCount--
	}

	l.dailyPnL += exit.RealizedPnL
	l.balance += exit.RealizedPnL

	l.record(func(r Recorder) error { return r.RecordExit(p, exit) }, "record exit", id)

	l.log.Info("position exited",
		"position_id", id, "symbol", p.Instrument.Symbol(),
		"reason", string(exit.Reason), "exit_price", exit.ExitPrice,
		"pnl", exit.RealizedPnL, "daily_pnl", l.dailyPnL)
	return nil
}

// Tick evaluates every ACTIVE position against a fresh price and applies
// the exits that fire, in ascending position-id order. Positions whose
// quote lookup fails are skipped for this tick; a missing quote never
// counts as "the position is safe".
func (l *Ledger) Tick(priceOf PriceFunc) []ExitEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	var applied []ExitEvent

	for _, p := range l.activeLocked() {
		price, err := priceOf(p.Instrument)
		if err != nil {
			l.log.Warn("quote lookup failed, skipping tick",
				"position_id", p.ID, "symbol", p.Instrument.Symbol(), "error", err)
			continue
		}

		p.observePrice(price)
		ev, fired := l.evaluator.Evaluate(p, price, now)
		if !fired {
			continue
		}
		if err := l.applyExitLocked(p.ID, ev); err != nil {
			l.log.Error("apply exit", "position_id", p.ID, "error", err)
			continue
		}
		applied = append(applied, ev)
	}
	return applied
}

// ForceCloseAll exits every ACTIVE position with the given reason at the
// looked-up price. Positions whose quote fails are skipped and reported,
// not silently dropped. Safe to re-invoke after an interruption: legs
// closed by an earlier pass are no longer ACTIVE and are not revisited.
func (l *Ledger) ForceCloseAll(reason ExitReason, priceOf PriceFunc) ([]ExitEvent, []Skipped) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	var closed []ExitEvent
	var skipped []Skipped

	for _, p := range l.activeLocked() {
		price, err := priceOf(p.Instrument)
		if err != nil {
			skipped = append(skipped, Skipped{PositionID: p.ID, Symbol: p.Instrument.Symbol(), Err: err})
			continue
		}

		ev := ExitEvent{
			PositionID:  p.ID,
			Reason:      reason,
			ExitPrice:   price,
			ExitTime:    now,
			RealizedPnL: p.Setup.PnLAt(price),
		}
		if err := l.applyExitLocked(p.ID, ev); err != nil {
			if errors.Is(err, ErrAlreadyExited) {
				continue
			}
			skipped = append(skipped, Skipped{PositionID: p.ID, Symbol: p.Instrument.Symbol(), Err: err})
			continue
		}
		closed = append(closed, ev)
	}

	if len(skipped) > 0 {
		l.log.Warn("force close left positions active", "skipped", len(skipped))
	}
	return closed, skipped
}

// activeLocked returns the ACTIVE positions sorted by id for deterministic
// application order.
func (l *Ledger) activeLocked() []*Position {
	positions := make([]*Position, 0, len(l.open))
	for _, p := range l.open {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].ID.String() < positions[j].ID.String()
	})
	return positions
}

// OpenPositions returns a snapshot of the ACTIVE positions.
func (l *Ledger) OpenPositions() []*Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeLocked()
}

// History returns the exited positions, oldest first.
func (l *Ledger) History() []*Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Position, len(l.history))
	copy(out, l.history)
	return out
}

// UpdateStopLoss replaces the position's setup with a revalidated copy
// holding the new stop. The original setup is never mutated.
func (l *Ledger) UpdateStopLoss(id uuid.UUID, stop float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.open[id]
	if !ok {
		return fmt.Errorf("update stop %s: %w", id, ErrUnknownPosition)
	}

	updated, err := p.Setup.WithStopLoss(stop)
	if err != nil {
		return err
	}
	p.Setup = updated

	l.log.Info("stop loss updated", "position_id", id, "stop", stop)
	return nil
}

// ResetDay zeroes the daily P&L accumulator at the session boundary and
// resyncs the per-class counters from the open book. An intraday book is
// expected to be flat by then; a carried-over position is logged loudly
// but the counters still end up matching what is actually open.
func (l *Ledger) ResetDay() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.dailyPnL = 0

	l.callCount, l.putCount, l.spreadCount = 0, 0, 0
	for _, p := range l.open {
		switch p.Instrument.Side {
		case market.Call:
			l.callCount++
		case market.Put:
			l.putCount++
		}
		if p.Class == ClassSpreadLeg {
			l.spreadCount++
		}
	}
	if len(l.open) > 0 {
		l.log.Warn("day reset with positions still open", "count", len(l.open))
	}
}

func (l *Ledger) record(fn func(Recorder) error, op string, id uuid.UUID) {
	if l.recorder == nil {
		return
	}
	if err := fn(l.recorder); err != nil {
		l.log.Error(op, "position_id", id, "error", err)
	}
}
