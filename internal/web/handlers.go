package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/Aditya2838/new-market/internal/storage"
)

type OpenPosition struct {
	Symbol       string
	Side         string
	Entry        float64
	Lots         int
	StopLoss     float64
	Target       float64
	EnteredAt    time.Time
	CurrentPrice float64
	PnL          float64
	PnLPercent   float64
}

type DashboardData struct {
	Underlying     string
	Spot           float64
	Balance        float64
	DailyPnL       float64
	TotalPnL       float64
	OpenPositions  []OpenPosition
	RecentTrades   []storage.Trade
	PositionsCount int
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	exp := s.ledger.Exposure()
	data := DashboardData{
		Underlying:     s.config.Trading.Underlying,
		Spot:           s.feed.Spot(),
		Balance:        exp.Balance,
		DailyPnL:       exp.PnLDay,
		PositionsCount: exp.Total(),
	}

	if totalPnL, err := s.repo.GetTotalPnL(); err == nil {
		data.TotalPnL = totalPnL
	}

	data.OpenPositions = s.livePositions(r.Context())

	if trades, err := s.repo.GetRecentTrades(20); err == nil {
		data.RecentTrades = trades
	}

	tmpl, err := template.ParseFiles("templates/dashboard.html")
	if err != nil {
		s.logger.Error("parse template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("execute template", "error", err)
	}
}

// livePositions snapshots the open book and enriches it with current
// quotes. A failed quote leaves CurrentPrice at zero rather than hiding
// the row.
func (s *Server) livePositions(ctx context.Context) []OpenPosition {
	positions := s.ledger.OpenPositions()
	result := make([]OpenPosition, 0, len(positions))

	for _, p := range positions {
		setup := p.Setup
		op := OpenPosition{
			Symbol:    p.Instrument.Symbol(),
			Side:      setup.Side().String(),
			Entry:     setup.Entry(),
			Lots:      setup.Quantity(),
			StopLoss:  setup.StopLoss(),
			Target:    setup.Target(),
			EnteredAt: setup.EnteredAt(),
		}

		qctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		quote, err := s.feed.Quote(qctx, p.Instrument)
		cancel()
		if err == nil {
			price := quote.Mid()
			op.CurrentPrice = price
			op.PnL = setup.PnLAt(price)
			if setup.Entry() > 0 {
				op.PnLPercent = (price - setup.Entry()) / setup.Entry() * 100
			}
		}
		result = append(result, op)
	}
	return result
}
