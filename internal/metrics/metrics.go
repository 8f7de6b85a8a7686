package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdmissionDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trader_admission_denials_total",
		Help: "Entries denied by the admission checklist, by reason.",
	}, []string{"reason"})

	ExitsByReason = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trader_exits_total",
		Help: "Position exits, by trigger reason.",
	}, []string{"reason"})

	OpenPositions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trader_open_positions",
		Help: "Currently active positions.",
	})

	DailyPnL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trader_daily_pnl_rupees",
		Help: "Realized P&L for the current trading day.",
	})
)
