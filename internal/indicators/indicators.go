package indicators

import (
	"github.com/markcheno/go-talib"
)

// Snapshot is a black-box view of the underlying's short-term technicals.
// The engine never looks inside it; it only feeds strategy selection.
type Snapshot struct {
	Last  float64
	VWAP  float64
	EMA9  float64
	EMA21 float64
	RSI14 float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64
}

// Compute derives the snapshot from recent closes and volumes, most recent
// last. Indicators with insufficient history are left at zero; callers
// treat a zero field as "no signal".
func Compute(closes, volumes []float64) Snapshot {
	snap := Snapshot{}
	n := len(closes)
	if n == 0 {
		return snap
	}
	snap.Last = closes[n-1]
	snap.VWAP = vwap(closes, volumes)

	if n >= 9 {
		snap.EMA9 = last(talib.Ema(closes, 9))
	}
	if n >= 21 {
		snap.EMA21 = last(talib.Ema(closes, 21))
	}
	if n >= 15 {
		snap.RSI14 = last(talib.Rsi(closes, 14))
	}
	if n >= 35 {
		macd, signal, hist := talib.Macd(closes, 12, 26, 9)
		snap.MACD = last(macd)
		snap.MACDSignal = last(signal)
		snap.MACDHist = last(hist)
	}
	return snap
}

// vwap is the volume-weighted average price over the window. talib has no
// VWAP; the weighting is trivial enough to do directly.
func vwap(closes, volumes []float64) float64 {
	if len(volumes) != len(closes) || len(closes) == 0 {
		return 0
	}
	var pv, v float64
	for i := range closes {
		pv += closes[i] * volumes[i]
		v += volumes[i]
	}
	if v == 0 {
		return 0
	}
	return pv / v
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}
