package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_EmptySeries(t *testing.T) {
	snap := Compute(nil, nil)
	assert.Zero(t, snap.Last)
	assert.Zero(t, snap.VWAP)
	assert.Zero(t, snap.RSI14)
}

func TestCompute_ShortSeriesLeavesIndicatorsZero(t *testing.T) {
	closes := []float64{100, 101, 102}
	volumes := []float64{1, 1, 1}

	snap := Compute(closes, volumes)
	assert.Equal(t, 102.0, snap.Last)
	assert.Equal(t, 101.0, snap.VWAP)
	assert.Zero(t, snap.EMA9, "three bars cannot seed a 9-period EMA")
	assert.Zero(t, snap.RSI14)
	assert.Zero(t, snap.MACD)
}

func TestCompute_FullWindow(t *testing.T) {
	closes := make([]float64, 40)
	volumes := make([]float64, 40)
	for i := range closes {
		closes[i] = 25000 + float64(i)*10 // steady uptrend
		volumes[i] = 1
	}

	snap := Compute(closes, volumes)
	assert.Equal(t, closes[39], snap.Last)
	assert.NotZero(t, snap.EMA9)
	assert.NotZero(t, snap.EMA21)
	assert.Greater(t, snap.EMA9, snap.EMA21, "short EMA leads in an uptrend")
	assert.Greater(t, snap.RSI14, 50.0, "RSI reads strong in a pure uptrend")
	assert.LessOrEqual(t, snap.RSI14, 100.0)
	assert.NotZero(t, snap.MACD)
}

func TestVWAP_WeightsByVolume(t *testing.T) {
	closes := []float64{100, 200}
	volumes := []float64{3, 1}
	assert.Equal(t, 125.0, vwap(closes, volumes))

	assert.Zero(t, vwap(closes, []float64{1}), "mismatched lengths give no signal")
	assert.Zero(t, vwap(closes, []float64{0, 0}))
}
