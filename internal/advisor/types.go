package advisor

import (
	"github.com/Aditya2838/new-market/internal/indicators"
	"github.com/Aditya2838/new-market/internal/market"
)

// MarketView is everything the advisor sees before recommending entries.
type MarketView struct {
	Slot       market.TimeSlot
	Spot       float64
	Indicators indicators.Snapshot

	OpenCall   int
	OpenPut    int
	OpenSpread int
	Balance    float64
	DailyPnL   float64
}

// Recommendation is one strategy suggestion. Strikes are absolute levels
// on the option grid.
type Recommendation struct {
	Strategy   string  `json:"strategy"` // STRADDLE, STRANGLE, BUY_CE, BUY_PE, HOLD
	Strike     float64 `json:"strike"`
	CEStrike   float64 `json:"ce_strike"`
	PEStrike   float64 `json:"pe_strike"`
	Confidence int     `json:"confidence"` // 0-100
	Reasoning  string  `json:"reasoning"`
}

const (
	StrategyStraddle = "STRADDLE"
	StrategyStrangle = "STRANGLE"
	StrategyBuyCE    = "BUY_CE"
	StrategyBuyPE    = "BUY_PE"
	StrategyHold     = "HOLD"
)
