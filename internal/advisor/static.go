package advisor

import (
	"github.com/Aditya2838/new-market/internal/market"
)

// StaticRecommendations maps the current time slot to the slot's stock
// playbook: straddles into the open, strangles for morning volatility
// expansion, nothing through the dull mid-day, and no fresh entries into
// the close. Used when the DeepSeek advisor is disabled or unreachable.
func StaticRecommendations(view *MarketView) []Recommendation {
	atm := market.NearestStrike(view.Spot)

	switch view.Slot {
	case market.SlotOpening:
		return []Recommendation{{
			Strategy:   StrategyStraddle,
			Strike:     atm,
			Confidence: 70,
			Reasoning:  "ATM straddle for opening gap volatility",
		}}
	case market.SlotMorning:
		return []Recommendation{{
			Strategy:   StrategyStrangle,
			CEStrike:   atm + 100,
			PEStrike:   atm - 100,
			Confidence: 65,
			Reasoning:  "OTM strangle for morning volatility expansion",
		}}
	default:
		return nil
	}
}
