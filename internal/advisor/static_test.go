package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya2838/new-market/internal/market"
)

func TestStaticRecommendations_Opening(t *testing.T) {
	recs := StaticRecommendations(&MarketView{Slot: market.SlotOpening, Spot: 25012})
	require.Len(t, recs, 1)
	assert.Equal(t, StrategyStraddle, recs[0].Strategy)
	assert.Equal(t, 25000.0, recs[0].Strike)
	assert.GreaterOrEqual(t, recs[0].Confidence, 60)
}

func TestStaticRecommendations_Morning(t *testing.T) {
	recs := StaticRecommendations(&MarketView{Slot: market.SlotMorning, Spot: 25012})
	require.Len(t, recs, 1)
	assert.Equal(t, StrategyStrangle, recs[0].Strategy)
	assert.Equal(t, 25100.0, recs[0].CEStrike)
	assert.Equal(t, 24900.0, recs[0].PEStrike)
}

func TestStaticRecommendations_QuietSlots(t *testing.T) {
	for _, slot := range []market.TimeSlot{
		market.SlotPreMarket, market.SlotMidDay, market.SlotAfternoon, market.SlotClosing,
	} {
		assert.Empty(t, StaticRecommendations(&MarketView{Slot: slot, Spot: 25000}), "slot %s", slot)
	}
}
