package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendations_Array(t *testing.T) {
	text := `[
		{"strategy": "STRADDLE", "strike": 25000, "confidence": 75, "reasoning": "opening vol"},
		{"strategy": "BUY_CE", "strike": 25100, "confidence": 65, "reasoning": "trend"}
	]`

	recs, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, StrategyStraddle, recs[0].Strategy)
	assert.Equal(t, 25000.0, recs[0].Strike)
	assert.Equal(t, 75, recs[0].Confidence)
	assert.Equal(t, StrategyBuyCE, recs[1].Strategy)
}

func TestParseRecommendations_SingleObject(t *testing.T) {
	text := `{"strategy": "STRANGLE", "ce_strike": 25200, "pe_strike": 24800, "confidence": 70, "reasoning": "vol expansion"}`

	recs, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, StrategyStrangle, recs[0].Strategy)
	assert.Equal(t, 25200.0, recs[0].CEStrike)
	assert.Equal(t, 24800.0, recs[0].PEStrike)
}

func TestParseRecommendations_MarkdownFences(t *testing.T) {
	text := "```json\n[{\"strategy\": \"HOLD\", \"confidence\": 80, \"reasoning\": \"dull mid-day\"}]\n```"

	recs, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, StrategyHold, recs[0].Strategy)
}

func TestParseRecommendations_ThinkTags(t *testing.T) {
	text := `<think>
The market just opened, IV is elevated, a straddle captures either direction.
</think>
[{"strategy": "STRADDLE", "strike": 25000, "confidence": 72, "reasoning": "opening"}]`

	recs, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, StrategyStraddle, recs[0].Strategy)
}

func TestParseRecommendations_EmbeddedInProse(t *testing.T) {
	text := `Based on the indicators I suggest the following:
[{"strategy": "BUY_PE", "strike": 24900, "confidence": 68, "reasoning": "breakdown"}]
Watch the VWAP for confirmation.`

	recs, err := ParseRecommendations(text)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, StrategyBuyPE, recs[0].Strategy)
}

func TestParseRecommendations_EmptyArray(t *testing.T) {
	recs, err := ParseRecommendations("[]")
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = ParseRecommendations("<think>nothing to do</think>")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseRecommendations_Garbage(t *testing.T) {
	_, err := ParseRecommendations("the market looks choppy today")
	assert.Error(t, err)
}

func TestStripThinkTags(t *testing.T) {
	assert.Equal(t, "answer", StripThinkTags("<think>reasoning\nacross lines</think>answer"))
	assert.Equal(t, "no tags here", StripThinkTags("no tags here"))
}
