package advisor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an experienced intraday trader of NIFTY index options on the NSE.
You receive the current index level, short-term technical indicators and the
state of the open book. Recommend entries for this tick: STRADDLE (buy CE
and PE at the same ATM strike), STRANGLE (buy OTM CE and OTM PE at different
strikes), BUY_CE, BUY_PE, or HOLD.

Rules:
1. All strikes must be multiples of 50.
2. For STRADDLE set "strike" to the ATM strike. For STRANGLE set "ce_strike"
   above spot and "pe_strike" below spot.
3. Respect the book: if CE or PE exposure is already heavy, do not add to it.
4. Confidence is 0-100; recommend nothing you would not rate at least 60.
5. Straddles suit the opening; strangles suit volatility expansion in the
   morning; prefer HOLD in the dull mid-day unless indicators disagree.
6. If the day's P&L is already deeply negative, recommend HOLD.

Answer strictly as a JSON array:
[
  {
    "strategy": "STRADDLE",
    "strike": 25000,
    "ce_strike": 0,
    "pe_strike": 0,
    "confidence": 75,
    "reasoning": "why"
  }
]

If there is nothing worth entering, return an empty array [].`

func BuildUserPrompt(view *MarketView) string {
	var sb strings.Builder

	sb.WriteString("## Market\n")
	sb.WriteString(fmt.Sprintf("Spot: %.2f | Time slot: %s\n\n", view.Spot, view.Slot))

	sb.WriteString("## Indicators\n")
	ind := view.Indicators
	sb.WriteString(fmt.Sprintf("VWAP: %.2f | EMA9: %.2f | EMA21: %.2f | RSI14: %.1f\n",
		ind.VWAP, ind.EMA9, ind.EMA21, ind.RSI14))
	sb.WriteString(fmt.Sprintf("MACD: %.3f | Signal: %.3f | Hist: %.3f\n\n",
		ind.MACD, ind.MACDSignal, ind.MACDHist))

	sb.WriteString("## Book\n")
	sb.WriteString(fmt.Sprintf("Open CE: %d | Open PE: %d | Spread legs: %d\n",
		view.OpenCall, view.OpenPut, view.OpenSpread))
	sb.WriteString(fmt.Sprintf("Balance: ₹%.2f | Day P&L: ₹%.2f\n\n", view.Balance, view.DailyPnL))

	sb.WriteString("Recommend entries as JSON.")

	return sb.String()
}
