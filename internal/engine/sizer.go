package engine

import "math"

// SizeLots converts a risk budget into a lot count.
//
// Lots = floor(riskBudget / riskPerLot), floored to a minimum of 1, then
// capped so the committed premium (lots * entry * lotSize) stays within
// balanceCapFraction of the account balance. The cap can push the result
// to 0, meaning the contract is unaffordable at the requested exposure.
//
// Pure and deterministic; no rounding other than the two floors.
func SizeLots(entry, stop, riskBudget, balanceCapFraction, balance float64, lotSize int) (int, error) {
	riskPerLot := math.Abs(entry-stop) * float64(lotSize)
	if riskPerLot <= 0 {
		return 0, invalidSetupf("risk per lot is zero: entry %.2f equals stop %.2f", entry, stop)
	}
	if entry <= 0 {
		return 0, invalidSetupf("entry price %.2f must be positive", entry)
	}

	lots := int(riskBudget / riskPerLot)
	if lots < 1 {
		lots = 1
	}

	maxByBalance := int(balance * balanceCapFraction / (entry * float64(lotSize)))
	if lots > maxByBalance {
		lots = maxByBalance
	}

	return lots, nil
}
