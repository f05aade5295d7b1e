package div40

import (
	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// =============================================================================
// LOW-VALUE POOL
// =============================================================================

// PoolDeduction is the low-value pool deduction for one year: 18.75% of the
// opening balance plus 37.5% of this year's additions.
//
// Callers that want one shared pool across assets aggregate the balance
// themselves and call this directly.
func PoolDeduction(openingBalance, additions decimal.Decimal) decimal.Decimal {
	return generic.Round2(openingBalance.Mul(PoolRate).Add(additions.Mul(PoolFirstYearRate)))
}

// LowValuePool returns the deduction for yearIndex (0 = purchase year) of a
// single asset's pool balance.
func LowValuePool(cost decimal.Decimal, yearIndex int) decimal.Decimal {
	if yearIndex < 0 {
		return decimal.Zero
	}
	steps := poolSteps(cost, yearIndex+1)
	return steps[yearIndex].Deduction
}

func poolSteps(cost decimal.Decimal, years int) []yearStep {
	steps := make([]yearStep, 0, years)
	balance := cost

	for y := 0; y < years; y++ {
		if balance.LessThanOrEqual(generic.OneCent) {
			steps = append(steps, yearStep{Opening: balance, Deduction: decimal.Zero, Closing: balance})
			continue
		}

		var deduction decimal.Decimal
		if y == 0 {
			deduction = PoolDeduction(decimal.Zero, balance)
		} else {
			deduction = PoolDeduction(balance, decimal.Zero)
		}

		steps = append(steps, yearStep{Opening: balance, Deduction: deduction, Closing: balance.Sub(deduction)})
		balance = balance.Sub(deduction)
	}
	return steps
}

// ImmediateWriteOff returns the full cost in the purchase year and zero after.
func ImmediateWriteOff(cost decimal.Decimal, yearIndex int) decimal.Decimal {
	if yearIndex != 0 {
		return decimal.Zero
	}
	return generic.Round2(cost)
}

// immediateSteps writes the whole cost off in year 0.
func immediateSteps(cost decimal.Decimal, years int) []yearStep {
	steps := make([]yearStep, 0, years)
	for y := 0; y < years; y++ {
		if y == 0 {
			deduction := generic.Round2(cost)
			steps = append(steps, yearStep{Opening: cost, Deduction: deduction, Closing: cost.Sub(deduction)})
			continue
		}
		closing := steps[0].Closing
		steps = append(steps, yearStep{Opening: closing, Deduction: decimal.Zero, Closing: closing})
	}
	return steps
}
