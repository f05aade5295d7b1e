package div40

import (
	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// PrimeCost returns the deduction for yearIndex (0 = purchase year) under the
// prime cost method.
//
// A pro-rated first year leaves a shortfall, so the schedule runs one year
// past the effective life and the last year claims exactly what remains.
func PrimeCost(cost, effectiveLife decimal.Decimal, yearIndex, daysInFirstYear int) decimal.Decimal {
	if yearIndex < 0 {
		return decimal.Zero
	}
	steps := primeCostSteps(cost, effectiveLife, daysInFirstYear, yearIndex+1)
	return steps[yearIndex].Deduction
}

func primeCostSteps(cost, effectiveLife decimal.Decimal, daysInFirstYear, years int) []yearStep {
	steps := make([]yearStep, 0, years)
	if !effectiveLife.IsPositive() {
		for y := 0; y < years; y++ {
			steps = append(steps, yearStep{Opening: cost, Deduction: decimal.Zero, Closing: cost})
		}
		return steps
	}

	annual := cost.Div(effectiveLife)
	deducted := decimal.Zero

	for y := 0; y < years; y++ {
		remaining := cost.Sub(deducted)
		if remaining.LessThanOrEqual(generic.OneCent) {
			steps = append(steps, yearStep{Opening: remaining, Deduction: decimal.Zero, Closing: remaining})
			continue
		}

		var deduction decimal.Decimal
		if y == 0 {
			deduction = decimal.Min(generic.ProRata(annual, daysInFirstYear), remaining)
		} else {
			deduction = generic.Round2(decimal.Min(annual, remaining))
		}

		deducted = deducted.Add(deduction)
		steps = append(steps, yearStep{Opening: remaining, Deduction: deduction, Closing: remaining.Sub(deduction)})
	}
	return steps
}
