package div40

import (
	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// yearStep is one simulated year: the value carried in, what was deducted
// and what was carried out.
type yearStep struct {
	Opening   decimal.Decimal
	Deduction decimal.Decimal
	Closing   decimal.Decimal
}

// DiminishingValue returns the deduction for yearIndex (0 = purchase year)
// under the diminishing value method.
//
// Every year is rounded to cents before it reduces the written-down value,
// so later years depend on the rounded history.
func DiminishingValue(cost, effectiveLife decimal.Decimal, yearIndex, daysInFirstYear int) decimal.Decimal {
	if yearIndex < 0 {
		return decimal.Zero
	}
	steps := diminishingSteps(cost, effectiveLife, daysInFirstYear, yearIndex+1)
	return steps[yearIndex].Deduction
}

func diminishingSteps(cost, effectiveLife decimal.Decimal, daysInFirstYear, years int) []yearStep {
	steps := make([]yearStep, 0, years)
	wdv := cost

	for y := 0; y < years; y++ {
		if !effectiveLife.IsPositive() || wdv.LessThan(residualValue) {
			steps = append(steps, yearStep{Opening: wdv, Deduction: decimal.Zero, Closing: wdv})
			continue
		}

		annual := wdv.Mul(diminishingMultiplier).Div(effectiveLife)
		var deduction decimal.Decimal
		if y == 0 {
			deduction = generic.ProRata(annual, daysInFirstYear)
		} else {
			deduction = generic.Round2(annual)
		}

		steps = append(steps, yearStep{Opening: wdv, Deduction: deduction, Closing: wdv.Sub(deduction)})
		wdv = wdv.Sub(deduction)
	}
	return steps
}
