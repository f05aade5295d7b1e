package div40

import (
	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// MaxScheduleYears bounds open-ended schedules. Diminishing value never
// quite reaches zero on its own; the sub-dollar cut-off ends it well before
// this.
const MaxScheduleYears = 100

// ScheduleEntry is one line of an asset's depreciation schedule. Opening and
// Closing are the written-down value (or pool balance) either side of the
// deduction.
type ScheduleEntry struct {
	FinancialYear int
	OpeningValue  decimal.Decimal
	Deduction     decimal.Decimal
	ClosingValue  decimal.Decimal
}

// Schedule lists the asset's first years from its purchase financial year.
// With years <= 0 it runs until the asset stops producing deductions.
func (a Asset) Schedule(years int) []ScheduleEntry {
	openEnded := years <= 0
	if openEnded || years > MaxScheduleYears {
		years = MaxScheduleYears
	}

	steps := a.steps(years)
	purchaseFY := a.PurchaseFinancialYear()

	entries := make([]ScheduleEntry, 0, len(steps))
	for i, s := range steps {
		if openEnded && s.Deduction.IsZero() && i > 0 {
			break
		}
		entries = append(entries, ScheduleEntry{
			FinancialYear: purchaseFY + i,
			OpeningValue:  generic.Round2(s.Opening),
			Deduction:     s.Deduction,
			ClosingValue:  generic.Round2(s.Closing),
		})
	}
	return entries
}

// TotalDeducted sums the deductions of a schedule.
func TotalDeducted(entries []ScheduleEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Deduction)
	}
	return total
}
