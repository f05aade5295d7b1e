/*
Package div43 implements capital works deductions (Division 43).

PURPOSE:
  Buildings and structural improvements are written off at a flat 2.5% of
  construction cost per year. Unlike plant & equipment there is no choice of
  method and no pooling.

CLAIM WINDOW:
  The 40-year life runs from the financial year construction was completed,
  regardless of who owned the building. A later owner (ClaimStartDate after
  ConstructionDate) only gets whatever is left of those 40 years:

    built 2000-03-01 (FY2000) -> claimable through FY2039
    bought 2025-10-01         -> claims FY2026 (pro-rated) to FY2039

  The first claim year is pro-rated by days held; every other year in the
  window gets the full annual amount. A claim start recorded before
  construction finished yields nothing until the construction year.

EXAMPLE:
  work := div43.CapitalWork{
      ID:               "building",
      ConstructionCost: decimal.NewFromInt(400000),
      ConstructionDate: generic.NewTimePoint(2020, time.January, 1),
      ClaimStartDate:   generic.NewTimePoint(2026, time.January, 1),
  }
  work.DeductionFor(2026) // 4958.90 (181 of 365 days)
  work.DeductionFor(2027) // 10000.00

SEE ALSO:
  - generic/schedule.go: DeductionSchedule interface
  - div40: Plant & equipment counterpart
*/
package div43

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// ClaimLifeYears is how many financial years a building can be claimed for,
// counted from the construction year.
const ClaimLifeYears = 40

// Rate is the flat annual rate on construction cost.
var Rate = decimal.RequireFromString("0.025")

// =============================================================================
// CAPITAL WORK
// =============================================================================

// CapitalWork is a building or structural improvement.
type CapitalWork struct {
	ID               string
	Description      string
	ConstructionCost decimal.Decimal
	ConstructionDate generic.TimePoint
	ClaimStartDate   generic.TimePoint
}

// Validate checks the preconditions the formula relies on.
func (w CapitalWork) Validate() error {
	var errs []error
	if w.ConstructionCost.IsNegative() {
		errs = append(errs, &generic.FieldError{RecordID: w.ID, Field: "construction_cost", Err: generic.ErrNegativeCost})
	}
	if w.ConstructionDate.IsZero() {
		errs = append(errs, &generic.FieldError{RecordID: w.ID, Field: "construction_date", Err: generic.ErrMissingDate})
	}
	if w.ClaimStartDate.IsZero() {
		errs = append(errs, &generic.FieldError{RecordID: w.ID, Field: "claim_start_date", Err: generic.ErrMissingDate})
	}
	return errors.Join(errs...)
}

// AnnualDeduction is 2.5% of construction cost, rounded to cents.
func (w CapitalWork) AnnualDeduction() decimal.Decimal {
	return generic.Round2(w.ConstructionCost.Mul(Rate))
}

// ConstructionFinancialYear is the first year of the 40-year window.
func (w CapitalWork) ConstructionFinancialYear() int {
	return generic.FinancialYearOf(w.ConstructionDate)
}

// ClaimStartFinancialYear is the first year this owner can claim.
func (w CapitalWork) ClaimStartFinancialYear() int {
	return generic.FinancialYearOf(w.ClaimStartDate)
}

// ClaimWindow returns the financial years this owner can claim in. The range
// is empty when the building's 40 years ran out before the claim started.
func (w CapitalWork) ClaimWindow() generic.YearRange {
	from := w.ClaimStartFinancialYear()
	if built := w.ConstructionFinancialYear(); built > from {
		from = built
	}
	return generic.YearRange{From: from, To: w.ConstructionFinancialYear() + ClaimLifeYears - 1}
}

// RemainingClaimYears counts the claimable years from fy onwards.
func (w CapitalWork) RemainingClaimYears(fy int) int {
	window := w.ClaimWindow()
	if fy > window.From {
		window.From = fy
	}
	return window.Len()
}

// =============================================================================
// DEDUCTION SCHEDULE IMPLEMENTATION
// =============================================================================

// Deduction returns the capital works deduction for financial year fy.
func Deduction(w CapitalWork, fy int) decimal.Decimal {
	claimFY := w.ClaimStartFinancialYear()
	if fy < claimFY {
		return decimal.Zero
	}
	if fy-w.ConstructionFinancialYear() >= ClaimLifeYears {
		return decimal.Zero
	}
	// Claim start recorded before completion; nothing to claim until built.
	if fy < w.ConstructionFinancialYear() {
		return decimal.Zero
	}

	annual := w.AnnualDeduction()
	if fy == claimFY {
		return generic.ProRata(annual, generic.DaysToFinancialYearEnd(w.ClaimStartDate))
	}
	return annual
}

// SourceID implements generic.DeductionSchedule.
func (w CapitalWork) SourceID() string { return w.ID }

// Category implements generic.DeductionSchedule.
func (w CapitalWork) Category() generic.Category { return generic.CategoryDiv43 }

// DeductionFor implements generic.DeductionSchedule.
func (w CapitalWork) DeductionFor(fy int) decimal.Decimal { return Deduction(w, fy) }

var _ generic.DeductionSchedule = CapitalWork{}
