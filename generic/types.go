/*
Package generic provides the core depreciation projection engine.

PURPOSE:
  This package contains the regime-agnostic pieces of the engine: the
  financial year calendar, money rounding, the DeductionSchedule contract
  and the Projector that folds many schedules into yearly totals. The
  statutory formulas live in the regime packages (div40, div43), which
  implement DeductionSchedule.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money helpers: Round2, ProRata (decimal.Decimal, never float64)
  - Category: which column of a projection row a deduction lands in
  - ProjectionRow: one financial year of projected deductions

DESIGN PRINCIPLES:
  1. Purity: no I/O, no clocks (callers pass "now" explicitly)
  2. Precision: decimal.Decimal end to end, rounded to cents at every
     simulated year so results match the published schedules
  3. Determinism: identical inputs give identical rows

USAGE:
  rows := generic.NewProjector().ProjectSchedule(generic.ProjectionInput{
      Sources: sources,
      Range:   generic.YearRange{From: 2026, To: 2036},
  })

SEE ALSO:
  - time.go: Financial year calendar
  - schedule.go: DeductionSchedule interface
  - projection.go: Projector
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - decimal amounts rounded to cents
// =============================================================================

// CentPlaces is the number of decimal places every reported figure keeps.
const CentPlaces = 2

// DaysInYear is the denominator for pro-rata first-year deductions.
const DaysInYear = 365

var (
	// OneCent is the settlement tolerance for fully written-off balances.
	OneCent = decimal.New(1, -CentPlaces)

	daysInYear = decimal.NewFromInt(DaysInYear)
)

// Round2 rounds half away from zero to cents. Deductions are never negative,
// so this is half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// ProRata scales an annual amount by days/365, rounded to cents. The divisor
// is always 365, so a 366-day leap financial year claims slightly more than
// the annual amount.
func ProRata(annual decimal.Decimal, days int) decimal.Decimal {
	if days < 0 {
		days = 0
	}
	return Round2(annual.Mul(decimal.NewFromInt(int64(days))).Div(daysInYear))
}

// =============================================================================
// CATEGORY - Which projection column a schedule feeds
// =============================================================================

type Category string

const (
	CategoryDiv40        Category = "div40"          // Plant & equipment, incl. immediate write-off
	CategoryDiv43        Category = "div43"          // Capital works
	CategoryLowValuePool Category = "low_value_pool" // Low-value pool
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDiv40, CategoryDiv43, CategoryLowValuePool:
		return true
	}
	return false
}

// =============================================================================
// PROJECTION ROW - One financial year of deductions
// =============================================================================

// ProjectionRow is the projected deduction for a single financial year.
// FinancialYear is the ending calendar year (2025-26 is 2026).
type ProjectionRow struct {
	FinancialYear     int
	Div40Total        decimal.Decimal
	Div43Total        decimal.Decimal
	LowValuePoolTotal decimal.Decimal
	GrandTotal        decimal.Decimal
}

// Label returns the "2025-26" form of the row's financial year.
func (r ProjectionRow) Label() string { return FormatFinancialYear(r.FinancialYear) }

// LineItem is a single source's contribution to a single financial year.
type LineItem struct {
	FinancialYear int
	SourceID      string
	Category      Category
	Amount        decimal.Decimal
}
