/*
projection.go - Multi-year deduction projection

PURPOSE:
  Folds any number of DeductionSchedules into one ProjectionRow per
  financial year. This is the only place where contributions from
  different holdings meet.

KEY INSIGHT:
  Totals are rounded to cents every time a contribution is added, not just
  once at the end. Reported schedules are built that way, so the projector
  must be too or it drifts by a cent here and there.

RANGE SEMANTICS:
  The range is closed: [From, To]. From > To yields an empty slice, never an
  error. Schedules contribute zero outside their own life, so a holding
  bought after To or fully written off before From simply adds nothing.

EXAMPLE:
  projector := generic.NewProjector()
  rows := projector.ProjectSchedule(generic.ProjectionInput{
      Sources: []generic.DeductionSchedule{oven, building},
      Range:   generic.YearRange{From: 2026, To: 2030},
  })
  // rows[0].FinancialYear == 2026, rows[4].FinancialYear == 2030

SEE ALSO:
  - schedule.go: DeductionSchedule interface
  - engine/engine.go: Builds sources from assets and capital works
*/
package generic

import "github.com/shopspring/decimal"

// =============================================================================
// PROJECTOR - Accumulates schedules into yearly rows
// =============================================================================

// Projector is stateless; the zero value is ready to use and safe to share
// between goroutines.
type Projector struct{}

// NewProjector returns a Projector.
func NewProjector() *Projector { return &Projector{} }

// ProjectionInput contains all inputs for a projection.
type ProjectionInput struct {
	Sources []DeductionSchedule
	Range   YearRange
}

// ProjectionResult is a projection with per-source line items for audit.
type ProjectionResult struct {
	Rows  []ProjectionRow
	Lines []LineItem
}

// ProjectSchedule returns one row per financial year of the range, in
// ascending order.
func (p *Projector) ProjectSchedule(input ProjectionInput) []ProjectionRow {
	return p.project(input, nil)
}

// ProjectDetailed is ProjectSchedule plus every non-zero contribution, in
// year order and, within a year, source order.
func (p *Projector) ProjectDetailed(input ProjectionInput) ProjectionResult {
	var lines []LineItem
	rows := p.project(input, &lines)
	return ProjectionResult{Rows: rows, Lines: lines}
}

func (p *Projector) project(input ProjectionInput, lines *[]LineItem) []ProjectionRow {
	rows := make([]ProjectionRow, 0, input.Range.Len())
	for _, fy := range input.Range.Years() {
		row := ProjectionRow{
			FinancialYear:     fy,
			Div40Total:        decimal.Zero,
			Div43Total:        decimal.Zero,
			LowValuePoolTotal: decimal.Zero,
		}

		for _, src := range input.Sources {
			amount := src.DeductionFor(fy)
			if amount.IsZero() {
				continue
			}

			switch src.Category() {
			case CategoryDiv40:
				row.Div40Total = Round2(row.Div40Total.Add(amount))
			case CategoryDiv43:
				row.Div43Total = Round2(row.Div43Total.Add(amount))
			case CategoryLowValuePool:
				row.LowValuePoolTotal = Round2(row.LowValuePoolTotal.Add(amount))
			default:
				continue
			}

			if lines != nil {
				*lines = append(*lines, LineItem{
					FinancialYear: fy,
					SourceID:      src.SourceID(),
					Category:      src.Category(),
					Amount:        amount,
				})
			}
		}

		row.GrandTotal = Round2(row.Div40Total.Add(row.Div43Total).Add(row.LowValuePoolTotal))
		rows = append(rows, row)
	}
	return rows
}

// Totals sums each column across rows.
func Totals(rows []ProjectionRow) ProjectionRow {
	total := ProjectionRow{
		Div40Total:        decimal.Zero,
		Div43Total:        decimal.Zero,
		LowValuePoolTotal: decimal.Zero,
		GrandTotal:        decimal.Zero,
	}
	for _, r := range rows {
		total.Div40Total = total.Div40Total.Add(r.Div40Total)
		total.Div43Total = total.Div43Total.Add(r.Div43Total)
		total.LowValuePoolTotal = total.LowValuePoolTotal.Add(r.LowValuePoolTotal)
		total.GrandTotal = total.GrandTotal.Add(r.GrandTotal)
	}
	return total
}
