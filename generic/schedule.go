package generic

import "github.com/shopspring/decimal"

// =============================================================================
// DEDUCTION SCHEDULE - Interface for how a holding is written off
// =============================================================================

// DeductionSchedule yields the deduction one holding contributes to a given
// financial year. Implementations define the statutory formula (diminishing
// value, prime cost, low-value pool, capital works).
type DeductionSchedule interface {
	// SourceID identifies the holding in detailed projections.
	SourceID() string

	// Category says which projection column the deduction belongs to.
	Category() Category

	// DeductionFor returns the deduction for financial year fy, rounded to
	// cents. Years outside the holding's life return zero.
	DeductionFor(fy int) decimal.Decimal
}

// ScheduleFunc adapts a plain function to DeductionSchedule.
type ScheduleFunc struct {
	ID  string
	Cat Category
	Fn  func(fy int) decimal.Decimal
}

func (s ScheduleFunc) SourceID() string                   { return s.ID }
func (s ScheduleFunc) Category() Category                 { return s.Cat }
func (s ScheduleFunc) DeductionFor(fy int) decimal.Decimal { return s.Fn(fy) }
