// Package engine projects depreciation deductions for a set of plant &
// equipment assets and capital works across a range of financial years.
//
// It is a thin entry point over generic.Projector: every asset and capital
// work is handed to the projector as a generic.DeductionSchedule, and the
// projector does the per-year accumulation. Nothing here performs I/O or
// keeps state between calls.
package engine

import (
	"errors"

	"github.com/warp/depreciation-engine/div40"
	"github.com/warp/depreciation-engine/div43"
	"github.com/warp/depreciation-engine/generic"
)

// Input is everything a projection needs.
type Input struct {
	Assets       []div40.Asset
	CapitalWorks []div43.CapitalWork
	FromFY       int
	ToFY         int
}

// Range returns the input's financial years as a generic.YearRange.
func (in Input) Range() generic.YearRange {
	return generic.YearRange{From: in.FromFY, To: in.ToFY}
}

// Sources converts assets and capital works into deduction schedules,
// assets first, in input order.
func (in Input) Sources() []generic.DeductionSchedule {
	sources := make([]generic.DeductionSchedule, 0, len(in.Assets)+len(in.CapitalWorks))
	for _, a := range in.Assets {
		sources = append(sources, a)
	}
	for _, w := range in.CapitalWorks {
		sources = append(sources, w)
	}
	return sources
}

// ProjectSchedule returns one row per financial year in [FromFY, ToFY],
// ascending. FromFY > ToFY gives an empty slice.
func ProjectSchedule(in Input) []generic.ProjectionRow {
	return generic.NewProjector().ProjectSchedule(generic.ProjectionInput{
		Sources: in.Sources(),
		Range:   in.Range(),
	})
}

// ProjectDetailed is ProjectSchedule plus the per-asset and per-work line
// items behind each row.
func ProjectDetailed(in Input) generic.ProjectionResult {
	return generic.NewProjector().ProjectDetailed(generic.ProjectionInput{
		Sources: in.Sources(),
		Range:   in.Range(),
	})
}

// Validate checks every asset and capital work, returning all failures.
func (in Input) Validate() error {
	var errs []error
	for _, a := range in.Assets {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, w := range in.CapitalWorks {
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
