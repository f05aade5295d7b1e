package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - A closed date range
// =============================================================================

// Period is a closed date range [Start, End].
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns the number of days in the period, both ends included.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// FinancialYearPeriod returns July 1 to June 30 of the given financial year.
func FinancialYearPeriod(fy int) Period {
	return Period{Start: StartOfFinancialYear(fy), End: EndOfFinancialYear(fy)}
}

// =============================================================================
// YEAR RANGE - The closed span of financial years a projection covers
// =============================================================================

// DefaultProjectionYears is how many years past the current one a default
// range covers.
const DefaultProjectionYears = 10

// YearRange is a closed range of financial years [From, To]. A range with
// From > To is empty, not invalid.
type YearRange struct {
	From int
	To   int
}

// DefaultRange covers the current financial year through ten years on.
func DefaultRange(now time.Time) YearRange {
	return RangeFrom(CurrentFinancialYear(now), DefaultProjectionYears)
}

// RangeFrom covers fy through fy+years.
func RangeFrom(fy, years int) YearRange {
	return YearRange{From: fy, To: fy + years}
}

// IsEmpty reports whether the range covers no years.
func (r YearRange) IsEmpty() bool { return r.From > r.To }

// Len returns the number of financial years in the range.
func (r YearRange) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.To - r.From + 1
}

// Contains reports whether fy lies in the range.
func (r YearRange) Contains(fy int) bool { return fy >= r.From && fy <= r.To }

// Years lists every financial year in ascending order.
func (r YearRange) Years() []int {
	years := make([]int, 0, r.Len())
	for fy := r.From; fy <= r.To; fy++ {
		years = append(years, fy)
	}
	return years
}

func (r YearRange) String() string {
	return fmt.Sprintf("FY%d..FY%d", r.From, r.To)
}
