package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date abstraction (deductions are day-granular)
// =============================================================================

// DateLayout is the wire and storage format for dates.
const DateLayout = "2006-01-02"

// TimePoint is a calendar date normalised to midnight UTC.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock and location of t, keeping its calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseTimePoint parses a YYYY-MM-DD date.
func ParseTimePoint(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return FromTime(t), nil
}

// MustParseTimePoint panics on malformed input. Use in tests and fixtures.
func MustParseTimePoint(s string) TimePoint {
	tp, err := ParseTimePoint(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(0, n, 0)} }
func (tp TimePoint) AddYears(n int) TimePoint  { return TimePoint{Time: tp.normalize().AddDate(n, 0, 0)} }

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// DaysBetween returns the whole days from one date to another. Negative when
// to is before from.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// FINANCIAL YEAR CALENDAR - July 1 to June 30, named by the ending year
// =============================================================================

// FinancialYearStartMonth is the first month of a financial year.
const FinancialYearStartMonth = time.July

// FinancialYearOf returns the financial year a date falls in. July 1 opens
// the next financial year, so 2025-07-01 belongs to FY2026.
func FinancialYearOf(date TimePoint) int {
	if date.Month() >= FinancialYearStartMonth {
		return date.Year() + 1
	}
	return date.Year()
}

// StartOfFinancialYear returns July 1 of the given financial year.
func StartOfFinancialYear(fy int) TimePoint {
	return NewTimePoint(fy-1, FinancialYearStartMonth, 1)
}

// EndOfFinancialYear returns June 30 of the given financial year.
func EndOfFinancialYear(fy int) TimePoint {
	return NewTimePoint(fy, time.June, 30)
}

// DaysToFinancialYearEnd counts the days from date to June 30 of its
// financial year, both ends included. Never less than 1.
func DaysToFinancialYearEnd(date TimePoint) int {
	days := DaysBetween(date, EndOfFinancialYear(FinancialYearOf(date))) + 1
	if days < 1 {
		return 1
	}
	return days
}

// CurrentFinancialYear resolves the financial year containing now.
func CurrentFinancialYear(now time.Time) int {
	return FinancialYearOf(FromTime(now))
}

// FormatFinancialYear renders a financial year the way returns are labelled:
// FY2026 is "2025-26".
func FormatFinancialYear(fy int) string {
	return fmt.Sprintf("%d-%02d", fy-1, fy%100)
}

// ParseFinancialYear accepts "2026", "FY2026" or "2025-26" and returns 2026.
func ParseFinancialYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "FY"), "fy")

	start, end, isRange := strings.Cut(s, "-")
	if !isRange {
		fy, err := strconv.Atoi(s)
		if err != nil || fy < 1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFinancialYear, s)
		}
		return fy, nil
	}

	startYear, err := strconv.Atoi(start)
	if err != nil || len(start) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFinancialYear, s)
	}
	if len(end) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFinancialYear, s)
	}
	endSuffix, err := strconv.Atoi(end)
	if err != nil || endSuffix != (startYear+1)%100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFinancialYear, s)
	}
	return startYear + 1, nil
}
