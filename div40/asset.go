package div40

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// =============================================================================
// ASSET - A Division 40 depreciating asset
// =============================================================================

// Asset is a depreciating asset as supplied by the caller. Method is ignored
// unless Pool is PoolIndividual.
type Asset struct {
	ID            string
	Description   string
	Cost          decimal.Decimal
	EffectiveLife decimal.Decimal // years, may be fractional
	Method        Method
	Pool          Pool
	PurchaseDate  generic.TimePoint
}

// Validate checks the preconditions the formulas rely on. The calculators
// themselves never fail; a malformed asset just contributes nonsense, so
// check at the boundary.
func (a Asset) Validate() error {
	var errs []error
	field := func(name string, err error) {
		errs = append(errs, &generic.FieldError{RecordID: a.ID, Field: name, Err: err})
	}

	if a.Cost.IsNegative() {
		field("cost", generic.ErrNegativeCost)
	}
	if a.PurchaseDate.IsZero() {
		field("purchase_date", generic.ErrMissingDate)
	}

	switch a.Pool {
	case PoolIndividual:
		if !a.EffectiveLife.IsPositive() {
			field("effective_life", generic.ErrInvalidEffectiveLife)
		}
		if a.Method != MethodDiminishingValue && a.Method != MethodPrimeCost {
			field("method", generic.ErrUnknownMethod)
		}
	case PoolLowValue, PoolImmediateWriteOff:
	default:
		field("pool", generic.ErrUnknownPool)
	}

	return errors.Join(errs...)
}

// PurchaseFinancialYear is the financial year the asset was acquired in.
func (a Asset) PurchaseFinancialYear() int {
	return generic.FinancialYearOf(a.PurchaseDate)
}

// FirstYearDays is the number of days the asset is held in its purchase year.
func (a Asset) FirstYearDays() int {
	return generic.DaysToFinancialYearEnd(a.PurchaseDate)
}

// =============================================================================
// DEDUCTION SCHEDULE IMPLEMENTATION
// =============================================================================

// SourceID implements generic.DeductionSchedule.
func (a Asset) SourceID() string { return a.ID }

// Category implements generic.DeductionSchedule. Low-value pool assets get
// their own column; everything else is Division 40.
func (a Asset) Category() generic.Category {
	if a.Pool == PoolLowValue {
		return generic.CategoryLowValuePool
	}
	return generic.CategoryDiv40
}

// DeductionFor implements generic.DeductionSchedule.
func (a Asset) DeductionFor(fy int) decimal.Decimal {
	purchaseFY := a.PurchaseFinancialYear()
	if fy < purchaseFY {
		return decimal.Zero
	}
	yearIndex := fy - purchaseFY

	switch a.Pool {
	case PoolImmediateWriteOff:
		return ImmediateWriteOff(a.Cost, yearIndex)
	case PoolIndividual:
		switch a.Method {
		case MethodDiminishingValue:
			return DiminishingValue(a.Cost, a.EffectiveLife, yearIndex, a.FirstYearDays())
		case MethodPrimeCost:
			return PrimeCost(a.Cost, a.EffectiveLife, yearIndex, a.FirstYearDays())
		}
	case PoolLowValue:
		return LowValuePool(a.Cost, yearIndex)
	}
	return decimal.Zero
}

// steps simulates the first n years of the asset from its purchase year.
func (a Asset) steps(n int) []yearStep {
	switch a.Pool {
	case PoolImmediateWriteOff:
		return immediateSteps(a.Cost, n)
	case PoolLowValue:
		return poolSteps(a.Cost, n)
	case PoolIndividual:
		if a.Method == MethodPrimeCost {
			return primeCostSteps(a.Cost, a.EffectiveLife, a.FirstYearDays(), n)
		}
		if a.Method == MethodDiminishingValue {
			return diminishingSteps(a.Cost, a.EffectiveLife, a.FirstYearDays(), n)
		}
	}
	steps := make([]yearStep, n)
	for i := range steps {
		steps[i] = yearStep{Opening: a.Cost, Deduction: decimal.Zero, Closing: a.Cost}
	}
	return steps
}

var _ generic.DeductionSchedule = Asset{}
