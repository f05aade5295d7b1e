/*
Package div40 implements plant & equipment depreciation (Division 40).

PURPOSE:
  Turns a depreciating asset (oven, carpet, hot water system) into a
  generic.DeductionSchedule. Three treatments exist, chosen by the asset's
  pool:

POOLS:
  PoolIndividual:
    Written off asset by asset using the asset's Method:
    - MethodDiminishingValue: 200% / effective life of the written-down value
    - MethodPrimeCost: cost / effective life, flat, until fully written off

  PoolLowValue:
    37.5% in the purchase year, then 18.75% of the closing pool balance
    every year after. Each asset keeps its own balance.

  PoolImmediateWriteOff:
    Full cost in the purchase financial year, nothing after.

PRO-RATA FIRST YEAR:
  Individual assets bought mid-year only claim days-held/365 of the first
  year. The day count comes from generic.DaysToFinancialYearEnd. The
  low-value pool and immediate write-off are not pro-rated.

EXAMPLE:
  oven := div40.Asset{
      ID:            "oven",
      Cost:          decimal.NewFromInt(10000),
      EffectiveLife: decimal.NewFromInt(10),
      Method:        div40.MethodDiminishingValue,
      Pool:          div40.PoolIndividual,
      PurchaseDate:  generic.NewTimePoint(2024, time.July, 1),
  }
  oven.DeductionFor(2025) // 2000.00
  oven.DeductionFor(2026) // 1600.00

SEE ALSO:
  - generic/schedule.go: DeductionSchedule interface
  - div43: Capital works counterpart
*/
package div40

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/generic"
)

// =============================================================================
// METHOD - How an individually depreciated asset is written off
// =============================================================================

type Method string

const (
	MethodDiminishingValue Method = "diminishing_value"
	MethodPrimeCost        Method = "prime_cost"
)

// ParseMethod accepts the canonical names plus the "dv"/"pc" shorthands.
// An empty string means diminishing value.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dv", "diminishing_value", "diminishing-value", "diminishingvalue":
		return MethodDiminishingValue, nil
	case "pc", "prime_cost", "prime-cost", "primecost":
		return MethodPrimeCost, nil
	default:
		return "", fmt.Errorf("%w: %q", generic.ErrUnknownMethod, s)
	}
}

// =============================================================================
// POOL - Which treatment the asset gets
// =============================================================================

type Pool string

const (
	PoolIndividual        Pool = "individual"
	PoolLowValue          Pool = "low_value"
	PoolImmediateWriteOff Pool = "immediate_writeoff"
)

// ParsePool accepts the canonical names and a few spellings seen in
// spreadsheets. An empty string means individual.
func ParsePool(s string) (Pool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "individual":
		return PoolIndividual, nil
	case "low_value", "low-value", "lowvalue", "ldp":
		return PoolLowValue, nil
	case "immediate_writeoff", "immediate_write_off", "immediate-writeoff", "immediate":
		return PoolImmediateWriteOff, nil
	default:
		return "", fmt.Errorf("%w: %q", generic.ErrUnknownPool, s)
	}
}

// =============================================================================
// RATES
// =============================================================================

var (
	// diminishingMultiplier is the 200% in 200%/effective life.
	diminishingMultiplier = decimal.NewFromInt(2)

	// PoolFirstYearRate applies to assets added to the pool this year.
	PoolFirstYearRate = decimal.RequireFromString("0.375")

	// PoolRate applies to the opening pool balance.
	PoolRate = decimal.RequireFromString("0.1875")

	// residualValue is the written-down value below which an asset counts
	// as fully depreciated.
	residualValue = decimal.NewFromInt(1)
)
