/*
errors.go - Centralized error types

PURPOSE:
  The engine itself never fails on structurally valid input. These errors
  exist for the boundary: record validation before a projection, and the
  register/snapshot stores that callers put around the engine.

ERROR CATEGORIES:
  1. Validation errors - malformed assets, capital works, ranges
  2. Lookup errors - missing properties, assets, snapshots
  3. Store errors - persistence failures

USAGE:
  if errors.Is(err, generic.ErrValidation) {
      // 400 at the HTTP boundary
  }

SEE ALSO:
  - div40/asset.go, div43/capitalworks.go: Validate methods
  - factory/records.go: Wraps these while parsing records
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the parent of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNegativeCost is returned when a cost is below zero.
	ErrNegativeCost = fmt.Errorf("%w: cost must not be negative", ErrValidation)

	// ErrInvalidEffectiveLife is returned when an individually depreciated
	// asset has an effective life of zero or less.
	ErrInvalidEffectiveLife = fmt.Errorf("%w: effective life must be positive", ErrValidation)

	// ErrUnknownMethod is returned for a depreciation method that isn't
	// diminishing value or prime cost.
	ErrUnknownMethod = fmt.Errorf("%w: unknown depreciation method", ErrValidation)

	// ErrUnknownPool is returned for an unrecognised pool type.
	ErrUnknownPool = fmt.Errorf("%w: unknown pool type", ErrValidation)

	// ErrInvalidAmount is returned when a stored amount isn't a decimal number.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

	// ErrMissingDate is returned when a required date is zero.
	ErrMissingDate = fmt.Errorf("%w: date is required", ErrValidation)

	// ErrInvalidFinancialYear is returned for an unparseable financial year.
	ErrInvalidFinancialYear = fmt.Errorf("%w: invalid financial year", ErrValidation)

	// ErrRangeTooLarge is returned when a requested range exceeds the
	// boundary's limit. The engine itself accepts any range.
	ErrRangeTooLarge = fmt.Errorf("%w: financial year range too large", ErrValidation)

	// ErrPropertyNotFound is returned when a referenced property doesn't exist.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrAssetNotFound is returned when a referenced asset doesn't exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrCapitalWorkNotFound is returned when a referenced capital work doesn't exist.
	ErrCapitalWorkNotFound = errors.New("capital work not found")

	// ErrSnapshotNotFound is returned when no projection snapshot is stored.
	ErrSnapshotNotFound = errors.New("projection snapshot not found")

	// ErrDuplicateID is returned when a record ID is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError names the record and field that failed validation.
type FieldError struct {
	RecordID string
	Field    string
	Err      error
}

func (e *FieldError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.RecordID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicateID)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrCapitalWorkNotFound) ||
		errors.Is(err, ErrSnapshotNotFound)
}
