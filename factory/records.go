/*
Package factory converts stored asset records into engine values.

PURPOSE:
  The engine works on decimal.Decimal and generic.TimePoint. Storage, HTTP
  bodies and register files carry decimal strings and YYYY-MM-DD dates.
  The factory is the one place that bridges the two, and the one place
  where malformed records are rejected before they reach a calculator.

WHY STRINGS?
  - Costs round-trip exactly (no float64 on the way in)
  - The same records come from SQLite TEXT columns and JSON bodies
  - Spreadsheets export "1,234.50"-free plain decimals as text anyway

JSON SCHEMA:
  {
    "from": "2025-26",
    "to": "2035-36",
    "assets": [
      {
        "id": "oven",
        "description": "Freestanding oven",
        "cost": "1850.00",
        "effective_life": "12",
        "method": "diminishing_value",
        "pool": "individual",
        "purchase_date": "2025-09-14"
      }
    ],
    "capital_works": [
      {
        "id": "building",
        "construction_cost": "412000",
        "construction_date": "2019-11-02",
        "claim_start_date": "2025-09-14"
      }
    ]
  }

DEFAULTS:
  - method: diminishing_value
  - pool: individual
  - claim_start_date: construction_date
  - id: a generated UUID
  - to: from + 10 when only from is given

SEE ALSO:
  - div40/asset.go, div43/capitalworks.go: Validate
  - store/sqlite/sqlite.go: Stores these records
  - api/handlers.go, cmd/depcalc: Callers
*/
package factory

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/div40"
	"github.com/warp/depreciation-engine/div43"
	"github.com/warp/depreciation-engine/engine"
	"github.com/warp/depreciation-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AssetRecord is the stored form of a div40.Asset.
type AssetRecord struct {
	ID            string `json:"id"`
	Description   string `json:"description,omitempty"`
	Cost          string `json:"cost"`
	EffectiveLife string `json:"effective_life,omitempty"`
	Method        string `json:"method,omitempty"`
	Pool          string `json:"pool,omitempty"`
	PurchaseDate  string `json:"purchase_date"`
}

// CapitalWorkRecord is the stored form of a div43.CapitalWork.
type CapitalWorkRecord struct {
	ID               string `json:"id"`
	Description      string `json:"description,omitempty"`
	ConstructionCost string `json:"construction_cost"`
	ConstructionDate string `json:"construction_date"`
	ClaimStartDate   string `json:"claim_start_date,omitempty"`
}

// RegisterJSON is a property's full asset register plus an optional range.
type RegisterJSON struct {
	From         string              `json:"from,omitempty"`
	To           string              `json:"to,omitempty"`
	Assets       []AssetRecord       `json:"assets"`
	CapitalWorks []CapitalWorkRecord `json:"capital_works"`
}

// Register is a parsed, validated RegisterJSON.
type Register struct {
	Assets       []div40.Asset
	CapitalWorks []div43.CapitalWork

	// Range is nil when the register doesn't pin one.
	Range *generic.YearRange
}

// Input builds an engine input over r, falling back to def when the
// register has no range of its own.
func (r *Register) Input(def generic.YearRange) engine.Input {
	rng := def
	if r.Range != nil {
		rng = *r.Range
	}
	return engine.Input{
		Assets:       r.Assets,
		CapitalWorks: r.CapitalWorks,
		FromFY:       rng.From,
		ToFY:         rng.To,
	}
}

// =============================================================================
// RECORD FACTORY
// =============================================================================

// RecordFactory parses records. NewID fills in missing IDs.
type RecordFactory struct {
	NewID func() string
}

// NewRecordFactory creates a factory that assigns UUIDs to records without
// an ID.
func NewRecordFactory() *RecordFactory {
	return &RecordFactory{NewID: uuid.NewString}
}

// ParseAsset converts and validates an asset record.
func (f *RecordFactory) ParseAsset(rec AssetRecord) (div40.Asset, error) {
	asset := div40.Asset{
		ID:          strings.TrimSpace(rec.ID),
		Description: rec.Description,
	}
	if asset.ID == "" {
		asset.ID = f.NewID()
	}

	var errs []error
	fail := func(field string, err error) {
		errs = append(errs, &generic.FieldError{RecordID: asset.ID, Field: field, Err: err})
	}

	var err error
	if asset.Cost, err = parseAmount(rec.Cost); err != nil {
		fail("cost", err)
	}
	if asset.Pool, err = div40.ParsePool(rec.Pool); err != nil {
		fail("pool", err)
	}
	if asset.Method, err = div40.ParseMethod(rec.Method); err != nil {
		fail("method", err)
	}
	if asset.Pool == div40.PoolIndividual || strings.TrimSpace(rec.EffectiveLife) != "" {
		if asset.EffectiveLife, err = parseAmount(rec.EffectiveLife); err != nil {
			fail("effective_life", err)
		}
	}
	if asset.PurchaseDate, err = parseDate(rec.PurchaseDate); err != nil {
		fail("purchase_date", err)
	}

	if len(errs) > 0 {
		return div40.Asset{}, errors.Join(errs...)
	}
	if err := asset.Validate(); err != nil {
		return div40.Asset{}, err
	}
	return asset, nil
}

// ParseCapitalWork converts and validates a capital works record.
func (f *RecordFactory) ParseCapitalWork(rec CapitalWorkRecord) (div43.CapitalWork, error) {
	work := div43.CapitalWork{
		ID:          strings.TrimSpace(rec.ID),
		Description: rec.Description,
	}
	if work.ID == "" {
		work.ID = f.NewID()
	}

	var errs []error
	fail := func(field string, err error) {
		errs = append(errs, &generic.FieldError{RecordID: work.ID, Field: field, Err: err})
	}

	var err error
	if work.ConstructionCost, err = parseAmount(rec.ConstructionCost); err != nil {
		fail("construction_cost", err)
	}
	if work.ConstructionDate, err = parseDate(rec.ConstructionDate); err != nil {
		fail("construction_date", err)
	}
	if strings.TrimSpace(rec.ClaimStartDate) == "" {
		work.ClaimStartDate = work.ConstructionDate
	} else if work.ClaimStartDate, err = parseDate(rec.ClaimStartDate); err != nil {
		fail("claim_start_date", err)
	}

	if len(errs) > 0 {
		return div43.CapitalWork{}, errors.Join(errs...)
	}
	if err := work.Validate(); err != nil {
		return div43.CapitalWork{}, err
	}
	return work, nil
}

// ParseRegister decodes and validates a register document. Every bad record
// is reported, not just the first.
func (f *RecordFactory) ParseRegister(data []byte) (*Register, error) {
	var doc RegisterJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid register JSON: %v", generic.ErrValidation, err)
	}
	return f.BuildRegister(doc)
}

// BuildRegister validates an already decoded register document.
func (f *RecordFactory) BuildRegister(doc RegisterJSON) (*Register, error) {
	reg := &Register{}
	var errs []error
	seen := make(map[string]bool)

	checkID := func(id string) {
		if seen[id] {
			errs = append(errs, fmt.Errorf("%w: %s", generic.ErrDuplicateID, id))
		}
		seen[id] = true
	}

	for _, rec := range doc.Assets {
		asset, err := f.ParseAsset(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		checkID(asset.ID)
		reg.Assets = append(reg.Assets, asset)
	}
	for _, rec := range doc.CapitalWorks {
		work, err := f.ParseCapitalWork(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		checkID(work.ID)
		reg.CapitalWorks = append(reg.CapitalWorks, work)
	}

	rng, err := ParseRange(doc.From, doc.To)
	if err != nil {
		errs = append(errs, err)
	}
	reg.Range = rng

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

// ParseRange parses optional from/to financial years ("2026" or "2025-26").
// Both empty gives nil. Only from gives the default ten years on.
func ParseRange(from, to string) (*generic.YearRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" {
		return nil, &generic.FieldError{Field: "from", Err: fmt.Errorf("%w: required when to is set", generic.ErrInvalidFinancialYear)}
	}

	fromFY, err := generic.ParseFinancialYear(from)
	if err != nil {
		return nil, &generic.FieldError{Field: "from", Err: err}
	}
	if to == "" {
		rng := generic.RangeFrom(fromFY, generic.DefaultProjectionYears)
		return &rng, nil
	}
	toFY, err := generic.ParseFinancialYear(to)
	if err != nil {
		return nil, &generic.FieldError{Field: "to", Err: err}
	}
	return &generic.YearRange{From: fromFY, To: toFY}, nil
}

// =============================================================================
// REVERSE CONVERSION
// =============================================================================

// ToAssetRecord renders an asset back to its stored form.
func ToAssetRecord(a div40.Asset) AssetRecord {
	rec := AssetRecord{
		ID:           a.ID,
		Description:  a.Description,
		Cost:         a.Cost.String(),
		Method:       string(a.Method),
		Pool:         string(a.Pool),
		PurchaseDate: a.PurchaseDate.String(),
	}
	if !a.EffectiveLife.IsZero() {
		rec.EffectiveLife = a.EffectiveLife.String()
	}
	return rec
}

// ToCapitalWorkRecord renders a capital work back to its stored form.
func ToCapitalWorkRecord(w div43.CapitalWork) CapitalWorkRecord {
	return CapitalWorkRecord{
		ID:               w.ID,
		Description:      w.Description,
		ConstructionCost: w.ConstructionCost.String(),
		ConstructionDate: w.ConstructionDate.String(),
		ClaimStartDate:   w.ClaimStartDate.String(),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: value is required", generic.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", generic.ErrInvalidAmount, s)
	}
	return d, nil
}

func parseDate(s string) (generic.TimePoint, error) {
	if strings.TrimSpace(s) == "" {
		return generic.TimePoint{}, generic.ErrMissingDate
	}
	tp, err := generic.ParseTimePoint(s)
	if err != nil {
		return generic.TimePoint{}, fmt.Errorf("%w: %v", generic.ErrValidation, err)
	}
	return tp, nil
}
