/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal/TimePoint model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

AMOUNTS:
  Every money amount is a decimal string with exactly two places
  ("1600.00"). Clients must not round-trip them through float64.

TYPES:
  Property:
    PropertyDTO, CreatePropertyRequest

  Register:
    factory.AssetRecord, factory.CapitalWorkRecord (request and response)
    CapitalWorkDTO (adds the claim window)

  Projection:
    ProjectionResponse, ProjectionRowDTO, LineItemDTO, SnapshotDTO

  Schedule:
    ScheduleResponse, ScheduleEntryDTO

  Calendar:
    FinancialYearDTO

SEE ALSO:
  - handlers.go: Uses these types
  - factory/records.go: Record types shared with storage
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/depreciation-engine/div40"
	"github.com/warp/depreciation-engine/div43"
	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/generic"
	"github.com/warp/depreciation-engine/store/sqlite"
)

// =============================================================================
// PROPERTY TYPES
// =============================================================================

// PropertyDTO represents a property in API responses.
type PropertyDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CreatePropertyRequest is the request to create or rename a property.
type CreatePropertyRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func toPropertyDTO(p sqlite.PropertyRecord) PropertyDTO {
	dto := PropertyDTO{ID: p.ID, Name: p.Name, Address: p.Address}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// REGISTER TYPES
// =============================================================================

// CapitalWorkDTO is a stored capital work plus its derived claim figures.
type CapitalWorkDTO struct {
	factory.CapitalWorkRecord
	AnnualDeduction string `json:"annual_deduction"`
	ClaimFrom       string `json:"claim_from"`
	ClaimTo         string `json:"claim_to"`
}

func toCapitalWorkDTO(w div43.CapitalWork) CapitalWorkDTO {
	window := w.ClaimWindow()
	dto := CapitalWorkDTO{
		CapitalWorkRecord: factory.ToCapitalWorkRecord(w),
		AnnualDeduction:   money(w.AnnualDeduction()),
	}
	if !window.IsEmpty() {
		dto.ClaimFrom = generic.FormatFinancialYear(window.From)
		dto.ClaimTo = generic.FormatFinancialYear(window.To)
	}
	return dto
}

// =============================================================================
// PROJECTION TYPES
// =============================================================================

// ProjectionRowDTO is one financial year of a projection.
type ProjectionRowDTO struct {
	FinancialYear     int    `json:"financial_year"`
	Label             string `json:"label"`
	Div40Total        string `json:"div40_total"`
	Div43Total        string `json:"div43_total"`
	LowValuePoolTotal string `json:"low_value_pool_total"`
	GrandTotal        string `json:"grand_total"`
}

// LineItemDTO is one source's contribution to one financial year.
type LineItemDTO struct {
	FinancialYear int    `json:"financial_year"`
	SourceID      string `json:"source_id"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
}

// ProjectionResponse is returned by the projection endpoints.
type ProjectionResponse struct {
	PropertyID string             `json:"property_id,omitempty"`
	From       int                `json:"from"`
	To         int                `json:"to"`
	Rows       []ProjectionRowDTO `json:"rows"`
	Totals     ProjectionRowDTO   `json:"totals"`
	Lines      []LineItemDTO      `json:"lines,omitempty"`
}

// ProjectionRequest is the body of a stateless projection. It is a register
// document; from/to default to the server's projection window.
type ProjectionRequest struct {
	factory.RegisterJSON
	Detail bool `json:"detail,omitempty"`
}

// SnapshotDTO is a stored projection snapshot.
type SnapshotDTO struct {
	ID         string             `json:"id"`
	PropertyID string             `json:"property_id"`
	From       int                `json:"from"`
	To         int                `json:"to"`
	TakenAt    string             `json:"taken_at"`
	Reason     string             `json:"reason"`
	Current    bool               `json:"current"`
	Rows       []ProjectionRowDTO `json:"rows"`
}

func toProjectionRowDTO(r generic.ProjectionRow) ProjectionRowDTO {
	return ProjectionRowDTO{
		FinancialYear:     r.FinancialYear,
		Label:             r.Label(),
		Div40Total:        money(r.Div40Total),
		Div43Total:        money(r.Div43Total),
		LowValuePoolTotal: money(r.LowValuePoolTotal),
		GrandTotal:        money(r.GrandTotal),
	}
}

func toProjectionRowDTOs(rows []generic.ProjectionRow) []ProjectionRowDTO {
	dtos := make([]ProjectionRowDTO, len(rows))
	for i, r := range rows {
		dtos[i] = toProjectionRowDTO(r)
	}
	return dtos
}

func toProjectionResponse(propertyID string, rng generic.YearRange, result generic.ProjectionResult, detail bool) ProjectionResponse {
	totals := toProjectionRowDTO(generic.Totals(result.Rows))
	totals.FinancialYear = 0
	totals.Label = "total"

	resp := ProjectionResponse{
		PropertyID: propertyID,
		From:       rng.From,
		To:         rng.To,
		Rows:       toProjectionRowDTOs(result.Rows),
		Totals:     totals,
	}
	if detail {
		resp.Lines = make([]LineItemDTO, len(result.Lines))
		for i, l := range result.Lines {
			resp.Lines[i] = LineItemDTO{
				FinancialYear: l.FinancialYear,
				SourceID:      l.SourceID,
				Category:      string(l.Category),
				Amount:        money(l.Amount),
			}
		}
	}
	return resp
}

func toSnapshotDTO(s generic.Snapshot, now time.Time) SnapshotDTO {
	return SnapshotDTO{
		ID:         s.ID,
		PropertyID: s.PropertyID,
		From:       s.Range.From,
		To:         s.Range.To,
		TakenAt:    s.TakenAt.UTC().Format(time.RFC3339),
		Reason:     string(s.Reason),
		Current:    s.IsCurrent(now),
		Rows:       toProjectionRowDTOs(s.Rows),
	}
}

// =============================================================================
// SCHEDULE TYPES
// =============================================================================

// ScheduleEntryDTO is one year of a single asset's schedule.
type ScheduleEntryDTO struct {
	FinancialYear int    `json:"financial_year"`
	Label         string `json:"label"`
	OpeningValue  string `json:"opening_value"`
	Deduction     string `json:"deduction"`
	ClosingValue  string `json:"closing_value"`
}

// ScheduleResponse is an asset's year-by-year schedule.
type ScheduleResponse struct {
	Asset         factory.AssetRecord `json:"asset"`
	Category      string              `json:"category"`
	Entries       []ScheduleEntryDTO  `json:"entries"`
	TotalDeducted string              `json:"total_deducted"`
}

func toScheduleResponse(a div40.Asset, entries []div40.ScheduleEntry) ScheduleResponse {
	dtos := make([]ScheduleEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = ScheduleEntryDTO{
			FinancialYear: e.FinancialYear,
			Label:         generic.FormatFinancialYear(e.FinancialYear),
			OpeningValue:  money(e.OpeningValue),
			Deduction:     money(e.Deduction),
			ClosingValue:  money(e.ClosingValue),
		}
	}
	return ScheduleResponse{
		Asset:         factory.ToAssetRecord(a),
		Category:      string(a.Category()),
		Entries:       dtos,
		TotalDeducted: money(div40.TotalDeducted(entries)),
	}
}

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// FinancialYearDTO describes one financial year.
type FinancialYearDTO struct {
	FinancialYear int    `json:"financial_year"`
	Label         string `json:"label"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Days          int    `json:"days"`
	DaysRemaining int    `json:"days_remaining"`
}

// =============================================================================
// MISC TYPES
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// money renders an amount with exactly two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(generic.CentPlaces)
}
