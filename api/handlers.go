/*
handlers.go - HTTP API handlers for the depreciation projection engine

PURPOSE:
  Exposes the asset register and the projection engine via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  engine. No depreciation arithmetic happens here.

ENDPOINTS:
  Properties:
    GET    /api/properties                 List properties
    POST   /api/properties                 Create or rename a property
    GET    /api/properties/{id}            Get a property
    DELETE /api/properties/{id}            Delete a property and its register

  Register:
    GET    /api/properties/{id}/assets                       List assets
    POST   /api/properties/{id}/assets                       Add or replace an asset
    DELETE /api/properties/{id}/assets/{assetID}             Remove an asset
    GET    /api/properties/{id}/assets/{assetID}/schedule    Per-asset schedule
    GET    /api/properties/{id}/capital-works                List capital works
    POST   /api/properties/{id}/capital-works                Add or replace a capital work
    DELETE /api/properties/{id}/capital-works/{workID}       Remove a capital work

  Projections:
    GET    /api/properties/{id}/projection           Project ?from=&to=&detail=
    GET    /api/properties/{id}/projection/snapshot  Latest stored snapshot
    POST   /api/properties/{id}/projection/snapshot  Take a snapshot now
    POST   /api/projections                          Project a register body

  Calendar:
    GET    /api/financial-years/current    Financial year containing ?date=

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Register persistence
  - Snapshots: Projection snapshots (the store, or in-memory)
  - Factory: Record to engine value conversion
  - Metrics: Projection and snapshot counters

REQUEST FLOW:
  1. Parse HTTP request
  2. Load the register and convert it through the factory
  3. Call the engine (pure, stateless)
  4. Serialize response with two-place decimal strings
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Property, asset, capital work or snapshot not found
  - 409: Record ID owned by another property
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo properties
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/warp/depreciation-engine/engine"
	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/generic"
	"github.com/warp/depreciation-engine/metrics"
	"github.com/warp/depreciation-engine/store/sqlite"
)

// DefaultMaxRangeYears caps how many financial years one request may project.
const DefaultMaxRangeYears = 101

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.RecordFactory

	// Snapshots holds projection snapshots. Defaults to Store.
	Snapshots generic.SnapshotStore

	Metrics *metrics.Metrics
	Logger  zerolog.Logger

	// ProjectionYears is how far past the current financial year a
	// projection without from/to reaches.
	ProjectionYears int
	MaxRangeYears   int

	// Now is the clock. Tests pin it.
	Now func() time.Time

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, m *metrics.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		Store:           store,
		Factory:         factory.NewRecordFactory(),
		Snapshots:       store,
		Metrics:         m,
		Logger:          logger,
		ProjectionYears: generic.DefaultProjectionYears,
		MaxRangeYears:   DefaultMaxRangeYears,
		Now:             time.Now,
	}
}

// DefaultRange is the projection window used when a request names none.
func (h *Handler) DefaultRange() generic.YearRange {
	return generic.RangeFrom(generic.CurrentFinancialYear(h.Now()), h.ProjectionYears)
}

// =============================================================================
// HEALTH
// =============================================================================

// Healthz reports whether the database is reachable.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// PROPERTY HANDLERS
// =============================================================================

// ListProperties returns all properties.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.Store.ListProperties(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}

	dtos := make([]PropertyDTO, len(properties))
	for i, p := range properties {
		dtos[i] = toPropertyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProperty returns a single property.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "Failed to get property", err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyDTO(*p))
}

// CreateProperty creates a property, or renames an existing one.
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		req.ID = h.Factory.NewID()
	}

	ctx := r.Context()
	rec := sqlite.PropertyRecord{ID: req.ID, Name: req.Name, Address: req.Address}
	if err := h.Store.SaveProperty(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save property", err)
		return
	}

	saved, err := h.Store.GetProperty(ctx, req.ID)
	if err != nil {
		writeServiceError(w, "Failed to reload property", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPropertyDTO(*saved))
}

// DeleteProperty removes a property with its assets, capital works and
// snapshots.
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "Failed to delete property", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// ListAssets returns a property's Division 40 assets.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	propertyID := chi.URLParam(r, "id")

	if _, err := h.Store.GetProperty(ctx, propertyID); err != nil {
		writeServiceError(w, "Failed to list assets", err)
		return
	}
	assets, err := h.Store.ListAssets(ctx, propertyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assets", err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// CreateAsset validates and stores an asset. The stored record is the
// normalised form (canonical method/pool names, generated ID).
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var rec factory.AssetRecord
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	asset, err := h.Factory.ParseAsset(rec)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asset", err)
		return
	}

	normalised := factory.ToAssetRecord(asset)
	if err := h.Store.SaveAsset(r.Context(), chi.URLParam(r, "id"), normalised); err != nil {
		writeServiceError(w, "Failed to save asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, normalised)
}

// DeleteAsset removes an asset from a property.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteAsset(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "assetID"))
	if err != nil {
		writeServiceError(w, "Failed to delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAssetSchedule returns one asset's year-by-year schedule from its
// purchase year. ?years=N fixes the length; without it the schedule runs
// until deductions stop.
func (h *Handler) GetAssetSchedule(w http.ResponseWriter, r *http.Request) {
	years := 0
	if v := r.URL.Query().Get("years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "years must be a positive integer", err)
			return
		}
		years = n
	}

	rec, err := h.Store.GetAsset(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "assetID"))
	if err != nil {
		writeServiceError(w, "Failed to get asset", err)
		return
	}
	asset, err := h.Factory.ParseAsset(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored asset is invalid", err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleResponse(asset, asset.Schedule(years)))
}

// =============================================================================
// CAPITAL WORKS HANDLERS
// =============================================================================

// ListCapitalWorks returns a property's capital works with their claim
// windows.
func (h *Handler) ListCapitalWorks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	propertyID := chi.URLParam(r, "id")

	if _, err := h.Store.GetProperty(ctx, propertyID); err != nil {
		writeServiceError(w, "Failed to list capital works", err)
		return
	}
	records, err := h.Store.ListCapitalWorks(ctx, propertyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list capital works", err)
		return
	}

	dtos := make([]CapitalWorkDTO, 0, len(records))
	for _, rec := range records {
		work, err := h.Factory.ParseCapitalWork(rec)
		if err != nil {
			h.Logger.Warn().Err(err).Str("capital_work_id", rec.ID).Msg("skipping invalid stored capital work")
			continue
		}
		dtos = append(dtos, toCapitalWorkDTO(work))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCapitalWork validates and stores a capital work.
func (h *Handler) CreateCapitalWork(w http.ResponseWriter, r *http.Request) {
	var rec factory.CapitalWorkRecord
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	work, err := h.Factory.ParseCapitalWork(rec)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid capital work", err)
		return
	}

	if err := h.Store.SaveCapitalWork(r.Context(), chi.URLParam(r, "id"), factory.ToCapitalWorkRecord(work)); err != nil {
		writeServiceError(w, "Failed to save capital work", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCapitalWorkDTO(work))
}

// DeleteCapitalWork removes a capital work from a property.
func (h *Handler) DeleteCapitalWork(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteCapitalWork(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "workID"))
	if err != nil {
		writeServiceError(w, "Failed to delete capital work", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetProjection projects a property's register over ?from=&to=. Both accept
// "2026" or "2025-26". ?detail=true adds per-source line items.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := h.parseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		writeServiceError(w, "Invalid financial year range", err)
		return
	}
	detail, _ := strconv.ParseBool(q.Get("detail"))

	propertyID := chi.URLParam(r, "id")
	in, err := h.propertyInput(r.Context(), propertyID, rng)
	if err != nil {
		writeServiceError(w, "Failed to load register", err)
		return
	}

	result := h.project(metrics.SourceProperty, in)
	writeJSON(w, http.StatusOK, toProjectionResponse(propertyID, rng, result, detail))
}

// ProjectRegister projects a register sent in the request body. Nothing is
// stored.
func (h *Handler) ProjectRegister(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reg, err := h.Factory.BuildRegister(req.RegisterJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid register", err)
		return
	}

	in := reg.Input(h.DefaultRange())
	if err := h.checkRange(in.Range()); err != nil {
		writeServiceError(w, "Invalid financial year range", err)
		return
	}

	result := h.project(metrics.SourceStateless, in)
	writeJSON(w, http.StatusOK, toProjectionResponse("", in.Range(), result, req.Detail))
}

// GetLatestSnapshot returns the most recent stored projection snapshot.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshots.GetLatestSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "Failed to get snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(*snap, h.Now()))
}

// CreateSnapshot projects the default range and stores it.
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.TakeSnapshot(r.Context(), chi.URLParam(r, "id"), generic.SnapshotManual)
	if err != nil {
		writeServiceError(w, "Failed to take snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotDTO(*snap, h.Now()))
}

// TakeSnapshot projects a property over the default range and stores the
// result. Used by CreateSnapshot and the snapshot scheduler.
func (h *Handler) TakeSnapshot(ctx context.Context, propertyID string, reason generic.SnapshotReason) (*generic.Snapshot, error) {
	rng := h.DefaultRange()
	in, err := h.propertyInput(ctx, propertyID, rng)
	if err != nil {
		return nil, err
	}

	result := h.project(metrics.SourceSnapshot, in)
	snap := generic.Snapshot{
		ID:         h.Factory.NewID(),
		PropertyID: propertyID,
		Range:      rng,
		TakenAt:    h.Now(),
		Rows:       result.Rows,
		Reason:     reason,
	}
	if err := h.Snapshots.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	if h.Metrics != nil {
		h.Metrics.SnapshotsTaken.WithLabelValues(string(reason)).Inc()
	}
	return &snap, nil
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// CurrentFinancialYear describes the financial year containing ?date=
// (default today).
func (h *Handler) CurrentFinancialYear(w http.ResponseWriter, r *http.Request) {
	day := generic.FromTime(h.Now())
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := generic.ParseTimePoint(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	fy := generic.FinancialYearOf(day)
	period := generic.FinancialYearPeriod(fy)
	writeJSON(w, http.StatusOK, FinancialYearDTO{
		FinancialYear: fy,
		Label:         generic.FormatFinancialYear(fy),
		Start:         period.Start.String(),
		End:           period.End.String(),
		Days:          period.Days(),
		DaysRemaining: generic.DaysToFinancialYearEnd(day),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// propertyInput loads a property's register and builds the engine input.
func (h *Handler) propertyInput(ctx context.Context, propertyID string, rng generic.YearRange) (engine.Input, error) {
	doc, err := h.Store.LoadRegister(ctx, propertyID)
	if err != nil {
		return engine.Input{}, err
	}
	reg, err := h.Factory.BuildRegister(doc)
	if err != nil {
		return engine.Input{}, fmt.Errorf("property %s: %w", propertyID, err)
	}
	return reg.Input(rng), nil
}

// project runs the engine and records metrics.
func (h *Handler) project(source string, in engine.Input) generic.ProjectionResult {
	start := time.Now()
	result := engine.ProjectDetailed(in)

	if h.Metrics != nil {
		h.Metrics.ObserveProjection(source, in.Range().Len(), len(in.Assets)+len(in.CapitalWorks), time.Since(start))
	}
	return result
}

func (h *Handler) parseRange(from, to string) (generic.YearRange, error) {
	parsed, err := factory.ParseRange(from, to)
	if err != nil {
		return generic.YearRange{}, err
	}

	rng := h.DefaultRange()
	if parsed != nil {
		rng = *parsed
	}
	return rng, h.checkRange(rng)
}

func (h *Handler) checkRange(rng generic.YearRange) error {
	if h.MaxRangeYears > 0 && rng.Len() > h.MaxRangeYears {
		return fmt.Errorf("%w: %d years requested, at most %d", generic.ErrRangeTooLarge, rng.Len(), h.MaxRangeYears)
	}
	return nil
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError picks the status from the error's sentinel.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrDuplicateID):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
