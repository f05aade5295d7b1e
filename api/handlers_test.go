/*
handlers_test.go - HTTP API tests

PURPOSE:
  Drives the router end to end against an in-memory SQLite store with the
  clock pinned, and checks status codes plus the two-place decimal strings
  clients see.

FIXTURE:
  Property "p1" with one diminishing value asset (10000 over 10 years,
  bought 1 July 2024) and one capital work (400000, built 2020, claimed
  from 1 July 2025).

SEE ALSO:
  - scenarios_test.go: Demo property loading
  - scheduler_test.go: Background snapshots
*/
package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/metrics"
	"github.com/warp/depreciation-engine/store/sqlite"
)

// testNow is in FY2027 (2026-27).
var testNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

type testServer struct {
	handler  *Handler
	router   http.Handler
	registry *prometheus.Registry
}

func setupTestHandler(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	registry := prometheus.NewRegistry()
	h := NewHandler(store, metrics.New(registry), zerolog.Nop())
	h.Now = func() time.Time { return testNow }

	return &testServer{
		handler:  h,
		router:   NewRouter(h, RouterConfig{Gatherer: registry}),
		registry: registry,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// seedFixture creates p1 with its asset and capital work through the API.
func (s *testServer) seedFixture(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/properties", CreatePropertyRequest{ID: "p1", Name: "Unit 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/properties/p1/assets", factory.AssetRecord{
		ID: "dv", Description: "Heat pump", Cost: "10000.00", EffectiveLife: "10", Method: "dv", PurchaseDate: "2024-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/properties/p1/capital-works", factory.CapitalWorkRecord{
		ID: "building", ConstructionCost: "400000", ConstructionDate: "2020-01-01", ClaimStartDate: "2025-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// =============================================================================
// HEALTH AND METRICS
// =============================================================================

func TestHealthz(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}

func TestMetricsEndpoint_ExposesProjectionCounters(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	// GIVEN: One projection served
	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// WHEN: Scraping /metrics
	rec = s.do(t, http.MethodGet, "/metrics", nil)

	// THEN: Projection and HTTP series are present
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `depreciation_projections_total{source="property"} 1`)
	assert.Contains(t, body, `route="/api/properties/{id}/projection"`)
}

func TestUnknownRoute_JSONNotFound(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodGet, "/api/nowhere", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody[ErrorResponse](t, rec).Error)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestProperty_CRUD(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodPost, "/api/properties", CreatePropertyRequest{ID: "p1", Name: " Unit 1 ", Address: "1 Main St"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[PropertyDTO](t, rec)
	assert.Equal(t, "Unit 1", created.Name)
	assert.NotEmpty(t, created.CreatedAt)

	rec = s.do(t, http.MethodGet, "/api/properties/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 Main St", decodeBody[PropertyDTO](t, rec).Address)

	rec = s.do(t, http.MethodGet, "/api/properties", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]PropertyDTO](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/api/properties/p1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/properties/p1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/properties/p1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProperty_GeneratesID(t *testing.T) {
	s := setupTestHandler(t)
	s.handler.Factory.NewID = func() string { return "generated" }

	rec := s.do(t, http.MethodPost, "/api/properties", CreatePropertyRequest{Name: "No ID"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "generated", decodeBody[PropertyDTO](t, rec).ID)
}

func TestCreateProperty_Validation(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodPost, "/api/properties", CreatePropertyRequest{ID: "p1", Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader("{not json"))
	raw := httptest.NewRecorder()
	s.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

// =============================================================================
// ASSETS
// =============================================================================

func TestCreateAsset_StoresNormalisedRecord(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	// GIVEN: Shorthand method and no pool
	rec := s.do(t, http.MethodPost, "/api/properties/p1/assets", factory.AssetRecord{
		ID: "oven", Cost: "1000.50", EffectiveLife: "12", Method: "pc", PurchaseDate: "2025-09-14",
	})

	// THEN: Canonical names come back and are what is stored
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeBody[factory.AssetRecord](t, rec)
	assert.Equal(t, "prime_cost", got.Method)
	assert.Equal(t, "individual", got.Pool)
	assert.Equal(t, "1000.5", got.Cost)

	rec = s.do(t, http.MethodGet, "/api/properties/p1/assets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assets := decodeBody[[]factory.AssetRecord](t, rec)
	require.Len(t, assets, 2)
}

func TestCreateAsset_Errors(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/properties", CreatePropertyRequest{ID: "p2", Name: "Unit 2"}).Code)

	tests := []struct {
		name   string
		path   string
		asset  factory.AssetRecord
		status int
	}{
		{
			name:   "negative cost",
			path:   "/api/properties/p1/assets",
			asset:  factory.AssetRecord{ID: "x", Cost: "-1", EffectiveLife: "5", PurchaseDate: "2025-07-01"},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing effective life",
			path:   "/api/properties/p1/assets",
			asset:  factory.AssetRecord{ID: "x", Cost: "100", PurchaseDate: "2025-07-01"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown method",
			path:   "/api/properties/p1/assets",
			asset:  factory.AssetRecord{ID: "x", Cost: "100", EffectiveLife: "5", Method: "straight", PurchaseDate: "2025-07-01"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown property",
			path:   "/api/properties/missing/assets",
			asset:  factory.AssetRecord{ID: "x", Cost: "100", EffectiveLife: "5", PurchaseDate: "2025-07-01"},
			status: http.StatusNotFound,
		},
		{
			name:   "id owned by another property",
			path:   "/api/properties/p2/assets",
			asset:  factory.AssetRecord{ID: "dv", Cost: "100", EffectiveLife: "5", PurchaseDate: "2025-07-01"},
			status: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.asset)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestListAssets_UnknownProperty(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodGet, "/api/properties/missing/assets", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAsset(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/properties/p1/assets/dv", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/properties/p1/assets/dv", nil).Code)
}

func TestGetAssetSchedule(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	// WHEN: Asking for three years of the DV asset
	rec := s.do(t, http.MethodGet, "/api/properties/p1/assets/dv/schedule?years=3", nil)

	// THEN: 20% of the written-down value each year
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[ScheduleResponse](t, rec)
	assert.Equal(t, "div40", resp.Category)
	require.Len(t, resp.Entries, 3)

	assert.Equal(t, ScheduleEntryDTO{FinancialYear: 2025, Label: "2024-25", OpeningValue: "10000.00", Deduction: "2000.00", ClosingValue: "8000.00"}, resp.Entries[0])
	assert.Equal(t, "1600.00", resp.Entries[1].Deduction)
	assert.Equal(t, "1280.00", resp.Entries[2].Deduction)
	assert.Equal(t, "5120.00", resp.Entries[2].ClosingValue)
	assert.Equal(t, "4880.00", resp.TotalDeducted)
}

func TestGetAssetSchedule_Errors(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/properties/p1/assets/dv/schedule?years=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/properties/p1/assets/dv/schedule?years=0", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/properties/p1/assets/nope/schedule", nil).Code)
}

// =============================================================================
// CAPITAL WORKS
// =============================================================================

func TestListCapitalWorks_IncludesClaimWindow(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	rec := s.do(t, http.MethodGet, "/api/properties/p1/capital-works", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	works := decodeBody[[]CapitalWorkDTO](t, rec)
	require.Len(t, works, 1)
	assert.Equal(t, "building", works[0].ID)
	assert.Equal(t, "10000.00", works[0].AnnualDeduction)
	assert.Equal(t, "2025-26", works[0].ClaimFrom)
	assert.Equal(t, "2058-59", works[0].ClaimTo)
}

func TestCreateCapitalWork_DefaultsClaimStart(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	rec := s.do(t, http.MethodPost, "/api/properties/p1/capital-works", factory.CapitalWorkRecord{
		ID: "deck", ConstructionCost: "12000", ConstructionDate: "2026-01-15",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeBody[CapitalWorkDTO](t, rec)
	assert.Equal(t, "2026-01-15", got.ClaimStartDate)
	assert.Equal(t, "300.00", got.AnnualDeduction)
	assert.Equal(t, "2025-26", got.ClaimFrom)
}

func TestCreateCapitalWork_Invalid(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	rec := s.do(t, http.MethodPost, "/api/properties/p1/capital-works", factory.CapitalWorkRecord{
		ID: "deck", ConstructionCost: "twelve", ConstructionDate: "2026-01-15",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/properties/p1/capital-works/building", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/properties/p1/capital-works/building", nil).Code)
}

// =============================================================================
// PROJECTIONS
// =============================================================================

func TestGetProjection_ExplicitRange(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	// WHEN: Projecting FY2025 to FY2027
	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection?from=2025&to=2026-27", nil)

	// THEN: Capital works start in the claim year, the asset from purchase
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[ProjectionResponse](t, rec)
	assert.Equal(t, "p1", resp.PropertyID)
	assert.Equal(t, 2025, resp.From)
	assert.Equal(t, 2027, resp.To)
	require.Len(t, resp.Rows, 3)

	assert.Equal(t, ProjectionRowDTO{FinancialYear: 2025, Label: "2024-25", Div40Total: "2000.00", Div43Total: "0.00", LowValuePoolTotal: "0.00", GrandTotal: "2000.00"}, resp.Rows[0])
	assert.Equal(t, ProjectionRowDTO{FinancialYear: 2026, Label: "2025-26", Div40Total: "1600.00", Div43Total: "10000.00", LowValuePoolTotal: "0.00", GrandTotal: "11600.00"}, resp.Rows[1])
	assert.Equal(t, ProjectionRowDTO{FinancialYear: 2027, Label: "2026-27", Div40Total: "1280.00", Div43Total: "10000.00", LowValuePoolTotal: "0.00", GrandTotal: "11280.00"}, resp.Rows[2])

	assert.Equal(t, "total", resp.Totals.Label)
	assert.Equal(t, "4880.00", resp.Totals.Div40Total)
	assert.Equal(t, "20000.00", resp.Totals.Div43Total)
	assert.Equal(t, "24880.00", resp.Totals.GrandTotal)
	assert.Empty(t, resp.Lines)
}

func TestGetProjection_DefaultRangeStartsAtCurrentYear(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ProjectionResponse](t, rec)
	assert.Equal(t, 2027, resp.From)
	assert.Equal(t, 2037, resp.To)
	assert.Len(t, resp.Rows, 11)
	assert.Equal(t, "2026-27", resp.Rows[0].Label)
}

func TestGetProjection_Detail(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection?from=2026&to=2026&detail=true", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ProjectionResponse](t, rec)
	assert.ElementsMatch(t, []LineItemDTO{
		{FinancialYear: 2026, SourceID: "dv", Category: "div40", Amount: "1600.00"},
		{FinancialYear: 2026, SourceID: "building", Category: "div43", Amount: "10000.00"},
	}, resp.Lines)
}

func TestGetProjection_Errors(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"bad from", "/api/properties/p1/projection?from=twenty", http.StatusBadRequest},
		{"to without from", "/api/properties/p1/projection?to=2030", http.StatusBadRequest},
		{"range too large", "/api/properties/p1/projection?from=2000&to=2200", http.StatusBadRequest},
		{"unknown property", "/api/properties/missing/projection", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestGetProjection_EmptyRange(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	// GIVEN: from after to
	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection?from=2030&to=2029", nil)

	// THEN: No rows, zero totals
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ProjectionResponse](t, rec)
	assert.Empty(t, resp.Rows)
	assert.Equal(t, "0.00", resp.Totals.GrandTotal)
}

func TestProjectRegister_Stateless(t *testing.T) {
	s := setupTestHandler(t)

	body := ProjectionRequest{
		RegisterJSON: factory.RegisterJSON{
			From: "2025",
			To:   "2026",
			Assets: []factory.AssetRecord{
				{ID: "dv", Cost: "10000", EffectiveLife: "10", PurchaseDate: "2024-07-01"},
				{ID: "blinds", Cost: "800", Pool: "low_value", PurchaseDate: "2024-07-01"},
			},
		},
		Detail: true,
	}

	rec := s.do(t, http.MethodPost, "/api/projections", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[ProjectionResponse](t, rec)
	assert.Empty(t, resp.PropertyID)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "300.00", resp.Rows[0].LowValuePoolTotal)
	assert.Equal(t, "2300.00", resp.Rows[0].GrandTotal)
	assert.Equal(t, "93.75", resp.Rows[1].LowValuePoolTotal)
	assert.Len(t, resp.Lines, 4)

	// Nothing was stored
	rec = s.do(t, http.MethodGet, "/api/properties", nil)
	assert.Empty(t, decodeBody[[]PropertyDTO](t, rec))
}

func TestProjectRegister_DefaultRange(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodPost, "/api/projections", ProjectionRequest{})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ProjectionResponse](t, rec)
	assert.Equal(t, 2027, resp.From)
	assert.Len(t, resp.Rows, 11)
	assert.Equal(t, "0.00", resp.Totals.GrandTotal)
}

func TestProjectRegister_Invalid(t *testing.T) {
	s := setupTestHandler(t)

	tests := []struct {
		name string
		body ProjectionRequest
	}{
		{"duplicate ids", ProjectionRequest{RegisterJSON: factory.RegisterJSON{Assets: []factory.AssetRecord{
			{ID: "a", Cost: "1", EffectiveLife: "1", PurchaseDate: "2025-07-01"},
			{ID: "a", Cost: "1", EffectiveLife: "1", PurchaseDate: "2025-07-01"},
		}}}},
		{"bad date", ProjectionRequest{RegisterJSON: factory.RegisterJSON{Assets: []factory.AssetRecord{
			{ID: "a", Cost: "1", EffectiveLife: "1", PurchaseDate: "01/07/2025"},
		}}}},
		{"range too large", ProjectionRequest{RegisterJSON: factory.RegisterJSON{From: "2000", To: "2300"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/projections", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func TestSnapshot_CreateAndGetLatest(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)

	// GIVEN: No snapshot yet
	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection/snapshot", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// WHEN: Taking one manually
	rec = s.do(t, http.MethodPost, "/api/properties/p1/projection/snapshot", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[SnapshotDTO](t, rec)

	// THEN: It covers the default range and is current
	assert.Equal(t, "manual", created.Reason)
	assert.Equal(t, 2027, created.From)
	assert.Equal(t, 2037, created.To)
	assert.True(t, created.Current)
	assert.Len(t, created.Rows, 11)
	assert.Equal(t, "1280.00", created.Rows[0].Div40Total)
	assert.Equal(t, "11280.00", created.Rows[0].GrandTotal)

	rec = s.do(t, http.MethodGet, "/api/properties/p1/projection/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decodeBody[SnapshotDTO](t, rec)
	assert.Equal(t, created.ID, latest.ID)
	assert.Equal(t, created.Rows, latest.Rows)
	assert.Equal(t, "2026-10-19T09:30:00Z", latest.TakenAt)
}

func TestSnapshot_UnknownProperty(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodPost, "/api/properties/missing/projection/snapshot", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnapshot_NotCurrentAfterRollover(t *testing.T) {
	s := setupTestHandler(t)
	s.seedFixture(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/properties/p1/projection/snapshot", nil).Code)

	// WHEN: The clock moves into FY2028
	s.handler.Now = func() time.Time { return time.Date(2027, time.July, 1, 0, 0, 0, 0, time.UTC) }

	rec := s.do(t, http.MethodGet, "/api/properties/p1/projection/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[SnapshotDTO](t, rec).Current)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestCurrentFinancialYear(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodGet, "/api/financial-years/current?date=2026-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, FinancialYearDTO{
		FinancialYear: 2026,
		Label:         "2025-26",
		Start:         "2025-07-01",
		End:           "2026-06-30",
		Days:          365,
		DaysRemaining: 181,
	}, decodeBody[FinancialYearDTO](t, rec))

	// Defaults to the handler clock
	rec = s.do(t, http.MethodGet, "/api/financial-years/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2027, decodeBody[FinancialYearDTO](t, rec).FinancialYear)

	rec = s.do(t, http.MethodGet, "/api/financial-years/current?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
