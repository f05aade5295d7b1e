/*
scenarios_test.go - Tests for the demo scenarios

Every scenario must load through the same validation as the API and
produce the capital works figures its description promises.
*/
package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScenario(t *testing.T, s *testServer, id string) map[string]string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[map[string]string](t, rec)
}

func TestScenarios_AllLoad(t *testing.T) {
	s := setupTestHandler(t)

	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			// WHEN: Loading the scenario
			resp := loadScenario(t, s, sc.ID)
			assert.Equal(t, "loaded", resp["status"])

			// THEN: It is the only property, with a register to project
			rec := s.do(t, http.MethodGet, "/api/properties", nil)
			properties := decodeBody[[]PropertyDTO](t, rec)
			require.Len(t, properties, 1)
			assert.Equal(t, resp["property_id"], properties[0].ID)

			rec = s.do(t, http.MethodGet, "/api/properties/"+resp["property_id"]+"/projection", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEqual(t, "0.00", decodeBody[ProjectionResponse](t, rec).Totals.GrandTotal)

			rec = s.do(t, http.MethodGet, "/api/scenarios/current", nil)
			assert.Equal(t, sc.ID, decodeBody[ScenarioDTO](t, rec).ID)
		})
	}
}

func TestScenario_NewBuildUnit(t *testing.T) {
	s := setupTestHandler(t)
	loadScenario(t, s, "new-build-unit")

	rec := s.do(t, http.MethodGet, "/api/properties/new-build-unit/projection?from=2026&to=2026", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	row := decodeBody[ProjectionResponse](t, rec).Rows[0]

	// 780 * 37.5%
	assert.Equal(t, "292.50", row.LowValuePoolTotal)
	// 312500 * 2.5% over 290 of 365 days
	assert.Equal(t, "6207.19", row.Div43Total)
}

func TestScenario_EstablishedHouseWindowCloses(t *testing.T) {
	s := setupTestHandler(t)
	loadScenario(t, s, "established-house")

	// GIVEN: Built in FY1992, so FY2031 is the 40th and last claim year
	rec := s.do(t, http.MethodGet, "/api/properties/established-house/projection?from=2031&to=2032", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody[ProjectionResponse](t, rec).Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "4625.00", rows[0].Div43Total)
	assert.Equal(t, "0.00", rows[1].Div43Total)
}

func TestScenario_RenovationProRated(t *testing.T) {
	s := setupTestHandler(t)
	loadScenario(t, s, "renovation")

	rec := s.do(t, http.MethodGet, "/api/properties/renovation/projection?from=2026&to=2027", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody[ProjectionResponse](t, rec).Rows
	require.Len(t, rows, 2)
	// Original 6000.00 plus the kitchen's 150 days of 962.50
	assert.Equal(t, "6395.55", rows[0].Div43Total)
	assert.Equal(t, "6962.50", rows[1].Div43Total)
}

func TestLoadScenario_ReplacesPreviousData(t *testing.T) {
	s := setupTestHandler(t)
	loadScenario(t, s, "new-build-unit")
	loadScenario(t, s, "renovation")

	rec := s.do(t, http.MethodGet, "/api/properties/new-build-unit", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoadScenario_Unknown(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "castle"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetDatabase(t *testing.T) {
	s := setupTestHandler(t)
	loadScenario(t, s, "established-house")

	rec := s.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/properties", nil)
	assert.Empty(t, decodeBody[[]PropertyDTO](t, rec))

	rec = s.do(t, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestListScenarios(t *testing.T) {
	s := setupTestHandler(t)

	rec := s.do(t, http.MethodGet, "/api/scenarios", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ScenarioDTO](t, rec), len(scenarios))
}
