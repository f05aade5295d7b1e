/*
scenarios.go - Demo properties for testing and demonstrations

PURPOSE:

	Provides pre-built properties that populate the database with realistic
	registers. Each scenario exercises a different corner of the engine.

AVAILABLE SCENARIOS:

	new-build-unit:    Off-the-plan apartment, every asset treatment
	established-house: 1990s house whose 40-year capital works window ends soon
	renovation:        Renovation completed part way through a financial year

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create the property
 3. Parse every record through the factory (same validation as the API)
 4. Store the normalised records

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "new-build-unit"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its register to scenarioRegisters

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Register endpoints the scenarios mirror
  - factory/records.go: Record parsing
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/depreciation-engine/factory"
	"github.com/warp/depreciation-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "new-build-unit",
		Name:        "New Build Unit",
		Description: "Apartment bought mid-year with DV, prime cost, low-value pool and immediate write-off assets",
	},
	{
		ID:          "established-house",
		Name:        "Established House",
		Description: "House built in 1992; capital works deductions stop in 2030-31",
	},
	{
		ID:          "renovation",
		Name:        "Renovation",
		Description: "Kitchen renovation finished in February, pro-rated first capital works year",
	},
}

type scenarioRegister struct {
	property sqlite.PropertyRecord
	register factory.RegisterJSON
}

var scenarioRegisters = map[string]scenarioRegister{
	"new-build-unit": {
		property: sqlite.PropertyRecord{ID: "new-build-unit", Name: "Unit 4, 18 Harbour St", Address: "18 Harbour St, Wollongong NSW"},
		register: factory.RegisterJSON{
			Assets: []factory.AssetRecord{
				{ID: "carpet", Description: "Carpet", Cost: "4200.00", EffectiveLife: "10", Method: "diminishing_value", PurchaseDate: "2025-09-14"},
				{ID: "oven", Description: "Freestanding oven", Cost: "1850.00", EffectiveLife: "12", Method: "diminishing_value", PurchaseDate: "2025-09-14"},
				{ID: "hot-water", Description: "Hot water system", Cost: "2400.00", EffectiveLife: "12", Method: "prime_cost", PurchaseDate: "2025-09-14"},
				{ID: "blinds", Description: "Blinds", Cost: "780.00", Pool: "low_value", PurchaseDate: "2025-09-14"},
				{ID: "smoke-alarms", Description: "Smoke alarms", Cost: "240.00", Pool: "immediate_writeoff", PurchaseDate: "2025-09-14"},
			},
			CapitalWorks: []factory.CapitalWorkRecord{
				{ID: "building", Description: "Apartment construction", ConstructionCost: "312500", ConstructionDate: "2024-03-01", ClaimStartDate: "2025-09-14"},
			},
		},
	},
	"established-house": {
		property: sqlite.PropertyRecord{ID: "established-house", Name: "7 Wattle Grove", Address: "7 Wattle Grove, Ballarat VIC"},
		register: factory.RegisterJSON{
			Assets: []factory.AssetRecord{
				{ID: "split-system", Description: "Split system air conditioner", Cost: "2890.00", EffectiveLife: "10", Method: "diminishing_value", PurchaseDate: "2024-07-01"},
				{ID: "dishwasher", Description: "Dishwasher", Cost: "1190.00", EffectiveLife: "10", Method: "prime_cost", PurchaseDate: "2025-01-20"},
				{ID: "ceiling-fans", Description: "Ceiling fans", Cost: "960.00", Pool: "low_value", PurchaseDate: "2024-07-01"},
			},
			CapitalWorks: []factory.CapitalWorkRecord{
				{ID: "building", Description: "Original construction", ConstructionCost: "185000", ConstructionDate: "1992-03-15", ClaimStartDate: "2024-07-01"},
			},
		},
	},
	"renovation": {
		property: sqlite.PropertyRecord{ID: "renovation", Name: "32 Kent Rd", Address: "32 Kent Rd, Brisbane QLD"},
		register: factory.RegisterJSON{
			Assets: []factory.AssetRecord{
				{ID: "rangehood", Description: "Rangehood", Cost: "890.00", EffectiveLife: "12", Method: "diminishing_value", PurchaseDate: "2026-02-01"},
				{ID: "cooktop", Description: "Induction cooktop", Cost: "1650.00", EffectiveLife: "12", Method: "diminishing_value", PurchaseDate: "2026-02-01"},
			},
			CapitalWorks: []factory.CapitalWorkRecord{
				{ID: "original", Description: "Original construction", ConstructionCost: "240000", ConstructionDate: "2001-06-01", ClaimStartDate: "2023-11-10"},
				{ID: "kitchen", Description: "Kitchen renovation", ConstructionCost: "38500", ConstructionDate: "2026-02-01"},
			},
		},
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a predefined property.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	scenario, ok := scenarioRegisters[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	if err := h.loadRegister(ctx, scenario.property, scenario.register); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.Logger.Info().Str("scenario", req.ScenarioID).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID, "property_id": scenario.property.ID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// loadRegister stores a property and its register, validating every record
// on the way in.
func (h *Handler) loadRegister(ctx context.Context, property sqlite.PropertyRecord, doc factory.RegisterJSON) error {
	reg, err := h.Factory.BuildRegister(doc)
	if err != nil {
		return err
	}

	if err := h.Store.SaveProperty(ctx, property); err != nil {
		return err
	}
	for _, a := range reg.Assets {
		if err := h.Store.SaveAsset(ctx, property.ID, factory.ToAssetRecord(a)); err != nil {
			return fmt.Errorf("asset %s: %w", a.ID, err)
		}
	}
	for _, cw := range reg.CapitalWorks {
		if err := h.Store.SaveCapitalWork(ctx, property.ID, factory.ToCapitalWorkRecord(cw)); err != nil {
			return fmt.Errorf("capital work %s: %w", cw.ID, err)
		}
	}
	return nil
}
