/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for testing and demos. Each scenario creates a resource hierarchy and
  department scope configs that demonstrate specific features.

AVAILABLE SCENARIOS:
  head-office:   One building, two floors, four rooms; facilities (EFM)
                 scopes with weekday business-hours windows
  shared-campus: Rooms bookable by two departments with different
                 capacities, plus an unrestricted (no window) room

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "head-office"}

NOTE:
  Scenario loading assumes an empty or disposable database. Only use in
  development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeFailure helpers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warp/booking-engine/booking"
	"github.com/warp/booking-engine/directory"
	"github.com/warp/booking-engine/store/sqlite"
)

// =============================================================================
// SCENARIO REGISTRY
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "head-office",
		Name:        "Head Office",
		Description: "Building A with two floors and four rooms, scoped to facilities (EFM) with weekday business-hours windows",
	},
	{
		ID:          "shared-campus",
		Name:        "Shared Campus",
		Description: "Rooms bookable by two departments with different capacities, including an always-available room",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario populates the database with a named scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "head-office":
		err = LoadHeadOfficeScenario(r.Context(), h.Store)
	case "shared-campus":
		err = loadSharedCampusScenario(r.Context(), h.Store)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// LoadHeadOfficeScenario seeds Building A: floors 01 and 02, rooms A-01-01,
// A-01-02, A-02-01, A-02-02, all scoped to department EFM. Room A-01-01 has
// capacity 10 and window "Mon to Fri (9AM to 6PM)". Exported so tests can
// reuse the fixture.
func LoadHeadOfficeScenario(ctx context.Context, store *sqlite.Store) error {
	building, err := seedNode(ctx, store, "", directory.KindBuilding, "Building A")
	if err != nil {
		return err
	}

	type roomSpec struct {
		floor    string
		name     string
		capacity int
		window   string
	}
	rooms := []roomSpec{
		{"Floor 01", "A-01-01", 10, "Mon to Fri (9AM to 6PM)"},
		{"Floor 01", "A-01-02", 4, "Mon to Fri (8AM to 8PM)"},
		{"Floor 02", "A-02-01", 16, "Mon to Sat (9AM to 6PM)"},
		{"Floor 02", "A-02-02", 6, "Always Available"},
	}

	floors := make(map[string]booking.ResourceID)
	for _, spec := range rooms {
		floorID, ok := floors[spec.floor]
		if !ok {
			floorID, err = seedNode(ctx, store, building, directory.KindFloor, spec.floor)
			if err != nil {
				return err
			}
			floors[spec.floor] = floorID
		}

		roomID, err := seedNode(ctx, store, floorID, directory.KindRoom, spec.name)
		if err != nil {
			return err
		}
		if err := store.PutConfig(ctx, booking.ResourceConfig{
			ResourceID:         roomID,
			Department:         "EFM",
			Capacity:           spec.capacity,
			AvailabilityWindow: spec.window,
		}); err != nil {
			return err
		}
	}
	return nil
}

// loadSharedCampusScenario seeds a building whose rooms carry configs for
// two departments, plus one room with no availability window at all.
func loadSharedCampusScenario(ctx context.Context, store *sqlite.Store) error {
	building, err := seedNode(ctx, store, "", directory.KindBuilding, "Campus West")
	if err != nil {
		return err
	}
	floor, err := seedNode(ctx, store, building, directory.KindFloor, "Ground")
	if err != nil {
		return err
	}

	shared, err := seedNode(ctx, store, floor, directory.KindRoom, "W-00-01")
	if err != nil {
		return err
	}
	for _, cfg := range []booking.ResourceConfig{
		{ResourceID: shared, Department: "EFM", Capacity: 12, AvailabilityWindow: "Mon to Fri (9AM to 6PM)"},
		{ResourceID: shared, Department: "FSS", Capacity: 8, AvailabilityWindow: "Mon to Fri (9AM to 5PM)"},
	} {
		if err := store.PutConfig(ctx, cfg); err != nil {
			return err
		}
	}

	open, err := seedNode(ctx, store, floor, directory.KindRoom, "W-00-02")
	if err != nil {
		return err
	}
	return store.PutConfig(ctx, booking.ResourceConfig{
		ResourceID: open,
		Department: "FSS",
		Capacity:   20,
	})
}

func seedNode(ctx context.Context, store *sqlite.Store, parent booking.ResourceID, kind directory.NodeKind, name string) (booking.ResourceID, error) {
	id := booking.ResourceID(uuid.NewString())
	err := store.CreateNode(ctx, directory.Node{
		ID:        id,
		ParentID:  parent,
		Kind:      kind,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("seed node %s: %w", name, err)
	}
	return id, nil
}
