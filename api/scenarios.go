/*
scenarios.go - Demo data sets

PURPOSE:
  Provides named data sets that replace the whole collection for testing
  and demos. Loading a scenario also drops all session state (selection,
  form, staged delete, query inputs).

AVAILABLE SCENARIOS:

	sample:   The 20 seed employees. Default at startup.
	empty:    No records. The first create gets id 1.
	it-only:  The Information Technology subset of the seed.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "it-only"}

	POST /api/scenarios/reset   (empty collection, no current scenario)

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a case to ScenarioRecords
*/
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/warp/employee-directory/directory"
)

// ErrUnknownScenario is returned for scenario ids outside the list.
var ErrUnknownScenario = errors.New("unknown scenario")

// DefaultScenario is loaded when nothing else is configured.
const DefaultScenario = "sample"

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "sample",
		Name:        "Sample Directory",
		Description: "Twenty employees across every department",
	},
	{
		ID:          "empty",
		Name:        "Empty Directory",
		Description: "No employees; the first one created gets id 1",
	},
	{
		ID:          "it-only",
		Name:        "IT Department",
		Description: "Only the Information Technology employees from the sample",
	},
}

// ScenarioRecords returns a fresh copy of a scenario's employees.
func ScenarioRecords(id string) ([]directory.Employee, error) {
	switch id {
	case "sample":
		return directory.SampleEmployees(), nil
	case "empty":
		return []directory.Employee{}, nil
	case "it-only":
		var out []directory.Employee
		for _, e := range directory.SampleEmployees() {
			if e.Department == "Information Technology" {
				out = append(out, e)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
}

// ListScenarios returns available scenarios with their record counts.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		records, _ := ScenarioRecords(s.ID)
		s.Records = len(records)
		out[i] = s
	}
	ok(w, "", out)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		ok(w, "", nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			records, _ := ScenarioRecords(s.ID)
			s.Records = len(records)
			ok(w, "", s)
			return
		}
	}
	ok(w, "", ScenarioDTO{ID: current, Name: current, Description: "Currently loaded scenario"})
}

// LoadScenario replaces the collection with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	records, err := ScenarioRecords(req.ScenarioID)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	h.mu.Lock()
	h.session.Reload(records)
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.log.Info().Str("scenario", req.ScenarioID).Int("records", len(records)).Msg("scenario loaded")
	ok(w, fmt.Sprintf("Scenario %s loaded", req.ScenarioID), map[string]any{
		"scenario_id": req.ScenarioID,
		"records":     len(records),
	})
}

// ResetDirectory empties the collection and forgets the current scenario.
func (h *Handler) ResetDirectory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.session.Reload(nil)
	h.currentScenario = ""
	h.mu.Unlock()

	h.log.Info().Msg("directory reset")
	ok(w, "Directory reset", nil)
}
