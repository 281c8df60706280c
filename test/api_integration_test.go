package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/api/assignments"
	apiconflicts "github.com/divyarao54/drone-coordinator/api/conflicts"
	apimissions "github.com/divyarao54/drone-coordinator/api/missions"
	apipilots "github.com/divyarao54/drone-coordinator/api/pilots"
	apistats "github.com/divyarao54/drone-coordinator/api/stats"
	"github.com/divyarao54/drone-coordinator/api/system"
	"github.com/divyarao54/drone-coordinator/core/assignment"
	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/core/report"
	"github.com/divyarao54/drone-coordinator/infra/logger"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
	"github.com/divyarao54/drone-coordinator/test/util"
)

const apiToken = "integration-token"

// startAPI wires the full HTTP surface over a cached memory store, the way
// the service does, and returns the test server base URL plus the store.
func startAPI(t *testing.T) (string, fleet.Store) {
	t.Helper()
	pilots, drones, missions := util.StandardFleet()
	store := fleet.NewCachedStore(fleet.NewMemoryStore(pilots, drones, missions), time.Hour)

	audit, err := logging.NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("audit store: %v", err)
	}
	bus := eventbus.New()
	engine := matching.NewEngine()
	coord, err := assignment.NewCoordinator(store, engine, logger.NopLogger{})
	if err != nil {
		t.Fatalf("coordinator: %v", err)
	}
	coord.SetAuditStore(audit)
	coord.SetEventBus(bus)
	det := conflict.NewDetector(store)

	mux := http.NewServeMux()
	mux.Handle("/stats", apistats.NewStatsHandler(store, engine))
	mux.Handle("/sync", system.NewSyncHandler(store))
	mux.Handle("/pilots/{id}/status", apipilots.NewStatusHandler(store, det, bus))
	mux.Handle("/missions/{id}", apimissions.NewGetHandler(store))
	mux.Handle("/assign", assignments.NewAssignHandler(coord))
	mux.Handle("/urgent-reassign", assignments.NewUrgentHandler(coord))
	mux.Handle("/conflicts", apiconflicts.NewListHandler(det))
	mux.Handle("/audit", assignments.NewAuditHandler(audit, apiToken))

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		if err := coord.Close(); err != nil {
			t.Errorf("coordinator close: %v", err)
		}
	})
	return srv.URL, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestAPIAssignmentRoundTrip(t *testing.T) {
	base, _ := startAPI(t)

	resp := postJSON(t, base+"/assign", map[string]string{
		"project_id": "PRJ001", "pilot_id": "P001", "drone_id": "D001",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign status = %d", resp.StatusCode)
	}
	var assigned struct {
		Message    string                `json:"message"`
		Assignment assignment.Assignment `json:"assignment"`
	}
	decodeBody(t, resp, &assigned)
	if assigned.Assignment.ProjectID != "PRJ001" || assigned.Assignment.ID == "" {
		t.Fatalf("unexpected assign response: %+v", assigned)
	}

	resp, err := http.Get(base + "/missions/PRJ001")
	if err != nil {
		t.Fatalf("get mission: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mission status = %d", resp.StatusCode)
	}
	var mission model.Mission
	decodeBody(t, resp, &mission)
	if mission.AssignedPilot != "P001" || mission.AssignedDrone != "D001" {
		t.Fatalf("mission crew not visible through the API: %+v", mission)
	}

	// P002 lacks the mapping skills and is based in the wrong city.
	resp = postJSON(t, base+"/assign", map[string]string{
		"project_id": "PRJ001", "pilot_id": "P002", "drone_id": "D001",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for unqualified pilot, got %d", resp.StatusCode)
	}
	var blocked struct {
		Error     string              `json:"error"`
		Conflicts []conflict.Conflict `json:"conflicts"`
	}
	decodeBody(t, resp, &blocked)
	if len(blocked.Conflicts) == 0 {
		t.Fatal("expected conflicts in the 409 body")
	}

	req, err := http.NewRequest(http.MethodGet, base+"/audit?outcome=committed", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit status = %d", resp.StatusCode)
	}
	var recs []logging.Record
	decodeBody(t, resp, &recs)
	if len(recs) != 1 || recs[0].ProjectID != "PRJ001" {
		t.Fatalf("unexpected audit trail: %+v", recs)
	}
}

func TestAPIStatusChangeAndStats(t *testing.T) {
	base, store := startAPI(t)

	resp := postJSON(t, base+"/assign", map[string]string{
		"project_id": "PRJ001", "pilot_id": "P001", "drone_id": "D001",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	body, err := json.Marshal(map[string]string{"status": "On Leave"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPut, base+"/pilots/P001/status", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update = %d", resp.StatusCode)
	}
	var updated struct {
		Message   string              `json:"message"`
		Conflicts []conflict.Conflict `json:"conflicts"`
	}
	decodeBody(t, resp, &updated)
	if len(updated.Conflicts) != 0 {
		t.Fatalf("single assignment should not double-book: %+v", updated.Conflicts)
	}

	resp, err = http.Get(base + "/stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats struct {
		Fleet report.FleetStats `json:"fleet"`
	}
	decodeBody(t, resp, &stats)
	// P001 assigned then on leave, P002 still free; D001 in use.
	if stats.Fleet.AvailablePilots != 1 || stats.Fleet.AvailableDrones != 1 {
		t.Fatalf("unexpected head counts: %+v", stats.Fleet)
	}

	// The cache now holds post-update state; a sync drops it and the next
	// read still agrees with the inner store.
	resp = postJSON(t, base+"/sync", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync status = %d", resp.StatusCode)
	}
	resp.Body.Close()
	pilot, _, err := store.GetPilot(context.Background(), "P001")
	if err != nil {
		t.Fatalf("get pilot: %v", err)
	}
	if pilot.Status != model.PilotOnLeave {
		t.Fatalf("expected On Leave after sync, got %s", pilot.Status)
	}
	if pilot.CurrentAssignment != "PRJ001" {
		t.Fatalf("status change must keep the assignment, got %q", pilot.CurrentAssignment)
	}
}
