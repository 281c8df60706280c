package pilots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

func rosterStore() *fleet.MemoryStore {
	pilots := []model.Pilot{
		{ID: "P001", Name: "Asha", Skills: []string{"mapping"}, Location: "Pune", Status: model.PilotAvailable},
		{ID: "P002", Name: "Ravi", Skills: []string{"survey"}, Location: "Mumbai", Status: model.PilotAssigned, CurrentAssignment: "PRJ001"},
	}
	return fleet.NewMemoryStore(pilots, nil, nil)
}

func TestListHandler_Filters(t *testing.T) {
	h := NewListHandler(rosterStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/pilots", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []model.Pilot
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 pilots, got %d", len(out))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/pilots?status=Available", nil))
	out = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "P001" {
		t.Fatalf("status filter bad %#v", out)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/pilots?location=Mumbai", nil))
	out = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "P002" {
		t.Fatalf("location filter bad %#v", out)
	}
}

func TestListHandler_MethodGuard(t *testing.T) {
	h := NewListHandler(rosterStore())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/pilots", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestGetHandler(t *testing.T) {
	h := NewGetHandler(rosterStore())

	req := httptest.NewRequest("GET", "/pilots/P002", nil)
	req.SetPathValue("id", "P002")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var p model.Pilot
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID != "P002" || p.Name != "Ravi" {
		t.Fatalf("unexpected pilot %+v", p)
	}

	req = httptest.NewRequest("GET", "/pilots/P999", nil)
	req.SetPathValue("id", "P999")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestStatusHandler_UpdatesAndReportsConflicts(t *testing.T) {
	pilots := []model.Pilot{
		{ID: "P001", Name: "Asha", Location: "Pune", Status: model.PilotAssigned, CurrentAssignment: "PRJ001"},
	}
	missions := []model.Mission{
		{
			ProjectID: "PRJ001", Location: "Pune", AssignedPilot: "P001", AssignedDrone: "D001",
			StartDate: model.ParseDate("2026-03-10"), EndDate: model.ParseDate("2026-03-20"),
		},
		{
			ProjectID: "PRJ002", Location: "Pune", AssignedPilot: "P001", AssignedDrone: "D002",
			StartDate: model.ParseDate("2026-03-15"), EndDate: model.ParseDate("2026-03-25"),
		},
	}
	store := fleet.NewMemoryStore(pilots, nil, missions)
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	h := NewStatusHandler(store, conflict.NewDetector(store), bus)

	req := httptest.NewRequest("PUT", "/pilots/P001/status", strings.NewReader(`{"status":"On Leave"}`))
	req.SetPathValue("id", "P001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var resp statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Conflicts) != 1 || resp.Conflicts[0].Type != conflict.TypeDoubleBooking {
		t.Fatalf("expected the double booking, got %#v", resp.Conflicts)
	}

	p, ok, err := store.GetPilot(context.Background(), "P001")
	if err != nil || !ok {
		t.Fatalf("reload pilot: ok=%v err=%v", ok, err)
	}
	if p.Status != model.PilotOnLeave {
		t.Fatalf("status not persisted: %s", p.Status)
	}
	if p.CurrentAssignment != "PRJ001" {
		t.Fatalf("assignment not preserved: %q", p.CurrentAssignment)
	}

	select {
	case ev := <-sub:
		se, ok := ev.(events.PilotStatusEvent)
		if !ok {
			t.Fatalf("unexpected event %T", ev)
		}
		if se.PilotID != "P001" || se.Status != model.PilotOnLeave {
			t.Fatalf("unexpected status event %+v", se)
		}
	case <-time.After(time.Second):
		t.Fatal("no status event published")
	}
}

func TestStatusHandler_Validation(t *testing.T) {
	store := rosterStore()
	h := NewStatusHandler(store, conflict.NewDetector(store), nil)

	req := httptest.NewRequest("PUT", "/pilots/P001/status", strings.NewReader(`{"status":"Retired"}`))
	req.SetPathValue("id", "P001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	req = httptest.NewRequest("PUT", "/pilots/P999/status", strings.NewReader(`{"status":"Available"}`))
	req.SetPathValue("id", "P999")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
