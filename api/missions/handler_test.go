package missions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/model"
)

func bookStore() *fleet.MemoryStore {
	pilots := []model.Pilot{
		{
			ID: "P001", Name: "Asha", Skills: []string{"mapping"}, Location: "Pune",
			Status: model.PilotAvailable,
		},
	}
	drones := []model.Drone{
		{
			ID: "D001", Model: "Matrice 350", Status: model.DroneAvailable, Location: "Pune",
			MaintenanceDue: model.ParseDate("2026-06-01"),
		},
	}
	missions := []model.Mission{
		{
			ProjectID: "PRJ001", Client: "AgriSense", Location: "Pune",
			RequiredSkills: []string{"mapping"},
			StartDate:      model.ParseDate("2026-03-10"),
			EndDate:        model.ParseDate("2026-03-20"),
			Priority:       model.PriorityHigh,
		},
		{
			ProjectID: "PRJ002", Client: "PortScan", Location: "Mumbai",
			RequiredSkills: []string{"inspection"},
			StartDate:      model.ParseDate("2026-03-12"),
			EndDate:        model.ParseDate("2026-03-18"),
			Priority:       model.PriorityUrgent,
		},
	}
	return fleet.NewMemoryStore(pilots, drones, missions)
}

func TestListHandler_Filters(t *testing.T) {
	h := NewListHandler(bookStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/missions", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []model.Mission
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 missions, got %d", len(out))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/missions?priority=Urgent", nil))
	out = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ProjectID != "PRJ002" {
		t.Fatalf("priority filter bad %#v", out)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/missions?location=Pune", nil))
	out = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ProjectID != "PRJ001" {
		t.Fatalf("location filter bad %#v", out)
	}
}

func TestListHandler_UnknownPriority(t *testing.T) {
	h := NewListHandler(bookStore())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/missions?priority=ASAP", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestGetHandler(t *testing.T) {
	h := NewGetHandler(bookStore())

	req := httptest.NewRequest("GET", "/missions/PRJ001", nil)
	req.SetPathValue("id", "PRJ001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var m model.Mission
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.ProjectID != "PRJ001" || m.Client != "AgriSense" {
		t.Fatalf("unexpected mission %+v", m)
	}

	req = httptest.NewRequest("GET", "/missions/PRJ999", nil)
	req.SetPathValue("id", "PRJ999")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestAvailablePilotsHandler(t *testing.T) {
	h := NewAvailablePilotsHandler(bookStore(), matching.NewEngine())

	req := httptest.NewRequest("GET", "/missions/PRJ001/available-pilots", nil)
	req.SetPathValue("id", "PRJ001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var matches []matching.PilotMatch
	if err := json.Unmarshal(rr.Body.Bytes(), &matches); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(matches) != 1 || matches[0].Pilot.ID != "P001" {
		t.Fatalf("unexpected candidates %#v", matches)
	}
	if matches[0].Score <= 0 {
		t.Fatalf("score missing: %v", matches[0].Score)
	}

	req = httptest.NewRequest("GET", "/missions/PRJ999/available-pilots", nil)
	req.SetPathValue("id", "PRJ999")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestAvailableDronesHandler(t *testing.T) {
	h := NewAvailableDronesHandler(bookStore(), matching.NewEngine())

	req := httptest.NewRequest("GET", "/missions/PRJ001/available-drones", nil)
	req.SetPathValue("id", "PRJ001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var eligible []model.Drone
	if err := json.Unmarshal(rr.Body.Bytes(), &eligible); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(eligible) != 1 || eligible[0].ID != "D001" {
		t.Fatalf("unexpected drones %#v", eligible)
	}

	// No drones are stationed in Mumbai.
	req = httptest.NewRequest("GET", "/missions/PRJ002/available-drones", nil)
	req.SetPathValue("id", "PRJ002")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Body.String() != "[]\n" {
		t.Fatalf("expected empty array got %s", rr.Body.String())
	}
}
