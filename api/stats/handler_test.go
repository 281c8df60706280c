package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/model"
)

func TestStatsHandler(t *testing.T) {
	pilots := []model.Pilot{
		{ID: "P001", Name: "Asha", Skills: []string{"mapping"}, Location: "Pune", Status: model.PilotAvailable},
		{ID: "P002", Name: "Ravi", Location: "Pune", Status: model.PilotOnLeave},
	}
	drones := []model.Drone{
		{ID: "D001", Status: model.DroneAvailable, Location: "Pune"},
	}
	missions := []model.Mission{
		{
			ProjectID: "PRJ001", Location: "Pune",
			RequiredSkills: []string{"mapping"},
			StartDate:      model.ParseDate("2000-01-01"),
			EndDate:        model.ParseDate("2999-12-31"),
			Priority:       model.PriorityHigh,
		},
	}
	store := fleet.NewMemoryStore(pilots, drones, missions)
	h := NewStatsHandler(store, matching.NewEngine())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var resp statsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Fleet.AvailablePilots != 1 || resp.Fleet.AvailableDrones != 1 {
		t.Fatalf("head counts bad: %+v", resp.Fleet)
	}
	if resp.Fleet.ActiveMissions != 1 || resp.Fleet.PendingAssignments != 1 {
		t.Fatalf("mission counts bad: %+v", resp.Fleet)
	}
	if resp.Fleet.LastSync.IsZero() {
		t.Fatal("last sync not set")
	}
	if resp.Scores.Missions != 1 || resp.Scores.Mean <= 0 {
		t.Fatalf("score stats bad: %+v", resp.Scores)
	}
}

func TestStatsHandler_MethodGuard(t *testing.T) {
	h := NewStatsHandler(fleet.NewMemoryStore(nil, nil, nil), matching.NewEngine())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/stats", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}
