package scenarios

import (
	"context"
	"testing"

	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/model"
)

// RunScenario loads the fixture into a memory store and verifies the
// detector findings and the per-mission matching results against the
// scenario expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	pilots := make([]model.Pilot, len(sc.Pilots))
	for i, p := range sc.Pilots {
		pilots[i] = p.ToModel()
	}
	drones := make([]model.Drone, len(sc.Drones))
	for i, d := range sc.Drones {
		drones[i] = d.ToModel()
	}
	missions := make([]model.Mission, len(sc.Missions))
	for i, m := range sc.Missions {
		missions[i] = m.ToModel()
	}

	store := fleet.NewMemoryStore(pilots, drones, missions)
	ctx := context.Background()

	found, err := conflict.NewDetector(store).DetectAll(ctx)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	counts := map[string]int{}
	for _, c := range found {
		counts[string(c.Type)]++
	}
	for typ, want := range sc.Expected.Conflicts {
		if counts[typ] != want {
			t.Errorf("scenario %s: expected %d %s conflicts, got %d", sc.Name, want, typ, counts[typ])
		}
	}
	for typ, n := range counts {
		if _, listed := sc.Expected.Conflicts[typ]; !listed {
			t.Errorf("scenario %s: unexpected %s conflicts (%d)", sc.Name, typ, n)
		}
	}

	engine := matching.NewEngine()
	for projectID, want := range sc.Expected.Pilots {
		m := findMission(missions, projectID)
		if m == nil {
			t.Fatalf("scenario %s: pilot expectation references unknown mission %s", sc.Name, projectID)
		}
		var got []string
		for _, pm := range engine.MatchPilots(*m, pilots) {
			got = append(got, pm.Pilot.ID)
		}
		if !equalIDs(got, want) {
			t.Errorf("scenario %s: mission %s expected pilots %v, got %v", sc.Name, projectID, want, got)
		}
	}
	for projectID, want := range sc.Expected.Drones {
		m := findMission(missions, projectID)
		if m == nil {
			t.Fatalf("scenario %s: drone expectation references unknown mission %s", sc.Name, projectID)
		}
		var got []string
		for _, d := range engine.MatchDrones(*m, drones) {
			got = append(got, d.ID)
		}
		if !equalIDs(got, want) {
			t.Errorf("scenario %s: mission %s expected drones %v, got %v", sc.Name, projectID, want, got)
		}
	}
}

func findMission(missions []model.Mission, id string) *model.Mission {
	for i := range missions {
		if missions[i].ProjectID == id {
			return &missions[i]
		}
	}
	return nil
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
