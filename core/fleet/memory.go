package fleet

import (
	"context"
	"fmt"
	"sync"

	"github.com/divyarao54/drone-coordinator/core/model"
)

// MemoryStore keeps the fleet in slices guarded by a mutex. Source order is
// preserved. It backs tests and the in-process demo backend, and is the
// reference implementation of the Store contract.
type MemoryStore struct {
	mu       sync.RWMutex
	pilots   []model.Pilot
	drones   []model.Drone
	missions []model.Mission

	// writeHook runs before each write step of a multi-record mutation.
	// Tests use it to force partial failures.
	writeHook func(step string) error
}

func NewMemoryStore(pilots []model.Pilot, drones []model.Drone, missions []model.Mission) *MemoryStore {
	s := &MemoryStore{}
	s.pilots = append(s.pilots, pilots...)
	s.drones = append(s.drones, drones...)
	s.missions = append(s.missions, missions...)
	return s
}

// SetWriteHook installs a hook invoked with the step name before each write
// of AssignToMission. Returning an error aborts the mutation at that step.
func (s *MemoryStore) SetWriteHook(h func(step string) error) {
	s.mu.Lock()
	s.writeHook = h
	s.mu.Unlock()
}

func (s *MemoryStore) GetPilots(ctx context.Context) ([]model.Pilot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Pilot(nil), s.pilots...), nil
}

func (s *MemoryStore) GetDrones(ctx context.Context) ([]model.Drone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Drone(nil), s.drones...), nil
}

func (s *MemoryStore) GetMissions(ctx context.Context) ([]model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Mission(nil), s.missions...), nil
}

func (s *MemoryStore) GetPilot(ctx context.Context, id string) (model.Pilot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pilots {
		if p.ID == id {
			return p, true, nil
		}
	}
	return model.Pilot{}, false, nil
}

func (s *MemoryStore) GetDrone(ctx context.Context, id string) (model.Drone, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.drones {
		if d.ID == id {
			return d, true, nil
		}
	}
	return model.Drone{}, false, nil
}

func (s *MemoryStore) GetMission(ctx context.Context, id string) (model.Mission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.missions {
		if m.ProjectID == id {
			return m, true, nil
		}
	}
	return model.Mission{}, false, nil
}

func (s *MemoryStore) UpdatePilotStatus(ctx context.Context, id string, status model.PilotStatus, assignment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pilots {
		if s.pilots[i].ID == id {
			s.pilots[i].Status = status
			s.pilots[i].CurrentAssignment = assignment
			return nil
		}
	}
	return fmt.Errorf("unknown pilot %q", id)
}

func (s *MemoryStore) UpdateDroneStatus(ctx context.Context, id string, status model.DroneStatus, assignment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drones {
		if s.drones[i].ID == id {
			s.drones[i].Status = status
			s.drones[i].CurrentAssignment = assignment
			return nil
		}
	}
	return fmt.Errorf("unknown drone %q", id)
}

// AssignToMission writes mission, pilot and drone in that order. There is
// no rollback: a failure mid-way leaves the earlier writes in place and is
// reported as a PartialWriteError so the caller can see exactly how far the
// mutation got.
func (s *MemoryStore) AssignToMission(ctx context.Context, projectID, pilotID, droneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mi, pi, di := -1, -1, -1
	for i := range s.missions {
		if s.missions[i].ProjectID == projectID {
			mi = i
			break
		}
	}
	for i := range s.pilots {
		if s.pilots[i].ID == pilotID {
			pi = i
			break
		}
	}
	for i := range s.drones {
		if s.drones[i].ID == droneID {
			di = i
			break
		}
	}
	if mi < 0 {
		return fmt.Errorf("unknown mission %q", projectID)
	}
	if pi < 0 {
		return fmt.Errorf("unknown pilot %q", pilotID)
	}
	if di < 0 {
		return fmt.Errorf("unknown drone %q", droneID)
	}

	var applied []string
	step := func(name string) error {
		if s.writeHook == nil {
			return nil
		}
		if err := s.writeHook(name); err != nil {
			return &PartialWriteError{Op: "assign " + projectID, Applied: applied, Step: name, Err: err}
		}
		return nil
	}

	if err := step(StepMission); err != nil {
		return err
	}
	s.missions[mi].AssignedPilot = pilotID
	s.missions[mi].AssignedDrone = droneID
	applied = append(applied, StepMission)

	if err := step(StepPilot); err != nil {
		return err
	}
	s.pilots[pi].Status = model.PilotAssigned
	s.pilots[pi].CurrentAssignment = projectID
	applied = append(applied, StepPilot)

	if err := step(StepDrone); err != nil {
		return err
	}
	s.drones[di].Status = model.DroneInUse
	s.drones[di].CurrentAssignment = projectID

	return nil
}
