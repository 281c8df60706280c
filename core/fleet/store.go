// Package fleet holds the operational fleet state: the pilot roster, the
// drone inventory and the mission book. Everything that matches, detects or
// assigns reads and writes through the Store interface, so the backing data
// source (memory, CSV files, SQLite) is swappable.
package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/divyarao54/drone-coordinator/core/model"
)

// Store is the data-access contract. List methods return entities in source
// order, which is meaningful: matching breaks ties by roster order and picks
// drones in fleet order. Lookups report absence with the boolean rather than
// an error; an error means the read itself failed.
type Store interface {
	GetPilots(ctx context.Context) ([]model.Pilot, error)
	GetDrones(ctx context.Context) ([]model.Drone, error)
	GetMissions(ctx context.Context) ([]model.Mission, error)

	GetPilot(ctx context.Context, id string) (model.Pilot, bool, error)
	GetDrone(ctx context.Context, id string) (model.Drone, bool, error)
	GetMission(ctx context.Context, id string) (model.Mission, bool, error)

	// UpdatePilotStatus sets the pilot's status and current assignment.
	// An empty assignment clears the field.
	UpdatePilotStatus(ctx context.Context, id string, status model.PilotStatus, assignment string) error
	UpdateDroneStatus(ctx context.Context, id string, status model.DroneStatus, assignment string) error

	// AssignToMission writes the assignment to all three records: the
	// mission's pilot and drone refs, the pilot's status (Assigned) and
	// the drone's status (In Use). Implementations either commit all
	// three or report a PartialWriteError naming what landed.
	AssignToMission(ctx context.Context, projectID, pilotID, droneID string) error
}

// Syncer is implemented by stores that hold a freshness cache and can be
// told to drop it.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Write steps of AssignToMission, in commit order.
const (
	StepMission = "mission"
	StepPilot   = "pilot"
	StepDrone   = "drone"
)

// PartialWriteError reports a multi-record mutation that failed after some
// records were already written. Applied lists the steps that committed,
// Step names the one that failed. Callers decide whether to retry or
// reconcile; the store never rolls back on its own.
type PartialWriteError struct {
	Op      string
	Applied []string
	Step    string
	Err     error
}

func (e *PartialWriteError) Error() string {
	applied := "nothing"
	if len(e.Applied) > 0 {
		applied = strings.Join(e.Applied, ", ")
	}
	return fmt.Sprintf("%s: %s write failed after committing %s: %v", e.Op, e.Step, applied, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
