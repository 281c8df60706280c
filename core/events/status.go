package events

import (
	"time"

	"github.com/divyarao54/drone-coordinator/core/model"
)

// PilotStatusEvent is published when a pilot's roster status changes.
type PilotStatusEvent struct {
	PilotID string
	Status  model.PilotStatus
	Time    time.Time
}

// DroneStatusEvent is published when a drone's fleet status changes.
type DroneStatusEvent struct {
	DroneID string
	Status  model.DroneStatus
	Time    time.Time
}
