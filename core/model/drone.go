package model

import (
	"fmt"
	"regexp"
)

// DroneStatus is the fleet state of an airframe.
type DroneStatus string

const (
	DroneAvailable   DroneStatus = "Available"
	DroneInUse       DroneStatus = "In Use"
	DroneMaintenance DroneStatus = "Maintenance"
	DroneUnavailable DroneStatus = "Unavailable"
)

// Valid reports whether the status is one of the known fleet states.
func (s DroneStatus) Valid() bool {
	switch s {
	case DroneAvailable, DroneInUse, DroneMaintenance, DroneUnavailable:
		return true
	}
	return false
}

var droneIDPattern = regexp.MustCompile(`^D\d{3}$`)

// Drone is one row of the drone fleet inventory. Capabilities describe what
// the airframe can do (thermal, lidar, ...); missions do not currently
// declare capability requirements, so capabilities inform reporting rather
// than matching.
type Drone struct {
	ID                string      `json:"drone_id"`
	Model             string      `json:"model"`
	Capabilities      []string    `json:"capabilities"`
	Status            DroneStatus `json:"status"`
	Location          string      `json:"location"`
	CurrentAssignment string      `json:"current_assignment,omitempty"`

	// MaintenanceDue is the next scheduled maintenance day. A drone must
	// not be flying a mission on or past this date.
	MaintenanceDue Date `json:"maintenance_due"`
}

// Validate checks identifier shape and status against the fleet rules.
func (d Drone) Validate() error {
	if !droneIDPattern.MatchString(d.ID) {
		return fmt.Errorf("drone id %q must match D###", d.ID)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("drone %s has unknown status %q", d.ID, d.Status)
	}
	return nil
}
