package model

import (
	"fmt"
	"regexp"
)

// PilotStatus is the roster state of a pilot. Values mirror the roster
// sheet verbatim, including the space in "On Leave".
type PilotStatus string

const (
	PilotAvailable   PilotStatus = "Available"
	PilotAssigned    PilotStatus = "Assigned"
	PilotOnLeave     PilotStatus = "On Leave"
	PilotUnavailable PilotStatus = "Unavailable"
)

// Valid reports whether the status is one of the known roster states.
func (s PilotStatus) Valid() bool {
	switch s {
	case PilotAvailable, PilotAssigned, PilotOnLeave, PilotUnavailable:
		return true
	}
	return false
}

var pilotIDPattern = regexp.MustCompile(`^P\d{3}$`)

// Pilot is one row of the pilot roster.
type Pilot struct {
	ID                string      `json:"pilot_id"`
	Name              string      `json:"name"`
	Skills            []string    `json:"skills"`
	Certifications    []string    `json:"certifications"`
	Location          string      `json:"location"`
	Status            PilotStatus `json:"status"`
	CurrentAssignment string      `json:"current_assignment,omitempty"`

	// AvailableFrom is the first day the pilot can start a new mission.
	// Unset means the pilot has no dated constraint.
	AvailableFrom Date `json:"available_from"`
}

// Validate checks identifier shape and status against the roster rules.
func (p Pilot) Validate() error {
	if !pilotIDPattern.MatchString(p.ID) {
		return fmt.Errorf("pilot id %q must match P###", p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("pilot %s has no name", p.ID)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("pilot %s has unknown status %q", p.ID, p.Status)
	}
	return nil
}
