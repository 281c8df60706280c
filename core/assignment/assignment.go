package assignment

import "time"

// Assignment is the record of a committed pilot and drone assignment.
type Assignment struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	PilotID   string    `json:"pilot_id"`
	DroneID   string    `json:"drone_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ReassignmentOption is one cascade suggestion: delay the named mission and
// move its crew to the urgent one. PriorityGap is the urgency rank of the
// urgent mission minus the rank of the mission to delay; a larger gap means
// a less disruptive swap.
type ReassignmentOption struct {
	MissionToDelay string `json:"mission_to_delay"`
	PilotID        string `json:"pilot"`
	DroneID        string `json:"drone"`
	PriorityGap    int    `json:"priority_difference"`
}

// ReassignmentOutcome is the result of an urgent reassignment request.
// Exactly one of the two fields is populated: Assignment when free
// resources covered the mission directly, Options when only cascade
// suggestions exist. Suggestions are never executed automatically.
type ReassignmentOutcome struct {
	Assignment *Assignment          `json:"assignment,omitempty"`
	Options    []ReassignmentOption `json:"reassignment_options,omitempty"`
}
