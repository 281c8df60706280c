package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Priority orders missions by urgency. The integer value is the rank used
// when comparing missions: a larger value always wins. Zero is reserved for
// unrecognized priority strings, which rank below everything.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityStandard
	PriorityHigh
	PriorityUrgent
)

// ParsePriority maps a sheet cell to a Priority. Unknown labels map to the
// zero Priority rather than failing, so malformed rows still load and simply
// never outrank real ones.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "standard":
		return PriorityStandard
	case "high":
		return PriorityHigh
	case "urgent":
		return PriorityUrgent
	}
	return 0
}

// Rank returns the numeric urgency used for priority-gap arithmetic.
func (p Priority) Rank() int { return int(p) }

// Valid reports whether the priority is one of the four known levels.
func (p Priority) Valid() bool { return p >= PriorityLow && p <= PriorityUrgent }

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityStandard:
		return "Standard"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	}
	return "Unknown"
}

// MarshalText renders the display label, so JSON and CSV carry "Urgent"
// rather than 4.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the same labels as ParsePriority.
func (p *Priority) UnmarshalText(b []byte) error {
	*p = ParsePriority(string(b))
	return nil
}

var missionIDPattern = regexp.MustCompile(`^PRJ\d{3}$`)

// Mission is one row of the mission sheet. AssignedPilot and AssignedDrone
// hold entity IDs and are empty until the coordinator commits an assignment.
type Mission struct {
	ProjectID      string   `json:"project_id"`
	Client         string   `json:"client_name"`
	Location       string   `json:"location"`
	RequiredSkills []string `json:"required_skills"`
	RequiredCerts  []string `json:"required_certifications"`
	StartDate      Date     `json:"start_date"`
	EndDate        Date     `json:"end_date"`
	Priority       Priority `json:"priority"`
	AssignedPilot  string   `json:"assigned_pilot,omitempty"`
	AssignedDrone  string   `json:"assigned_drone,omitempty"`
}

// Assigned reports whether the mission has both a pilot and a drone.
func (m Mission) Assigned() bool {
	return m.AssignedPilot != "" && m.AssignedDrone != ""
}

// ActiveOn reports whether the mission is still running on the given day,
// meaning it has dates and has not ended yet.
func (m Mission) ActiveOn(day Date) bool {
	if m.EndDate.IsZero() {
		return false
	}
	return day.OnOrBefore(m.EndDate)
}

// Validate checks identifier shape and date ordering.
func (m Mission) Validate() error {
	if !missionIDPattern.MatchString(m.ProjectID) {
		return fmt.Errorf("project id %q must match PRJ###", m.ProjectID)
	}
	if !m.StartDate.IsZero() && !m.EndDate.IsZero() && m.EndDate.Before(m.StartDate) {
		return fmt.Errorf("mission %s ends %s before it starts %s", m.ProjectID, m.EndDate, m.StartDate)
	}
	return nil
}
