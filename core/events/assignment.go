package events

import "time"

// AssignmentEvent is published after an assignment is committed to the
// store and recorded.
type AssignmentEvent struct {
	AssignmentID string
	ProjectID    string
	PilotID      string
	DroneID      string
	Time         time.Time
}

// ReassignmentEvent is published when an urgent reassignment request
// resolves. Direct is true when free resources covered the mission; when
// false, Options counts the cascade suggestions produced instead.
type ReassignmentEvent struct {
	ProjectID string
	Direct    bool
	Options   int
	Time      time.Time
}
