package metrics

import "time"

// Assignment outcomes recorded by sinks.
const (
	OutcomeCommitted        = "committed"
	OutcomeConflict         = "conflict"
	OutcomeNotFound         = "not_found"
	OutcomePersistenceError = "persistence_error"
)

// AssignmentResult represents one assignment attempt to be recorded.
type AssignmentResult struct {
	ProjectID string
	PilotID   string
	DroneID   string
	Outcome   string
	Conflicts int
	Latency   time.Duration
	Time      time.Time
}

// MetricsSink records assignment results for observability purposes.
type MetricsSink interface {
	RecordAssignment(res AssignmentResult) error
}

// ConflictEvent captures one detected conflict.
type ConflictEvent struct {
	Type     string
	Severity string
	Source   string // "assign" or "sweep"
	Time     time.Time
}

// ConflictRecorder records detected conflicts.
type ConflictRecorder interface {
	RecordConflicts(evs []ConflictEvent) error
}

// SweepEvent captures one fleet-wide conflict sweep.
type SweepEvent struct {
	Conflicts int
	Duration  time.Duration
	Time      time.Time
}

// SweepRecorder records sweep summaries.
type SweepRecorder interface {
	RecordSweep(ev SweepEvent) error
}

// ReassignmentEvent captures the outcome of an urgent reassignment request.
type ReassignmentEvent struct {
	ProjectID string
	Direct    bool
	Options   int
	Time      time.Time
}

// ReassignmentRecorder records urgent reassignment outcomes.
type ReassignmentRecorder interface {
	RecordReassignment(ev ReassignmentEvent) error
}

// FleetSnapshot is a periodic head count of the fleet.
type FleetSnapshot struct {
	AvailablePilots int
	AvailableDrones int
	ActiveMissions  int
	PendingMissions int
	Time            time.Time
}

// FleetSnapshotRecorder records fleet head counts.
type FleetSnapshotRecorder interface {
	RecordFleetSnapshot(ev FleetSnapshot) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignment(AssignmentResult) error    { return nil }
func (NopSink) RecordConflicts([]ConflictEvent) error      { return nil }
func (NopSink) RecordSweep(SweepEvent) error               { return nil }
func (NopSink) RecordReassignment(ReassignmentEvent) error { return nil }
func (NopSink) RecordFleetSnapshot(FleetSnapshot) error    { return nil }
