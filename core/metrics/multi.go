package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignment(res AssignmentResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordConflicts forwards conflict events to sinks that record them.
func (m *MultiSink) RecordConflicts(evs []ConflictEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ConflictRecorder); ok {
			if err := rec.RecordConflicts(evs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSweep forwards sweep summaries to sinks that record them.
func (m *MultiSink) RecordSweep(ev SweepEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SweepRecorder); ok {
			if err := rec.RecordSweep(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordReassignment forwards reassignment outcomes to sinks that record
// them.
func (m *MultiSink) RecordReassignment(ev ReassignmentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ReassignmentRecorder); ok {
			if err := rec.RecordReassignment(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSnapshot forwards head counts to sinks that record them.
func (m *MultiSink) RecordFleetSnapshot(ev FleetSnapshot) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FleetSnapshotRecorder); ok {
			if err := rec.RecordFleetSnapshot(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
