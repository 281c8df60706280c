package metrics

import "testing"

// recordSink counts every record it receives.
type recordSink struct {
	count int
}

func (r *recordSink) RecordAssignment(AssignmentResult) error { r.count++; return nil }
func (r *recordSink) RecordConflicts([]ConflictEvent) error   { r.count++; return nil }
func (r *recordSink) RecordSweep(SweepEvent) error            { r.count++; return nil }

// plainSink only implements the base interface.
type plainSink struct {
	count int
}

func (p *plainSink) RecordAssignment(AssignmentResult) error { p.count++; return nil }

func TestMultiSinkForwardsToAll(t *testing.T) {
	a, b := &recordSink{}, &recordSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordAssignment(AssignmentResult{ProjectID: "PRJ001"}); err != nil {
		t.Fatal(err)
	}
	if a.count != 1 || b.count != 1 {
		t.Fatalf("expected both sinks hit once, got %d and %d", a.count, b.count)
	}
}

func TestMultiSinkSkipsUnsupportedRecorders(t *testing.T) {
	full, plain := &recordSink{}, &plainSink{}
	m := NewMultiSink(full, plain)

	if err := m.RecordSweep(SweepEvent{Conflicts: 2}); err != nil {
		t.Fatal(err)
	}
	if full.count != 1 {
		t.Fatalf("sweep recorder sink not hit: %d", full.count)
	}
	if plain.count != 0 {
		t.Fatalf("plain sink must not receive sweeps: %d", plain.count)
	}

	if err := m.RecordConflicts([]ConflictEvent{{Type: "double_booking"}}); err != nil {
		t.Fatal(err)
	}
	if full.count != 2 || plain.count != 0 {
		t.Fatalf("conflict fanout wrong: full=%d plain=%d", full.count, plain.count)
	}
}
