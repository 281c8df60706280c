package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/metrics"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/infra/logger"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

type sweepSink struct {
	mu        sync.Mutex
	sweeps    []metrics.SweepEvent
	conflicts []metrics.ConflictEvent
}

func (s *sweepSink) RecordAssignment(metrics.AssignmentResult) error { return nil }

func (s *sweepSink) RecordSweep(ev metrics.SweepEvent) error {
	s.mu.Lock()
	s.sweeps = append(s.sweeps, ev)
	s.mu.Unlock()
	return nil
}

func (s *sweepSink) RecordConflicts(evs []metrics.ConflictEvent) error {
	s.mu.Lock()
	s.conflicts = append(s.conflicts, evs...)
	s.mu.Unlock()
	return nil
}

func (s *sweepSink) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sweeps)
}

func conflictedStore() *fleet.MemoryStore {
	pilots := []model.Pilot{
		{
			ID: "P001", Name: "Asha", Skills: []string{"mapping"},
			Location: "Pune", Status: model.PilotAssigned, CurrentAssignment: "PRJ001",
		},
	}
	drones := []model.Drone{
		{ID: "D001", Status: model.DroneInUse, Location: "Pune", CurrentAssignment: "PRJ001"},
	}
	missions := []model.Mission{
		{
			ProjectID: "PRJ001", Client: "AgriSense", Location: "Pune",
			RequiredSkills: []string{"thermal"},
			StartDate:      model.ParseDate("2026-03-10"),
			EndDate:        model.ParseDate("2026-03-20"),
			Priority:       model.PriorityStandard,
			AssignedPilot:  "P001", AssignedDrone: "D001",
		},
	}
	return fleet.NewMemoryStore(pilots, drones, missions)
}

func TestSweepPublishesAndRecords(t *testing.T) {
	det := conflict.NewDetector(conflictedStore())
	sink := &sweepSink{}
	bus := eventbus.New()
	sub := bus.Subscribe()

	s := NewSweeper(det, time.Minute, logger.NopLogger{})
	s.SetMetricsSink(sink)
	s.SetEventBus(bus)

	found, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 conflict, got %+v", found)
	}
	if found[0].Type != conflict.TypeSkillMismatch {
		t.Fatalf("wrong conflict type: %+v", found[0])
	}

	select {
	case ev := <-sub:
		se, ok := ev.(events.ConflictSweepEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", ev)
		}
		if len(se.Conflicts) != 1 {
			t.Fatalf("event carries %d conflicts", len(se.Conflicts))
		}
	case <-time.After(time.Second):
		t.Fatal("no sweep event published")
	}

	if len(sink.sweeps) != 1 || sink.sweeps[0].Conflicts != 1 {
		t.Fatalf("wrong sweep record: %+v", sink.sweeps)
	}
	if len(sink.conflicts) != 1 || sink.conflicts[0].Source != "sweep" {
		t.Fatalf("wrong conflict records: %+v", sink.conflicts)
	}
}

func TestRunSweepsUntilCanceled(t *testing.T) {
	det := conflict.NewDetector(fleet.NewMemoryStore(nil, nil, nil))
	sink := &sweepSink{}
	s := NewSweeper(det, 10*time.Millisecond, logger.NopLogger{})
	s.SetMetricsSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for sink.sweepCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not stop on cancel")
	}
}
