package auditkpi

import (
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/core/metrics/utilization"
)

func TestBackfill(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	history := []logging.Record{
		{Timestamp: day, Operation: "assign", ProjectID: "PRJ001", PilotID: "P001", Outcome: "committed"},
		{Timestamp: day.Add(time.Hour), Operation: "assign", ProjectID: "PRJ002", PilotID: "P001", Outcome: "conflict"},
		{Timestamp: day, Operation: "assign", ProjectID: "PRJ003", PilotID: "P001", Outcome: "not_found"},
		{Timestamp: day, Operation: "urgent_reassign", ProjectID: "PRJ004", Outcome: "no_options"},
	}
	store := utilization.NewMemoryStore()
	if err := Backfill(store, history); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	recs, err := store.Query("P001", day, day)
	if err != nil || len(recs) != 1 {
		t.Fatalf("query: %v len=%d", err, len(recs))
	}
	if recs[0].Assigned != 1 || recs[0].Blocked != 1 {
		t.Fatalf("expected 1/1 got %d/%d", recs[0].Assigned, recs[0].Blocked)
	}
}
