// Package auditkpi turns the assignment audit trail into pilot utilization
// records.
package auditkpi

import (
	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/core/metrics"
	"github.com/divyarao54/drone-coordinator/core/metrics/utilization"
)

// Backfill replays audit records into the store. Only outcomes tied to a
// pilot count: commits increment Assigned, conflict refusals increment
// Blocked, everything else is skipped.
func Backfill(store utilization.Store, history []logging.Record) error {
	for _, h := range history {
		if h.PilotID == "" {
			continue
		}
		rec := utilization.Record{PilotID: h.PilotID, Date: utilization.Day(h.Timestamp)}
		switch h.Outcome {
		case metrics.OutcomeCommitted:
			rec.Assigned = 1
		case metrics.OutcomeConflict:
			rec.Blocked = 1
		default:
			continue
		}
		if err := store.Add(rec); err != nil {
			return err
		}
	}
	return nil
}
