// Package export renders audit trail records for external tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
)

// WriteJSON writes the audit records to w in JSON format.
func WriteJSON(w io.Writer, recs []logging.Record) error {
	enc := json.NewEncoder(w)
	return enc.Encode(recs)
}

// WriteCSV writes the audit records to w in CSV format. Conflict details are
// collapsed to a count; the full findings stay in the JSON form.
func WriteCSV(w io.Writer, recs []logging.Record) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp", "operation", "project_id", "pilot_id", "drone_id", "outcome", "conflicts", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			r.Timestamp.Format(time.RFC3339),
			r.Operation,
			r.ProjectID,
			r.PilotID,
			r.DroneID,
			r.Outcome,
			strconv.Itoa(len(r.Conflicts)),
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
