// Package utilization tracks per-pilot assignment activity aggregated by
// day. Records are built from the audit trail and answer how often a pilot
// was requested and how often the request went through.
package utilization

import "time"

// Store persists utilization records aggregated by pilot and day.
type Store interface {
	Add(Record) error
	Query(pilotID string, start, end time.Time) ([]Record, error)
}

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
