// Package logging persists the assignment audit trail. Every coordinator
// decision is appended as one record, including blocked attempts, so the
// trail explains why a mission does or does not have a crew.
package logging

import (
	"context"
	"time"

	"github.com/divyarao54/drone-coordinator/core/conflict"
)

// Record captures one coordinator decision and its outcome.
type Record struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Operation string              `json:"operation"` // "assign" or "urgent_reassign"
	ProjectID string              `json:"project_id"`
	PilotID   string              `json:"pilot_id,omitempty"`
	DroneID   string              `json:"drone_id,omitempty"`
	Outcome   string              `json:"outcome"`
	Conflicts []conflict.Conflict `json:"conflicts,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero fields match
// everything.
type Query struct {
	Start     time.Time
	End       time.Time
	ProjectID string
	PilotID   string
	Outcome   string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.ProjectID != "" && r.ProjectID != q.ProjectID {
		return false
	}
	if q.PilotID != "" && r.PilotID != q.PilotID {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}
