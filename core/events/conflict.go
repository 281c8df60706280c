package events

import (
	"time"

	"github.com/divyarao54/drone-coordinator/core/conflict"
)

// ConflictSweepEvent carries the findings of one fleet-wide sweep.
type ConflictSweepEvent struct {
	Conflicts []conflict.Conflict
	Time      time.Time
}
