package assignment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/divyarao54/drone-coordinator/core/conflict"
)

// Entity kinds referenced by NotFoundError.
const (
	KindMission = "mission"
	KindPilot   = "pilot"
	KindDrone   = "drone"
)

// NotFoundError reports a referenced entity that does not exist in the
// store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError blocks an assignment and carries every detected conflict,
// not just the first one, so callers can present the full picture.
type ConflictError struct {
	Conflicts []conflict.Conflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		msgs[i] = c.Message
	}
	return "assignment conflicts detected: " + strings.Join(msgs, "; ")
}

// ErrNoOptions is returned by ReassignUrgent when neither free resources
// nor cascade candidates exist.
var ErrNoOptions = errors.New("no reassignment options found")

// PersistenceError wraps a store write failure. The write may have partially
// landed; errors.As against fleet.PartialWriteError tells. The coordinator
// never retries, that decision belongs to the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
