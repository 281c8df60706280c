// Package events defines the coordination events emitted on the event bus.
//
// Available event types:
//   - AssignmentEvent: a committed pilot and drone assignment
//   - ReassignmentEvent: outcome of an urgent reassignment request
//   - ConflictSweepEvent: result of a fleet-wide conflict sweep
//   - PilotStatusEvent, DroneStatusEvent: roster and fleet status changes
package events
