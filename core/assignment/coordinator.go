// Package assignment orchestrates crew assignments. The Coordinator is the
// single front door for mutating who flies what: it validates a proposed
// assignment against the conflict rules, commits it through the fleet store,
// and answers urgent reassignment requests with either a direct assignment or
// a ranked list of missions worth delaying.
package assignment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/logger"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/metrics"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/core/monitoring"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// Coordinator serializes assignment mutations through a single mutex. The
// store performs a three-record write with no rollback, so concurrent
// assignments must not interleave.
type Coordinator struct {
	store  fleet.Store
	engine matching.Engine
	logger logger.Logger
	audit  logging.Store
	sink   metrics.MetricsSink
	bus    eventbus.EventBus
	now    func() time.Time
	mu     sync.Mutex
}

// NewCoordinator creates a coordinator backed by the given store and matching
// engine. Audit store, metrics sink and event bus are optional and attached
// through setters.
func NewCoordinator(store fleet.Store, engine matching.Engine, log logger.Logger) (*Coordinator, error) {
	if store == nil || log == nil {
		return nil, fmt.Errorf("assignment: nil parameter provided to NewCoordinator")
	}
	return &Coordinator{
		store:  store,
		engine: engine,
		logger: log,
		sink:   metrics.NopSink{},
		now:    time.Now,
	}, nil
}

// SetAuditStore configures the store used to persist the assignment audit
// trail.
func (c *Coordinator) SetAuditStore(store logging.Store) {
	c.mu.Lock()
	c.audit = store
	c.mu.Unlock()
}

// SetMetricsSink configures the sink that records assignment outcomes.
func (c *Coordinator) SetMetricsSink(sink metrics.MetricsSink) {
	c.mu.Lock()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	c.sink = sink
	c.mu.Unlock()
}

// SetEventBus configures the bus on which committed assignments and
// reassignment outcomes are published.
func (c *Coordinator) SetEventBus(bus eventbus.EventBus) {
	c.mu.Lock()
	c.bus = bus
	c.mu.Unlock()
}

// Close releases resources held by the coordinator.
func (c *Coordinator) Close() error {
	if c.bus != nil {
		c.bus.Close()
	}
	if c.audit != nil {
		return c.audit.Close()
	}
	return nil
}

// Assign validates and commits the assignment of a pilot and a drone to a
// mission. It fails with NotFoundError when any of the three is unknown,
// with ConflictError when the conflict rules block the pairing (nothing is
// written in that case), and with PersistenceError when the store write
// fails after validation passed.
func (c *Coordinator) Assign(ctx context.Context, projectID, pilotID, droneID string) (Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assignLocked(ctx, "assign", projectID, pilotID, droneID)
}

func (c *Coordinator) assignLocked(ctx context.Context, op, projectID, pilotID, droneID string) (Assignment, error) {
	start := c.now()

	mission, ok, err := c.store.GetMission(ctx, projectID)
	if err != nil {
		return Assignment{}, fmt.Errorf("load mission %s: %w", projectID, err)
	}
	if !ok {
		return Assignment{}, c.refuse(ctx, op, projectID, pilotID, droneID, &NotFoundError{Kind: KindMission, ID: projectID})
	}
	pilot, ok, err := c.store.GetPilot(ctx, pilotID)
	if err != nil {
		return Assignment{}, fmt.Errorf("load pilot %s: %w", pilotID, err)
	}
	if !ok {
		return Assignment{}, c.refuse(ctx, op, projectID, pilotID, droneID, &NotFoundError{Kind: KindPilot, ID: pilotID})
	}
	drone, ok, err := c.store.GetDrone(ctx, droneID)
	if err != nil {
		return Assignment{}, fmt.Errorf("load drone %s: %w", droneID, err)
	}
	if !ok {
		return Assignment{}, c.refuse(ctx, op, projectID, pilotID, droneID, &NotFoundError{Kind: KindDrone, ID: droneID})
	}

	if conflicts := conflict.CheckAssignment(mission, &pilot, &drone); len(conflicts) > 0 {
		c.logger.Warnf("assignment %s blocked by %d conflicts", projectID, len(conflicts))
		for _, cf := range conflicts {
			conflictsDetected.WithLabelValues(string(cf.Type)).Inc()
		}
		assignmentsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		c.record(ctx, logging.Record{
			Timestamp: c.now().UTC(),
			Operation: op,
			ProjectID: projectID,
			PilotID:   pilotID,
			DroneID:   droneID,
			Outcome:   metrics.OutcomeConflict,
			Conflicts: conflicts,
		})
		c.recordAssignment(metrics.AssignmentResult{
			ProjectID: projectID,
			PilotID:   pilotID,
			DroneID:   droneID,
			Outcome:   metrics.OutcomeConflict,
			Conflicts: len(conflicts),
			Latency:   c.now().Sub(start),
			Time:      c.now().UTC(),
		})
		c.recordConflicts(conflicts, "assign")
		return Assignment{}, &ConflictError{Conflicts: conflicts}
	}

	if err := c.store.AssignToMission(ctx, projectID, pilotID, droneID); err != nil {
		perr := &PersistenceError{Op: "assign " + projectID, Err: err}
		c.logger.Errorf("assignment %s failed to persist: %v", projectID, err)
		monitoring.CaptureException(err, map[string]string{
			"module":     "coordinator",
			"project_id": projectID,
		})
		assignmentsTotal.WithLabelValues(metrics.OutcomePersistenceError).Inc()
		c.record(ctx, logging.Record{
			Timestamp: c.now().UTC(),
			Operation: op,
			ProjectID: projectID,
			PilotID:   pilotID,
			DroneID:   droneID,
			Outcome:   metrics.OutcomePersistenceError,
			Error:     err.Error(),
		})
		c.recordAssignment(metrics.AssignmentResult{
			ProjectID: projectID,
			PilotID:   pilotID,
			DroneID:   droneID,
			Outcome:   metrics.OutcomePersistenceError,
			Latency:   c.now().Sub(start),
			Time:      c.now().UTC(),
		})
		return Assignment{}, perr
	}

	a := Assignment{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		PilotID:   pilotID,
		DroneID:   droneID,
		Timestamp: c.now().UTC(),
	}
	c.logger.Infof("assigned pilot %s and drone %s to mission %s", pilotID, droneID, projectID)
	assignmentsTotal.WithLabelValues(metrics.OutcomeCommitted).Inc()
	assignLatency.WithLabelValues(op).Observe(c.now().Sub(start).Seconds())
	c.record(ctx, logging.Record{
		ID:        a.ID,
		Timestamp: a.Timestamp,
		Operation: op,
		ProjectID: projectID,
		PilotID:   pilotID,
		DroneID:   droneID,
		Outcome:   metrics.OutcomeCommitted,
	})
	c.recordAssignment(metrics.AssignmentResult{
		ProjectID: projectID,
		PilotID:   pilotID,
		DroneID:   droneID,
		Outcome:   metrics.OutcomeCommitted,
		Latency:   c.now().Sub(start),
		Time:      a.Timestamp,
	})
	if c.bus != nil {
		c.bus.Publish(events.AssignmentEvent{
			AssignmentID: a.ID,
			ProjectID:    a.ProjectID,
			PilotID:      a.PilotID,
			DroneID:      a.DroneID,
			Time:         a.Timestamp,
		})
	}
	return a, nil
}

// refuse records a blocked attempt in the audit trail and metrics, then
// returns the refusal unchanged.
func (c *Coordinator) refuse(ctx context.Context, op, projectID, pilotID, droneID string, nf *NotFoundError) error {
	c.logger.Warnf("assignment %s refused: %v", projectID, nf)
	assignmentsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
	c.record(ctx, logging.Record{
		Timestamp: c.now().UTC(),
		Operation: op,
		ProjectID: projectID,
		PilotID:   pilotID,
		DroneID:   droneID,
		Outcome:   metrics.OutcomeNotFound,
		Error:     nf.Error(),
	})
	c.recordAssignment(metrics.AssignmentResult{
		ProjectID: projectID,
		PilotID:   pilotID,
		DroneID:   droneID,
		Outcome:   metrics.OutcomeNotFound,
		Time:      c.now().UTC(),
	})
	return nf
}

// ReassignUrgent covers the named mission with free resources when possible,
// committing the top-ranked pilot and the first eligible drone through the
// normal assignment path. When no free pair exists it searches Standard and
// Low priority missions whose crew would satisfy the urgent mission and
// returns them as delay suggestions ordered by priority gap, largest first.
// Suggestions are never executed; ErrNoOptions reports an empty cascade.
func (c *Coordinator) ReassignUrgent(ctx context.Context, projectID string) (ReassignmentOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	urgent, ok, err := c.store.GetMission(ctx, projectID)
	if err != nil {
		return ReassignmentOutcome{}, fmt.Errorf("load mission %s: %w", projectID, err)
	}
	if !ok {
		nf := &NotFoundError{Kind: KindMission, ID: projectID}
		c.logger.Warnf("urgent reassignment refused: %v", nf)
		c.record(ctx, logging.Record{
			Timestamp: c.now().UTC(),
			Operation: "urgent_reassign",
			ProjectID: projectID,
			Outcome:   metrics.OutcomeNotFound,
			Error:     nf.Error(),
		})
		return ReassignmentOutcome{}, nf
	}

	pilots, err := c.store.GetPilots(ctx)
	if err != nil {
		return ReassignmentOutcome{}, fmt.Errorf("load pilots: %w", err)
	}
	drones, err := c.store.GetDrones(ctx)
	if err != nil {
		return ReassignmentOutcome{}, fmt.Errorf("load drones: %w", err)
	}
	missions, err := c.store.GetMissions(ctx)
	if err != nil {
		return ReassignmentOutcome{}, fmt.Errorf("load missions: %w", err)
	}

	ranked := c.engine.MatchPilots(urgent, pilots)
	eligible := c.engine.MatchDrones(urgent, drones)
	if len(ranked) > 0 && len(eligible) > 0 {
		a, err := c.assignLocked(ctx, "urgent_reassign", projectID, ranked[0].Pilot.ID, eligible[0].ID)
		if err != nil {
			return ReassignmentOutcome{}, err
		}
		c.logger.Infof("urgent mission %s covered directly by %s and %s", projectID, a.PilotID, a.DroneID)
		urgentRequests.WithLabelValues("direct").Inc()
		c.recordReassignment(metrics.ReassignmentEvent{ProjectID: projectID, Direct: true, Time: c.now().UTC()})
		if c.bus != nil {
			c.bus.Publish(events.ReassignmentEvent{ProjectID: projectID, Direct: true, Time: c.now().UTC()})
		}
		return ReassignmentOutcome{Assignment: &a}, nil
	}

	options := c.cascadeOptions(urgent, missions, pilots, drones)
	if len(options) == 0 {
		c.logger.Warnf("no reassignment options for urgent mission %s", projectID)
		urgentRequests.WithLabelValues("none").Inc()
		c.record(ctx, logging.Record{
			Timestamp: c.now().UTC(),
			Operation: "urgent_reassign",
			ProjectID: projectID,
			Outcome:   "no_options",
			Error:     ErrNoOptions.Error(),
		})
		c.recordReassignment(metrics.ReassignmentEvent{ProjectID: projectID, Time: c.now().UTC()})
		return ReassignmentOutcome{}, ErrNoOptions
	}

	c.logger.Infof("found %d reassignment options for urgent mission %s", len(options), projectID)
	urgentRequests.WithLabelValues("cascade").Inc()
	c.record(ctx, logging.Record{
		Timestamp: c.now().UTC(),
		Operation: "urgent_reassign",
		ProjectID: projectID,
		Outcome:   "options_found",
	})
	c.recordReassignment(metrics.ReassignmentEvent{ProjectID: projectID, Options: len(options), Time: c.now().UTC()})
	if c.bus != nil {
		c.bus.Publish(events.ReassignmentEvent{ProjectID: projectID, Options: len(options), Time: c.now().UTC()})
	}
	return ReassignmentOutcome{Options: options}, nil
}

// cascadeOptions scans Standard and Low priority missions holding a full
// crew and keeps those whose pilot and drone, evaluated as singleton
// candidate lists with their status treated as freed, pass the urgent
// mission's matching filters.
func (c *Coordinator) cascadeOptions(urgent model.Mission, missions []model.Mission, pilots []model.Pilot, drones []model.Drone) []ReassignmentOption {
	pilotByID := make(map[string]model.Pilot, len(pilots))
	for _, p := range pilots {
		pilotByID[p.ID] = p
	}
	droneByID := make(map[string]model.Drone, len(drones))
	for _, d := range drones {
		droneByID[d.ID] = d
	}

	var options []ReassignmentOption
	for _, m := range missions {
		if m.ProjectID == urgent.ProjectID {
			continue
		}
		if m.Priority != model.PriorityStandard && m.Priority != model.PriorityLow {
			continue
		}
		if !m.Assigned() {
			continue
		}
		pilot, okP := pilotByID[m.AssignedPilot]
		drone, okD := droneByID[m.AssignedDrone]
		if !okP || !okD {
			continue
		}
		// The crew is evaluated as if delaying m had already freed them.
		// Every other filter stays real.
		pilot.Status = model.PilotAvailable
		drone.Status = model.DroneAvailable
		if len(c.engine.MatchPilots(urgent, []model.Pilot{pilot})) == 0 {
			continue
		}
		if len(c.engine.MatchDrones(urgent, []model.Drone{drone})) == 0 {
			continue
		}
		options = append(options, ReassignmentOption{
			MissionToDelay: m.ProjectID,
			PilotID:        pilot.ID,
			DroneID:        drone.ID,
			PriorityGap:    urgent.Priority.Rank() - m.Priority.Rank(),
		})
	}
	// Largest gap first: delaying the lowest priority mission disrupts least.
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].PriorityGap > options[j].PriorityGap
	})
	return options
}

// AuditTrail queries the audit store. It returns an empty slice when no
// audit store is configured.
func (c *Coordinator) AuditTrail(ctx context.Context, q logging.Query) ([]logging.Record, error) {
	c.mu.Lock()
	store := c.audit
	c.mu.Unlock()
	if store == nil {
		return nil, nil
	}
	return store.Query(ctx, q)
}

func (c *Coordinator) record(ctx context.Context, rec logging.Record) {
	if c.audit == nil {
		return
	}
	if err := c.audit.Append(ctx, rec); err != nil {
		c.logger.Errorf("audit append failed: %v", err)
	}
}

func (c *Coordinator) recordAssignment(res metrics.AssignmentResult) {
	if err := c.sink.RecordAssignment(res); err != nil {
		c.logger.Errorf("metrics error: %v", err)
	}
}

func (c *Coordinator) recordConflicts(conflicts []conflict.Conflict, source string) {
	cr, ok := c.sink.(metrics.ConflictRecorder)
	if !ok {
		return
	}
	evs := make([]metrics.ConflictEvent, len(conflicts))
	for i, cf := range conflicts {
		evs[i] = metrics.ConflictEvent{
			Type:     string(cf.Type),
			Severity: string(cf.Severity),
			Source:   source,
			Time:     c.now().UTC(),
		}
	}
	if err := cr.RecordConflicts(evs); err != nil {
		c.logger.Errorf("conflict metrics error: %v", err)
	}
}

func (c *Coordinator) recordReassignment(ev metrics.ReassignmentEvent) {
	rr, ok := c.sink.(metrics.ReassignmentRecorder)
	if !ok {
		return
	}
	if err := rr.RecordReassignment(ev); err != nil {
		c.logger.Errorf("reassignment metrics error: %v", err)
	}
}
