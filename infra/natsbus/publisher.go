// Package natsbus bridges the in-process event bus onto NATS subjects so
// external consumers can follow coordination activity without linking this
// codebase.
package natsbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	corelogger "github.com/divyarao54/drone-coordinator/core/logger"
	"github.com/divyarao54/drone-coordinator/infra/logger"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// DefaultPrefix is the first token of every published subject.
const DefaultPrefix = "droneops"

// Subject suffixes, appended to the configured prefix.
const (
	SubjectAssignments   = "assignments.created"
	SubjectReassignments = "assignments.reassigned"
	SubjectConflicts     = "conflicts.detected"
	SubjectRoster        = "roster.status"
	SubjectFleet         = "fleet.status"
)

// Publisher subscribes to the event bus and republishes each event as a JSON
// message on its NATS subject. Publishing is fire-and-forget: a failed
// publish is logged and the stream continues.
type Publisher struct {
	nc     *nats.Conn
	bus    eventbus.EventBus
	sub    <-chan eventbus.Event
	prefix string
	log    corelogger.Logger
	done   chan struct{}
}

// NewPublisher connects to the NATS server at url and starts forwarding bus
// events. An empty prefix selects DefaultPrefix.
func NewPublisher(url, prefix string, bus eventbus.EventBus, log corelogger.Logger) (*Publisher, error) {
	if bus == nil {
		return nil, fmt.Errorf("natsbus: nil event bus")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if log == nil {
		log = logger.New("nats-bus")
	}
	nc, err := nats.Connect(url,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("natsbus: connect %s: %w", url, err)
	}
	p := &Publisher{
		nc:     nc,
		bus:    bus,
		sub:    bus.Subscribe(),
		prefix: prefix,
		log:    log,
		done:   make(chan struct{}),
	}
	go p.run()
	return p, nil
}

func (p *Publisher) run() {
	defer close(p.done)
	for ev := range p.sub {
		subject, payload, ok := p.encode(ev)
		if !ok {
			continue
		}
		if err := p.nc.Publish(subject, payload); err != nil {
			p.log.Errorf("publish %s: %v", subject, err)
		}
	}
}

// Close stops forwarding, flushes pending messages and closes the
// connection.
func (p *Publisher) Close() {
	p.bus.Unsubscribe(p.sub)
	<-p.done
	if err := p.nc.Flush(); err != nil {
		p.log.Errorf("flush: %v", err)
	}
	p.nc.Close()
}

type assignmentPayload struct {
	AssignmentID string    `json:"assignment_id"`
	ProjectID    string    `json:"project_id"`
	PilotID      string    `json:"pilot_id"`
	DroneID      string    `json:"drone_id"`
	Timestamp    time.Time `json:"timestamp"`
}

type reassignmentPayload struct {
	ProjectID string    `json:"project_id"`
	Direct    bool      `json:"direct"`
	Options   int       `json:"options"`
	Timestamp time.Time `json:"timestamp"`
}

type conflictsPayload struct {
	Conflicts []conflict.Conflict `json:"conflicts"`
	Timestamp time.Time           `json:"timestamp"`
}

type statusPayload struct {
	EntityID  string    `json:"entity_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (p *Publisher) encode(ev eventbus.Event) (string, []byte, bool) {
	switch e := ev.(type) {
	case events.AssignmentEvent:
		return p.marshal(SubjectAssignments, assignmentPayload{
			AssignmentID: e.AssignmentID,
			ProjectID:    e.ProjectID,
			PilotID:      e.PilotID,
			DroneID:      e.DroneID,
			Timestamp:    e.Time,
		})
	case events.ReassignmentEvent:
		return p.marshal(SubjectReassignments, reassignmentPayload{
			ProjectID: e.ProjectID,
			Direct:    e.Direct,
			Options:   e.Options,
			Timestamp: e.Time,
		})
	case events.ConflictSweepEvent:
		return p.marshal(SubjectConflicts, conflictsPayload{
			Conflicts: e.Conflicts,
			Timestamp: e.Time,
		})
	case events.PilotStatusEvent:
		return p.marshal(SubjectRoster, statusPayload{
			EntityID:  e.PilotID,
			Status:    string(e.Status),
			Timestamp: e.Time,
		})
	case events.DroneStatusEvent:
		return p.marshal(SubjectFleet, statusPayload{
			EntityID:  e.DroneID,
			Status:    string(e.Status),
			Timestamp: e.Time,
		})
	}
	return "", nil, false
}

func (p *Publisher) marshal(suffix string, payload any) (string, []byte, bool) {
	subject := p.prefix + "." + suffix
	b, err := json.Marshal(payload)
	if err != nil {
		p.log.Errorf("marshal %s: %v", subject, err)
		return "", nil, false
	}
	return subject, b, true
}
