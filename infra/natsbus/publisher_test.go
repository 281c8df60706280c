package natsbus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/infra/logger"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

func startServer(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Port: -1})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func subscribeSync(t *testing.T, url, subject string) *nats.Subscription {
	t.Helper()
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(nc.Close)
	sub, err := nc.SubscribeSync(subject)
	if err != nil {
		t.Fatalf("subscribe %s: %v", subject, err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return sub
}

func startPublisher(t *testing.T, url, prefix string) (*Publisher, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	pub, err := NewPublisher(url, prefix, bus, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	t.Cleanup(pub.Close)
	return pub, bus
}

func TestPublisherForwardsAssignments(t *testing.T) {
	url := startServer(t)
	sub := subscribeSync(t, url, "droneops.assignments.created")
	_, bus := startPublisher(t, url, "")

	// Events the bridge does not know must not break the stream.
	bus.Publish("unrelated")
	bus.Publish(events.AssignmentEvent{
		AssignmentID: "a-1",
		ProjectID:    "PRJ001",
		PilotID:      "P001",
		DroneID:      "D001",
		Time:         time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	})

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("next msg: %v", err)
	}
	var got assignmentPayload
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.AssignmentID != "a-1" || got.ProjectID != "PRJ001" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.PilotID != "P001" || got.DroneID != "D001" {
		t.Fatalf("unexpected resources: %+v", got)
	}
	if !got.Timestamp.Equal(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp = %v", got.Timestamp)
	}
}

func TestPublisherCustomPrefix(t *testing.T) {
	url := startServer(t)
	sub := subscribeSync(t, url, "ops.test.conflicts.detected")
	_, bus := startPublisher(t, url, "ops.test")

	bus.Publish(events.ConflictSweepEvent{
		Conflicts: []conflict.Conflict{{
			Type:     conflict.TypeDoubleBooking,
			Severity: conflict.SeverityCritical,
			Message:  "pilot P001 assigned to overlapping missions",
		}},
		Time: time.Now().UTC(),
	})

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("next msg: %v", err)
	}
	var got conflictsPayload
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(got.Conflicts))
	}
	if got.Conflicts[0].Type != conflict.TypeDoubleBooking {
		t.Fatalf("type = %s", got.Conflicts[0].Type)
	}
	if got.Conflicts[0].Severity != conflict.SeverityCritical {
		t.Fatalf("severity = %s", got.Conflicts[0].Severity)
	}
}

func TestPublisherStatusSubjects(t *testing.T) {
	url := startServer(t)
	roster := subscribeSync(t, url, "droneops.roster.status")
	fleet := subscribeSync(t, url, "droneops.fleet.status")
	_, bus := startPublisher(t, url, "")

	now := time.Now().UTC()
	bus.Publish(events.PilotStatusEvent{PilotID: "P002", Status: model.PilotAssigned, Time: now})
	bus.Publish(events.DroneStatusEvent{DroneID: "D003", Status: model.DroneMaintenance, Time: now})

	msg, err := roster.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("roster msg: %v", err)
	}
	var p statusPayload
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	if p.EntityID != "P002" || p.Status != "Assigned" {
		t.Fatalf("roster payload: %+v", p)
	}

	msg, err = fleet.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("fleet msg: %v", err)
	}
	var d statusPayload
	if err := json.Unmarshal(msg.Data, &d); err != nil {
		t.Fatalf("unmarshal fleet: %v", err)
	}
	if d.EntityID != "D003" || d.Status != "Maintenance" {
		t.Fatalf("fleet payload: %+v", d)
	}
}
