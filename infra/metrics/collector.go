package metrics

import (
	"context"
	"time"

	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/logger"
	coremetrics "github.com/divyarao54/drone-coordinator/core/metrics"
	"github.com/divyarao54/drone-coordinator/core/report"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and refreshes fleet head
// counts whenever an assignment lands or a status changes. It stops when the
// context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, store fleet.Store, sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || store == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.FleetSnapshotRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch ev.(type) {
				case events.AssignmentEvent, events.PilotStatusEvent, events.DroneStatusEvent:
					if err := snapshot(ctx, store, rec); err != nil && log != nil {
						log.Errorf("fleet snapshot: %v", err)
					}
				}
			}
		}
	}()
}

func snapshot(ctx context.Context, store fleet.Store, rec coremetrics.FleetSnapshotRecorder) error {
	pilots, err := store.GetPilots(ctx)
	if err != nil {
		return err
	}
	drones, err := store.GetDrones(ctx)
	if err != nil {
		return err
	}
	missions, err := store.GetMissions(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	st := report.Stats(pilots, drones, missions, now)
	return rec.RecordFleetSnapshot(coremetrics.FleetSnapshot{
		AvailablePilots: st.AvailablePilots,
		AvailableDrones: st.AvailableDrones,
		ActiveMissions:  st.ActiveMissions,
		PendingMissions: st.PendingAssignments,
		Time:            now,
	})
}
