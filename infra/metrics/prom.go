package metrics

import (
	coremetrics "github.com/divyarao54/drone-coordinator/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes assignment activity as Prometheus collectors. It keeps
// its own metric names so it can coexist with the counters the assignment
// package registers for itself.
type PromSink struct {
	events    *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	reassign  *prometheus.CounterVec
	sweepSize prometheus.Gauge
	fleet     *prometheus.GaugeVec
}

// NewPromSink registers the sink's collectors on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the sink's collectors on reg. When a
// collector with the same name already exists it is reused, so building
// several sinks against one registry is safe.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_events_total",
		Help: "Assignment attempts recorded by the sink, labeled by outcome",
	}, []string{"outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_events_total",
		Help: "Conflicts recorded by the sink",
	}, []string{"type", "severity", "source"})
	reassign := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reassignment_events_total",
		Help: "Urgent reassignment requests, labeled by result",
	}, []string{"result"})
	sweepSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conflict_sweep_size",
		Help: "Conflicts found by the most recent sweep",
	})
	fleet := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_size",
		Help: "Fleet counts from the last snapshot, labeled by entity",
	}, []string{"entity"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(reassign); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reassign = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(sweepSize); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sweepSize = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		events:    events,
		conflicts: conflicts,
		reassign:  reassign,
		sweepSize: sweepSize,
		fleet:     fleet,
	}, nil
}

// RecordAssignment counts one assignment attempt under its outcome.
func (s *PromSink) RecordAssignment(r coremetrics.AssignmentResult) error {
	s.events.WithLabelValues(r.Outcome).Inc()
	return nil
}

// RecordConflicts counts each conflict under its type, severity and source.
func (s *PromSink) RecordConflicts(evs []coremetrics.ConflictEvent) error {
	for _, ev := range evs {
		s.conflicts.WithLabelValues(ev.Type, ev.Severity, ev.Source).Inc()
	}
	return nil
}

// RecordReassignment counts one urgent reassignment request by result.
func (s *PromSink) RecordReassignment(ev coremetrics.ReassignmentEvent) error {
	s.reassign.WithLabelValues(reassignResult(ev)).Inc()
	return nil
}

// RecordSweep publishes the size of the latest conflict sweep.
func (s *PromSink) RecordSweep(ev coremetrics.SweepEvent) error {
	s.sweepSize.Set(float64(ev.Conflicts))
	return nil
}

// RecordFleetSnapshot publishes fleet head counts.
func (s *PromSink) RecordFleetSnapshot(ev coremetrics.FleetSnapshot) error {
	s.fleet.WithLabelValues("available_pilots").Set(float64(ev.AvailablePilots))
	s.fleet.WithLabelValues("available_drones").Set(float64(ev.AvailableDrones))
	s.fleet.WithLabelValues("active_missions").Set(float64(ev.ActiveMissions))
	s.fleet.WithLabelValues("pending_missions").Set(float64(ev.PendingMissions))
	return nil
}

func reassignResult(ev coremetrics.ReassignmentEvent) string {
	switch {
	case ev.Direct:
		return "direct"
	case ev.Options > 0:
		return "cascade"
	}
	return "none"
}
