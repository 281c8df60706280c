package assignment

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	assignmentsTotal  *prometheus.CounterVec
	conflictsDetected *prometheus.CounterVec
	urgentRequests    *prometheus.CounterVec
	assignLatency     *prometheus.HistogramVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.HistogramVec) {
	assignments := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignments_total",
			Help: "Number of assignment attempts by outcome",
		},
		[]string{"outcome"},
	)
	conflicts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_conflicts_total",
			Help: "Number of conflicts that blocked assignments",
		},
		[]string{"type"},
	)
	urgent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urgent_reassignments_total",
			Help: "Number of urgent reassignment requests by result",
		},
		[]string{"result"},
	)
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assignment_latency_seconds",
			Help:    "Latency of coordinator operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	return assignments, conflicts, urgent, latency
}

func init() {
	assignmentsTotal, conflictsDetected, urgentRequests, assignLatency = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers coordinator metrics on the provided
// registry. If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(assignmentsTotal, conflictsDetected, urgentRequests, assignLatency)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	assignmentsTotal, conflictsDetected, urgentRequests, assignLatency = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
