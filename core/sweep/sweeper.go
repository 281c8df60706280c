// Package sweep runs the fleet-wide conflict detector on a schedule so
// operators hear about new contradictions without asking.
package sweep

import (
	"context"
	"time"

	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/logger"
	"github.com/divyarao54/drone-coordinator/core/metrics"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// Sweeper periodically runs a full conflict detection pass and publishes the
// result. A failing pass is logged and the loop keeps going.
type Sweeper struct {
	detector *conflict.Detector
	interval time.Duration
	log      logger.Logger
	bus      eventbus.EventBus
	sink     metrics.MetricsSink
	now      func() time.Time
}

// NewSweeper creates a sweeper over the given detector. A non-positive
// interval falls back to five minutes.
func NewSweeper(det *conflict.Detector, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		detector: det,
		interval: interval,
		log:      log,
		sink:     metrics.NopSink{},
		now:      time.Now,
	}
}

// SetEventBus configures the bus on which sweep results are published.
func (s *Sweeper) SetEventBus(bus eventbus.EventBus) { s.bus = bus }

// SetMetricsSink configures the sink that records sweep summaries.
func (s *Sweeper) SetMetricsSink(sink metrics.MetricsSink) {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	s.sink = sink
}

// Run sweeps immediately, then on every interval tick until the context is
// canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	if _, err := s.Sweep(ctx); err != nil {
		s.log.Errorf("conflict sweep failed: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Errorf("conflict sweep failed: %v", err)
			}
		}
	}
}

// Sweep runs one detection pass and returns what it found.
func (s *Sweeper) Sweep(ctx context.Context) ([]conflict.Conflict, error) {
	start := s.now()
	conflicts, err := s.detector.DetectAll(ctx)
	if err != nil {
		return nil, err
	}
	elapsed := s.now().Sub(start)

	if len(conflicts) > 0 {
		s.log.Warnf("sweep found %d conflicts", len(conflicts))
	} else {
		s.log.Debugf("sweep found no conflicts")
	}

	if s.bus != nil {
		s.bus.Publish(events.ConflictSweepEvent{Conflicts: conflicts, Time: s.now().UTC()})
	}
	if sr, ok := s.sink.(metrics.SweepRecorder); ok {
		if err := sr.RecordSweep(metrics.SweepEvent{
			Conflicts: len(conflicts),
			Duration:  elapsed,
			Time:      s.now().UTC(),
		}); err != nil {
			s.log.Errorf("sweep metrics error: %v", err)
		}
	}
	if cr, ok := s.sink.(metrics.ConflictRecorder); ok && len(conflicts) > 0 {
		evs := make([]metrics.ConflictEvent, len(conflicts))
		for i, c := range conflicts {
			evs[i] = metrics.ConflictEvent{
				Type:     string(c.Type),
				Severity: string(c.Severity),
				Source:   "sweep",
				Time:     s.now().UTC(),
			}
		}
		if err := cr.RecordConflicts(evs); err != nil {
			s.log.Errorf("conflict metrics error: %v", err)
		}
	}
	return conflicts, nil
}
