// Package app wires the configured fleet store, the assignment coordinator
// and the HTTP API into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/divyarao54/drone-coordinator/api/assignments"
	apiconflicts "github.com/divyarao54/drone-coordinator/api/conflicts"
	apidrones "github.com/divyarao54/drone-coordinator/api/drones"
	apimissions "github.com/divyarao54/drone-coordinator/api/missions"
	apipilots "github.com/divyarao54/drone-coordinator/api/pilots"
	apistats "github.com/divyarao54/drone-coordinator/api/stats"
	"github.com/divyarao54/drone-coordinator/api/system"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/assignment"
	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	coremetrics "github.com/divyarao54/drone-coordinator/core/metrics"
	coremon "github.com/divyarao54/drone-coordinator/core/monitoring"
	"github.com/divyarao54/drone-coordinator/core/sweep"
	"github.com/divyarao54/drone-coordinator/infra/logger"
	"github.com/divyarao54/drone-coordinator/infra/metrics"
	"github.com/divyarao54/drone-coordinator/infra/monitoring"
	"github.com/divyarao54/drone-coordinator/infra/natsbus"
	"github.com/divyarao54/drone-coordinator/infra/storage/csvstore"
	"github.com/divyarao54/drone-coordinator/infra/storage/sqlitestore"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// Version is reported by the API banner.
const Version = "1.0.0"

// Service orchestrates the fleet store, the coordinator and the HTTP API.
type Service struct {
	Coordinator *assignment.Coordinator
	Detector    *conflict.Detector
	Store       fleet.Store

	bus         *eventbus.Bus
	publisher   *natsbus.Publisher
	sweeper     *sweep.Sweeper
	server      *http.Server
	sink        coremetrics.MetricsSink
	storeCloser io.Closer
	log         logger.Logger
	metricsAddr string
	sweepOn     bool
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	inner, closer, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("fleet store: %w", err)
	}
	store := fleet.NewCachedStore(inner, cfg.Store.CacheTTL())

	audit, err := OpenAudit(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	engine := matching.NewEngine()
	coord, err := assignment.NewCoordinator(store, engine, logger.New("coordinator"))
	if err != nil {
		return nil, fmt.Errorf("coordinator: %w", err)
	}
	coord.SetAuditStore(audit)
	coord.SetMetricsSink(sink)
	coord.SetEventBus(bus)

	det := conflict.NewDetector(store)

	sweeper := sweep.NewSweeper(det, cfg.Sweep.Interval(), logger.New("sweeper"))
	sweeper.SetEventBus(bus)
	sweeper.SetMetricsSink(sink)

	var publisher *natsbus.Publisher
	if cfg.Events.Enabled {
		publisher, err = natsbus.NewPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, bus, logger.New("nats-bus"))
		if err != nil {
			return nil, fmt.Errorf("nats publisher: %w", err)
		}
	}

	svc := &Service{
		Coordinator: coord,
		Detector:    det,
		Store:       store,
		bus:         bus,
		publisher:   publisher,
		sweeper:     sweeper,
		sink:        sink,
		storeCloser: closer,
		log:         logg,
		metricsAddr: cfg.API.MetricsAddr,
		sweepOn:     cfg.Sweep.Enabled,
	}
	svc.server = &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           svc.routes(engine, audit, cfg.API.Token),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return svc, nil
}

// routes assembles the HTTP mux.
func (s *Service) routes(engine matching.Engine, audit logging.Store, token string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", system.NewInfoHandler(Version))
	mux.Handle("/stats", apistats.NewStatsHandler(s.Store, engine))
	mux.Handle("/sync", system.NewSyncHandler(s.Store))
	mux.Handle("/pilots", apipilots.NewListHandler(s.Store))
	mux.Handle("/pilots/{id}", apipilots.NewGetHandler(s.Store))
	mux.Handle("/pilots/{id}/status", apipilots.NewStatusHandler(s.Store, s.Detector, s.bus))
	mux.Handle("/drones", apidrones.NewListHandler(s.Store))
	mux.Handle("/drones/{id}", apidrones.NewGetHandler(s.Store))
	mux.Handle("/drones/{id}/status", apidrones.NewStatusHandler(s.Store, s.bus))
	mux.Handle("/missions", apimissions.NewListHandler(s.Store))
	mux.Handle("/missions/{id}", apimissions.NewGetHandler(s.Store))
	mux.Handle("/missions/{id}/available-pilots", apimissions.NewAvailablePilotsHandler(s.Store, engine))
	mux.Handle("/missions/{id}/available-drones", apimissions.NewAvailableDronesHandler(s.Store, engine))
	mux.Handle("/assign", assignments.NewAssignHandler(s.Coordinator))
	mux.Handle("/urgent-reassign", assignments.NewUrgentHandler(s.Coordinator))
	mux.Handle("/conflicts", apiconflicts.NewListHandler(s.Detector))
	mux.Handle("/audit", assignments.NewAuditHandler(audit, token))
	return mux
}

// Run starts the service and blocks until the context is cancelled or the
// HTTP server fails.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.Store, s.sink, logger.New("collector"))
	if s.sweepOn {
		go func() {
			if err := s.sweeper.Run(ctx); err != nil {
				s.log.Errorf("conflict sweeper: %v", err)
			}
		}()
	}
	if s.metricsAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.metricsAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving API on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.log.Errorf("nats publisher close: %v", err)
		}
	}
	err := s.Coordinator.Close()
	if s.storeCloser != nil {
		if cerr := s.storeCloser.Close(); err == nil {
			err = cerr
		}
	}
	coremon.Flush(2 * time.Second)
	return err
}

// OpenStore constructs the configured fleet store backend. The returned
// closer is nil for backends without resources to release.
func OpenStore(cfg config.StoreConfig) (fleet.Store, io.Closer, error) {
	switch cfg.Backend {
	case "memory":
		return fleet.NewMemoryStore(nil, nil, nil), nil, nil
	case "csv":
		st, err := csvstore.New(csvstore.Paths{
			Pilots:   cfg.PilotsFile,
			Drones:   cfg.DronesFile,
			Missions: cfg.MissionsFile,
		}, logger.New("csvstore"))
		if err != nil {
			return nil, nil, err
		}
		return st, nil, nil
	case "sqlite":
		st, err := sqlitestore.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %s", cfg.Backend)
	}
}

// OpenAudit constructs the configured assignment trail store.
func OpenAudit(cfg config.AuditConfig) (logging.Store, error) {
	switch cfg.Backend {
	case "jsonl":
		if cfg.MaxSizeMB > 0 {
			return logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return logging.NewJSONLStore(cfg.Path)
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit backend %s", cfg.Backend)
	}
}
