package fleet

import (
	"context"
	"sync"
	"time"

	"github.com/divyarao54/drone-coordinator/core/model"
)

// DefaultCacheTTL is how long a fetched collection stays fresh.
const DefaultCacheTTL = 300 * time.Second

type snapshot[T any] struct {
	items   []T
	fetched time.Time
	valid   bool
}

func (s *snapshot[T]) fresh(now time.Time, ttl time.Duration) bool {
	return s.valid && now.Sub(s.fetched) < ttl
}

// CachedStore wraps another Store with a per-collection freshness window.
// Reads inside the window return the cached snapshot; any successful
// mutation drops the whole cache, so the next read observes the write.
// Expiry uses the monotonic clock, wall-clock jumps do not extend or
// shorten the window.
type CachedStore struct {
	inner Store
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	pilots   snapshot[model.Pilot]
	drones   snapshot[model.Drone]
	missions snapshot[model.Mission]
}

func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{inner: inner, ttl: ttl, now: time.Now}
}

func (c *CachedStore) GetPilots(ctx context.Context) ([]model.Pilot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pilots.fresh(c.now(), c.ttl) {
		return append([]model.Pilot(nil), c.pilots.items...), nil
	}
	items, err := c.inner.GetPilots(ctx)
	if err != nil {
		return nil, err
	}
	c.pilots = snapshot[model.Pilot]{items: items, fetched: c.now(), valid: true}
	return append([]model.Pilot(nil), items...), nil
}

func (c *CachedStore) GetDrones(ctx context.Context) ([]model.Drone, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drones.fresh(c.now(), c.ttl) {
		return append([]model.Drone(nil), c.drones.items...), nil
	}
	items, err := c.inner.GetDrones(ctx)
	if err != nil {
		return nil, err
	}
	c.drones = snapshot[model.Drone]{items: items, fetched: c.now(), valid: true}
	return append([]model.Drone(nil), items...), nil
}

func (c *CachedStore) GetMissions(ctx context.Context) ([]model.Mission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.missions.fresh(c.now(), c.ttl) {
		return append([]model.Mission(nil), c.missions.items...), nil
	}
	items, err := c.inner.GetMissions(ctx)
	if err != nil {
		return nil, err
	}
	c.missions = snapshot[model.Mission]{items: items, fetched: c.now(), valid: true}
	return append([]model.Mission(nil), items...), nil
}

// Single-entity lookups scan the cached collection so a lookup burst does
// not hammer the backing source.
func (c *CachedStore) GetPilot(ctx context.Context, id string) (model.Pilot, bool, error) {
	pilots, err := c.GetPilots(ctx)
	if err != nil {
		return model.Pilot{}, false, err
	}
	for _, p := range pilots {
		if p.ID == id {
			return p, true, nil
		}
	}
	return model.Pilot{}, false, nil
}

func (c *CachedStore) GetDrone(ctx context.Context, id string) (model.Drone, bool, error) {
	drones, err := c.GetDrones(ctx)
	if err != nil {
		return model.Drone{}, false, err
	}
	for _, d := range drones {
		if d.ID == id {
			return d, true, nil
		}
	}
	return model.Drone{}, false, nil
}

func (c *CachedStore) GetMission(ctx context.Context, id string) (model.Mission, bool, error) {
	missions, err := c.GetMissions(ctx)
	if err != nil {
		return model.Mission{}, false, err
	}
	for _, m := range missions {
		if m.ProjectID == id {
			return m, true, nil
		}
	}
	return model.Mission{}, false, nil
}

func (c *CachedStore) UpdatePilotStatus(ctx context.Context, id string, status model.PilotStatus, assignment string) error {
	if err := c.inner.UpdatePilotStatus(ctx, id, status, assignment); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *CachedStore) UpdateDroneStatus(ctx context.Context, id string, status model.DroneStatus, assignment string) error {
	if err := c.inner.UpdateDroneStatus(ctx, id, status, assignment); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *CachedStore) AssignToMission(ctx context.Context, projectID, pilotID, droneID string) error {
	if err := c.inner.AssignToMission(ctx, projectID, pilotID, droneID); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

// Invalidate drops every cached collection.
func (c *CachedStore) Invalidate() {
	c.mu.Lock()
	c.pilots.valid = false
	c.drones.valid = false
	c.missions.valid = false
	c.mu.Unlock()
}

// Sync drops the cache and reloads all three collections. Used by the sync
// endpoint and the periodic refresh job.
func (c *CachedStore) Sync(ctx context.Context) error {
	c.Invalidate()
	if _, err := c.GetPilots(ctx); err != nil {
		return err
	}
	if _, err := c.GetDrones(ctx); err != nil {
		return err
	}
	_, err := c.GetMissions(ctx)
	return err
}
