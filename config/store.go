package config

import (
	"fmt"
	"time"

	"github.com/divyarao54/drone-coordinator/core/fleet"
)

// StoreConfig selects and parameterizes the fleet data store.
type StoreConfig struct {
	// Backend selects the store type: "memory", "csv" or "sqlite".
	Backend string `json:"backend"`
	// Path is the database file location for the sqlite backend.
	Path string `json:"path"`
	// PilotsFile, DronesFile and MissionsFile locate the csv backend's
	// sheet files.
	PilotsFile   string `json:"pilots_file"`
	DronesFile   string `json:"drones_file"`
	MissionsFile string `json:"missions_file"`
	// CacheTTLSeconds bounds how stale a cached read may be. Zero keeps
	// the default.
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "csv"
	}
	if c.PilotsFile == "" {
		c.PilotsFile = "pilot_roster.csv"
	}
	if c.DronesFile == "" {
		c.DronesFile = "drone_fleet.csv"
	}
	if c.MissionsFile == "" {
		c.MissionsFile = "missions.csv"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "memory", "csv":
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("store path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	return nil
}

// CacheTTL returns the configured freshness bound.
func (c StoreConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return fleet.DefaultCacheTTL
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
