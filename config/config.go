// Package config loads the service configuration from a YAML or JSON file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/divyarao54/drone-coordinator/core/metrics"
)

type Config struct {
	Store   StoreConfig    `json:"store"`
	API     APIConfig      `json:"api"`
	Audit   AuditConfig    `json:"audit"`
	Metrics metrics.Config `json:"metrics"`
	Events  EventsConfig   `json:"events"`
	Sweep   SweepConfig    `json:"sweep"`
	Sentry  SentryConfig   `json:"sentry"`
}

// Load reads the file at path. A .env file in the working directory is
// loaded first when present. Environment variables prefixed with DRONEOPS_
// override file values, with "__" standing in for the section separator:
// DRONEOPS_API__ADDR overrides api.addr.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("DRONEOPS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "droneops_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Store.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.Events.SetDefaults()
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Audit.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
