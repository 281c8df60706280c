package config

import "time"

// SweepConfig holds configuration for the periodic conflict sweep.
type SweepConfig struct {
	Enabled         bool `json:"enabled"`
	IntervalSeconds int  `json:"interval_seconds"`
}

// Interval returns the sweep period, falling back to five minutes.
func (c SweepConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}
