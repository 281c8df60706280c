package main

import "errors"

// Config holds parameters for fleet generation.
type Config struct {
	OutDir      string
	Pilots      int
	Drones      int
	Missions    int
	AssignedPct float64
	Seed        int64
	Start       string
}

// Validate checks the generation parameters.
func (c *Config) Validate() error {
	if c.Pilots <= 0 {
		return errors.New("pilots must be positive")
	}
	if c.Drones <= 0 {
		return errors.New("drones must be positive")
	}
	if c.Missions < 0 {
		return errors.New("missions must not be negative")
	}
	if c.AssignedPct < 0 || c.AssignedPct > 1 {
		return errors.New("assigned-pct must be within [0,1]")
	}
	return nil
}
