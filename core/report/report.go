// Package report summarizes the roster, the fleet and the mission book into
// structured reports. Everything here is a pure function over loaded
// entities; callers fetch and render.
package report

import (
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/model"
)

// RosterSummary counts pilots by status and lists the ones ready to fly.
type RosterSummary struct {
	Total     int                       `json:"total"`
	ByStatus  map[model.PilotStatus]int `json:"by_status"`
	Available []model.Pilot             `json:"available"`
}

// RosterReport builds the availability summary of the pilot roster.
func RosterReport(pilots []model.Pilot) RosterSummary {
	s := RosterSummary{Total: len(pilots), ByStatus: make(map[model.PilotStatus]int)}
	for _, p := range pilots {
		s.ByStatus[p.Status]++
		if p.Status == model.PilotAvailable {
			s.Available = append(s.Available, p)
		}
	}
	return s
}

// PilotsBySkill returns pilots carrying the skill. Membership is
// case-insensitive.
func PilotsBySkill(pilots []model.Pilot, skill string) []model.Pilot {
	var out []model.Pilot
	for _, p := range pilots {
		if containsFold(p.Skills, skill) {
			out = append(out, p)
		}
	}
	return out
}

// PilotsByCertification returns pilots holding the certification.
// Membership is case-insensitive.
func PilotsByCertification(pilots []model.Pilot, cert string) []model.Pilot {
	var out []model.Pilot
	for _, p := range pilots {
		if containsFold(p.Certifications, cert) {
			out = append(out, p)
		}
	}
	return out
}

// PilotsByLocation returns pilots based in the location, compared
// case-insensitively.
func PilotsByLocation(pilots []model.Pilot, location string) []model.Pilot {
	var out []model.Pilot
	for _, p := range pilots {
		if strings.EqualFold(p.Location, location) {
			out = append(out, p)
		}
	}
	return out
}

// InventorySummary counts drones by status and model and tallies what the
// fleet can do.
type InventorySummary struct {
	Total        int                       `json:"total"`
	ByStatus     map[model.DroneStatus]int `json:"by_status"`
	ByModel      map[string]int            `json:"by_model"`
	Capabilities map[string]int            `json:"capabilities"`
	Available    []model.Drone             `json:"available"`
}

// InventoryReport builds the fleet inventory summary.
func InventoryReport(drones []model.Drone) InventorySummary {
	s := InventorySummary{
		Total:        len(drones),
		ByStatus:     make(map[model.DroneStatus]int),
		ByModel:      make(map[string]int),
		Capabilities: make(map[string]int),
	}
	for _, d := range drones {
		s.ByStatus[d.Status]++
		s.ByModel[d.Model]++
		for _, c := range d.Capabilities {
			s.Capabilities[c]++
		}
		if d.Status == model.DroneAvailable {
			s.Available = append(s.Available, d)
		}
	}
	return s
}

// DronesByCapability returns drones carrying the capability. Membership is
// case-insensitive.
func DronesByCapability(drones []model.Drone, capability string) []model.Drone {
	var out []model.Drone
	for _, d := range drones {
		if containsFold(d.Capabilities, capability) {
			out = append(out, d)
		}
	}
	return out
}

// DronesByLocation returns drones based in the location, compared
// case-insensitively.
func DronesByLocation(drones []model.Drone, location string) []model.Drone {
	var out []model.Drone
	for _, d := range drones {
		if strings.EqualFold(d.Location, location) {
			out = append(out, d)
		}
	}
	return out
}

// MaintenanceEntry is one drone on the maintenance schedule. DaysUntil is
// negative once the due date has passed.
type MaintenanceEntry struct {
	Drone     model.Drone `json:"drone"`
	DaysUntil int         `json:"days_until"`
}

// MaintenanceSummary splits the fleet into overdue work, work due within a
// week, and the full dated schedule.
type MaintenanceSummary struct {
	Overdue []MaintenanceEntry `json:"overdue"`
	DueSoon []MaintenanceEntry `json:"due_soon"`

	// Schedule lists every drone with a due date, soonest first.
	Schedule []MaintenanceEntry `json:"schedule"`
}

// MaintenanceReport builds the maintenance summary relative to today.
// A drone due today counts as overdue: it must not fly before the work is
// done.
func MaintenanceReport(drones []model.Drone, today model.Date) MaintenanceSummary {
	var s MaintenanceSummary
	for _, d := range drones {
		if d.MaintenanceDue.IsZero() {
			continue
		}
		entry := MaintenanceEntry{Drone: d, DaysUntil: today.DaysUntil(d.MaintenanceDue)}
		s.Schedule = append(s.Schedule, entry)
		switch {
		case entry.DaysUntil <= 0:
			s.Overdue = append(s.Overdue, entry)
		case entry.DaysUntil <= 7:
			s.DueSoon = append(s.DueSoon, entry)
		}
	}
	sort.SliceStable(s.Schedule, func(i, j int) bool {
		return s.Schedule[i].Drone.MaintenanceDue.Before(s.Schedule[j].Drone.MaintenanceDue)
	})
	return s
}

// FleetStats is the operational head count reported by the stats endpoint.
type FleetStats struct {
	AvailablePilots    int       `json:"available_pilots"`
	AvailableDrones    int       `json:"available_drones"`
	ActiveMissions     int       `json:"active_missions"`
	PendingAssignments int       `json:"pending_assignments"`
	LastSync           time.Time `json:"last_sync"`
}

// Stats counts available pilots and drones, missions still running on the
// given day, and missions waiting for a pilot.
func Stats(pilots []model.Pilot, drones []model.Drone, missions []model.Mission, now time.Time) FleetStats {
	s := FleetStats{LastSync: now}
	today := model.DateOf(now)
	for _, p := range pilots {
		if p.Status == model.PilotAvailable {
			s.AvailablePilots++
		}
	}
	for _, d := range drones {
		if d.Status == model.DroneAvailable {
			s.AvailableDrones++
		}
	}
	for _, m := range missions {
		if m.ActiveOn(today) {
			s.ActiveMissions++
		}
		if m.AssignedPilot == "" {
			s.PendingAssignments++
		}
	}
	return s
}

// ScoreStats describes how well the current roster covers the unassigned
// mission book. Each unassigned mission contributes its best candidate's
// match score; missions with no candidate contribute nothing and are counted
// in Uncovered.
type ScoreStats struct {
	Missions  int     `json:"missions"`
	Uncovered int     `json:"uncovered"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Median    float64 `json:"median"`
}

// ScoreDistribution computes the score statistics for missions that still
// need a pilot.
func ScoreDistribution(e matching.Engine, missions []model.Mission, pilots []model.Pilot) ScoreStats {
	var stats ScoreStats
	var scores []float64
	for _, m := range missions {
		if m.AssignedPilot != "" {
			continue
		}
		ranked := e.MatchPilots(m, pilots)
		if len(ranked) == 0 {
			stats.Uncovered++
			continue
		}
		scores = append(scores, ranked[0].Score)
	}
	if len(scores) == 0 {
		return stats
	}
	sort.Float64s(scores)
	stats.Missions = len(scores)
	stats.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		stats.StdDev = stat.StdDev(scores, nil)
	}
	stats.Min = scores[0]
	stats.Max = scores[len(scores)-1]
	stats.Median = stat.Quantile(0.5, stat.Empirical, scores, nil)
	return stats
}

func containsFold(have []string, want string) bool {
	for _, h := range have {
		if strings.EqualFold(h, want) {
			return true
		}
	}
	return false
}
