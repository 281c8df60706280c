package conflict

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
)

// CheckAssignment evaluates one proposed or existing assignment. A nil
// pilot or drone yields no conflicts: there is nothing to judge until both
// halves exist. Every applicable rule is reported, the first violation does
// not short-circuit the rest.
func CheckAssignment(m model.Mission, pilot *model.Pilot, drone *model.Drone) []Conflict {
	var conflicts []Conflict
	if pilot == nil || drone == nil {
		return conflicts
	}

	if missing := missingFrom(m.RequiredSkills, pilot.Skills); len(missing) > 0 {
		conflicts = append(conflicts, newConflict(TypeSkillMismatch,
			"Pilot %s (%s) lacks required skills: %s for mission %s",
			pilot.Name, pilot.ID, strings.Join(missing, ", "), m.ProjectID))
	}

	if missing := missingFrom(m.RequiredCerts, pilot.Certifications); len(missing) > 0 {
		conflicts = append(conflicts, newConflict(TypeCertificationMismatch,
			"Pilot %s lacks required certifications: %s for mission %s",
			pilot.Name, strings.Join(missing, ", "), m.ProjectID))
	}

	if pilot.Location != m.Location {
		conflicts = append(conflicts, newConflict(TypeLocationMismatch,
			"Pilot %s is in %s, but mission %s is in %s",
			pilot.Name, pilot.Location, m.ProjectID, m.Location))
	}

	if drone.Location != m.Location {
		conflicts = append(conflicts, newConflict(TypeLocationMismatch,
			"Drone %s is in %s, but mission %s is in %s",
			drone.ID, drone.Location, m.ProjectID, m.Location))
	}

	if !drone.MaintenanceDue.IsZero() && !m.EndDate.IsZero() && drone.MaintenanceDue.OnOrBefore(m.EndDate) {
		conflicts = append(conflicts, newConflict(TypeMaintenanceConflict,
			"Drone %s requires maintenance on %s, during mission %s",
			drone.ID, drone.MaintenanceDue, m.ProjectID))
	}

	if !pilot.AvailableFrom.IsZero() && !m.StartDate.IsZero() && pilot.AvailableFrom.After(m.StartDate) {
		conflicts = append(conflicts, newConflict(TypeAvailabilityConflict,
			"Pilot %s is only available from %s, but mission %s starts on %s",
			pilot.Name, pilot.AvailableFrom, m.ProjectID, m.StartDate))
	}

	return conflicts
}

// Detector runs fleet-wide conflict scans against the store.
type Detector struct {
	store fleet.Store
	now   func() time.Time
}

func NewDetector(store fleet.Store) *Detector {
	return &Detector{store: store, now: time.Now}
}

// DetectAll sweeps the whole fleet. The result concatenates the
// per-assignment checks with the double-booking, maintenance, certification
// and location scans, in that order. The scans re-report findings the
// per-assignment pass already covers; consumers see the complete picture
// from each angle and deduplicate only if they care to.
func (d *Detector) DetectAll(ctx context.Context) ([]Conflict, error) {
	missions, err := d.store.GetMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}
	pilots, err := d.store.GetPilots(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pilots: %w", err)
	}
	drones, err := d.store.GetDrones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load drones: %w", err)
	}

	var conflicts []Conflict
	for _, m := range missions {
		if m.Assigned() {
			conflicts = append(conflicts, CheckAssignment(m, findPilot(pilots, m.AssignedPilot), findDrone(drones, m.AssignedDrone))...)
		}
	}
	conflicts = append(conflicts, doubleBookings(missions, pilots)...)
	conflicts = append(conflicts, maintenanceScan(drones, missions, model.DateOf(d.now()))...)
	conflicts = append(conflicts, certificationScan(missions, pilots)...)
	conflicts = append(conflicts, locationScan(missions, pilots, drones)...)
	return conflicts, nil
}

// CheckPilot reports overlapping assignments held by a single pilot. An
// unknown pilot yields no conflicts.
func (d *Detector) CheckPilot(ctx context.Context, pilotID string) ([]Conflict, error) {
	pilot, ok, err := d.store.GetPilot(ctx, pilotID)
	if err != nil {
		return nil, fmt.Errorf("load pilot %s: %w", pilotID, err)
	}
	if !ok {
		return nil, nil
	}
	missions, err := d.store.GetMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}

	var assigned []model.Mission
	for _, m := range missions {
		if m.AssignedPilot == pilotID {
			assigned = append(assigned, m)
		}
	}
	var conflicts []Conflict
	for i := 0; i < len(assigned); i++ {
		for j := i + 1; j < len(assigned); j++ {
			m1, m2 := assigned[i], assigned[j]
			if model.Overlap(m1.StartDate, m1.EndDate, m2.StartDate, m2.EndDate) {
				conflicts = append(conflicts, newConflict(TypeDoubleBooking,
					"Pilot %s has overlapping assignments: %s and %s",
					pilot.Name, m1.ProjectID, m2.ProjectID))
			}
		}
	}
	return conflicts, nil
}

// doubleBookings reports every pair of date-overlapping missions that share
// a pilot or a drone. Grouping keeps first-seen order so the output is
// deterministic for a given mission list.
func doubleBookings(missions []model.Mission, pilots []model.Pilot) []Conflict {
	var conflicts []Conflict

	byPilot, pilotOrder := groupByPilot(missions)
	for _, pilotID := range pilotOrder {
		group := byPilot[pilotID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				m1, m2 := group[i], group[j]
				if model.Overlap(m1.StartDate, m1.EndDate, m2.StartDate, m2.EndDate) {
					name := pilotID
					if p := findPilot(pilots, pilotID); p != nil {
						name = p.Name
					}
					conflicts = append(conflicts, newConflict(TypeDoubleBooking,
						"Pilot %s double-booked on overlapping missions: %s (%s-%s) and %s (%s-%s)",
						name, m1.ProjectID, m1.StartDate, m1.EndDate, m2.ProjectID, m2.StartDate, m2.EndDate))
				}
			}
		}
	}

	byDrone, droneOrder := groupByDrone(missions)
	for _, droneID := range droneOrder {
		group := byDrone[droneID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				m1, m2 := group[i], group[j]
				if model.Overlap(m1.StartDate, m1.EndDate, m2.StartDate, m2.EndDate) {
					conflicts = append(conflicts, newConflict(TypeDoubleBooking,
						"Drone %s double-booked on overlapping missions: %s and %s",
						droneID, m1.ProjectID, m2.ProjectID))
				}
			}
		}
	}

	return conflicts
}

// maintenanceScan flags drones whose maintenance falls inside an assigned
// mission, labelling the due date relative to today.
func maintenanceScan(drones []model.Drone, missions []model.Mission, today model.Date) []Conflict {
	var conflicts []Conflict
	for _, drone := range drones {
		if drone.MaintenanceDue.IsZero() {
			continue
		}
		for _, m := range missions {
			if m.AssignedDrone != drone.ID {
				continue
			}
			if m.EndDate.IsZero() || !drone.MaintenanceDue.OnOrBefore(m.EndDate) {
				continue
			}
			daysUntil := today.DaysUntil(drone.MaintenanceDue)
			status := fmt.Sprintf("due in %d days", daysUntil)
			if daysUntil < 0 {
				status = "OVERDUE"
			}
			conflicts = append(conflicts, newConflict(TypeMaintenanceConflict,
				"Drone %s assigned to %s during maintenance period (maintenance %s: %s)",
				drone.ID, m.ProjectID, status, drone.MaintenanceDue))
		}
	}
	return conflicts
}

func certificationScan(missions []model.Mission, pilots []model.Pilot) []Conflict {
	var conflicts []Conflict
	for _, m := range missions {
		if m.AssignedPilot == "" {
			continue
		}
		pilot := findPilot(pilots, m.AssignedPilot)
		if pilot == nil {
			continue
		}
		if missing := missingFrom(m.RequiredCerts, pilot.Certifications); len(missing) > 0 {
			conflicts = append(conflicts, newConflict(TypeCertificationMismatch,
				"Pilot %s assigned to %s lacks certifications: %s",
				pilot.Name, m.ProjectID, strings.Join(missing, ", ")))
		}
	}
	return conflicts
}

func locationScan(missions []model.Mission, pilots []model.Pilot, drones []model.Drone) []Conflict {
	var conflicts []Conflict
	for _, m := range missions {
		if m.AssignedPilot != "" {
			if pilot := findPilot(pilots, m.AssignedPilot); pilot != nil && pilot.Location != m.Location {
				conflicts = append(conflicts, newConflict(TypeLocationMismatch,
					"Pilot %s in %s assigned to mission in %s (%s)",
					pilot.Name, pilot.Location, m.Location, m.ProjectID))
			}
		}
		if m.AssignedDrone != "" {
			if drone := findDrone(drones, m.AssignedDrone); drone != nil && drone.Location != m.Location {
				conflicts = append(conflicts, newConflict(TypeLocationMismatch,
					"Drone %s in %s assigned to mission in %s (%s)",
					drone.ID, drone.Location, m.Location, m.ProjectID))
			}
		}
	}
	return conflicts
}

func groupByPilot(missions []model.Mission) (map[string][]model.Mission, []string) {
	groups := make(map[string][]model.Mission)
	var order []string
	for _, m := range missions {
		if m.AssignedPilot == "" {
			continue
		}
		if _, seen := groups[m.AssignedPilot]; !seen {
			order = append(order, m.AssignedPilot)
		}
		groups[m.AssignedPilot] = append(groups[m.AssignedPilot], m)
	}
	return groups, order
}

func groupByDrone(missions []model.Mission) (map[string][]model.Mission, []string) {
	groups := make(map[string][]model.Mission)
	var order []string
	for _, m := range missions {
		if m.AssignedDrone == "" {
			continue
		}
		if _, seen := groups[m.AssignedDrone]; !seen {
			order = append(order, m.AssignedDrone)
		}
		groups[m.AssignedDrone] = append(groups[m.AssignedDrone], m)
	}
	return groups, order
}

func findPilot(pilots []model.Pilot, id string) *model.Pilot {
	for i := range pilots {
		if pilots[i].ID == id {
			return &pilots[i]
		}
	}
	return nil
}

func findDrone(drones []model.Drone, id string) *model.Drone {
	for i := range drones {
		if drones[i].ID == id {
			return &drones[i]
		}
	}
	return nil
}

// missingFrom returns the wanted entries absent from have, in want order.
func missingFrom(want, have []string) []string {
	var missing []string
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, w)
		}
	}
	return missing
}
