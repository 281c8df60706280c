// Package util provides fixtures and helpers shared across integration
// tests.
package util

import (
	"fmt"
	"time"

	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// EventTimeout bounds how long tests wait for a bus event.
const EventTimeout = 2 * time.Second

// StandardFleet returns a small consistent data set: two pilots and two
// drones split across Pune and Nagpur, one open mission in each city, and
// nothing pre-assigned. PRJ001 in Pune requires the skills and
// certification only P001 holds; PRJ002 in Nagpur is an urgent inspection
// job P002 can fly.
func StandardFleet() ([]model.Pilot, []model.Drone, []model.Mission) {
	pilots := []model.Pilot{
		{
			ID:             "P001",
			Name:           "Asha Verma",
			Skills:         []string{"aerial mapping", "thermal imaging"},
			Certifications: []string{"DGCA RPC"},
			Location:       "Pune",
			Status:         model.PilotAvailable,
			AvailableFrom:  model.NewDate(2026, 3, 1),
		},
		{
			ID:             "P002",
			Name:           "Rohan Iyer",
			Skills:         []string{"inspection"},
			Certifications: []string{"DGCA RPC"},
			Location:       "Nagpur",
			Status:         model.PilotAvailable,
		},
	}
	drones := []model.Drone{
		{
			ID:             "D001",
			Model:          "Matrice 350",
			Capabilities:   []string{"thermal"},
			Status:         model.DroneAvailable,
			Location:       "Pune",
			MaintenanceDue: model.NewDate(2026, 7, 1),
		},
		{
			ID:             "D002",
			Model:          "EVO II Pro",
			Status:         model.DroneAvailable,
			Location:       "Nagpur",
			MaintenanceDue: model.NewDate(2026, 8, 1),
		},
	}
	missions := []model.Mission{
		{
			ProjectID:      "PRJ001",
			Client:         "AgriSense",
			Location:       "Pune",
			RequiredSkills: []string{"aerial mapping", "thermal imaging"},
			RequiredCerts:  []string{"DGCA RPC"},
			StartDate:      model.NewDate(2026, 3, 10),
			EndDate:        model.NewDate(2026, 3, 14),
			Priority:       model.PriorityHigh,
		},
		{
			ProjectID:      "PRJ002",
			Client:         "GridWatch",
			Location:       "Nagpur",
			RequiredSkills: []string{"inspection"},
			StartDate:      model.NewDate(2026, 3, 12),
			EndDate:        model.NewDate(2026, 3, 13),
			Priority:       model.PriorityUrgent,
		},
	}
	return pilots, drones, missions
}

// WaitForEvent receives from the subscription until match returns true,
// the channel closes, or EventTimeout passes.
func WaitForEvent(sub <-chan eventbus.Event, match func(eventbus.Event) bool) (eventbus.Event, error) {
	deadline := time.After(EventTimeout)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return nil, fmt.Errorf("event bus closed")
			}
			if match(ev) {
				return ev, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("no matching event within %s", EventTimeout)
		}
	}
}
