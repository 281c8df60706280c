package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/divyarao54/drone-coordinator/core/model"
)

var fleetRng = rand.New(rand.NewSource(time.Now().UnixNano()))

var (
	firstNames = []string{"Asha", "Rohan", "Meera", "Kabir", "Divya", "Arjun", "Priya", "Vikram", "Sneha", "Rahul", "Ananya", "Dev"}
	lastNames  = []string{"Verma", "Iyer", "Nair", "Shah", "Rao", "Patel", "Singh", "Menon", "Kulkarni", "Das", "Joshi", "Bhat"}
	cities     = []string{"Pune", "Mumbai", "Nagpur", "Jaipur", "Bengaluru", "Hyderabad", "Indore", "Bhopal"}
	skillPool  = []string{"aerial mapping", "thermal imaging", "inspection", "surveying", "crop monitoring", "videography"}
	certPool   = []string{"Night Ops", "BVLOS", "DGCA Instructor"}
	models     = []string{"Matrice 350", "Mavic 3E", "Phantom 4 RTK", "EVO II Pro", "Anafi USA", "eBee X"}
	capPool    = []string{"thermal", "lidar", "rtk", "zoom", "multispectral"}
	clients    = []string{"AgriSense", "GridWatch", "TerraScan", "SkyFarm", "MetroRail", "SolarPeak"}
)

const baseCert = "DGCA RPC"

// GeneratePilots creates Pilots pilots with IDs P001..PNNN. Most hold the
// base certification; a quarter only become available some days after start
// and a few are on leave, so seeded rosters exercise the availability rules.
func GeneratePilots(cfg Config, start model.Date) []model.Pilot {
	pilots := make([]model.Pilot, cfg.Pilots)
	for i := range pilots {
		p := model.Pilot{
			ID:       fmt.Sprintf("P%03d", i+1),
			Name:     firstNames[fleetRng.Intn(len(firstNames))] + " " + lastNames[fleetRng.Intn(len(lastNames))],
			Skills:   pick(skillPool, 1+fleetRng.Intn(2)),
			Location: cities[fleetRng.Intn(len(cities))],
			Status:   model.PilotAvailable,
		}
		if fleetRng.Float64() < 0.85 {
			p.Certifications = append(p.Certifications, baseCert)
		}
		if fleetRng.Float64() < 0.3 {
			p.Certifications = append(p.Certifications, certPool[fleetRng.Intn(len(certPool))])
		}
		if fleetRng.Float64() < 0.25 {
			p.AvailableFrom = start.AddDays(fleetRng.Intn(21))
		}
		if fleetRng.Float64() < 0.1 {
			p.Status = model.PilotOnLeave
		}
		pilots[i] = p
	}
	return pilots
}

// GenerateDrones creates Drones drones with IDs D001..DNNN. Maintenance due
// dates spread from slightly overdue to three months out.
func GenerateDrones(cfg Config, start model.Date) []model.Drone {
	drones := make([]model.Drone, cfg.Drones)
	for i := range drones {
		d := model.Drone{
			ID:             fmt.Sprintf("D%03d", i+1),
			Model:          models[fleetRng.Intn(len(models))],
			Capabilities:   pick(capPool, 1+fleetRng.Intn(2)),
			Location:       cities[fleetRng.Intn(len(cities))],
			Status:         model.DroneAvailable,
			MaintenanceDue: start.AddDays(fleetRng.Intn(100) - 10),
		}
		if fleetRng.Float64() < 0.15 {
			d.Status = model.DroneMaintenance
		}
		drones[i] = d
	}
	return drones
}

// GenerateMissions creates Missions missions with IDs PRJ001..PRJNNN starting
// within a month of start. AssignedPct of them get a crew picked at random
// from free resources; the picks ignore the matching rules on purpose, the
// way hand-maintained sheets do, so conflict sweeps on seeded data find
// something.
func GenerateMissions(cfg Config, start model.Date, pilots []model.Pilot, drones []model.Drone) []model.Mission {
	missions := make([]model.Mission, cfg.Missions)
	for i := range missions {
		s := start.AddDays(fleetRng.Intn(30))
		m := model.Mission{
			ProjectID:      fmt.Sprintf("PRJ%03d", i+1),
			Client:         clients[fleetRng.Intn(len(clients))],
			Location:       cities[fleetRng.Intn(len(cities))],
			RequiredSkills: pick(skillPool, 1+fleetRng.Intn(2)),
			StartDate:      s,
			EndDate:        s.AddDays(2 + fleetRng.Intn(9)),
			Priority:       rollPriority(),
		}
		if fleetRng.Float64() < 0.6 {
			m.RequiredCerts = []string{baseCert}
		}
		missions[i] = m
	}

	assigned := int(float64(cfg.Missions) * cfg.AssignedPct)
	pi, di := 0, 0
	for i := 0; i < assigned && i < len(missions); i++ {
		for pi < len(pilots) && pilots[pi].Status != model.PilotAvailable {
			pi++
		}
		for di < len(drones) && drones[di].Status != model.DroneAvailable {
			di++
		}
		if pi >= len(pilots) || di >= len(drones) {
			break
		}
		missions[i].AssignedPilot = pilots[pi].ID
		missions[i].AssignedDrone = drones[di].ID
		pilots[pi].Status = model.PilotAssigned
		pilots[pi].CurrentAssignment = missions[i].ProjectID
		drones[di].Status = model.DroneInUse
		drones[di].CurrentAssignment = missions[i].ProjectID
	}
	return missions
}

func rollPriority() model.Priority {
	switch r := fleetRng.Float64(); {
	case r < 0.1:
		return model.PriorityUrgent
	case r < 0.35:
		return model.PriorityHigh
	case r < 0.85:
		return model.PriorityStandard
	default:
		return model.PriorityLow
	}
}

// pick samples n distinct values from pool.
func pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := fleetRng.Perm(len(pool))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}
