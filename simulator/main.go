// Command simulator generates a synthetic fleet data set: a pilot roster, a
// drone inventory and a mission sheet in the CSV layout the csv store opens.
// It gives a fresh deployment something to coordinate and the conflict sweep
// something to find.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/infra/storage/csvstore"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.Seed != 0 {
		fleetRng = rand.New(rand.NewSource(cfg.Seed))
	}

	start := model.DateOf(time.Now())
	if cfg.Start != "" {
		start = model.ParseDate(cfg.Start)
		if start.IsZero() {
			log.Fatalf("invalid start date %q", cfg.Start)
		}
	}

	pilots := GeneratePilots(cfg, start)
	drones := GenerateDrones(cfg, start)
	missions := GenerateMissions(cfg, start, pilots, drones)

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	paths := csvstore.Paths{
		Pilots:   filepath.Join(cfg.OutDir, "pilot_roster.csv"),
		Drones:   filepath.Join(cfg.OutDir, "drone_fleet.csv"),
		Missions: filepath.Join(cfg.OutDir, "missions.csv"),
	}
	if err := csvstore.WriteFleet(paths, pilots, drones, missions); err != nil {
		log.Fatalf("write fleet: %v", err)
	}
	fmt.Printf("wrote %d pilots, %d drones and %d missions under %s\n",
		len(pilots), len(drones), len(missions), cfg.OutDir)
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.OutDir, "out", "data", "output directory for the CSV files")
	flag.IntVar(&cfg.Pilots, "pilots", 12, "number of pilots")
	flag.IntVar(&cfg.Drones, "drones", 8, "number of drones")
	flag.IntVar(&cfg.Missions, "missions", 6, "number of missions")
	flag.Float64Var(&cfg.AssignedPct, "assigned-pct", 0.3, "ratio of missions seeded with a crew")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed, 0 uses the clock")
	flag.StringVar(&cfg.Start, "start", "", "first mission start date (YYYY-MM-DD), default today")
	flag.Parse()
	return cfg
}
