package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print fleet head counts and match score distribution",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, closer, err := app.OpenStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("fleet store: %w", err)
	}
	defer closeStore(cmd, closer)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pilots, err := store.GetPilots(ctx)
	if err != nil {
		return err
	}
	drones, err := store.GetDrones(ctx)
	if err != nil {
		return err
	}
	missions, err := store.GetMissions(ctx)
	if err != nil {
		return err
	}

	out := struct {
		Fleet  report.FleetStats `json:"fleet"`
		Scores report.ScoreStats `json:"match_scores"`
	}{
		Fleet:  report.Stats(pilots, drones, missions, time.Now().UTC()),
		Scores: report.ScoreDistribution(matching.NewEngine(), missions, pilots),
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
