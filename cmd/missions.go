package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/matching"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Mission sheet commands",
}

var missionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List missions with priority and crew",
	RunE:  runMissionsLs,
}

var missionsSuggestCmd = &cobra.Command{
	Use:   "suggest <project-id>",
	Short: "Rank eligible pilots and drones for a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runMissionsSuggest,
}

func init() {
	missionsCmd.AddCommand(missionsLsCmd)
	missionsCmd.AddCommand(missionsSuggestCmd)
	rootCmd.AddCommand(missionsCmd)
}

func runMissionsLs(cmd *cobra.Command, args []string) error {
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
	missions, err := store.GetMissions(ctx)
	if err != nil {
		return err
	}
	for _, m := range missions {
		crew := "unassigned"
		if m.Assigned() {
			crew = m.AssignedPilot + "+" + m.AssignedDrone
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s..%s\t%s\n",
			m.ProjectID, m.Priority, m.Client, m.Location, m.StartDate, m.EndDate, crew)
	}
	return nil
}

func runMissionsSuggest(cmd *cobra.Command, args []string) error {
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
	mission, ok, err := store.GetMission(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("mission %s not found", args[0])
	}
	pilots, err := store.GetPilots(ctx)
	if err != nil {
		return err
	}
	drones, err := store.GetDrones(ctx)
	if err != nil {
		return err
	}

	engine := matching.NewEngine()
	fmt.Printf("%s %s at %s, needs %v\n", mission.ProjectID, mission.Priority, mission.Location, mission.RequiredSkills)
	for _, pm := range engine.MatchPilots(mission, pilots) {
		fmt.Printf("pilot %s\t%s\tscore %.2f\n", pm.Pilot.ID, pm.Pilot.Name, pm.Score)
	}
	for _, d := range engine.MatchDrones(mission, drones) {
		fmt.Printf("drone %s\t%s\n", d.ID, d.Model)
	}
	return nil
}
