package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/core/report"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Drone fleet commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List drones with status and location",
	RunE:  runFleetLs,
}

var fleetMaintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Show overdue and upcoming maintenance work",
	RunE:  runFleetMaintenance,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	fleetCmd.AddCommand(fleetMaintenanceCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
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
	drones, err := store.GetDrones(ctx)
	if err != nil {
		return err
	}
	for _, d := range drones {
		line := fmt.Sprintf("%s\t%s\t%s\t%s", d.ID, d.Model, d.Status, d.Location)
		if d.CurrentAssignment != "" {
			line += "\t" + d.CurrentAssignment
		}
		fmt.Println(line)
	}
	return nil
}

func runFleetMaintenance(cmd *cobra.Command, args []string) error {
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
	drones, err := store.GetDrones(ctx)
	if err != nil {
		return err
	}
	summary := report.MaintenanceReport(drones, model.DateOf(time.Now()))
	for _, e := range summary.Overdue {
		fmt.Printf("OVERDUE\t%s\t%s\tdue %s\n", e.Drone.ID, e.Drone.Model, e.Drone.MaintenanceDue)
	}
	for _, e := range summary.DueSoon {
		fmt.Printf("DUE SOON\t%s\t%s\tin %d days\n", e.Drone.ID, e.Drone.Model, e.DaysUntil)
	}
	if len(summary.Overdue) == 0 && len(summary.DueSoon) == 0 {
		fmt.Println("no maintenance due within a week")
	}
	return nil
}
