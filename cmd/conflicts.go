package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/conflict"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Sweep the fleet data for scheduling conflicts",
	RunE:  runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
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
	found, err := conflict.NewDetector(store).DetectAll(ctx)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("no conflicts")
		return nil
	}
	for _, c := range found {
		fmt.Printf("%s\t%s\t%s\n", c.Severity, c.Type, c.Message)
	}
	return fmt.Errorf("%d conflicts found", len(found))
}
