package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Pilot roster commands",
}

var rosterLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List pilots with status, location and skills",
	RunE:  runRosterLs,
}

func init() {
	rosterCmd.AddCommand(rosterLsCmd)
	rootCmd.AddCommand(rosterCmd)
}

func runRosterLs(cmd *cobra.Command, args []string) error {
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
	for _, p := range pilots {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", p.ID, p.Name, p.Status, p.Location, strings.Join(p.Skills, ","))
		if p.CurrentAssignment != "" {
			line += "\t" + p.CurrentAssignment
		}
		fmt.Println(line)
	}
	return nil
}
