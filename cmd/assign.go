package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/assignment"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/infra/logger"
)

var assignCmd = &cobra.Command{
	Use:   "assign <project-id> <pilot-id> <drone-id>",
	Short: "Assign a pilot and a drone to a mission",
	Args:  cobra.ExactArgs(3),
	RunE:  runAssign,
}

var urgentCmd = &cobra.Command{
	Use:   "urgent <project-id>",
	Short: "Reassign resources to an urgent mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runUrgent,
}

func init() {
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(urgentCmd)
}

// openCoordinator wires a coordinator with the configured store and audit
// trail, without the event bridge or metrics of the full service.
func openCoordinator(cfg *config.Config) (*assignment.Coordinator, func(), error) {
	store, closer, err := app.OpenStore(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("fleet store: %w", err)
	}
	audit, err := app.OpenAudit(cfg.Audit)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, fmt.Errorf("audit store: %w", err)
	}
	coord, err := assignment.NewCoordinator(store, matching.NewEngine(), logger.New("assign-command"))
	if err != nil {
		return nil, nil, err
	}
	coord.SetAuditStore(audit)
	cleanup := func() {
		if err := coord.Close(); err != nil {
			logger.New("assign-command").Errorf("coordinator close: %v", err)
		}
		if closer != nil {
			_ = closer.Close()
		}
	}
	return coord, cleanup, nil
}

func runAssign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	coord, cleanup, err := openCoordinator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a, err := coord.Assign(ctx, args[0], args[1], args[2])
	if err != nil {
		var conflictErr *assignment.ConflictError
		if errors.As(err, &conflictErr) {
			for _, c := range conflictErr.Conflicts {
				fmt.Printf("%s\t%s\t%s\n", c.Severity, c.Type, c.Message)
			}
		}
		return err
	}
	fmt.Printf("assigned %s and %s to %s (%s)\n", a.PilotID, a.DroneID, a.ProjectID, a.ID)
	return nil
}

func runUrgent(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	coord, cleanup, err := openCoordinator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out, err := coord.ReassignUrgent(ctx, args[0])
	if err != nil {
		return err
	}
	if out.Assignment != nil {
		a := out.Assignment
		fmt.Printf("assigned %s and %s to %s (%s)\n", a.PilotID, a.DroneID, a.ProjectID, a.ID)
		return nil
	}
	for _, opt := range out.Options {
		fmt.Printf("delay %s\tpilot %s\tdrone %s\tpriority gap %d\n",
			opt.MissionToDelay, opt.PilotID, opt.DroneID, opt.PriorityGap)
	}
	return nil
}
