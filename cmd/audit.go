package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/pkg/export"
)

var (
	auditProject string
	auditPilot   string
	auditOutcome string
	auditFrom    string
	auditTo      string
	auditFormat  string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the assignment audit trail",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditProject, "project", "", "filter by project id")
	auditCmd.Flags().StringVar(&auditPilot, "pilot", "", "filter by pilot id")
	auditCmd.Flags().StringVar(&auditOutcome, "outcome", "", "filter by outcome")
	auditCmd.Flags().StringVar(&auditFrom, "from", "", "start date (YYYY-MM-DD)")
	auditCmd.Flags().StringVar(&auditTo, "to", "", "end date (YYYY-MM-DD)")
	auditCmd.Flags().StringVar(&auditFormat, "format", "text", "output format: text, json or csv")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := app.OpenAudit(cfg.Audit)
	if err != nil {
		return fmt.Errorf("audit store: %w", err)
	}
	defer closeStore(cmd, store)

	q := logging.Query{ProjectID: auditProject, PilotID: auditPilot, Outcome: auditOutcome}
	if auditFrom != "" {
		q.Start, err = time.Parse("2006-01-02", auditFrom)
		if err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
	}
	if auditTo != "" {
		end, err := time.Parse("2006-01-02", auditTo)
		if err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
		// Inclusive end of day.
		q.End = end.Add(24*time.Hour - time.Nanosecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	recs, err := store.Query(ctx, q)
	if err != nil {
		return err
	}

	switch auditFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), recs)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), recs)
	case "text":
		if len(recs) == 0 {
			fmt.Println("no audit records")
			return nil
		}
		for _, r := range recs {
			line := fmt.Sprintf("%s\t%s\t%s\t%s", r.Timestamp.Format(time.RFC3339), r.Operation, r.ProjectID, r.Outcome)
			if len(r.Conflicts) > 0 {
				line += fmt.Sprintf("\t%d conflicts", len(r.Conflicts))
			}
			if r.Error != "" {
				line += "\t" + r.Error
			}
			fmt.Println(line)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %s", auditFormat)
	}
}
