package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/divyarao54/drone-coordinator/app"
	"github.com/divyarao54/drone-coordinator/config"
	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
	"github.com/divyarao54/drone-coordinator/infra/kpi"
	"github.com/divyarao54/drone-coordinator/jobs/auditkpi"
)

var (
	kpiDB   string
	kpiFrom string
	kpiTo   string
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Pilot utilization KPIs derived from the audit trail",
}

var kpiBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Replay the audit trail into the KPI database",
	RunE:  runKPIBackfill,
}

var kpiShowCmd = &cobra.Command{
	Use:   "show <pilot-id>",
	Short: "Print daily utilization for a pilot",
	Args:  cobra.ExactArgs(1),
	RunE:  runKPIShow,
}

func init() {
	kpiCmd.PersistentFlags().StringVar(&kpiDB, "db", "kpi.db", "KPI database file")
	kpiShowCmd.Flags().StringVar(&kpiFrom, "from", "", "start date (YYYY-MM-DD)")
	kpiShowCmd.Flags().StringVar(&kpiTo, "to", "", "end date (YYYY-MM-DD)")
	kpiCmd.AddCommand(kpiBackfillCmd)
	kpiCmd.AddCommand(kpiShowCmd)
	rootCmd.AddCommand(kpiCmd)
}

func runKPIBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	audit, err := app.OpenAudit(cfg.Audit)
	if err != nil {
		return fmt.Errorf("audit store: %w", err)
	}
	defer closeStore(cmd, audit)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	recs, err := audit.Query(ctx, logging.Query{})
	if err != nil {
		return err
	}

	store, err := kpi.NewSQLiteStore(kpiDB)
	if err != nil {
		return fmt.Errorf("kpi store: %w", err)
	}
	defer closeStore(cmd, store)

	if err := auditkpi.Backfill(store, recs); err != nil {
		return err
	}
	fmt.Printf("backfilled %d audit records into %s\n", len(recs), kpiDB)
	return nil
}

func runKPIShow(cmd *cobra.Command, args []string) error {
	start := time.Time{}
	end := time.Now().UTC()
	var err error
	if kpiFrom != "" {
		start, err = time.Parse("2006-01-02", kpiFrom)
		if err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
	}
	if kpiTo != "" {
		end, err = time.Parse("2006-01-02", kpiTo)
		if err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
	}

	store, err := kpi.NewSQLiteStore(kpiDB)
	if err != nil {
		return fmt.Errorf("kpi store: %w", err)
	}
	defer closeStore(cmd, store)

	recs, err := store.Query(args[0], start, end)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no utilization records")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("%s\tassigned %d\tblocked %d\trate %.2f\n",
			r.Date.Format("2006-01-02"), r.Assigned, r.Blocked, r.SuccessRate())
	}
	return nil
}
