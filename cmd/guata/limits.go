package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/config"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/limits"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/tracker"
)

func newLimitsCmd() *cobra.Command {
	var (
		configPath string
		userID     string
		planTier   string
		apiType    string
	)

	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Check usage against plan limits",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check today's usage of one API type against the daily limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := models.ParsePlanTier(planTier)
			if err != nil {
				return err
			}
			t, err := models.ParseAPIType(apiType)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			policy := limits.New(planTable(cfg), tr)
			status, err := policy.CheckLimit(context.Background(), userID, tier, t)
			if err != nil {
				return err
			}

			fmt.Printf("Usage:      %d / %d (%.1f%%)\n", status.CurrentUsage, status.Limit, status.Percentage)
			fmt.Printf("Remaining:  %d\n", status.Remaining)
			fmt.Printf("Warning:    %s\n", status.Warning)
			return nil
		},
	}
	checkCmd.Flags().StringVar(&apiType, "type", "", "API type")
	_ = checkCmd.MarkFlagRequired("type")

	monthCmd := &cobra.Command{
		Use:   "month",
		Short: "Show this month's usage against the monthly ceilings",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := models.ParsePlanTier(planTier)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			policy := limits.New(planTable(cfg), tr)
			statuses, err := policy.MonthlyStatus(context.Background(), userID, tier)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "API TYPE\tUSED\tLIMIT\tPERCENT\tWARNING")
			for _, t := range models.AllAPITypes() {
				s := statuses[t]
				fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%s\n", t, s.CurrentUsage, s.Limit, s.Percentage, s.Warning)
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "descubra.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&userID, "user", "", "user ID")
	cmd.PersistentFlags().StringVar(&planTier, "plan", "professional", "plan tier")
	_ = cmd.MarkPersistentFlagRequired("user")
	cmd.AddCommand(checkCmd, monthCmd)
	return cmd
}

// planTable merges config overrides over the built-in plan table.
func planTable(cfg *config.Config) map[models.PlanTier]models.PlanLimits {
	plans := limits.DefaultPlans()
	for tier, overrides := range cfg.Limits.Plans {
		plan, ok := plans[tier]
		if !ok {
			plan = models.PlanLimits{}
			plans[tier] = plan
		}
		for t, limit := range overrides {
			plan[t] = limit
		}
	}
	return plans
}
