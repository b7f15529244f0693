package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/config"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/tracker"
)

func newUsageCmd() *cobra.Command {
	var (
		configPath string
		userID     string
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show API usage counters",
	}

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's usage for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			usage, err := tr.Today(context.Background(), userID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "API TYPE\tCALLS")
			for _, t := range models.AllAPITypes() {
				fmt.Fprintf(w, "%s\t%d\n", t, usage.CountFor(t))
			}
			fmt.Fprintf(w, "total\t%d\n", usage.Total())
			return w.Flush()
		},
	}

	monthCmd := &cobra.Command{
		Use:   "month",
		Short: "Show this month's usage for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			usage, err := tr.MonthlyStats(context.Background(), userID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "API TYPE\tCALLS")
			for _, t := range models.AllAPITypes() {
				fmt.Fprintf(w, "%s\t%d\n", t, usage.CountFor(t))
			}
			fmt.Fprintf(w, "total\t%d\n", usage.Total)
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "descubra.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&userID, "user", "", "user ID")
	_ = cmd.MarkPersistentFlagRequired("user")
	cmd.AddCommand(todayCmd, monthCmd)
	return cmd
}
