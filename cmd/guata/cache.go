package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/cache"
	cachesqlite "github.com/turismoguilherme/descubra-ms-sub014/pkg/cache/sqlite"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the API response cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := cachesqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c := cache.New(store, cacheOptions(cfg), newLogger(cfg.Log.Level))
			stats := c.Stats(context.Background())
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := cachesqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c := cache.New(store, cacheOptions(cfg), newLogger(cfg.Log.Level))
			c.Cleanup(context.Background())
			fmt.Println("Expired cache entries removed.")
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := cachesqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(context.Background(), expiredOnly); err != nil {
				return err
			}
			if expiredOnly {
				fmt.Println("Expired cache entries cleared.")
			} else {
				fmt.Println("All cache entries cleared.")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "descubra.yaml", "path to config file")
	cmd.AddCommand(statsCmd, cleanupCmd, clearCmd)
	return cmd
}

func cacheOptions(cfg *config.Config) cache.Options {
	return cache.Options{
		MemoryCapacity:  cfg.Cache.MemoryCapacity,
		FuzzyThreshold:  cfg.Cache.FuzzyThreshold,
		FuzzyCandidates: cfg.Cache.FuzzyCandidates,
		MaxRequestLen:   cfg.Cache.MaxRequestLen,
		TTLs:            cfg.Cache.TTLs,
	}
}
