package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gig-manager/backend/internal/config"
	"github.com/gig-manager/backend/internal/storage"
)

// app carries the configuration loaded before any command runs.
type app struct {
	envFiles []string
	cfg      *config.Configuration
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "gig-manager",
		Short:         "Gig Manager backend server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFiles...)
			if err != nil {
				return err
			}
			config.SetupLogging(cfg, os.Stderr)
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Env files to load (default .env,.env.local)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	})
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(&cobra.Command{
		Use:   "health-check",
		Short: "Probe a running server's health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthCheck(cmd.Context(), a.cfg.Address())
		},
	})
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if !status {
				return storage.RunMigrations(cmd.Context(), db)
			}
			pending, err := storage.PendingMigrations(cmd.Context(), db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations")
				return nil
			}
			for _, name := range pending {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "List pending migrations without applying them")
	return cmd
}

// openDatabase opens the configured database, creating the data directory
// for SQLite.
func openDatabase(cfg *config.Configuration) (*storage.DB, error) {
	return storage.Open(cfg.Database.Driver, cfg.DatabaseDSN())
}
