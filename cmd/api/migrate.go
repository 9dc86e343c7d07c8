package main

import (
	"fmt"

	"jewelbook/internal/config"
	"jewelbook/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger := config.NewLogger(cfg.Logger)

		pool, err := database.NewPool(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		return database.Migrate(cmd.Context(), pool, logger)
	},
}
