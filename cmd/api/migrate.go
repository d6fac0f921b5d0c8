package main

import (
	"fmt"

	"hirehub-api/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := config.NewLogger(viper.GetBool("json"), viper.GetBool("debug"))
		defer logger.Sync() //nolint:errcheck

		settings := config.Load()
		db, err := config.InitDB(settings.Database, settings.Environment)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := config.MigrateDatabase(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		logger.Info("database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
