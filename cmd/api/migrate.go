package main

import (
	"fmt"

	"rhp-backend/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDatabase(func(driver string, log *zap.Logger, db *gorm.DB) error {
			return database.RunMigrations(db, driver, log)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the last migration",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDatabase(func(driver string, log *zap.Logger, db *gorm.DB) error {
			if driver == "sqlite" {
				return fmt.Errorf("rollback is not supported for sqlite")
			}
			if err := database.MigrateDown(db); err != nil {
				return fmt.Errorf("failed to rollback migration: %w", err)
			}
			log.Info("Migration rolled back successfully")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of every migration",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDatabase(func(driver string, _ *zap.Logger, db *gorm.DB) error {
			if driver == "sqlite" {
				return fmt.Errorf("migration status is not tracked for sqlite")
			}
			return database.GetMigrationStatus(db)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func withDatabase(fn func(driver string, log *zap.Logger, db *gorm.DB) error) error {
	cfg, log, db, err := bootstrap(databaseOnly)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close(db)
		_ = log.Sync()
	}()
	return fn(cfg.Database.Driver, log, db)
}
