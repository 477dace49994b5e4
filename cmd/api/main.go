package main

import (
	"fmt"
	"os"

	"rhp-backend/internal/config"
	"rhp-backend/internal/database"
	"rhp-backend/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "rhp-api",
	Short: "RHP catalog backend",
	Long:  "HTTP API for the RHP product catalog: products, categories and product images.",
	// running without a subcommand starts the server
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and opens the logger and database shared by
// every command. validate is applied to the loaded configuration first.
func bootstrap(validate func(*config.Config) error) (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, log, db, nil
}

// databaseOnly checks the settings needed by commands that never touch the image store.
func databaseOnly(cfg *config.Config) error {
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
		return nil
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", cfg.Database.Driver)
	}
}
