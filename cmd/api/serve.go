package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rhp-backend/internal/config"
	"rhp-backend/internal/database"
	"rhp-backend/internal/server"
	"rhp-backend/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.PersistentFlags().StringP("port", "p", "", "Port to listen on (overrides SERVER_PORT/PORT)")
	rootCmd.PersistentFlags().Bool("skip-migrations", false, "Do not apply pending migrations on startup")
}

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// in-flight requests get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap((*config.Config).Validate)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	log.Info("Starting RHP Backend API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

	if skip, _ := cmd.Flags().GetBool("skip-migrations"); !skip {
		if err := database.RunMigrations(db, cfg.Database.Driver, log); err != nil {
			_ = database.Close(db)
			return err
		}
	}

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		_ = database.Close(db)
		return err
	}

	srv := server.NewServer(cfg, log, db, store)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = srv.Close()
		return err
	}

	<-done
	log.Info("Graceful shutdown complete")
	return nil
}
