package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		Long: `Start the flight booking API.

HTTP always listens on http.address. gRPC listens on grpc.address when set.
Redis caching and Kafka events are enabled when their addresses are configured.`,
		RunE: runServe,
	}
	cmd.Flags().Bool("migrate", false, "Apply pending database migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	migrate, err := cmd.Flags().GetBool("migrate")
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, logger, bootstrap.WithMigrations(migrate))
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn(context.Background(), "close resources", "error", err)
		}
	}()

	if err := bootstrap.Run(ctx, cfg, bootstrap.NewServers(app.Router, app.GRPC, logger)); err != nil {
		logger.Error(ctx, "server error", "error", err)
		return err
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}
