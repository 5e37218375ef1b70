package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/tasktrail/internal/api"
	"github.com/zulandar/tasktrail/internal/logging"
	"github.com/zulandar/tasktrail/internal/metrics"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the task API server",
		Long:  "Serves the JSON task API, /healthz and /metrics until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to tasktrail config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	logger.Info("starting API server",
		zap.Int("port", port),
		zap.String("driver", cfg.Database.Driver),
	)
	return api.Start(ctx, api.StartOpts{
		RouterOpts: api.RouterOpts{
			DB:             gormDB,
			Logger:         logger,
			Metrics:        metrics.New(),
			JWTSecret:      cfg.Auth.JWTSecret,
			Issuer:         cfg.Auth.Issuer,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		Port: port,
		Out:  cmd.OutOrStdout(),
	})
}
