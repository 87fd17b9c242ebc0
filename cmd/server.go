package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-dashboard/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard server",
	Long:  `Start the HTTP server that renders the weather dashboard and its JSON API.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	log.Info("Starting weather dashboard server",
		zap.String("config_path", configPath),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port),
		zap.Int("cities", len(cfg.Weather.Cities)))

	srv, err := server.NewServer(cfg, log.Logger, tele)
	if err != nil {
		log.Error("Failed to build server", zap.Error(err))
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
