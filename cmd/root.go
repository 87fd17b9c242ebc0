package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	cfg        *config.Config
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Kentucky weather dashboard",
		Long:  `Serves a dashboard of recent and forecast daily weather for a fixed set of cities, backed by the Open-Meteo archive and forecast APIs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serverCmd)
	cmd.AddCommand(fetchCmd)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	var err error

	// 1. Load config (file, .env and WDP_* environment)
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		log = logger.NewDevelopment()
		log.Warn("Failed to initialize configured logger, using development logger", zap.Error(err))
	}

	// 3. Initialize telemetry; the dashboard works without it
	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele = telemetry.Disabled()
	}

	return nil
}

func shutdownServices() error {
	if tele != nil {
		if err := tele.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}
