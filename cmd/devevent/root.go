package main

import (
	"github.com/deppfellow/devevent/internal/config"
	"github.com/deppfellow/devevent/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devevent",
	Short: "DevEvent event listing and booking API",
	Long: `DevEvent serves the events and bookings API, sends booking emails
through a background queue and schedules event reminders.

Configuration is read from DEVEVENT_* environment variables (and .env).`,
	SilenceUsage: true,
	RunE:         runServe,
}

// bootstrap loads configuration and builds the application logger.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Logger{}, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, loggerService, log, nil
}
