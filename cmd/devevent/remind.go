package main

import (
	"context"

	"github.com/deppfellow/devevent/internal/repository"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/deppfellow/devevent/internal/service"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Queue reminders for tomorrow's events once and exit",
	Long: `Runs the same sweep the scheduler runs. Bookings that already have a
queued reminder are skipped, so running it twice is harmless.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, loggerService, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		srv, err := server.New(cfg, &log, loggerService)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("failed to close connections")
			}
		}()

		services, err := service.NewServices(srv, repository.NewRepositories(srv))
		if err != nil {
			return err
		}

		_, err = services.Reminders.SweepReminders(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
