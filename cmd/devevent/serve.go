package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/devevent/internal/database"
	"github.com/deppfellow/devevent/internal/handler"
	"github.com/deppfellow/devevent/internal/repository"
	"github.com/deppfellow/devevent/internal/router"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/deppfellow/devevent/internal/service"
	"github.com/spf13/cobra"
)

const DefaultContextTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, job workers and reminder scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	// Local databases are migrated by hand with `devevent migrate`.
	if cfg.Primary.Env != "local" {
		if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}
	if !services.Auth.Ready() {
		log.Warn().Msg("auth secret key missing, event creation will reject every session")
	}

	handlers := handler.NewHandlers(srv, services)

	r, err := router.NewRouter(srv, handlers)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create router")
	}

	srv.SetupHTTPServer(r)

	if err := srv.StartJobs(); err != nil {
		log.Fatal().Err(err).Msg("failed to start job workers")
	}

	if err := services.Reminders.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start reminder scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	services.Reminders.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
