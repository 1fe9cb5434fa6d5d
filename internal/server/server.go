// Package server holds the process-wide resources every layer shares: the
// config, the logger and its New Relic application, the Postgres pool, the
// Redis client, the mailer and the asynq job service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/devevent/internal/config"
	"github.com/deppfellow/devevent/internal/database"
	"github.com/deppfellow/devevent/internal/lib/email"
	"github.com/deppfellow/devevent/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/devevent/internal/logger"
)

// RedisPingTimeout bounds the start-up redis check.
const RedisPingTimeout = 5 * time.Second

// Server is the application container. The HTTP listener itself is built
// later by SetupHTTPServer once the router exists.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Email         *email.Client
	Job           *job.JobService

	httpServer *http.Server
}

// New connects to Postgres and fails when it is unreachable. Redis is only
// pinged: the event cache treats an outage as a miss and jobs retry, so the
// API still starts.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := newRedisClient(cfg.Redis, loggerService)
	pingRedis(redisClient, logger)

	mailer := email.NewClient(cfg, logger)

	jobs := job.NewJobService(logger, cfg)
	jobs.InitHandlers(mailer)

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Email:         mailer,
		Job:           jobs,
	}, nil
}

func newRedisClient(cfg config.RedisConfig, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Address})
	if loggerService != nil && loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}
	return client
}

func pingRedis(client *redis.Client, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), RedisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", client.Options().Addr).Msg("redis unreachable, cache disabled until it recovers")
	}
}

func (s *Server) StartJobs() error {
	if err := s.Job.Start(); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}
	return nil
}

// SetupHTTPServer wraps handler in an http.Server. Timeouts are configured
// in whole seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires, then releases the
// workers and connections in reverse start-up order.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to close redis client")
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
