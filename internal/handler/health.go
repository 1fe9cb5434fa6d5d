package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/devevent/internal/middleware"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
)

// probe checks one dependency.
type probe func(ctx context.Context) error

// HealthHandler reports whether the service and its configured dependencies
// (observability.health_checks.checks) are reachable.
type HealthHandler struct {
	Handler
	probes map[string]probe
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	cfg := s.Config.Observability.HealthChecks
	probes := map[string]probe{}

	if s.DB != nil && cfg.HasCheck("database") {
		probes["database"] = func(ctx context.Context) error { return s.DB.Pool.Ping(ctx) }
	}
	if s.Redis != nil && cfg.HasCheck("redis") {
		probes["redis"] = func(ctx context.Context) error { return s.Redis.Ping(ctx).Err() }
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		probes:  probes,
	}
}

func (h *HealthHandler) recordHealthError(fields map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", fields)
	}
}

// CheckHealth answers 200 when every configured check passes and 503
// otherwise, with per-check status and timing.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability.HealthChecks

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	if cfg.Enabled {
		for _, name := range cfg.Checks {
			check, ok := h.probes[name]
			if !ok {
				continue
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
			checkStart := time.Now()
			err := check(ctx)
			elapsed := time.Since(checkStart)
			cancel()

			if err != nil {
				isHealthy = false
				checks[name] = map[string]interface{}{
					"status":        "unhealthy",
					"response_time": elapsed.String(),
					"error":         err.Error(),
				}

				logger.Error().
					Err(err).
					Str("check", name).
					Dur("response_time", elapsed).
					Msg("health check failed")

				h.recordHealthError(map[string]interface{}{
					"check_type":       name,
					"operation":        "health_check",
					"error_type":       name + "_unhealthy",
					"response_time_ms": elapsed.Milliseconds(),
					"error_message":    err.Error(),
				})
				continue
			}

			checks[name] = map[string]interface{}{
				"status":        "healthy",
				"response_time": elapsed.String(),
			}

			logger.Debug().
				Str("check", name).
				Dur("response_time", elapsed).
				Msg("health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
