package router

import (
	"fmt"
	"net/url"

	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// registerAnalyticsRoutes forwards <prefix>/* to the PostHog host with the
// prefix stripped, so browsers talk to PostHog through our own origin.
// Paths are forwarded as-is; no trailing-slash redirect happens here.
func registerAnalyticsRoutes(r *echo.Echo, s *server.Server) error {
	cfg := s.Config.Analytics
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	target, err := url.Parse(cfg.PostHogURL)
	if err != nil {
		return fmt.Errorf("invalid analytics upstream %q: %w", cfg.PostHogURL, err)
	}

	proxy := middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
			{Name: "posthog", URL: target},
		}),
		Rewrite: map[string]string{
			cfg.PathPrefix:        "/",
			cfg.PathPrefix + "/*": "/$1",
		},
	})

	// The proxy answers every request, so the handler is never reached.
	for _, path := range []string{cfg.PathPrefix, cfg.PathPrefix + "/*"} {
		r.Any(path, echo.NotFoundHandler, upstreamHost(target.Host), proxy)
	}

	return nil
}

// upstreamHost sets the outbound Host header; PostHog routes on it.
func upstreamHost(host string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Request().Host = host
			return next(c)
		}
	}
}
