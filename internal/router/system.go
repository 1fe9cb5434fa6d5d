package router

import (
	"github.com/deppfellow/devevent/internal/handler"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints outside the API: health, docs,
// static assets and, outside production, email previews.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if !s.Config.Observability.IsProduction() {
		r.GET("/emails/:template", h.Email.Preview)
	}
}
