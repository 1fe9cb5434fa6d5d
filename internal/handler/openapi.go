package handler

import (
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIPage renders the API reference from static/openapi.json.
const OpenAPIPage = "static/openapi.html"

type OpenAPIHandler struct {
	Handler
	page string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		page:    OpenAPIPage,
	}
}

// ServeOpenAPIUI serves the reference page from disk, uncached, so a
// redeployed document is picked up without a restart.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.File(h.page)
}
