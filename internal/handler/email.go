package handler

import (
	"net/http"

	"github.com/deppfellow/devevent/internal/errs"
	"github.com/deppfellow/devevent/internal/lib/email"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
)

// EmailPreviewHandler renders email templates with sample data so they can
// be checked in a browser. It is only routed outside production.
type EmailPreviewHandler struct {
	Handler
}

func NewEmailPreviewHandler(s *server.Server) *EmailPreviewHandler {
	return &EmailPreviewHandler{Handler: NewHandler(s)}
}

func (h *EmailPreviewHandler) Preview(c echo.Context) error {
	name := email.Template(c.Param("template"))
	if _, ok := email.PreviewData[name]; !ok {
		return errs.NewNotFoundError("Email template not found", true, nil)
	}

	html, err := email.Preview(name)
	if err != nil {
		return err
	}

	return c.HTML(http.StatusOK, html)
}
