package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/devevent/internal/server"
)

type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application

	annotate func(txn *newrelic.Transaction, key string, value interface{})
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server:   s,
		nrApp:    nrApp,
		annotate: (*newrelic.Transaction).AddAttribute,
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRelicMiddleware opens one transaction per request. Without a New Relic
// application it is a no-op.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passthrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// transactionAttributes is read once the handler chain has returned, when
// route middleware such as RequireAuth has run. A failed request has not
// been written yet, so its status comes from the error.
func transactionAttributes(c echo.Context, err error) map[string]interface{} {
	status := c.Response().Status
	if err != nil {
		status = toHTTPError(err).Status
	}

	attrs := map[string]interface{}{"http.status_code": status}
	for key, value := range map[string]string{
		"http.real_ip":    c.RealIP(),
		"http.user_agent": c.Request().UserAgent(),
		"request.id":      GetRequestID(c),
		"user.id":         GetUserID(c),
		"event.slug":      c.Param("slug"),
	} {
		if value != "" {
			attrs[key] = value
		}
	}
	return attrs
}

// EnhanceTracing tags the transaction opened by NewRelicMiddleware with
// request attributes and reports handler errors with their stack. It must
// run after RequestID.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			for key, value := range transactionAttributes(c, err) {
				tm.annotate(txn, key, value)
			}

			return err
		}
	}
}
