package middleware

import (
	"github.com/deppfellow/devevent/internal/logger"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Keys under which request state is stored in the echo context.
const (
	UserIDKey      = "user_id"
	UserRoleKey    = "user_role"
	PermissionsKey = "permissions"
	LoggerKey      = "logger"
)

type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext derives a per-request logger and stores it twice: in the
// echo context for handlers and in the request context for services, which
// read it back with zerolog.Ctx. Route path, not raw URL, keeps slugs out of
// the path field.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			fields := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP())
			if userID := GetUserID(c); userID != "" {
				fields = fields.Str("user_id", userID)
			}
			if role := stringValue(c, UserRoleKey); role != "" {
				fields = fields.Str("user_role", role)
			}

			reqLogger := logger.WithTraceContext(fields.Logger(), newrelic.FromContext(req.Context()))

			c.Set(LoggerKey, &reqLogger)
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			return next(c)
		}
	}
}

func stringValue(c echo.Context, key string) string {
	v, _ := c.Get(key).(string)
	return v
}

// GetUserID returns the Clerk user id set by RequireAuth, or "".
func GetUserID(c echo.Context) string {
	return stringValue(c, UserIDKey)
}

// GetLogger returns the request logger, or a disabled one when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}

	nop := zerolog.Nop()
	return &nop
}
