package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/devevent/internal/config"
	"github.com/deppfellow/devevent/internal/errs"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(logger zerolog.Logger) *server.Server {
	return &server.Server{
		Config: &config.Config{
			Server:    config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			RateLimit: &config.RateLimitConfig{BookingsPerSecond: 1, BookingsBurst: 2},
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", MaxRequestIDLength+1))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestEnhanceContext_LoggerReachesRequestContext(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(zerolog.New(&buf))

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/api/events/:slug", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/events/react", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "/api/events/:slug", line["path"])
	assert.Equal(t, "from service", line["message"])
}

func TestGetLogger_FallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(zerolog.Nop())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "application error",
			err:        errs.NewNotFoundError("Event with slug 'x' not found", true, nil),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Event with slug 'x' not found",
		},
		{
			name:       "unique violation",
			err:        &pgconn.PgError{Code: "23505", TableName: "bookings", ConstraintName: "bookings_event_id_email_key"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BOOKING_ALREADY_EXISTS",
			wantMsg:    "A Booking with this Email already exists",
		},
		{
			name:       "echo error",
			err:        echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
			wantMsg:    "Method Not Allowed",
		},
		{
			name:       "unknown error is hidden",
			err:        errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(s)
			e.GET("/", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestGlobalErrorHandler_RouteNotFound(t *testing.T) {
	e := newTestEcho(newTestServer(zerolog.Nop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestRateLimit_Bookings(t *testing.T) {
	s := newTestServer(zerolog.Nop())
	e := newTestEcho(s)
	e.POST("/api/bookings", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewRateLimitMiddleware(s).Bookings())

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, send("10.0.0.1").Code)

	rec := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)

	assert.Equal(t, http.StatusCreated, send("10.0.0.2").Code)
}

func TestEnhanceTracing_RecordsIDsAndFinalStatus(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("devevent-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	s := newTestServer(zerolog.Nop())
	tm := NewTracingMiddleware(s, app)

	recorded := map[string]interface{}{}
	tm.annotate = func(_ *newrelic.Transaction, key string, value interface{}) {
		recorded[key] = value
	}

	withTxn := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := app.StartTransaction("test")
			defer txn.End()
			c.SetRequest(c.Request().WithContext(newrelic.NewContext(c.Request().Context(), txn)))
			return next(c)
		}
	}
	signedIn := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(UserIDKey, "user_42")
			return next(c)
		}
	}

	e := newTestEcho(s)
	e.Use(withTxn, RequestID(), tm.EnhanceTracing())
	e.POST("/api/events/:slug", func(c echo.Context) error {
		return errs.NewNotFoundError("Event not found", true, nil)
	}, signedIn)

	req := httptest.NewRequest(http.MethodPost, "/api/events/react-summit", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-7", recorded["request.id"])
	assert.Equal(t, "user_42", recorded["user.id"])
	assert.Equal(t, "react-summit", recorded["event.slug"])
	assert.Equal(t, http.StatusNotFound, recorded["http.status_code"])
}

func TestTransactionAttributes_SuccessUsesResponseStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.NoContent(http.StatusCreated))

	attrs := transactionAttributes(c, nil)

	assert.Equal(t, http.StatusCreated, attrs["http.status_code"])
	assert.NotContains(t, attrs, "user.id")
	assert.NotContains(t, attrs, "request.id")
}

func TestRequireAuth_AnonymousRequestLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(zerolog.New(&buf))

	e := newTestEcho(s)
	e.Use(NewContextEnhancer(s).EnhanceContext())
	e.POST("/api/events", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewAuthMiddleware(s).RequireAuth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	require.NotNil(t, body.Action)
	assert.Equal(t, SignInPath, body.Action.Value)

	var first map[string]any
	line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &first))
	assert.Equal(t, "warn", first["level"])
	assert.Equal(t, "missing session token", first["message"])
}
