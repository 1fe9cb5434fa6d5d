package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/deppfellow/devevent/internal/config"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstreamRequest struct {
	Path  string
	Query string
	Host  string
}

type upstreamLog struct {
	mu       sync.Mutex
	requests []upstreamRequest
}

func (l *upstreamLog) all() []upstreamRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]upstreamRequest(nil), l.requests...)
}

func newUpstream(t *testing.T) (*httptest.Server, *upstreamLog) {
	t.Helper()

	seen := &upstreamLog{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.mu.Lock()
		seen.requests = append(seen.requests, upstreamRequest{Path: r.URL.Path, Query: r.URL.RawQuery, Host: r.Host})
		seen.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(upstream.Close)

	return upstream, seen
}

func newAnalyticsServer(upstreamURL string, enabled bool) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Analytics: &config.AnalyticsConfig{
				Enabled:    enabled,
				PostHogURL: upstreamURL,
				PathPrefix: "/ingest",
			},
		},
		Logger: &logger,
	}
}

func TestAnalyticsProxy_StripsPrefix(t *testing.T) {
	upstream, seen := newUpstream(t)
	upstreamURL, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	e := echo.New()
	require.NoError(t, registerAnalyticsRoutes(e, newAnalyticsServer(upstream.URL, true)))

	cases := []struct {
		target string
		want   upstreamRequest
	}{
		{"/ingest/static/array.js", upstreamRequest{Path: "/static/array.js"}},
		{"/ingest/decide/?v=3", upstreamRequest{Path: "/decide/", Query: "v=3"}},
		{"/ingest/e/", upstreamRequest{Path: "/e/"}},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
		require.Equal(t, http.StatusOK, rec.Code, tc.target)
		assert.Equal(t, "ok", rec.Body.String())
	}

	requests := seen.all()
	require.Len(t, requests, len(cases))
	for i, tc := range cases {
		got := requests[i]
		assert.Equal(t, tc.want.Path, got.Path, tc.target)
		assert.Equal(t, tc.want.Query, got.Query, tc.target)
		assert.Equal(t, upstreamURL.Host, got.Host, tc.target)
	}
}

func TestAnalyticsProxy_ForwardsPost(t *testing.T) {
	upstream, seen := newUpstream(t)

	e := echo.New()
	require.NoError(t, registerAnalyticsRoutes(e, newAnalyticsServer(upstream.URL, true)))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest/batch", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	requests := seen.all()
	require.Len(t, requests, 1)
	assert.Equal(t, "/batch", requests[0].Path)
}

func TestAnalyticsProxy_Disabled(t *testing.T) {
	upstream, seen := newUpstream(t)

	e := echo.New()
	require.NoError(t, registerAnalyticsRoutes(e, newAnalyticsServer(upstream.URL, false)))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingest/static/array.js", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, seen.all())
}
