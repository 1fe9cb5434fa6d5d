package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"DEVEVENT_PRIMARY__ENV":                     "local",
		"DEVEVENT_SERVER__PORT":                     "8080",
		"DEVEVENT_SERVER__READ_TIMEOUT":             "30",
		"DEVEVENT_SERVER__WRITE_TIMEOUT":            "30",
		"DEVEVENT_SERVER__IDLE_TIMEOUT":             "60",
		"DEVEVENT_SERVER__CORS_ALLOWED_ORIGINS":     "http://localhost:3000 https://devevent.app",
		"DEVEVENT_DATABASE__HOST":                   "localhost",
		"DEVEVENT_DATABASE__PORT":                   "5432",
		"DEVEVENT_DATABASE__USER":                   "postgres",
		"DEVEVENT_DATABASE__PASSWORD":               "p@ss:word",
		"DEVEVENT_DATABASE__NAME":                   "devevent",
		"DEVEVENT_DATABASE__SSL_MODE":               "disable",
		"DEVEVENT_DATABASE__MAX_OPEN_CONNS":         "25",
		"DEVEVENT_DATABASE__MAX_IDLE_CONNS":         "25",
		"DEVEVENT_DATABASE__CONN_MAX_LIFETIME":      "300",
		"DEVEVENT_DATABASE__CONN_MAX_IDLE_TIME":     "300",
		"DEVEVENT_REDIS__ADDRESS":                   "localhost:6379",
		"DEVEVENT_AUTH__SECRET_KEY":                 "sk_test_123",
		"DEVEVENT_INTEGRATION__RESEND_API_KEY":      "re_123",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_MapsNestedKeys(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://devevent.app"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, []string{"https://res.cloudinary.com"}, cfg.Images.RemotePatterns)
	assert.Equal(t, "https://us-assets.i.posthog.com", cfg.Analytics.PostHogURL)
	assert.Equal(t, "/ingest", cfg.Analytics.PathPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Cache.EventTTL)
	assert.Equal(t, "0 9 * * *", cfg.Jobs.ReminderSchedule)
	assert.Equal(t, "DevEvent <onboarding@resend.dev>", cfg.Integration.EmailFrom)
	assert.Equal(t, "http://localhost:3000", cfg.Integration.AppURL)
}

func TestLoadConfig_OverridesOptionalBlocks(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVEVENT_CACHE__EVENT_TTL", "90s")
	t.Setenv("DEVEVENT_JOBS__CONCURRENCY", "4")
	t.Setenv("DEVEVENT_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Cache.EventTTL)
	assert.Equal(t, 4, cfg.Jobs.Concurrency)
	// Fields not set keep their defaults.
	assert.Equal(t, "0 9 * * *", cfg.Jobs.ReminderSchedule)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVEVENT_REDIS__ADDRESS", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVEVENT_OBSERVABILITY__LOGGING__LEVEL", "verbose")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Logging.Level")
	assert.Contains(t, err.Error(), "oneof")
}

func TestObservabilityConfig_HealthChecksNeedAProbe(t *testing.T) {
	c := DefaultObservabilityConfig()
	require.NoError(t, c.Validate())

	c.HealthChecks.Checks = nil
	require.ErrorContains(t, c.Validate(), "at least one check")

	c.HealthChecks.Enabled = false
	assert.NoError(t, c.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "::1",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss:word",
		Name:     "devevent",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://postgres:p%40ss%3Aword@[::1]:5432/devevent?sslmode=disable", d.DSN())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "local"
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Logging.Level = "warn"
	assert.Equal(t, "warn", c.GetLogLevel())
}

func TestLoadConfig_LogLevelFollowsEnvironmentByDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVEVENT_PRIMARY__ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Observability.Logging.Level)
	assert.Equal(t, "info", cfg.Observability.GetLogLevel())

	t.Setenv("DEVEVENT_PRIMARY__ENV", "local")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Observability.GetLogLevel())
}

func TestHealthChecksConfig_HasCheck(t *testing.T) {
	h := HealthChecksConfig{Checks: []string{"database"}}

	assert.True(t, h.HasCheck("database"))
	assert.False(t, h.HasCheck("redis"))
}

func TestLoadConfig_KeepsSpacesOutsideLists(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVEVENT_JOBS__REMINDER_SCHEDULE", "30 8 * * *")
	t.Setenv("DEVEVENT_INTEGRATION__EMAIL_FROM", "DevEvent Team <events@devevent.app>")
	t.Setenv("DEVEVENT_IMAGES__REMOTE_PATTERNS", "https://res.cloudinary.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "30 8 * * *", cfg.Jobs.ReminderSchedule)
	assert.Equal(t, "DevEvent Team <events@devevent.app>", cfg.Integration.EmailFrom)
	assert.Equal(t, []string{"https://res.cloudinary.com"}, cfg.Images.RemotePatterns)
}
