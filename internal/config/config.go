// Package config manages environment variables.
//
// It reads variables from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, images, jobs...).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key idea in this file:
	- Env vars are read using a prefix: DEVEVENT_
	- Keys are normalized (lowercased, prefix removed)
	- A double underscore marks nesting, so
	  DEVEVENT_SERVER__PORT -> server.port -> Config.Server.Port
	  DEVEVENT_SERVER__READ_TIMEOUT -> server.read_timeout
	- Values containing spaces become lists
	  DEVEVENT_IMAGES__REMOTE_PATTERNS="https://res.cloudinary.com https://*.example.com"
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "DEVEVENT_"

// ServiceName tags logs, traces and APM dashboards.
const ServiceName = "devevent"

// Config is the root configuration object for the application.
//
// Blocks tagged `validate:"required"` must be provided. Pointer blocks are
// optional and receive defaults in LoadConfig when missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Images        *ImagesConfig        `koanf:"images"`
	Analytics     *AnalyticsConfig     `koanf:"analytics"`
	Cache         *CacheConfig         `koanf:"cache"`
	Jobs          *JobsConfig          `koanf:"jobs"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN builds the postgres URL for this database.
//
// The password is URL-escaped so characters like ':' or '@' don't break the
// URL, and host/port are joined with IPv6 awareness.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret key used to verify session tokens.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	EmailFrom    string `koanf:"email_from"`
	// AppURL is the public site address used in links inside emails.
	AppURL string `koanf:"app_url" validate:"omitempty,url"`
}

// ImagesConfig lists the remote image sources event images may come from.
// Each pattern is protocol://hostname[/pathname], with * and ** wildcards.
type ImagesConfig struct {
	RemotePatterns []string `koanf:"remote_patterns" validate:"required,min=1,dive,required"`
}

// AnalyticsConfig configures the PostHog ingestion proxy.
type AnalyticsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PostHogURL string `koanf:"posthog_url" validate:"required,url"`
	PathPrefix string `koanf:"path_prefix" validate:"required,startswith=/"`
}

// CacheConfig controls the redis-backed event cache.
type CacheConfig struct {
	EventTTL time.Duration `koanf:"event_ttl" validate:"min=0"`
}

// JobsConfig controls background workers and scheduled sweeps.
type JobsConfig struct {
	Concurrency      int    `koanf:"concurrency" validate:"min=1"`
	ReminderSchedule string `koanf:"reminder_schedule" validate:"required"`
}

// RateLimitConfig tunes the per-IP limiter on write endpoints.
type RateLimitConfig struct {
	BookingsPerSecond float64 `koanf:"bookings_per_second" validate:"gt=0"`
	BookingsBurst     int     `koanf:"bookings_burst" validate:"min=1"`
}

// DefaultImagesConfig allows Cloudinary-hosted images only.
func DefaultImagesConfig() *ImagesConfig {
	return &ImagesConfig{
		RemotePatterns: []string{"https://res.cloudinary.com"},
	}
}

// DefaultAnalyticsConfig proxies /ingest to the US PostHog assets host.
func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		Enabled:    true,
		PostHogURL: "https://us-assets.i.posthog.com",
		PathPrefix: "/ingest",
	}
}

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{EventTTL: 5 * time.Minute}
}

func DefaultJobsConfig() *JobsConfig {
	return &JobsConfig{
		Concurrency:      10,
		ReminderSchedule: "0 9 * * *",
	}
}

func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		BookingsPerSecond: 5,
		BookingsBurst:     10,
	}
}

// envKey converts DEVEVENT_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// listKeys are the slice fields; their env values are space separated.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"images.remote_patterns":             true,
	"observability.health_checks.checks": true,
}

// envValue turns space separated values of list keys into slices. Other
// values (cron schedules, "Name <address>" senders) keep their spaces.
func envValue(key, value string) (string, interface{}) {
	k := envKey(key)
	value = strings.TrimSpace(value)
	if listKeys[k] {
		return k, strings.Fields(value)
	}
	return k, value
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config on top of the defaults for optional blocks, and validates it.
//
// The caller decides what to do on error; cmd/devevent exits fatally.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Optional blocks start from their defaults; whatever the environment
	// provides is decoded on top of them.
	mainConfig := &Config{
		Images:        DefaultImagesConfig(),
		Analytics:     DefaultAnalyticsConfig(),
		Cache:         DefaultCacheConfig(),
		Jobs:          DefaultJobsConfig(),
		RateLimit:     DefaultRateLimitConfig(),
		Observability: DefaultObservabilityConfig(),
	}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Integration.EmailFrom == "" {
		mainConfig.Integration.EmailFrom = "DevEvent <onboarding@resend.dev>"
	}
	if mainConfig.Integration.AppURL == "" {
		mainConfig.Integration.AppURL = "http://localhost:3000"
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
