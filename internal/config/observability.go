package config

import (
	"errors"
	"slices"
	"time"
)

// ObservabilityConfig covers logging, New Relic and the /status probes.
// ServiceName and Environment are always overwritten by LoadConfig.
type ObservabilityConfig struct {
	ServiceName string `koanf:"service_name" validate:"required"`
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks" validate:"required"`
}

type LoggingConfig struct {
	// Level may be left empty to follow the environment, see GetLogLevel.
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	// Format "json" only takes effect in production.
	Format string `koanf:"format" validate:"required,oneof=json console"`
	// SlowQueryThreshold is parsed as a duration ("250ms"); 0 disables
	// the slow query log.
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold" validate:"min=0"`
}

// NewRelicConfig is ignored while LicenseKey is empty.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`

	// DebugLogging interleaves agent output with application logs.
	DebugLogging bool `koanf:"debug_logging"`
}

// HealthChecksConfig selects the dependencies /status probes.
type HealthChecksConfig struct {
	Enabled bool          `koanf:"enabled"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	Checks []string `koanf:"checks" validate:"dive,oneof=database redis"`
}

// HasCheck reports whether the named dependency check is configured.
func (h HealthChecksConfig) HasCheck(name string) bool {
	return slices.Contains(h.Checks, name)
}

// DefaultObservabilityConfig logs JSON at the environment's level and
// probes both stores.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"database", "redis"},
		},
	}
}

// Validate holds the checks struct tags cannot express.
func (c *ObservabilityConfig) Validate() error {
	if c.HealthChecks.Enabled && len(c.HealthChecks.Checks) == 0 {
		return errors.New("health_checks.checks must name at least one check when enabled")
	}
	return nil
}

// GetLogLevel falls back to debug outside production when no level is set.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch {
	case c.Logging.Level != "":
		return c.Logging.Level
	case c.IsProduction():
		return "info"
	default:
		return "debug"
	}
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
