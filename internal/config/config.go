package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"boilerplate/internal/constants"
	"boilerplate/internal/models"
	"boilerplate/internal/security"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidPort       = models.ConfigError{Message: "server port must be between 1 and 65535"}
	ErrInvalidSampleRate = models.ConfigError{Message: "telemetry sample rate must be between 0 and 1"}
	ErrInvalidInterval   = models.ConfigError{Message: "metric export interval must be positive"}
)

var truthy = map[string]bool{"1": true, "true": true, "yes": true, "on": true}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *models.Config {
	cfg := &models.Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig reads an optional JSON or YAML file, fills defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func LoadConfig(path string) (*models.Config, error) {
	var cfg models.Config

	if path != "" {
		if err := security.ValidateFilePath(path); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}

		file, err := os.ReadFile(path) // #nosec G304 - Path validated by security.ValidateFilePath above
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(file, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		default:
			if err := json.Unmarshal(file, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse JSON config: %w", err)
			}
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvironmentOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(c *models.Config) {
	if c.App.Name == "" {
		c.App.Name = constants.DefaultAppName
	}
	if c.App.Version == "" {
		c.App.Version = constants.DefaultAppVersion
	}
	if c.App.Environment == "" {
		c.App.Environment = constants.DefaultEnvironment
	}

	if c.Server.Host == "" {
		c.Server.Host = constants.DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
	if c.Server.ShutdownTimeoutSec <= 0 {
		c.Server.ShutdownTimeoutSec = constants.DefaultGracefulShutdownSec
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Compression.MinSizeBytes <= 0 {
		c.Compression.MinSizeBytes = constants.DefaultGzipMinSizeBytes
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = constants.DefaultServiceName
	}
	if c.Telemetry.OTLPEndpoint == "" {
		c.Telemetry.OTLPEndpoint = constants.DefaultOTLPEndpoint
	}
	if c.Telemetry.MetricExportIntervalMs == 0 {
		c.Telemetry.MetricExportIntervalMs = constants.DefaultMetricExportIntervalMs
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = constants.DefaultTraceSampleRate
	}

	if c.Health.MaxGoroutines <= 0 {
		c.Health.MaxGoroutines = constants.DefaultMaxGoroutines
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(c *models.Config) error {
	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return models.ConfigError{Message: fmt.Sprintf("invalid PORT %q: must be an integer", port)}
		}
		c.Server.Port = p
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		c.App.Environment = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}

	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		c.CORS.AllowedOrigins = ParseOrigins(raw)
	}

	if raw := os.Getenv("OTEL_ENABLE_CONSOLE_EXPORTERS"); raw != "" {
		enabled := truthy[strings.ToLower(strings.TrimSpace(raw))]
		c.Telemetry.EnableConsole = &enabled
	}
	if raw := os.Getenv("OTEL_EXPORTER_OTLP_DISABLED"); raw != "" {
		c.Telemetry.OTLPDisabled = truthy[strings.ToLower(strings.TrimSpace(raw))]
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		c.Telemetry.OTLPEndpoint = endpoint
	}
	if endpoint := os.Getenv("OTEL_TRACES_ENDPOINT"); endpoint != "" {
		c.Telemetry.TracesEndpoint = endpoint
	}
	if endpoint := os.Getenv("OTEL_METRICS_ENDPOINT"); endpoint != "" {
		c.Telemetry.MetricsEndpoint = endpoint
	}
	if interval := os.Getenv("OTEL_METRIC_EXPORT_INTERVAL"); interval != "" {
		ms, err := strconv.Atoi(interval)
		if err != nil {
			return models.ConfigError{Message: fmt.Sprintf("invalid OTEL_METRIC_EXPORT_INTERVAL %q: must be an integer", interval)}
		}
		c.Telemetry.MetricExportIntervalMs = ms
	}
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		c.Telemetry.ServiceName = name
	}
	if ratio := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); ratio != "" {
		r, err := strconv.ParseFloat(ratio, 64)
		if err != nil {
			return models.ConfigError{Message: fmt.Sprintf("invalid OTEL_TRACES_SAMPLER_ARG %q: must be a number", ratio)}
		}
		c.Telemetry.SampleRate = r
	}

	// Derived endpoints follow the (possibly overridden) base URL.
	base := strings.TrimRight(c.Telemetry.OTLPEndpoint, "/")
	if c.Telemetry.TracesEndpoint == "" {
		c.Telemetry.TracesEndpoint = base + constants.DefaultTracesPath
	}
	if c.Telemetry.MetricsEndpoint == "" {
		c.Telemetry.MetricsEndpoint = base + constants.DefaultMetricsPath
	}

	return nil
}

// ParseOrigins splits a comma separated origin list, dropping blanks. An
// empty result means every origin is allowed.
func ParseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func validate(c *models.Config) error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	if c.Telemetry.MetricExportIntervalMs <= 0 {
		return ErrInvalidInterval
	}

	if c.App.Environment == "production" && strings.EqualFold(c.LogLevel, "debug") {
		return models.ConfigError{Message: "debug logging should not be used in production (security risk)"}
	}

	return nil
}

// Environment returns the ENVIRONMENT variable as seen right now, falling
// back to the configured value.
func Environment(c *models.Config) string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	if c != nil && c.App.Environment != "" {
		return c.App.Environment
	}
	return constants.DefaultEnvironment
}
