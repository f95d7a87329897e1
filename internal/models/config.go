package models

// Config holds the application configuration
type Config struct {
	App         AppConfig         `json:"app" yaml:"app"`
	Server      ServerConfig      `json:"server" yaml:"server"`
	CORS        CORSConfig        `json:"cors" yaml:"cors"`
	Compression CompressionConfig `json:"compression" yaml:"compression"`
	Telemetry   TelemetryConfig   `json:"telemetry" yaml:"telemetry"`
	Health      HealthConfig      `json:"health" yaml:"health"`
	LogLevel    string            `json:"log_level" yaml:"log_level"`
}

// AppConfig describes the application reported by /status and the telemetry resource
type AppConfig struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Environment string `json:"environment" yaml:"environment"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host               string `json:"host" yaml:"host"`
	Port               int    `json:"port" yaml:"port"`
	ReadTimeoutSec     int    `json:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `json:"write_timeout_sec" yaml:"write_timeout_sec"`
	IdleTimeoutSec     int    `json:"idle_timeout_sec" yaml:"idle_timeout_sec"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// CORSConfig lists the origins allowed to make cross-origin requests
type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

// CompressionConfig controls response compression
type CompressionConfig struct {
	MinSizeBytes int `json:"min_size_bytes" yaml:"min_size_bytes"`
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	ServiceName            string  `json:"service_name" yaml:"service_name"`
	EnableConsole          *bool   `json:"enable_console" yaml:"enable_console"`
	OTLPDisabled           bool    `json:"otlp_disabled" yaml:"otlp_disabled"`
	OTLPEndpoint           string  `json:"otlp_endpoint" yaml:"otlp_endpoint"`
	TracesEndpoint         string  `json:"traces_endpoint" yaml:"traces_endpoint"`
	MetricsEndpoint        string  `json:"metrics_endpoint" yaml:"metrics_endpoint"`
	MetricExportIntervalMs int     `json:"metric_export_interval_ms" yaml:"metric_export_interval_ms"`
	SampleRate             float64 `json:"sample_rate" yaml:"sample_rate"`
}

// ConsoleEnabled reports whether console exporters are on; unset means on.
func (t TelemetryConfig) ConsoleEnabled() bool {
	return t.EnableConsole == nil || *t.EnableConsole
}

// HealthConfig holds liveness probe thresholds
type HealthConfig struct {
	MaxGoroutines int `json:"max_goroutines" yaml:"max_goroutines"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
