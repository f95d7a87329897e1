package constants

// Application identity
const (
	DefaultAppName     = "FastAPI Boilerplate"
	DefaultAppVersion  = "1.0.0"
	DefaultEnvironment = "development"
	DefaultServiceName = "fastapi-app"
)

// Default server configuration values
const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8000
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
	ServerErrorChannelSize       = 1
)

// Middleware defaults
const (
	DefaultGzipMinSizeBytes = 1024
	ProcessTimeHeader       = "X-Process-Time-ms"
	RequestIDHeader         = "X-Request-ID"
)

// Telemetry defaults
const (
	DefaultOTLPEndpoint           = "http://otel-collector:4318"
	DefaultTracesPath             = "/v1/traces"
	DefaultMetricsPath            = "/v1/metrics"
	DefaultMetricExportIntervalMs = 5000
	DefaultTraceSampleRate        = 1.0
	DefaultTelemetryShutdownSec   = 5
	HealthCounterName             = "health_endpoint_calls"
	InstrumentationName           = "boilerplate"
)

// Health probe defaults
const (
	DefaultMaxGoroutines = 1000
)

// Security utility defaults mirrored for the CLI flags
const (
	DefaultSaltLength     = 16
	DefaultHashIterations = 100_000
	DefaultHMACDigest     = "sha256"
)
