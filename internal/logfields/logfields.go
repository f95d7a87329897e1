// Package logfields defines the field names used in structured log lines.
//
// Use these exact names with logrus.WithField/WithFields so log queries work
// the same across every component.
package logfields

const (
	// Request correlation
	RequestID = "request_id"
	TraceID   = "trace_id"
	SpanID    = "span_id"

	// Service and operation fields
	Service   = "service"
	Component = "component"
	Operation = "operation"

	// HTTP
	Method     = "method"
	URL        = "url"
	Path       = "path"
	Endpoint   = "endpoint"
	StatusCode = "status_code"
	RemoteIP   = "remote_ip"
	UserAgent  = "user_agent"

	// Performance and metrics
	Duration = "duration_ms"
	Uptime   = "uptime"
	Size     = "size_bytes"
	Count    = "count"

	// Configuration
	Environment = "environment"
	Address     = "address"
	ConfigPath  = "config_path"

	// Error and debugging
	ErrorCode = "error_code"
	ErrorType = "error_type"
)

// Log Level Usage Guidelines
//
// DEBUG: request start lines, raw exporter settings, config reload detail.
//
// INFO: startup/shutdown, telemetry initialised, completed 2xx/3xx requests.
//
// WARN: 4xx responses, telemetry unavailable, fallback behaviour used.
//
// ERROR: 5xx responses, failed shutdown, exporter flush failures.
