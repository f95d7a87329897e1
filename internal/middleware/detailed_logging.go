package middleware

import (
	"net/http"
	"strings"

	"boilerplate/internal/httputil"
	"boilerplate/internal/logfields"
	"boilerplate/internal/privacy"
	"boilerplate/internal/tracing"

	"github.com/sirupsen/logrus"
)

// DetailedLoggingConfig controls what gets logged
type DetailedLoggingConfig struct {
	LogRequestHeaders  bool     `json:"log_request_headers"`
	LogResponseHeaders bool     `json:"log_response_headers"`
	SkipEndpoints      []string `json:"skip_endpoints"`
}

// DefaultDetailedLoggingConfig returns sensible defaults
func DefaultDetailedLoggingConfig() DetailedLoggingConfig {
	return DetailedLoggingConfig{
		LogRequestHeaders:  true,
		LogResponseHeaders: true,
		SkipEndpoints:      []string{"/metrics", "/live", "/ready"},
	}
}

// DetailedLoggingMiddleware dumps request and response headers at debug
// level. Sensitive headers are masked. It must run inside
// ObservabilityMiddleware so the request ID is available.
func DetailedLoggingMiddleware(logger *logrus.Logger, config DetailedLoggingConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.IsLevelEnabled(logrus.DebugLevel) || skipped(r.URL.Path, config.SkipEndpoints) {
				next.ServeHTTP(w, r)
				return
			}

			requestInfo := tracing.GetRequestInfo(r.Context())

			fields := logrus.Fields{
				logfields.RequestID: requestInfo.RequestID,
				logfields.TraceID:   requestInfo.TraceID,
				logfields.Method:    r.Method,
				logfields.URL:       r.URL.String(),
				logfields.RemoteIP:  privacy.MaskIP(httputil.GetClientIP(r)),
				"content_length":    r.ContentLength,
				"protocol":          r.Proto,
			}
			if config.LogRequestHeaders {
				fields["request_headers"] = privacy.MaskHeaders(r.Header)
			}
			logger.WithFields(fields).Debug("Detailed request logging")

			capture := &headerCaptureWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r)

			respFields := logrus.Fields{
				logfields.RequestID:  requestInfo.RequestID,
				logfields.StatusCode: capture.statusCode,
			}
			if config.LogResponseHeaders {
				respFields["response_headers"] = privacy.MaskHeaders(capture.Header())
			}
			logger.WithFields(respFields).Debug("Detailed response logging")
		})
	}
}

func skipped(path string, skip []string) bool {
	for _, s := range skip {
		if path == s || strings.HasPrefix(path, s+"/") {
			return true
		}
	}
	return false
}

type headerCaptureWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (hc *headerCaptureWrapper) WriteHeader(statusCode int) {
	if !hc.wroteHeader {
		hc.statusCode = statusCode
		hc.wroteHeader = true
	}
	hc.ResponseWriter.WriteHeader(statusCode)
}

func (hc *headerCaptureWrapper) Write(b []byte) (int, error) {
	hc.wroteHeader = true
	return hc.ResponseWriter.Write(b)
}

func (hc *headerCaptureWrapper) Unwrap() http.ResponseWriter {
	return hc.ResponseWriter
}
