package middleware

import (
	"fmt"
	"net/http"
	"time"

	"boilerplate/internal/constants"
	"boilerplate/internal/httputil"
	"boilerplate/internal/logfields"
	"boilerplate/internal/metrics"
	"boilerplate/internal/privacy"
	"boilerplate/internal/tracing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

// unmatchedRoute labels requests that no route accepted.
const unmatchedRoute = "unmatched"

// RouteMatcher resolves the route template for a request. *mux.Router
// satisfies it.
type RouteMatcher interface {
	Match(req *http.Request, match *mux.RouteMatch) bool
}

// ObservabilityMiddleware adds a span, a request ID, request/response log
// lines and Prometheus instruments to every request. routes may be nil, in
// which case the raw path is used as the route label.
func ObservabilityMiddleware(logger *logrus.Logger, registry *metrics.Registry, routes RouteMatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeLabel(routes, r)

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracing.WithOtelTracing(ctx, r.Method+" "+route)
			defer span.End()

			ctx, requestID := tracing.EnsureRequestID(ctx, r.Header.Get(constants.RequestIDHeader))
			ctx = tracing.WithStartTime(ctx, start)
			r = r.WithContext(ctx)
			w.Header().Set(constants.RequestIDHeader, requestID)

			clientIP := httputil.GetClientIP(r)

			tracing.AddSpanAttributes(ctx,
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("url.scheme", scheme(r)),
				attribute.String("server.address", r.Host),
				attribute.String("http.route", route),
				attribute.String("user_agent.original", r.Header.Get("User-Agent")),
				attribute.String("client.address", clientIP),
				attribute.String("http.request.id", requestID),
			)

			requestInfo := tracing.GetRequestInfo(ctx)

			wrapper := &responseWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			logger.WithFields(logrus.Fields{
				logfields.RequestID: requestInfo.RequestID,
				logfields.TraceID:   requestInfo.TraceID,
				logfields.Method:    r.Method,
				logfields.URL:       r.URL.Path,
				logfields.RemoteIP:  privacy.MaskIP(clientIP),
				logfields.UserAgent: r.Header.Get("User-Agent"),
			}).Debug("HTTP request started")

			done := registry.RequestStarted()
			defer done()

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)

			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("http.response.body.size", wrapper.responseSize),
			)
			if wrapper.statusCode >= 500 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("HTTP %d", wrapper.statusCode))
			}

			registry.ObserveRequest(r.Method, route, wrapper.statusCode, duration, wrapper.responseSize)

			logLevel := logrus.InfoLevel
			if wrapper.statusCode >= 400 && wrapper.statusCode < 500 {
				logLevel = logrus.WarnLevel
			} else if wrapper.statusCode >= 500 {
				logLevel = logrus.ErrorLevel
			}

			logger.WithFields(logrus.Fields{
				logfields.RequestID:  requestInfo.RequestID,
				logfields.TraceID:    requestInfo.TraceID,
				logfields.Method:     r.Method,
				logfields.URL:        r.URL.Path,
				logfields.StatusCode: wrapper.statusCode,
				logfields.Duration:   float64(duration.Microseconds()) / 1000,
				logfields.RemoteIP:   privacy.MaskIP(clientIP),
				logfields.Size:       wrapper.responseSize,
			}).Log(logLevel, "HTTP request completed")
		})
	}
}

func routeLabel(routes RouteMatcher, r *http.Request) string {
	if routes == nil {
		return r.URL.Path
	}
	var match mux.RouteMatch
	if routes.Match(r, &match) && match.MatchErr == nil && match.Route != nil {
		if tpl, err := match.Route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	if match.MatchErr == mux.ErrMethodMismatch {
		return r.URL.Path
	}
	return unmatchedRoute
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}

// responseWrapper captures response metrics
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
	wroteHeader  bool
}

func (rw *responseWrapper) WriteHeader(statusCode int) {
	if !rw.wroteHeader {
		rw.statusCode = statusCode
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWrapper) Write(data []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(data)
	rw.responseSize += int64(n)
	return n, err
}

func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWrapper) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
