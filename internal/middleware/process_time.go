package middleware

import (
	"fmt"
	"net/http"
	"time"

	"boilerplate/internal/constants"
)

// ProcessTimeMiddleware sets X-Process-Time-ms to the milliseconds spent
// before the response headers were sent, formatted with three decimals.
func ProcessTimeMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pw := &processTimeWriter{ResponseWriter: w, start: time.Now()}
			next.ServeHTTP(pw, r)
			// Handlers that write nothing still get the header.
			pw.stamp()
		})
	}
}

// FormatProcessTime renders an elapsed duration the way the header carries it.
func FormatProcessTime(elapsed time.Duration) string {
	return fmt.Sprintf("%.3f", float64(elapsed)/float64(time.Millisecond))
}

type processTimeWriter struct {
	http.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *processTimeWriter) stamp() {
	if w.stamped {
		return
	}
	w.stamped = true
	w.Header().Set(constants.ProcessTimeHeader, FormatProcessTime(time.Since(w.start)))
}

func (w *processTimeWriter) WriteHeader(code int) {
	if code >= 200 {
		w.stamp()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *processTimeWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *processTimeWriter) Flush() {
	w.stamp()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *processTimeWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
