package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boilerplate/internal/constants"

	"github.com/stretchr/testify/assert"
)

func TestFormatProcessTime(t *testing.T) {
	tests := []struct {
		elapsed  time.Duration
		expected string
	}{
		{0, "0.000"},
		{1500 * time.Microsecond, "1.500"},
		{12*time.Millisecond + 345*time.Microsecond, "12.345"},
		{2 * time.Second, "2000.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatProcessTime(tt.elapsed))
	}
}

func TestProcessTimeMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    int
	}{
		{
			name: "body written",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			},
			code: http.StatusOK,
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			code: http.StatusAccepted,
		},
		{
			name:    "nothing written",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			code:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ProcessTimeMiddleware()(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Regexp(t, `^\d+\.\d{3}$`, rec.Header().Get(constants.ProcessTimeHeader))
		})
	}
}

func TestProcessTimeMiddleware_StampsBeforeHeadersSent(t *testing.T) {
	handler := ProcessTimeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		// Headers are frozen once sent; a late value must not replace the first.
		time.Sleep(5 * time.Millisecond)
		_, _ = w.Write([]byte("done"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, rec.Result().Header.Values(constants.ProcessTimeHeader), 1)
}
