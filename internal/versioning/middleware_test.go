package versioning

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware() *VersionMiddleware {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewVersionMiddleware(logger)
}

func TestVersionHandler(t *testing.T) {
	tests := []struct {
		name          string
		acceptVersion string
		expectedCode  int
		expectedCtx   string
	}{
		{name: "no header", expectedCode: http.StatusOK, expectedCtx: "1.0.0"},
		{name: "current version", acceptVersion: "1.0.0", expectedCode: http.StatusOK, expectedCtx: "1.0.0"},
		{name: "short major", acceptVersion: "v1", expectedCode: http.StatusOK, expectedCtx: "1.0.0"},
		{name: "garbage falls back", acceptVersion: "latest", expectedCode: http.StatusOK, expectedCtx: "1.0.0"},
		{name: "newer major", acceptVersion: "2.0.0", expectedCode: http.StatusNotAcceptable},
		{name: "newer minor", acceptVersion: "1.1.0", expectedCode: http.StatusNotAcceptable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := newTestMiddleware().VersionHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				v, ok := GetVersionFromContext(r.Context())
				require.True(t, ok)
				seen = v.String()
			}))

			req := httptest.NewRequest(http.MethodGet, "/status", nil)
			if tt.acceptVersion != "" {
				req.Header.Set(AcceptVersionHeader, tt.acceptVersion)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, "1.0.0", rec.Header().Get(APIVersionHeader))
			assert.Equal(t, tt.expectedCtx, seen)

			if tt.expectedCode != http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				errBody := body["error"].(map[string]interface{})
				assert.Equal(t, "UNSUPPORTED_VERSION", errBody["code"])
			}
		})
	}
}

func TestGetVersionFromContext_Missing(t *testing.T) {
	_, ok := GetVersionFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
