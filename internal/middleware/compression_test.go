package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionMiddleware(t *testing.T) {
	large := strings.Repeat("a", 2048)
	small := strings.Repeat("b", 100)

	tests := []struct {
		name           string
		body           string
		acceptEncoding string
		expectGzip     bool
	}{
		{name: "large body with gzip accepted", body: large, acceptEncoding: "gzip", expectGzip: true},
		{name: "small body stays plain", body: small, acceptEncoding: "gzip", expectGzip: false},
		{name: "gzip not accepted", body: large, acceptEncoding: "", expectGzip: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compress, err := CompressionMiddleware(1024)
			require.NoError(t, err)

			handler := compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if !tt.expectGzip {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rec.Body.String())
				return
			}

			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			reader, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			decoded, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(decoded))
		})
	}
}

func TestCompressionMiddleware_InvalidMinSize(t *testing.T) {
	_, err := CompressionMiddleware(-1)
	assert.Error(t, err)
}
