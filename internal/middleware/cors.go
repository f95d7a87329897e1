package middleware

import (
	"net/http"

	"boilerplate/internal/constants"

	"github.com/rs/cors"
)

// CORSMiddleware allows the configured origins with credentials, the common
// methods and any request header. A "*" entry allows every origin; the
// request's Origin is echoed back because browsers refuse a literal "*"
// on credentialed requests.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders:       []string{"*"},
		ExposedHeaders:       []string{constants.ProcessTimeHeader, constants.RequestIDHeader},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusOK,
	}

	if allowsAnyOrigin(allowedOrigins) {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = allowedOrigins
	}

	return cors.New(opts).Handler
}

func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
