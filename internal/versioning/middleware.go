package versioning

import (
	"context"
	"net/http"

	apperrors "boilerplate/internal/errors"
	"boilerplate/internal/logfields"
	"boilerplate/internal/tracing"

	"github.com/sirupsen/logrus"
)

type contextKey string

const VersionContextKey contextKey = "api_version"

const (
	// Request headers
	AcceptVersionHeader = "Accept-Version"

	// Response headers
	APIVersionHeader = "X-API-Version"
)

// VersionMiddleware stamps responses with the served API version and
// rejects clients asking for a version this build cannot serve.
type VersionMiddleware struct {
	logger *logrus.Logger
}

// NewVersionMiddleware creates a new version middleware
func NewVersionMiddleware(logger *logrus.Logger) *VersionMiddleware {
	return &VersionMiddleware{
		logger: logger,
	}
}

// VersionHandler is the middleware function
func (vm *VersionMiddleware) VersionHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(APIVersionHeader, CurrentVersion.String())

		requested := vm.extractVersionFromRequest(r)
		if !CurrentVersion.IsCompatible(requested) {
			vm.logger.WithFields(logrus.Fields{
				logfields.RequestID: tracing.GetRequestID(r.Context()),
				logfields.Path:      r.URL.Path,
				"requested_version": requested.String(),
				"current_version":   CurrentVersion.String(),
			}).Warn("Incompatible API version requested")

			appErr := apperrors.NewVersionError(requested.String(), CurrentVersion.String())
			apperrors.WriteJSON(w, appErr, tracing.GetRequestID(r.Context()))
			return
		}

		ctx := context.WithValue(r.Context(), VersionContextKey, requested)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractVersionFromRequest reads Accept-Version. Missing or unparseable
// values fall back to the current version.
func (vm *VersionMiddleware) extractVersionFromRequest(r *http.Request) APIVersion {
	versionStr := r.Header.Get(AcceptVersionHeader)
	if versionStr == "" {
		return CurrentVersion
	}
	version, err := ParseVersion(versionStr)
	if err != nil {
		vm.logger.WithField("version_string", versionStr).Debug("Invalid version in Accept-Version header")
		return CurrentVersion
	}
	return version
}

// GetVersionFromContext extracts the API version from request context
func GetVersionFromContext(ctx context.Context) (APIVersion, bool) {
	version, ok := ctx.Value(VersionContextKey).(APIVersion)
	return version, ok
}
