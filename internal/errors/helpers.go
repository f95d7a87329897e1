package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"boilerplate/internal/privacy"
	"boilerplate/internal/security"
)

// FromSecurity classifies an error returned by the security utilities.
// Errors that match none of the security sentinels become INTERNAL_ERROR.
func FromSecurity(err error) *AppError {
	if err == nil {
		return nil
	}

	switch {
	case stderrors.Is(err, security.ErrInvalidArgument):
		return Wrap(err, ErrCodeInvalidInput, "invalid argument").
			WithUserMessage("Invalid input")
	case stderrors.Is(err, security.ErrInvalidFormat):
		return Wrap(err, ErrCodeInvalidFormat, "malformed encoded value").
			WithUserMessage("Malformed input")
	case stderrors.Is(err, security.ErrMissingDependency):
		return Wrap(err, ErrCodeMissingDependency, "cryptographic backend unavailable").
			WithUserMessage("Encryption is not available")
	case stderrors.Is(err, security.ErrIntegrity):
		return Wrap(err, ErrCodeIntegrity, "token failed authentication").
			WithUserMessage("Token is invalid or has been tampered with")
	default:
		return Wrap(err, ErrCodeInternalError, "security operation failed")
	}
}

// NewConfigError creates a configuration error
func NewConfigError(key, message string) *AppError {
	return New(ErrCodeInvalidConfig, message).
		WithContext("config_key", key).
		WithUserMessage("Configuration error")
}

// NewNotFoundError reports a request for a path with no route.
func NewNotFoundError(path string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("no route for %s", path)).
		WithContext("path", path).
		WithUserMessage("Not Found")
}

// NewMethodNotAllowedError reports a known path requested with the wrong method.
func NewMethodNotAllowedError(method, path string) *AppError {
	return New(ErrCodeMethodNotAllowed, fmt.Sprintf("%s not allowed on %s", method, path)).
		WithContext("method", method).
		WithContext("path", path).
		WithUserMessage("Method Not Allowed")
}

// NewVersionError reports an Accept-Version this build cannot serve.
func NewVersionError(requested, current string) *AppError {
	return New(ErrCodeUnsupportedVersion, fmt.Sprintf("API version %s is not compatible with %s", requested, current)).
		WithContext("requested_version", requested).
		WithContext("current_version", current).
		WithUserMessage("Unsupported API version")
}

// HTTP helpers

// HTTPStatusCode maps error codes to appropriate HTTP status codes
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeIntegrity:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeUnsupportedVersion:
		return http.StatusNotAcceptable
	case ErrCodeMissingDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorResponse is the JSON envelope written for failed requests.
type HTTPErrorResponse struct {
	Error struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Context interface{} `json:"context,omitempty"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTPResponse converts an error to a standardized HTTP response
func ToHTTPResponse(err error, requestID string) HTTPErrorResponse {
	response := HTTPErrorResponse{
		RequestID: requestID,
	}

	appErr, ok := As(err)
	if !ok {
		response.Error.Code = ErrCodeInternalError
		response.Error.Message = GetUserMessage(err)
		return response
	}

	response.Error.Code = appErr.Code
	response.Error.Message = GetUserMessage(err)
	if len(appErr.Context) > 0 {
		publicContext := make(map[string]interface{})
		for k, v := range appErr.Context {
			if !privacy.IsSensitiveKey(k) {
				publicContext[k] = v
			}
		}
		if len(publicContext) > 0 {
			response.Error.Context = publicContext
		}
	}

	return response
}

// WriteJSON writes err as a JSON error envelope with the matching status.
func WriteJSON(w http.ResponseWriter, err error, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusCode(err))
	_ = json.NewEncoder(w).Encode(ToHTTPResponse(err, requestID))
}
