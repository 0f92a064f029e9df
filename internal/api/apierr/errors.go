package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/remote"
	"github.com/mcoot/itpreg/internal/services/registration"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields holds per-field validation messages keyed by field name
	Fields map[string]string `json:"fields,omitempty"`
	// RemoteStatus is the status the remote registration API answered with
	RemoteStatus int `json:"remote_status,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeRegistrationClosed = "REGISTRATION_CLOSED"
	CodeSubmissionInFlight = "SUBMISSION_IN_FLIGHT"
	CodeRemoteRejected     = "REMOTE_REJECTED"
	CodeRemoteUnavailable  = "REMOTE_UNAVAILABLE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var validationErr *registration.ValidationError
	if errors.As(err, &validationErr) {
		return &httpError{http.StatusUnprocessableEntity, APIError{
			Code:    CodeValidationFailed,
			Message: "One or more fields are invalid",
			Fields:  validationErr.Fields,
		}}
	}

	var remoteErr *remote.Error
	if errors.As(err, &remoteErr) {
		return &httpError{http.StatusBadGateway, APIError{
			Code:         CodeRemoteRejected,
			Message:      remoteErr.Message,
			RemoteStatus: remoteErr.Status,
		}}
	}

	switch {
	case errors.Is(err, model.ErrRegistrationClosed):
		return &httpError{http.StatusConflict, APIError{Code: CodeRegistrationClosed, Message: "Registration is not open"}}
	case errors.Is(err, model.ErrSubmissionInFlight):
		return &httpError{http.StatusConflict, APIError{Code: CodeSubmissionInFlight, Message: "A submission for this client is already in flight"}}
	case errors.Is(err, model.ErrRemoteUnavailable):
		return &httpError{http.StatusBadGateway, APIError{Code: CodeRemoteUnavailable, Message: err.Error()}}
	case errors.Is(err, model.ErrRemoteRejected):
		return &httpError{http.StatusBadGateway, APIError{Code: CodeRemoteRejected, Message: err.Error()}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewNotFoundError reports an unknown API route
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found"}}
}

// NewServiceUnavailableError reports a dependency the server cannot reach
func NewServiceUnavailableError(message string) error {
	return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeServiceUnavailable, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
