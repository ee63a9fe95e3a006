package gcal

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionClosed is returned by operations invoked before Start or after
// Stop of the owning events manager.
var ErrSessionClosed = errors.New("gcal: session is not open")

// ValidationError indicates a malformed domain object, such as an event
// time carrying both a date and a dateTime, or an update without an event
// ID. It is raised before any network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "gcal: validation: " + e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// MissingDependencyError indicates that an optional feature was invoked
// without its supporting dependency being wired in.
type MissingDependencyError struct {
	Feature string
	Hint    string
}

func (e *MissingDependencyError) Error() string {
	msg := "gcal: " + e.Feature + " is unavailable"
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// AuthError indicates the credentials or access token were rejected by the
// remote service, including a second consecutive 401 after the built-in
// forced refresh.
type AuthError struct {
	// Status is the upstream HTTP status code, or 0 when the rejection
	// happened before a response was received.
	Status int
	// Body is the raw upstream response body, if any.
	Body []byte
	// Reason is a human-readable description from the OAuth endpoint.
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("gcal: auth rejected (status %d): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("gcal: auth rejected (status %d)", e.Status)
}

// TransportError indicates a network-level failure such as a connection
// reset or timeout. The client performs no implicit retry; idempotent
// operations are safe for caller-level retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gcal: transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is any non-2xx response other than 401, surfaced verbatim with
// status and body for caller diagnostics.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("gcal: api error %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("gcal: api error %d", e.Status)
}

// NotFoundError specialises APIError for 404 responses, letting callers
// treat "resource already gone" distinctly from other API failures.
// errors.As against *APIError still matches.
type NotFoundError struct {
	APIError
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("gcal: resource not found (status %d)", e.Status)
}

func (e *NotFoundError) Unwrap() error {
	return &e.APIError
}

// NewNotFoundError creates a NotFoundError for the given response.
func NewNotFoundError(body []byte) *NotFoundError {
	return &NotFoundError{APIError: APIError{Status: http.StatusNotFound, Body: body}}
}

// IsValidation returns true if the error is a local validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsAuth returns true if the error indicates rejected credentials.
func IsAuth(err error) bool {
	var aerr *AuthError
	return errors.As(err, &aerr)
}

// IsTransport returns true if the error is a network-level failure.
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}

// IsNotFound returns true if the error indicates a missing remote resource.
func IsNotFound(err error) bool {
	var nerr *NotFoundError
	return errors.As(err, &nerr)
}
