package engine

import (
	"errors"
	"net/http"
)

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ reason string }

func (e tooBusyError) Error() string   { return "too busy: " + e.reason }
func (e tooBusyError) StatusCode() int { return http.StatusTooManyRequests }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// documentNotFoundError is returned when a document id is not stored.
type documentNotFoundError struct{ id string }

func (e documentNotFoundError) Error() string   { return "document not found: " + e.id }
func (e documentNotFoundError) StatusCode() int { return http.StatusNotFound }

// ErrDocumentNotFound returns an error for a missing document id.
func ErrDocumentNotFound(id string) error { return documentNotFoundError{id: id} }

// IsDocumentNotFound reports whether the error indicates a missing document id.
func IsDocumentNotFound(err error) bool {
	var e documentNotFoundError
	return errors.As(err, &e)
}

// invalidRequestError reports a caller mistake (400).
type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string   { return e.msg }
func (e invalidRequestError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidRequest constructs an invalidRequestError.
func ErrInvalidRequest(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err is a caller mistake.
func IsInvalidRequest(err error) bool {
	var e invalidRequestError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a missing external dependency (e.g., llama.cpp)
// so the HTTP layer can return 503 Service Unavailable instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string   { return e.msg }
func (e dependencyUnavailableError) StatusCode() int { return http.StatusServiceUnavailable }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
