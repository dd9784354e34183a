package utils

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
)

// Codes shared across handlers
const (
	CodeFieldRequired  = "FIELD_REQUIRED"
	CodeInvalidID      = "INVALID_ID"
	CodeInvalidInteger = "INVALID_INTEGER"
	CodeInvalidJSON    = "INVALID_JSON"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

// HTTPError is an error that carries everything needed to render an API error response
type HTTPError struct {
	Status  int    // HTTP status code
	Code    string // Machine-readable code
	Message string // Human-readable message
	Cause   error  // Upstream failure, if any
	Details any    // Structured details, if any
	Expose  *bool  // Explicit exposure override, nil means decide by status
}

// HTTPErrorOption customizes an HTTPError at construction
type HTTPErrorOption func(*HTTPError)

// WithCode sets the machine-readable code
func WithCode(code string) HTTPErrorOption {
	return func(e *HTTPError) { e.Code = code }
}

// WithCause records the upstream failure
func WithCause(cause error) HTTPErrorOption {
	return func(e *HTTPError) { e.Cause = cause }
}

// WithDetails attaches structured details
func WithDetails(details any) HTTPErrorOption {
	return func(e *HTTPError) { e.Details = details }
}

// WithExpose overrides whether the message may reach clients in production
func WithExpose(expose bool) HTTPErrorOption {
	return func(e *HTTPError) { e.Expose = &expose }
}

// NewHTTPError builds an HTTPError. Statuses outside 400-599 fall back to 500.
func NewHTTPError(status int, message string, opts ...HTTPErrorOption) *HTTPError {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	e := &HTTPError{Status: status, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// Exposed reports whether the message is safe to show to clients in production
func (e *HTTPError) Exposed() bool {
	if e.Expose != nil {
		return *e.Expose
	}
	return e.Status < http.StatusInternalServerError
}

// AsHTTPError finds an HTTPError anywhere in err's chain
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// IsHTTPError reports whether err is (or wraps) an HTTPError
func IsHTTPError(err error) bool {
	_, ok := AsHTTPError(err)
	return ok
}

// NormalizeError passes HTTPErrors through and wraps anything else with the
// given status, code and message, keeping the original as the cause.
func NormalizeError(err error, status int, code, message string) *HTTPError {
	if err == nil {
		return nil
	}
	if httpErr, ok := AsHTTPError(err); ok {
		return httpErr
	}
	return NewHTTPError(status, message, WithCode(code), WithCause(err))
}
