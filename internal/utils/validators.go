package utils

import (
	"encoding/json" // json.Number inputs
	"math"          // Integral checks on float inputs
	"net/http"      // HTTP status codes
	"strconv"       // Integer parsing
	"strings"       // Trimming
)

// ValidationOption customizes the error a validator raises
type ValidationOption func(*validationSettings)

type validationSettings struct {
	code      string
	message   string
	allowZero bool
}

// WithErrorCode replaces the validator's default code
func WithErrorCode(code string) ValidationOption {
	return func(s *validationSettings) { s.code = code }
}

// WithErrorMessage replaces the validator's default message
func WithErrorMessage(message string) ValidationOption {
	return func(s *validationSettings) { s.message = message }
}

// AllowZero lets EnsurePositiveInt accept 0
func AllowZero() ValidationOption {
	return func(s *validationSettings) { s.allowZero = true }
}

func settings(defaultCode, defaultMessage string, opts []ValidationOption) validationSettings {
	s := validationSettings{code: defaultCode}
	for _, opt := range opts {
		opt(&s)
	}
	if s.message == "" {
		s.message = defaultMessage
	}
	return s
}

func (s validationSettings) fail() *HTTPError {
	return NewHTTPError(http.StatusBadRequest, s.message, WithCode(s.code))
}

// EnsureTrimmedString requires a string that is non-empty after trimming and returns it trimmed
func EnsureTrimmedString(value any, label string, opts ...ValidationOption) (string, error) {
	s := settings(CodeFieldRequired, label+" is required", opts)
	str, ok := value.(string)
	if !ok {
		return "", s.fail()
	}
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return "", s.fail()
	}
	return trimmed, nil
}

// EnsureOptionalString returns the trimmed string, or nil when value is absent, blank or not a string
func EnsureOptionalString(value any) *string {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// EnsurePositiveInt parses value as an integer greater than zero (or >= 0 with AllowZero)
func EnsurePositiveInt(value any, label string, opts ...ValidationOption) (int64, error) {
	s := settings(CodeInvalidID, label+" is invalid", opts)
	n, ok := toInt64(value)
	if !ok {
		return 0, s.fail()
	}
	if s.allowZero && n < 0 || !s.allowZero && n <= 0 {
		return 0, s.fail()
	}
	return n, nil
}

// EnsureNonNegativeInt treats absent or empty input as 0 and otherwise requires an integer >= 0
func EnsureNonNegativeInt(value any, label string, opts ...ValidationOption) (int64, error) {
	s := settings(CodeInvalidInteger, label+" must be an integer not less than 0", opts)
	if value == nil {
		return 0, nil
	}
	if str, ok := value.(string); ok && str == "" {
		return 0, nil
	}
	n, ok := toInt64(value)
	if !ok || n < 0 {
		return 0, s.fail()
	}
	return n, nil
}

// toInt64 converts JSON-decoded numbers, Go integers and decimal strings.
// Floats must be integral; booleans are rejected.
func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
