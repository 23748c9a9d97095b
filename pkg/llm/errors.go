package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies an upstream model failure.
type ErrorType string

const (
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeModel    ErrorType = "model"
	ErrorTypeEndpoint ErrorType = "endpoint"
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error represents a structured upstream failure. Handlers surface any
// *Error as an AI service failure regardless of its type; the type
// exists for logs and diagnostics.
type Error struct {
	Type       ErrorType // classification of the error
	Message    string    // human-readable message
	Cause      error     // underlying error
	StatusCode int       // HTTP status code if one could be recovered
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured LLM error.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewParseError wraps a model response whose body could not be decoded
// into the expected structure.
func NewParseError(message string, cause error) *Error {
	return NewError(ErrorTypeParse, message, cause)
}

// ClassifyError categorizes an error and returns a structured Error.
// Provider SDKs surface failures as opaque wrapped errors, so
// classification works on the message text.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	// Already classified
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	// Extract HTTP status code from error string
	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	classified := func(errType ErrorType, message string) *Error {
		e := NewError(errType, message, err)
		e.StatusCode = statusCode
		return e
	}

	// Authentication errors
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") {
		return classified(ErrorTypeAuth, "authentication failed")
	}

	// Model not found
	if strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")) {
		return classified(ErrorTypeModel, "model not found")
	}

	// Endpoint not found
	if strings.Contains(errStr, "404") {
		return classified(ErrorTypeEndpoint, "endpoint not found")
	}

	// Connection errors
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		return classified(ErrorTypeEndpoint, "connection failed")
	}

	// Timeout and deadline exceeded; per-request deadlines land here
	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		return classified(ErrorTypeEndpoint, "request timeout")
	}

	// Rate limiting
	if strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") {
		return classified(ErrorTypeEndpoint, "rate limited")
	}

	// 5xx server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") {
		return classified(ErrorTypeEndpoint, "server error")
	}

	return classified(ErrorTypeUnknown, "llm error")
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}

// IsUpstreamError reports whether err originated in the model call or
// its response decoding. Handlers map these to a 502.
func IsUpstreamError(err error) bool {
	var llmErr *Error
	return errors.As(err, &llmErr)
}
