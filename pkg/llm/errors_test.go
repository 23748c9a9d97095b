package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError_Auth(t *testing.T) {
	err := ClassifyError(errors.New("error, status code: 401, message: Incorrect API key provided"))
	if err.Type != ErrorTypeAuth {
		t.Errorf("expected %q, got %q", ErrorTypeAuth, err.Type)
	}
	if err.StatusCode != 401 {
		t.Errorf("expected status 401, got %d", err.StatusCode)
	}
}

func TestClassifyError_ModelNotFound(t *testing.T) {
	err := ClassifyError(errors.New("the model `gpt-nonexistent` does not exist"))
	if err.Type != ErrorTypeModel {
		t.Errorf("expected %q, got %q", ErrorTypeModel, err.Type)
	}
}

func TestClassifyError_ConnectionRefused(t *testing.T) {
	err := ClassifyError(errors.New("dial tcp 127.0.0.1:8080: connection refused"))
	if err.Type != ErrorTypeEndpoint {
		t.Errorf("expected %q, got %q", ErrorTypeEndpoint, err.Type)
	}
}

func TestClassifyError_DeadlineExceeded(t *testing.T) {
	err := ClassifyError(fmt.Errorf("request failed: %w", context.DeadlineExceeded))
	if err.Type != ErrorTypeEndpoint {
		t.Errorf("expected %q, got %q", ErrorTypeEndpoint, err.Type)
	}
	if err.Message != "request timeout" {
		t.Errorf("expected timeout message, got %q", err.Message)
	}
}

func TestClassifyError_RateLimited(t *testing.T) {
	err := ClassifyError(errors.New("error, status code: 429, message: Rate limit reached"))
	if err.Type != ErrorTypeEndpoint {
		t.Errorf("expected %q, got %q", ErrorTypeEndpoint, err.Type)
	}
	if err.StatusCode != 429 {
		t.Errorf("expected status 429, got %d", err.StatusCode)
	}
}

func TestClassifyError_AlreadyClassified(t *testing.T) {
	original := NewParseError("response unparseable", errors.New("no valid JSON found"))
	wrapped := fmt.Errorf("classify requirements: %w", original)

	err := ClassifyError(wrapped)
	if err != original {
		t.Error("expected already-classified error to be returned as-is")
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if err := ClassifyError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewError(ErrorTypeUnknown, "llm error", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(ErrorTypeEndpoint, "server error", errors.New("status 503"))
	err.StatusCode = 503

	msg := err.Error()
	if msg != "endpoint HTTP 503 server error: status 503" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestIsUpstreamError(t *testing.T) {
	if !IsUpstreamError(fmt.Errorf("wrapped: %w", NewParseError("bad", nil))) {
		t.Error("expected wrapped *Error to be recognized")
	}
	if IsUpstreamError(errors.New("plain")) {
		t.Error("expected plain error to not be upstream")
	}
	if IsUpstreamError(nil) {
		t.Error("expected nil to not be upstream")
	}
}

func TestGetErrorType(t *testing.T) {
	if got := GetErrorType(NewError(ErrorTypeAuth, "x", nil)); got != ErrorTypeAuth {
		t.Errorf("expected %q, got %q", ErrorTypeAuth, got)
	}
	if got := GetErrorType(errors.New("plain")); got != ErrorTypeUnknown {
		t.Errorf("expected %q, got %q", ErrorTypeUnknown, got)
	}
}
