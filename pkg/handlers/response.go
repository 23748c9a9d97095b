package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
)

// ErrorResponse writes the error contract shared by every endpoint: a
// JSON object with a single human-readable error field. Returns any
// encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ErrorStatus maps an error from the extraction, orchestration, or
// persistence layers to its HTTP status. Upload rejections are client
// errors, upstream model failures are a bad gateway, everything else
// is an internal error.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case llm.IsUpstreamError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ServiceErrorResponse translates a downstream error into the HTTP
// error contract. The message echoes the cause, sanitized so upstream
// provider errors cannot leak credentials into responses.
func ServiceErrorResponse(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := ErrorStatus(err)
	message := logging.SanitizeError(err)

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Debug("Request rejected", zap.Int("status", status), zap.String("reason", message))
	}

	if writeErr := ErrorResponse(w, status, message); writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
