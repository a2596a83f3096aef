package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/logging"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, ErrorBody{Error: errorCode, Message: message})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// writeBadBody reports an undecodable request body.
func writeBadBody(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Invalid request body", zap.Error(err))
	if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps the apperrors taxonomy onto HTTP responses.
// Anything unrecognised is logged and reported as an opaque 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var (
		status = http.StatusInternalServerError
		body   = ErrorBody{Error: "internal_error", Message: "Something went wrong"}
		ve     *apperrors.ValidationError
	)

	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body = ErrorBody{Error: "validation_error", Message: ve.Error(), Field: ve.Field}
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		body = ErrorBody{Error: "not_found", Message: "Resource not found"}
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		body = ErrorBody{Error: "conflict", Message: "Resource already exists"}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body = ErrorBody{Error: "invalid_credentials", Message: "Invalid email or password"}
	default:
		logger.Error("Request failed",
			zap.String("operation", op),
			zap.Bool("storage", apperrors.IsStorage(err)),
			zap.String("error", logging.SanitizeError(err)))
	}

	if err := WriteJSON(w, status, body); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// respond writes data as JSON, logging encoding failures.
func respond(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	if err := WriteJSON(w, status, data); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
