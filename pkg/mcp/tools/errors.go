package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codemauri/taskify/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// It is returned as a tool result so the client sees actionable errors
// instead of a protocol failure.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use it for errors the caller can act on (bad parameters, unknown ids).
// Storage failures are returned as Go errors instead.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	jsonBytes, _ := json.Marshal(ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	})
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// serviceErrorResult converts recoverable service errors into tool error
// results. Any other error is returned unchanged for the protocol layer.
func serviceErrorResult(err error) (*mcp.CallToolResult, error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return NewErrorResultWithDetails("validation_error", ve.Error(), map[string]string{"field": ve.Field}), nil
	case errors.Is(err, apperrors.ErrNotFound):
		return NewErrorResult("not_found", "no such project or task"), nil
	default:
		return nil, err
	}
}
