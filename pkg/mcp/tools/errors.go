package tools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the calling
// agent as a tool result, ensuring error details are visible rather
// than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the agent should see and
// can potentially fix (invalid parameters, empty input, an upstream
// model hiccup worth retrying).
//
// Do NOT use this for system failures (store errors, internal bugs);
// those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewErrorResultWithDetails creates an error result with additional
// context, for example the list of accepted values for an enum
// parameter.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// HandleServiceError converts a failed orchestration call into a tool
// outcome. Upstream model failures (unreachable endpoint, bad key,
// undecodable reply) become structured error results - the agent can
// see them and retry or rephrase. Anything else is a system failure
// and stays a Go error. Messages are sanitized so provider errors
// cannot leak credentials into results.
func HandleServiceError(err error, code string) (*mcp.CallToolResult, error) {
	if llm.IsUpstreamError(err) {
		return NewErrorResult(code, logging.SanitizeError(err)), nil
	}
	return nil, err
}
