package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// RegisterDocumentationTools registers the code summarization tool.
func RegisterDocumentationTools(s *server.MCPServer, deps *ToolDeps) {
	registerSummarizeCodeTool(s, deps)
}

type summarizeCodeResponse struct {
	Documentation *models.Documentation `json:"documentation"`
}

func registerSummarizeCodeTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"summarize_code",
		mcp.WithDescription(
			"Summarize code into structured documentation: an overview, key features, "+
				"per-method descriptions, and a usage example. "+
				"The result is stored and appears under the documentations API.",
		),
		mcp.WithString(
			"code",
			mcp.Required(),
			mcp.Description("The code to document"),
		),
		mcp.WithString(
			"style",
			mcp.Description("Optional - documentation register: 'technical', 'user-guide', 'api', or 'comments'. Defaults to 'technical'"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := req.RequireString("code")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		if trimString(code) == "" {
			return NewErrorResult("invalid_parameters", "parameter 'code' cannot be empty"), nil
		}

		style := models.StyleTechnical
		if raw := getOptionalString(req, "style"); raw != "" {
			style = models.DocStyle(raw)
			if !models.IsValidDocStyle(style) {
				return NewErrorResultWithDetails(
					"invalid_parameters",
					"invalid style value",
					map[string]any{
						"parameter": "style",
						"expected":  models.ValidDocStyles,
						"actual":    raw,
					},
				), nil
			}
		}

		result, err := deps.Documentation.SummarizeCode(ctx, code, style)
		if err != nil {
			return HandleServiceError(err, "summarization_failed")
		}

		doc := &models.Documentation{
			UserID:       &deps.UserID,
			Style:        style,
			Overview:     result.Overview,
			Features:     result.Features,
			Methods:      result.Methods,
			UsageExample: result.UsageExample,
		}
		if err := deps.Store.Documentations.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to store documentation: %w", err)
		}

		deps.Logger.Info("Code summarized via MCP",
			zap.String("documentation_id", doc.ID.String()),
			zap.String("style", string(style)))

		response := summarizeCodeResponse{Documentation: doc}
		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
