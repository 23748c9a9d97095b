package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// snippetTitleLength bounds the snippet title derived from a
// generation description.
const snippetTitleLength = 60

// RegisterCodeTools registers the code generation and bug fixing
// tools.
func RegisterCodeTools(s *server.MCPServer, deps *ToolDeps) {
	registerGenerateCodeTool(s, deps)
	registerFixCodeTool(s, deps)
}

type generateCodeResponse struct {
	CodeSnippet *models.CodeSnippet `json:"codeSnippet"`
	Suggestions []string            `json:"suggestions"`
}

type fixCodeResponse struct {
	CodeSnippet   *models.CodeSnippet `json:"codeSnippet"`
	Issues        []string            `json:"issues"`
	Optimizations []string            `json:"optimizations"`
}

func registerGenerateCodeTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"generate_code",
		mcp.WithDescription(
			"Generate code from a natural-language description. "+
				"Returns the generated code plus improvement suggestions. "+
				"The result is stored as a code snippet and appears under the code-snippets API.",
		),
		mcp.WithString(
			"description",
			mcp.Required(),
			mcp.Description("What the code should do (e.g., 'a rate limiter with a token bucket')"),
		),
		mcp.WithString(
			"language",
			mcp.Description("Optional - target programming language (e.g., 'go', 'python')"),
		),
		mcp.WithString(
			"framework",
			mcp.Description("Optional - framework or library to target (e.g., 'gin', 'react')"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		description, err := req.RequireString("description")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		description = trimString(description)
		if description == "" {
			return NewErrorResult("invalid_parameters", "parameter 'description' cannot be empty"), nil
		}

		language := getOptionalString(req, "language")
		framework := getOptionalString(req, "framework")

		result, err := deps.CodeGeneration.GenerateCode(ctx, description, language, framework)
		if err != nil {
			return HandleServiceError(err, "code_generation_failed")
		}

		snippet := &models.CodeSnippet{
			UserID:        &deps.UserID,
			Title:         logging.TruncateString(description, snippetTitleLength),
			Description:   description,
			Language:      language,
			GeneratedCode: result.Code,
			Kind:          models.SnippetGenerated,
		}
		if err := deps.Store.Snippets.Create(ctx, snippet); err != nil {
			return nil, fmt.Errorf("failed to store snippet: %w", err)
		}

		deps.Logger.Info("Code generated via MCP",
			zap.String("snippet_id", snippet.ID.String()),
			zap.String("language", language))

		response := generateCodeResponse{
			CodeSnippet: snippet,
			Suggestions: result.Suggestions,
		}
		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

func registerFixCodeTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"fix_code",
		mcp.WithDescription(
			"Analyze code for bugs and return a corrected version. "+
				"Returns the fixed code with the issues found and optimization notes. "+
				"If no correction comes back, the submitted code is returned unchanged. "+
				"The original and fixed code are stored as a code snippet.",
		),
		mcp.WithString(
			"code",
			mcp.Required(),
			mcp.Description("The code to analyze and fix"),
		),
		mcp.WithString(
			"language",
			mcp.Description("Optional - the code's programming language"),
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

		language := getOptionalString(req, "language")

		result, err := deps.CodeGeneration.FixCode(ctx, code, language)
		if err != nil {
			return HandleServiceError(err, "bug_fix_failed")
		}

		snippet := &models.CodeSnippet{
			UserID:       &deps.UserID,
			Title:        "Bug fix",
			Language:     language,
			OriginalCode: code,
			FixedCode:    result.FixedCode,
			Kind:         models.SnippetFixed,
		}
		if err := deps.Store.Snippets.Create(ctx, snippet); err != nil {
			return nil, fmt.Errorf("failed to store snippet: %w", err)
		}

		deps.Logger.Info("Code fixed via MCP",
			zap.String("snippet_id", snippet.ID.String()),
			zap.Int("issues", len(result.Issues)))

		response := fixCodeResponse{
			CodeSnippet:   snippet,
			Issues:        result.Issues,
			Optimizations: result.Optimizations,
		}
		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
