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

// RegisterTestTools registers the test generation tool.
func RegisterTestTools(s *server.MCPServer, deps *ToolDeps) {
	registerGenerateTestsTool(s, deps)
}

type generateTestsResponse struct {
	TestCase   *models.TestCase      `json:"testCase"`
	Statistics models.TestStatistics `json:"statistics"`
}

func registerGenerateTestsTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"generate_tests",
		mcp.WithDescription(
			"Generate test cases from source code or from requirements text. "+
				"Returns the test code, an estimated coverage percentage, and a positive/negative case breakdown. "+
				"The result is stored and appears under the test-cases API.",
		),
		mcp.WithString(
			"code",
			mcp.Required(),
			mcp.Description("Source code or requirements text to generate tests from"),
		),
		mcp.WithString(
			"framework",
			mcp.Description("Optional - test framework to target (e.g., 'jest', 'pytest', 'testing')"),
		),
		mcp.WithString(
			"input_type",
			mcp.Description("Optional - 'code' when the input is source code, 'requirements' when it is requirements text. Defaults to 'code'"),
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

		framework := getOptionalString(req, "framework")

		inputType := models.TestInputCode
		if raw := getOptionalString(req, "input_type"); raw != "" {
			inputType = models.TestInput(raw)
			if !models.IsValidTestInput(inputType) {
				return NewErrorResultWithDetails(
					"invalid_parameters",
					"invalid input_type value",
					map[string]any{
						"parameter": "input_type",
						"expected":  []models.TestInput{models.TestInputCode, models.TestInputRequirements},
						"actual":    raw,
					},
				), nil
			}
		}

		result, err := deps.TestGeneration.GenerateTests(ctx, code, framework, inputType)
		if err != nil {
			return HandleServiceError(err, "test_generation_failed")
		}

		testCase := &models.TestCase{
			UserID:    &deps.UserID,
			Framework: framework,
			InputType: inputType,
			Code:      result.Code,
			Coverage:  result.Coverage,
			Total:     result.Statistics.Total,
		}
		if err := deps.Store.TestCases.Create(ctx, testCase); err != nil {
			return nil, fmt.Errorf("failed to store test case: %w", err)
		}

		deps.Logger.Info("Tests generated via MCP",
			zap.String("test_case_id", testCase.ID.String()),
			zap.Int("total", result.Statistics.Total))

		response := generateTestsResponse{
			TestCase:   testCase,
			Statistics: result.Statistics,
		}
		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
