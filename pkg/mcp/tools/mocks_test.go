package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// Function-field mocks for the orchestration services. Tests configure
// only the call they expect.

type mockClassificationService struct {
	ClassifyFunc func(ctx context.Context, text string) (*services.ClassificationResult, error)
}

func (m *mockClassificationService) ClassifyRequirements(ctx context.Context, text string) (*services.ClassificationResult, error) {
	return m.ClassifyFunc(ctx, text)
}

var _ services.ClassificationService = (*mockClassificationService)(nil)

type mockCodeGenerationService struct {
	GenerateFunc func(ctx context.Context, description, language, framework string) (*services.CodeGenerationResult, error)
	FixFunc      func(ctx context.Context, code, language string) (*services.BugFixResult, error)
}

func (m *mockCodeGenerationService) GenerateCode(ctx context.Context, description, language, framework string) (*services.CodeGenerationResult, error) {
	return m.GenerateFunc(ctx, description, language, framework)
}

func (m *mockCodeGenerationService) FixCode(ctx context.Context, code, language string) (*services.BugFixResult, error) {
	return m.FixFunc(ctx, code, language)
}

var _ services.CodeGenerationService = (*mockCodeGenerationService)(nil)

type mockTestGenerationService struct {
	GenerateFunc func(ctx context.Context, input, framework string, inputType models.TestInput) (*services.TestGenerationResult, error)
}

func (m *mockTestGenerationService) GenerateTests(ctx context.Context, input, framework string, inputType models.TestInput) (*services.TestGenerationResult, error) {
	return m.GenerateFunc(ctx, input, framework, inputType)
}

var _ services.TestGenerationService = (*mockTestGenerationService)(nil)

type mockDocumentationService struct {
	SummarizeFunc func(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error)
}

func (m *mockDocumentationService) SummarizeCode(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error) {
	return m.SummarizeFunc(ctx, code, style)
}

var _ services.DocumentationService = (*mockDocumentationService)(nil)

// newTestDeps builds tool deps around a fresh in-memory store.
func newTestDeps() *ToolDeps {
	return &ToolDeps{
		Store:  repositories.NewMemoryStore(),
		UserID: uuid.New(),
		Logger: zap.NewNop(),
	}
}

// toolOutcome is the decoded result of one tools/call round trip.
type toolOutcome struct {
	Text    string
	IsError bool
	// RPCError is set when the server answered with a protocol-level
	// JSON-RPC error instead of a tool result.
	RPCError *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
}

// callTool drives a registered tool through the server's JSON-RPC
// entry point, the way a connected client would.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) toolOutcome {
	t.Helper()

	argsJSON, err := json.Marshal(args)
	require.NoError(t, err)
	request := fmt.Sprintf(
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":%q,"arguments":%s}}`,
		name, argsJSON,
	)

	raw := s.HandleMessage(context.Background(), []byte(request))
	rawBytes, err := json.Marshal(raw)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rawBytes, &response))

	outcome := toolOutcome{IsError: response.Result.IsError, RPCError: response.Error}
	if len(response.Result.Content) > 0 {
		outcome.Text = response.Result.Content[0].Text
	}
	return outcome
}

// newToolServer builds an MCP server with the full tool surface
// registered against the given deps.
func newToolServer(deps *ToolDeps) *server.MCPServer {
	s := server.NewMCPServer("codeloom-test", "0.0.0", server.WithToolCapabilities(true))
	RegisterAll(s, "0.0.0", deps)
	return s
}
