// Package tools implements the MCP tools mirroring the HTTP API:
// requirements classification, code generation, bug fixing, test
// generation, and code summarization. Tool calls persist the same
// records their HTTP counterparts do, so work done over MCP shows up
// in the listing endpoints.
package tools

import (
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// ToolDeps carries the services and store shared by every tool. Tools
// act as the same fixed user the HTTP handlers act as.
type ToolDeps struct {
	Classification services.ClassificationService
	CodeGeneration services.CodeGenerationService
	TestGeneration services.TestGenerationService
	Documentation  services.DocumentationService
	Store          *repositories.Store
	UserID         uuid.UUID
	Logger         *zap.Logger
}

// RegisterAll registers the full tool surface on the given server.
func RegisterAll(s *server.MCPServer, version string, deps *ToolDeps) {
	RegisterHealthTool(s, version)
	RegisterRequirementsTools(s, deps)
	RegisterCodeTools(s, deps)
	RegisterTestTools(s, deps)
	RegisterDocumentationTools(s, deps)
}
