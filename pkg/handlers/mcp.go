package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/mcp"
	"github.com/codeloom-ai/codeloom-engine/pkg/middleware"
)

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
	}
}

// RegisterRoutes registers the MCP endpoint. The transport itself
// dispatches on method: POST carries JSON-RPC, GET and DELETE are
// answered per the streamable HTTP protocol. Request/response logging
// wraps the transport so JSON-RPC details are captured.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/mcp", middleware.MCPRequestLogger(h.logger)(h.httpServer))
}
