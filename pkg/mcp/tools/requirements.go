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

// classifyName is the default document name recorded when a caller
// classifies raw text without naming its source.
const classifyName = "untitled.txt"

// RegisterRequirementsTools registers the requirements classification
// tool.
func RegisterRequirementsTools(s *server.MCPServer, deps *ToolDeps) {
	registerClassifyRequirementsTool(s, deps)
}

// classifyRequirementsResponse mirrors the HTTP upload response: the
// stored document, its classified requirements, and a per-phase tally.
type classifyRequirementsResponse struct {
	Document     *models.Document      `json:"document"`
	Requirements []*models.Requirement `json:"requirements"`
	Statistics   models.PhaseTally     `json:"statistics"`
}

func registerClassifyRequirementsTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"classify_requirements",
		mcp.WithDescription(
			"Classify free-form requirements text into SDLC phases. "+
				"Each requirement sentence is labeled with one of: Requirements, Design, Development, Testing, Deployment, "+
				"plus a confidence score and a user story where one can be derived. "+
				"The text and its classification are stored; results also appear under the documents API.",
		),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("Requirements document text to classify"),
		),
		mcp.WithString(
			"filename",
			mcp.Description("Optional - name to record for the source document. Defaults to 'untitled.txt'"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		text = trimString(text)
		if text == "" {
			return NewErrorResult("invalid_parameters", "parameter 'text' cannot be empty"), nil
		}

		filename := trimString(getOptionalString(req, "filename"))
		if filename == "" {
			filename = classifyName
		}

		classified, err := deps.Classification.ClassifyRequirements(ctx, text)
		if err != nil {
			return HandleServiceError(err, "classification_failed")
		}

		doc := &models.Document{
			UserID:        &deps.UserID,
			Filename:      filename,
			ExtractedText: text,
			SizeBytes:     int64(len(text)),
		}
		if err := deps.Store.Documents.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to store document: %w", err)
		}

		requirements := make([]*models.Requirement, 0, len(classified.Requirements))
		for _, c := range classified.Requirements {
			r := &models.Requirement{
				DocumentID: doc.ID,
				UserID:     &deps.UserID,
				Text:       c.Text,
				Phase:      c.Phase,
				Confidence: c.Confidence,
				UserStory:  c.UserStory,
			}
			if err := deps.Store.Requirements.Create(ctx, r); err != nil {
				return nil, fmt.Errorf("failed to store requirement: %w", err)
			}
			requirements = append(requirements, r)
		}

		deps.Logger.Info("Requirements classified via MCP",
			zap.String("document_id", doc.ID.String()),
			zap.Int("requirements", len(requirements)))

		response := classifyRequirementsResponse{
			Document:     doc,
			Requirements: requirements,
			Statistics:   classified.Statistics,
		}
		jsonResult, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
