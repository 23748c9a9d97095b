package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// snippetTitleLength bounds the title derived from a generation
// description.
const snippetTitleLength = 60

// GenerateCodeRequest is the body of POST /api/code/generate.
type GenerateCodeRequest struct {
	Description string `json:"description"`
	Language    string `json:"language"`
	Framework   string `json:"framework"`
}

// GenerateCodeResponse is the reply of POST /api/code/generate.
type GenerateCodeResponse struct {
	CodeSnippet *models.CodeSnippet `json:"codeSnippet"`
	Suggestions []string            `json:"suggestions"`
}

// FixCodeRequest is the body of POST /api/code/fix.
type FixCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// FixCodeResponse is the reply of POST /api/code/fix.
type FixCodeResponse struct {
	CodeSnippet   *models.CodeSnippet `json:"codeSnippet"`
	Issues        []string            `json:"issues"`
	Optimizations []string            `json:"optimizations"`
}

// SnippetListResponse is the reply of GET /api/code-snippets.
type SnippetListResponse struct {
	CodeSnippets []*models.CodeSnippet `json:"codeSnippets"`
	Total        int                   `json:"total"`
}

// CodeHandler handles code generation, bug fixing, and the snippet
// listing endpoint.
type CodeHandler struct {
	generation services.CodeGenerationService
	store      *repositories.Store
	userID     uuid.UUID
	logger     *zap.Logger
}

// NewCodeHandler creates a code handler acting as the given user.
func NewCodeHandler(generation services.CodeGenerationService, store *repositories.Store, userID uuid.UUID, logger *zap.Logger) *CodeHandler {
	return &CodeHandler{
		generation: generation,
		store:      store,
		userID:     userID,
		logger:     logger,
	}
}

// RegisterRoutes registers the code routes on the given mux.
func (h *CodeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/code/generate", h.Generate)
	mux.HandleFunc("POST /api/code/fix", h.Fix)
	mux.HandleFunc("GET /api/code-snippets", h.ListSnippets)
}

// Generate handles POST /api/code/generate.
func (h *CodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "description is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.generation.GenerateCode(r.Context(), req.Description, req.Language, req.Framework)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	snippet := &models.CodeSnippet{
		UserID:        &h.userID,
		Title:         logging.TruncateString(req.Description, snippetTitleLength),
		Description:   req.Description,
		Language:      req.Language,
		GeneratedCode: result.Code,
		Kind:          models.SnippetGenerated,
	}
	if err := h.store.Snippets.Create(r.Context(), snippet); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := GenerateCodeResponse{
		CodeSnippet: snippet,
		Suggestions: result.Suggestions,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Fix handles POST /api/code/fix. The snippet always carries fixed
// code: the model's corrected version, or the submitted code unchanged
// when the model returned none.
func (h *CodeHandler) Fix(w http.ResponseWriter, r *http.Request) {
	var req FixCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "code is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.generation.FixCode(r.Context(), req.Code, req.Language)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	snippet := &models.CodeSnippet{
		UserID:       &h.userID,
		Title:        "Bug fix",
		Language:     req.Language,
		OriginalCode: req.Code,
		FixedCode:    result.FixedCode,
		Kind:         models.SnippetFixed,
	}
	if err := h.store.Snippets.Create(r.Context(), snippet); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := FixCodeResponse{
		CodeSnippet:   snippet,
		Issues:        result.Issues,
		Optimizations: result.Optimizations,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListSnippets handles GET /api/code-snippets.
func (h *CodeHandler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.store.Snippets.ListByUser(r.Context(), h.userID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := SnippetListResponse{CodeSnippets: snippets, Total: len(snippets)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
