package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// SummarizeRequest is the body of POST /api/code/summarize. Style
// defaults to "technical".
type SummarizeRequest struct {
	Code  string `json:"code"`
	Style string `json:"style"`
}

// SummarizeResponse is the reply of POST /api/code/summarize.
type SummarizeResponse struct {
	Documentation *models.Documentation `json:"documentation"`
}

// DocumentationListResponse is the reply of GET /api/documentations.
type DocumentationListResponse struct {
	Documentations []*models.Documentation `json:"documentations"`
	Total          int                     `json:"total"`
}

// DocumentationHandler handles code summarization and the
// documentation listing endpoint.
type DocumentationHandler struct {
	documentation services.DocumentationService
	store         *repositories.Store
	userID        uuid.UUID
	logger        *zap.Logger
}

// NewDocumentationHandler creates a documentation handler acting as
// the given user.
func NewDocumentationHandler(documentation services.DocumentationService, store *repositories.Store, userID uuid.UUID, logger *zap.Logger) *DocumentationHandler {
	return &DocumentationHandler{
		documentation: documentation,
		store:         store,
		userID:        userID,
		logger:        logger,
	}
}

// RegisterRoutes registers the documentation routes on the given mux.
func (h *DocumentationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/code/summarize", h.Summarize)
	mux.HandleFunc("GET /api/documentations", h.ListDocumentations)
}

// Summarize handles POST /api/code/summarize.
func (h *DocumentationHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
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

	style := models.StyleTechnical
	if req.Style != "" {
		style = models.DocStyle(req.Style)
		if !models.IsValidDocStyle(style) {
			msg := fmt.Sprintf("style must be one of %q, %q, %q, %q",
				models.StyleTechnical, models.StyleUserGuide, models.StyleAPI, models.StyleComments)
			if err := ErrorResponse(w, http.StatusBadRequest, msg); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	result, err := h.documentation.SummarizeCode(r.Context(), req.Code, style)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	doc := &models.Documentation{
		UserID:       &h.userID,
		Style:        style,
		Overview:     result.Overview,
		Features:     result.Features,
		Methods:      result.Methods,
		UsageExample: result.UsageExample,
	}
	if err := h.store.Documentations.Create(r.Context(), doc); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := SummarizeResponse{Documentation: doc}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListDocumentations handles GET /api/documentations.
func (h *DocumentationHandler) ListDocumentations(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.Documentations.ListByUser(r.Context(), h.userID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := DocumentationListResponse{Documentations: docs, Total: len(docs)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
