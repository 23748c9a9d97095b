// Package handlers implements the HTTP surface: request validation,
// delegation to the extraction and orchestration services, persistence
// of the produced records, and response shaping. Every error becomes a
// JSON body with a single "error" field; validation failures are 4xx,
// upstream model failures 502, everything else 500.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/extract"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

const (
	// uploadFormField is the multipart field carrying the PDF.
	uploadFormField = "pdf"

	// extractPreviewLength bounds the extractedText echoed in the
	// upload response. The full text lives on the stored document.
	extractPreviewLength = 500

	// multipartOverheadBytes is headroom on top of the upload limit
	// for multipart boundaries and part headers. Files between the
	// limit and limit+overhead still get rejected, by the extractor's
	// own size check, before any parsing happens.
	multipartOverheadBytes = 64 * 1024
)

// UploadResponse is the reply of POST /api/requirements/upload.
type UploadResponse struct {
	Document      *models.Document      `json:"document"`
	Requirements  []*models.Requirement `json:"requirements"`
	Statistics    models.PhaseTally     `json:"statistics"`
	ExtractedText string                `json:"extractedText"`
}

// DocumentListResponse is the reply of GET /api/documents.
type DocumentListResponse struct {
	Documents []*models.Document `json:"documents"`
	Total     int                `json:"total"`
}

// RequirementListResponse is the reply of
// GET /api/documents/{id}/requirements.
type RequirementListResponse struct {
	Requirements []*models.Requirement `json:"requirements"`
	Statistics   models.PhaseTally     `json:"statistics"`
	Total        int                   `json:"total"`
}

// RequirementsHandler handles document upload, classification, and the
// document listing endpoints.
type RequirementsHandler struct {
	extractor      extract.Extractor
	classification services.ClassificationService
	store          *repositories.Store
	userID         uuid.UUID
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewRequirementsHandler creates a requirements handler acting as the
// given user.
func NewRequirementsHandler(
	extractor extract.Extractor,
	classification services.ClassificationService,
	store *repositories.Store,
	userID uuid.UUID,
	maxUploadBytes int64,
	logger *zap.Logger,
) *RequirementsHandler {
	return &RequirementsHandler{
		extractor:      extractor,
		classification: classification,
		store:          store,
		userID:         userID,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the requirements routes on the given mux.
func (h *RequirementsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/requirements/upload", h.Upload)
	mux.HandleFunc("GET /api/documents", h.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}/requirements", h.ListDocumentRequirements)
}

// Upload handles POST /api/requirements/upload. It extracts the text
// of the uploaded PDF, classifies every requirement sentence by SDLC
// phase, and persists the document plus its requirements. The document
// and its requirements are separate creates; a failure partway leaves
// the records created so far in place.
func (h *RequirementsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Bound the request body before any of it is read.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverheadBytes)

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			if err := ErrorResponse(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if err := ErrorResponse(w, http.StatusBadRequest, "a PDF file is required in the \"pdf\" form field"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			if err := ErrorResponse(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if err := ErrorResponse(w, http.StatusBadRequest, "failed to read uploaded file"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	extracted, err := h.extractor.Extract(content)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	h.logger.Info("Document extracted",
		zap.String("filename", header.Filename),
		zap.Int("pages", extracted.PageCount),
		zap.Int("text_len", len(extracted.Text)))

	classified, err := h.classification.ClassifyRequirements(r.Context(), extracted.Text)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	doc := &models.Document{
		UserID:        &h.userID,
		Filename:      header.Filename,
		ExtractedText: extracted.Text,
		PageCount:     extracted.PageCount,
		SizeBytes:     int64(len(content)),
	}
	if err := h.store.Documents.Create(r.Context(), doc); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	requirements := make([]*models.Requirement, 0, len(classified.Requirements))
	for _, c := range classified.Requirements {
		req := &models.Requirement{
			DocumentID: doc.ID,
			UserID:     &h.userID,
			Text:       c.Text,
			Phase:      c.Phase,
			Confidence: c.Confidence,
			UserStory:  c.UserStory,
		}
		if err := h.store.Requirements.Create(r.Context(), req); err != nil {
			ServiceErrorResponse(w, h.logger, err)
			return
		}
		requirements = append(requirements, req)
	}

	response := UploadResponse{
		Document:      doc,
		Requirements:  requirements,
		Statistics:    classified.Statistics,
		ExtractedText: logging.TruncateString(extracted.Text, extractPreviewLength),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListDocuments handles GET /api/documents.
func (h *RequirementsHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.Documents.ListByUser(r.Context(), h.userID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := DocumentListResponse{Documents: docs, Total: len(docs)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListDocumentRequirements handles GET /api/documents/{id}/requirements.
// The statistics tally is recounted from the stored requirements.
func (h *RequirementsHandler) ListDocumentRequirements(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDocumentID(w, r, h.logger)
	if !ok {
		return
	}

	if _, err := h.store.Documents.GetByID(r.Context(), id); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	reqs, err := h.store.Requirements.ListByDocument(r.Context(), id)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := RequirementListResponse{
		Requirements: reqs,
		Statistics:   models.TallyByPhase(reqs),
		Total:        len(reqs),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
