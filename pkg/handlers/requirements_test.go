package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
	"github.com/codeloom-ai/codeloom-engine/pkg/extract"
	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

const testMaxUploadBytes = 10 * 1024 * 1024

// newUploadRequest builds a multipart POST carrying content under the
// given form field.
func newUploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/requirements/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func classifiedFixture() *services.ClassificationResult {
	return &services.ClassificationResult{
		Requirements: []services.ClassifiedRequirement{
			{Text: "The system shall store invoices.", Phase: models.PhaseRequirements, Confidence: 90, UserStory: "As an accountant, I want invoices stored so that I can audit them."},
			{Text: "The invoice service exposes a REST API.", Phase: models.PhaseDesign, Confidence: 80},
			{Text: "Implement the invoice parser in the billing module.", Phase: models.PhaseDevelopment, Confidence: 85},
		},
		Statistics: models.PhaseTally{
			models.PhaseRequirements: 1,
			models.PhaseDesign:       1,
			models.PhaseDevelopment:  1,
			models.PhaseTesting:      0,
			models.PhaseDeployment:   0,
		},
	}
}

func TestRequirementsHandler_Upload_Success(t *testing.T) {
	extractedText := strings.Repeat("The system shall do the thing. ", 30) // well past the preview length
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			return &extract.Result{Text: extractedText, PageCount: 3}, nil
		},
	}
	classification := &mockClassificationService{
		ClassifyFunc: func(ctx context.Context, text string) (*services.ClassificationResult, error) {
			assert.Equal(t, extractedText, text)
			return classifiedFixture(), nil
		},
	}
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	handler := NewRequirementsHandler(extractor, classification, store, userID, testMaxUploadBytes, zap.NewNop())

	content := []byte("%PDF-1.4 fake body")
	req := newUploadRequest(t, "pdf", "srs.pdf", content)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.Document)
	assert.Equal(t, "srs.pdf", resp.Document.Filename)
	assert.Equal(t, 3, resp.Document.PageCount)
	assert.Equal(t, int64(len(content)), resp.Document.SizeBytes)
	assert.NotEqual(t, uuid.Nil, resp.Document.ID)

	require.Len(t, resp.Requirements, 3)
	for _, r := range resp.Requirements {
		assert.Equal(t, resp.Document.ID, r.DocumentID)
		assert.NotEqual(t, uuid.Nil, r.ID)
	}
	assert.Equal(t, models.PhaseRequirements, resp.Requirements[0].Phase)
	assert.Equal(t, 90, resp.Requirements[0].Confidence)
	assert.Equal(t, 1, resp.Statistics[models.PhaseRequirements])
	assert.Equal(t, 0, resp.Statistics[models.PhaseTesting])

	// The echoed text is a bounded preview, not the whole document.
	assert.Equal(t, extractedText[:500]+"...", resp.ExtractedText)

	// Both record kinds were persisted.
	stored, err := store.Documents.GetByID(context.Background(), resp.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, extractedText, stored.ExtractedText)

	reqs, err := store.Requirements.ListByDocument(context.Background(), resp.Document.ID)
	require.NoError(t, err)
	assert.Len(t, reqs, 3)
}

func TestRequirementsHandler_Upload_ShortTextNotTruncated(t *testing.T) {
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			return &extract.Result{Text: "short text", PageCount: 1}, nil
		},
	}
	classification := &mockClassificationService{
		ClassifyFunc: func(ctx context.Context, text string) (*services.ClassificationResult, error) {
			return &services.ClassificationResult{Statistics: models.TallyByPhase(nil)}, nil
		},
	}
	store := repositories.NewMemoryStore()
	handler := NewRequirementsHandler(extractor, classification, store, uuid.New(), testMaxUploadBytes, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Upload(rec, newUploadRequest(t, "pdf", "a.pdf", []byte("%PDF-1.4")))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "short text", resp.ExtractedText)
	assert.Empty(t, resp.Requirements)
}

func TestRequirementsHandler_Upload_MissingFileField(t *testing.T) {
	store := repositories.NewMemoryStore()
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			t.Fatal("extractor must not be called without a file")
			return nil, nil
		},
	}
	handler := NewRequirementsHandler(extractor, nil, store, uuid.New(), testMaxUploadBytes, zap.NewNop())

	// Wrong field name.
	req := newUploadRequest(t, "document", "srs.pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "pdf")
}

func TestRequirementsHandler_Upload_InvalidFormatCreatesNothing(t *testing.T) {
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			return nil, fmt.Errorf("missing %%PDF signature: %w", apperrors.ErrInvalidFormat)
		},
	}
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	handler := NewRequirementsHandler(extractor, nil, store, userID, testMaxUploadBytes, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Upload(rec, newUploadRequest(t, "pdf", "notes.txt", []byte("plain text")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	docs, err := store.Documents.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, docs, "a rejected upload must not create a document")
}

func TestRequirementsHandler_Upload_TooLarge(t *testing.T) {
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			return nil, fmt.Errorf("document is %d bytes, limit is %d: %w", len(content), 8, apperrors.ErrTooLarge)
		},
	}
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	handler := NewRequirementsHandler(extractor, nil, store, userID, testMaxUploadBytes, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Upload(rec, newUploadRequest(t, "pdf", "big.pdf", []byte("%PDF-1.4 oversized")))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	docs, err := store.Documents.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRequirementsHandler_Upload_BodyOverCapRejectedEarly(t *testing.T) {
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			t.Fatal("extractor must not see a body over the request cap")
			return nil, nil
		},
	}
	store := repositories.NewMemoryStore()
	// Cap of 1 byte; the request body blows past cap+overhead.
	handler := NewRequirementsHandler(extractor, nil, store, uuid.New(), 1, zap.NewNop())

	content := bytes.Repeat([]byte("a"), multipartOverheadBytes+4096)
	rec := httptest.NewRecorder()
	handler.Upload(rec, newUploadRequest(t, "pdf", "huge.pdf", content))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequirementsHandler_Upload_ClassificationFailure(t *testing.T) {
	extractor := &mockExtractor{
		ExtractFunc: func(content []byte) (*extract.Result, error) {
			return &extract.Result{Text: "some requirements", PageCount: 1}, nil
		},
	}
	classification := &mockClassificationService{
		ClassifyFunc: func(ctx context.Context, text string) (*services.ClassificationResult, error) {
			return nil, llm.ClassifyError(errors.New("connection refused"))
		},
	}
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	handler := NewRequirementsHandler(extractor, classification, store, userID, testMaxUploadBytes, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Upload(rec, newUploadRequest(t, "pdf", "srs.pdf", []byte("%PDF-1.4")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// Classification runs before any persistence.
	docs, err := store.Documents.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRequirementsHandler_ListDocuments_OwnOnly(t *testing.T) {
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	otherID := uuid.New()

	ctx := context.Background()
	for i, owner := range []uuid.UUID{userID, otherID, userID} {
		owner := owner
		doc := &models.Document{UserID: &owner, Filename: fmt.Sprintf("doc-%d.pdf", i)}
		require.NoError(t, store.Documents.Create(ctx, doc))
	}

	handler := NewRequirementsHandler(nil, nil, store, userID, testMaxUploadBytes, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	handler.ListDocuments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "doc-0.pdf", resp.Documents[0].Filename)
	assert.Equal(t, "doc-2.pdf", resp.Documents[1].Filename)
}

func TestRequirementsHandler_ListDocumentRequirements(t *testing.T) {
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	ctx := context.Background()

	doc := &models.Document{UserID: &userID, Filename: "srs.pdf"}
	require.NoError(t, store.Documents.Create(ctx, doc))

	phases := []models.Phase{models.PhaseTesting, models.PhaseTesting, models.PhaseDesign}
	for i, phase := range phases {
		r := &models.Requirement{
			DocumentID: doc.ID,
			UserID:     &userID,
			Text:       fmt.Sprintf("requirement %d", i),
			Phase:      phase,
			Confidence: 70,
		}
		require.NoError(t, store.Requirements.Create(ctx, r))
	}

	handler := NewRequirementsHandler(nil, nil, store, userID, testMaxUploadBytes, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID.String()+"/requirements", nil)
	req.SetPathValue("id", doc.ID.String())
	rec := httptest.NewRecorder()
	handler.ListDocumentRequirements(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RequirementListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Total)
	assert.Equal(t, "requirement 0", resp.Requirements[0].Text)

	// The tally is recounted from the stored rows.
	assert.Equal(t, 2, resp.Statistics[models.PhaseTesting])
	assert.Equal(t, 1, resp.Statistics[models.PhaseDesign])
	assert.Equal(t, 0, resp.Statistics[models.PhaseRequirements])
}

func TestRequirementsHandler_ListDocumentRequirements_NotFound(t *testing.T) {
	store := repositories.NewMemoryStore()
	handler := NewRequirementsHandler(nil, nil, store, uuid.New(), testMaxUploadBytes, zap.NewNop())

	unknown := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+unknown.String()+"/requirements", nil)
	req.SetPathValue("id", unknown.String())
	rec := httptest.NewRecorder()
	handler.ListDocumentRequirements(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequirementsHandler_ListDocumentRequirements_InvalidID(t *testing.T) {
	store := repositories.NewMemoryStore()
	handler := NewRequirementsHandler(nil, nil, store, uuid.New(), testMaxUploadBytes, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/not-a-uuid/requirements", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ListDocumentRequirements(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid document ID", resp["error"])
}
