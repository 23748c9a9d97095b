package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

func TestDocumentationHandler_Summarize(t *testing.T) {
	documentation := &mockDocumentationService{
		SummarizeFunc: func(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error) {
			assert.Equal(t, models.StyleTechnical, style)
			return &services.SummaryResult{
				Overview: "A queue with bounded capacity.",
				Features: []string{"FIFO ordering", "blocking put"},
				Methods: []models.MethodDoc{
					{Name: "Put", Description: "adds an element, blocking while full"},
					{Name: "Take", Description: "removes the oldest element"},
				},
				UsageExample: "q := NewQueue(8)",
			}, nil
		},
	}
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	handler := NewDocumentationHandler(documentation, store, userID, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Summarize(rec, newJSONRequest(t, "/api/code/summarize", SummarizeRequest{Code: "type Queue struct{}"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Documentation)
	assert.Equal(t, models.StyleTechnical, resp.Documentation.Style)
	assert.Equal(t, "A queue with bounded capacity.", resp.Documentation.Overview)
	require.Len(t, resp.Documentation.Methods, 2)
	assert.Equal(t, "Put", resp.Documentation.Methods[0].Name)

	stored, err := store.Documentations.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"FIFO ordering", "blocking put"}, stored[0].Features)
}

func TestDocumentationHandler_Summarize_ExplicitStyle(t *testing.T) {
	documentation := &mockDocumentationService{
		SummarizeFunc: func(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error) {
			assert.Equal(t, models.StyleUserGuide, style)
			return &services.SummaryResult{Overview: "For end users."}, nil
		},
	}
	store := repositories.NewMemoryStore()
	handler := NewDocumentationHandler(documentation, store, uuid.New(), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Summarize(rec, newJSONRequest(t, "/api/code/summarize", SummarizeRequest{
		Code:  "type Queue struct{}",
		Style: "user-guide",
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StyleUserGuide, resp.Documentation.Style)
}

func TestDocumentationHandler_Summarize_InvalidStyle(t *testing.T) {
	handler := NewDocumentationHandler(nil, repositories.NewMemoryStore(), uuid.New(), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Summarize(rec, newJSONRequest(t, "/api/code/summarize", SummarizeRequest{
		Code:  "x",
		Style: "haiku",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "style")
}

func TestDocumentationHandler_Summarize_MissingCode(t *testing.T) {
	handler := NewDocumentationHandler(nil, repositories.NewMemoryStore(), uuid.New(), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Summarize(rec, newJSONRequest(t, "/api/code/summarize", SummarizeRequest{Style: "technical"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentationHandler_Summarize_UpstreamFailure(t *testing.T) {
	documentation := &mockDocumentationService{
		SummarizeFunc: func(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error) {
			return nil, llm.NewParseError("no JSON object in response", errors.New("unexpected end of input"))
		},
	}
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	handler := NewDocumentationHandler(documentation, store, userID, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Summarize(rec, newJSONRequest(t, "/api/code/summarize", SummarizeRequest{Code: "x"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	stored, err := store.Documentations.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestDocumentationHandler_ListDocumentations(t *testing.T) {
	store := repositories.NewMemoryStore()
	userID := uuid.New()
	ctx := context.Background()

	for _, style := range []models.DocStyle{models.StyleTechnical, models.StyleAPI} {
		doc := &models.Documentation{UserID: &userID, Style: style, Overview: "o"}
		require.NoError(t, store.Documentations.Create(ctx, doc))
	}

	handler := NewDocumentationHandler(nil, store, userID, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/documentations", nil)
	rec := httptest.NewRecorder()
	handler.ListDocumentations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, models.StyleTechnical, resp.Documentations[0].Style)
	assert.Equal(t, models.StyleAPI, resp.Documentations[1].Style)
}
