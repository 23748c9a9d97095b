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

// GenerateTestsRequest is the body of POST /api/tests/generate.
// InputType says whether code holds source code or requirements text;
// it defaults to "code".
type GenerateTestsRequest struct {
	Code      string `json:"code"`
	Framework string `json:"framework"`
	InputType string `json:"inputType"`
}

// GenerateTestsResponse is the reply of POST /api/tests/generate.
type GenerateTestsResponse struct {
	TestCase   *models.TestCase      `json:"testCase"`
	Statistics models.TestStatistics `json:"statistics"`
}

// TestCaseListResponse is the reply of GET /api/test-cases.
type TestCaseListResponse struct {
	TestCases []*models.TestCase `json:"testCases"`
	Total     int                `json:"total"`
}

// TestsHandler handles test generation and the test case listing
// endpoint.
type TestsHandler struct {
	generation services.TestGenerationService
	store      *repositories.Store
	userID     uuid.UUID
	logger     *zap.Logger
}

// NewTestsHandler creates a tests handler acting as the given user.
func NewTestsHandler(generation services.TestGenerationService, store *repositories.Store, userID uuid.UUID, logger *zap.Logger) *TestsHandler {
	return &TestsHandler{
		generation: generation,
		store:      store,
		userID:     userID,
		logger:     logger,
	}
}

// RegisterRoutes registers the test routes on the given mux.
func (h *TestsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tests/generate", h.Generate)
	mux.HandleFunc("GET /api/test-cases", h.ListTestCases)
}

// Generate handles POST /api/tests/generate.
func (h *TestsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateTestsRequest
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

	inputType := models.TestInputCode
	if req.InputType != "" {
		inputType = models.TestInput(req.InputType)
		if !models.IsValidTestInput(inputType) {
			msg := fmt.Sprintf("inputType must be %q or %q", models.TestInputCode, models.TestInputRequirements)
			if err := ErrorResponse(w, http.StatusBadRequest, msg); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	result, err := h.generation.GenerateTests(r.Context(), req.Code, req.Framework, inputType)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	testCase := &models.TestCase{
		UserID:    &h.userID,
		Framework: req.Framework,
		InputType: inputType,
		Code:      result.Code,
		Coverage:  result.Coverage,
		Total:     result.Statistics.Total,
	}
	if err := h.store.TestCases.Create(r.Context(), testCase); err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := GenerateTestsResponse{
		TestCase:   testCase,
		Statistics: result.Statistics,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListTestCases handles GET /api/test-cases.
func (h *TestsHandler) ListTestCases(w http.ResponseWriter, r *http.Request) {
	testCases, err := h.store.TestCases.ListByUser(r.Context(), h.userID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err)
		return
	}

	response := TestCaseListResponse{TestCases: testCases, Total: len(testCases)}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
