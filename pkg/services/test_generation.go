package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/jsonutil"
	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/prompts"
)

// TestGenerationResult is the decoded reply of a test generation call.
// Statistics always satisfy Total == Positive + Negative; the model's
// own total is discarded when its arithmetic disagrees.
type TestGenerationResult struct {
	Code       string
	Coverage   int
	Statistics models.TestStatistics
	Defaulted  []string
}

// TestGenerationService generates test code from source code or from a
// requirements description.
type TestGenerationService interface {
	// GenerateTests produces tests for the given input using the named
	// framework. inputType says whether input is code or requirements
	// text.
	GenerateTests(ctx context.Context, input, framework string, inputType models.TestInput) (*TestGenerationResult, error)
}

type testGenerationService struct {
	client      llm.Client
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewTestGenerationService creates a test generation service backed by
// the given model client.
func NewTestGenerationService(client llm.Client, temperature float32, timeout time.Duration, logger *zap.Logger) TestGenerationService {
	return &testGenerationService{
		client:      client,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger.Named("test-generation"),
	}
}

var _ TestGenerationService = (*testGenerationService)(nil)

type testGenerationResponse struct {
	TestCode      json.RawMessage `json:"testCode"`
	Coverage      json.RawMessage `json:"coverage"`
	TotalTests    json.RawMessage `json:"totalTests"`
	PositiveTests json.RawMessage `json:"positiveTests"`
	NegativeTests json.RawMessage `json:"negativeTests"`
}

func (s *testGenerationService) GenerateTests(ctx context.Context, input, framework string, inputType models.TestInput) (*TestGenerationResult, error) {
	s.logger.Debug("Generating tests",
		zap.String("framework", framework),
		zap.String("input_type", string(inputType)),
		zap.Int("input_length", len(input)))

	callCtx, cancel := callTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Complete(callCtx, prompts.BuildTestGenerationPrompt(input, framework, inputType), prompts.TestGenerationSystemMessage(), s.temperature, true)
	if err != nil {
		return nil, err
	}

	response, err := llm.ParseJSONResponse[testGenerationResponse](reply.Content)
	if err != nil {
		s.logger.Error("Failed to parse test generation response",
			zap.String("response_preview", logging.TruncateString(reply.Content, 200)),
			zap.Error(err))
		return nil, llm.NewParseError("parse test generation response", err)
	}

	result := &TestGenerationResult{
		Code: jsonutil.FlexibleStringValue(response.TestCode),
	}
	if result.Code == "" {
		result.Defaulted = append(result.Defaulted, "testCode")
	}

	coverage, ok := jsonutil.FlexibleIntValue(response.Coverage)
	clamped := clampPercent(coverage)
	if !ok || clamped != coverage {
		result.Defaulted = append(result.Defaulted, "coverage")
	}
	result.Coverage = clamped

	positive, posDefaulted := nonNegativeCount(response.PositiveTests)
	if posDefaulted {
		result.Defaulted = append(result.Defaulted, "positiveTests")
	}
	negative, negDefaulted := nonNegativeCount(response.NegativeTests)
	if negDefaulted {
		result.Defaulted = append(result.Defaulted, "negativeTests")
	}

	// Total is recomputed rather than trusted, keeping the identity
	// total == positive + negative intact.
	total, ok := jsonutil.FlexibleIntValue(response.TotalTests)
	if !ok || total != positive+negative {
		total = positive + negative
		result.Defaulted = append(result.Defaulted, "totalTests")
	}

	result.Statistics = models.TestStatistics{
		Total:    total,
		Positive: positive,
		Negative: negative,
	}

	if len(result.Defaulted) > 0 {
		s.logger.Warn("Test generation response needed defaults",
			zap.Strings("fields", result.Defaulted))
	}

	return result, nil
}

// nonNegativeCount decodes a test count, substituting zero when the
// value is missing or negative. The second return reports whether
// substitution happened.
func nonNegativeCount(raw json.RawMessage) (int, bool) {
	v, ok := jsonutil.FlexibleIntValue(raw)
	if !ok || v < 0 {
		return 0, true
	}
	return v, false
}
