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

// SummaryResult is the decoded reply of a summarization call.
type SummaryResult struct {
	Overview     string
	Features     []string
	Methods      []models.MethodDoc
	UsageExample string
	Defaulted    []string
}

// DocumentationService summarizes code into structured documentation.
type DocumentationService interface {
	// SummarizeCode documents the given code in the requested style.
	SummarizeCode(ctx context.Context, code string, style models.DocStyle) (*SummaryResult, error)
}

type documentationService struct {
	client      llm.Client
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewDocumentationService creates a documentation service backed by the
// given model client.
func NewDocumentationService(client llm.Client, temperature float32, timeout time.Duration, logger *zap.Logger) DocumentationService {
	return &documentationService{
		client:      client,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger.Named("documentation"),
	}
}

var _ DocumentationService = (*documentationService)(nil)

type summaryResponse struct {
	Overview     json.RawMessage `json:"overview"`
	Features     json.RawMessage `json:"features"`
	Methods      json.RawMessage `json:"methods"`
	UsageExample json.RawMessage `json:"usageExample"`
}

func (s *documentationService) SummarizeCode(ctx context.Context, code string, style models.DocStyle) (*SummaryResult, error) {
	s.logger.Debug("Summarizing code",
		zap.String("style", string(style)),
		zap.Int("code_length", len(code)))

	callCtx, cancel := callTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Complete(callCtx, prompts.BuildSummarizePrompt(code, style), prompts.SummarizeSystemMessage(style), s.temperature, true)
	if err != nil {
		return nil, err
	}

	response, err := llm.ParseJSONResponse[summaryResponse](reply.Content)
	if err != nil {
		s.logger.Error("Failed to parse summary response",
			zap.String("response_preview", logging.TruncateString(reply.Content, 200)),
			zap.Error(err))
		return nil, llm.NewParseError("parse summary response", err)
	}

	result := &SummaryResult{
		Overview:     jsonutil.FlexibleStringValue(response.Overview),
		Features:     jsonutil.FlexibleStringSlice(response.Features),
		Methods:      decodeMethods(response.Methods),
		UsageExample: jsonutil.FlexibleStringValue(response.UsageExample),
	}
	if result.Overview == "" {
		result.Defaulted = append(result.Defaulted, "overview")
	}
	if result.Features == nil {
		result.Features = []string{}
		result.Defaulted = append(result.Defaulted, "features")
	}
	if result.Methods == nil {
		result.Methods = []models.MethodDoc{}
		result.Defaulted = append(result.Defaulted, "methods")
	}
	if result.UsageExample == "" {
		result.Defaulted = append(result.Defaulted, "usageExample")
	}

	if len(result.Defaulted) > 0 {
		s.logger.Warn("Summary response needed defaults",
			zap.Strings("fields", result.Defaulted))
	}

	return result, nil
}

// decodeMethods coerces the methods array, dropping entries without a
// name. Returns nil when the value is absent or not an array.
func decodeMethods(raw json.RawMessage) []models.MethodDoc {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var items []struct {
		Name        json.RawMessage `json:"name"`
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]models.MethodDoc, 0, len(items))
	for _, item := range items {
		name := jsonutil.FlexibleStringValue(item.Name)
		if name == "" {
			continue
		}
		out = append(out, models.MethodDoc{
			Name:        name,
			Description: jsonutil.FlexibleStringValue(item.Description),
		})
	}
	return out
}
