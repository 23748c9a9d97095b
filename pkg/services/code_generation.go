package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/jsonutil"
	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/prompts"
)

// CodeGenerationResult is the decoded reply of a generation call.
type CodeGenerationResult struct {
	Code        string
	Suggestions []string
	Defaulted   []string
}

// BugFixResult is the decoded reply of a bug-fix call. FixedCode is
// never empty: when the model omits it the submitted code is returned
// unchanged.
type BugFixResult struct {
	FixedCode     string
	Issues        []string
	Optimizations []string
	Defaulted     []string
}

// CodeGenerationService generates new code from a description and
// repairs code the user reports as buggy.
type CodeGenerationService interface {
	// GenerateCode produces code matching the description in the given
	// language, plus improvement suggestions.
	GenerateCode(ctx context.Context, description, language, framework string) (*CodeGenerationResult, error)

	// FixCode analyzes the given code and returns a corrected version
	// along with the issues found and possible optimizations.
	FixCode(ctx context.Context, code, language string) (*BugFixResult, error)
}

type codeGenerationService struct {
	client      llm.Client
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewCodeGenerationService creates a code generation service backed by
// the given model client.
func NewCodeGenerationService(client llm.Client, temperature float32, timeout time.Duration, logger *zap.Logger) CodeGenerationService {
	return &codeGenerationService{
		client:      client,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger.Named("code-generation"),
	}
}

var _ CodeGenerationService = (*codeGenerationService)(nil)

type codeGenerationResponse struct {
	Code        json.RawMessage `json:"code"`
	Suggestions json.RawMessage `json:"suggestions"`
}

type bugFixResponse struct {
	FixedCode     json.RawMessage `json:"fixedCode"`
	Issues        json.RawMessage `json:"issues"`
	Optimizations json.RawMessage `json:"optimizations"`
}

func (s *codeGenerationService) GenerateCode(ctx context.Context, description, language, framework string) (*CodeGenerationResult, error) {
	s.logger.Debug("Generating code",
		zap.String("language", language),
		zap.Int("description_length", len(description)))

	callCtx, cancel := callTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Complete(callCtx, prompts.BuildCodeGenerationPrompt(description, language, framework), prompts.CodeGenerationSystemMessage(), s.temperature, true)
	if err != nil {
		return nil, err
	}

	response, err := llm.ParseJSONResponse[codeGenerationResponse](reply.Content)
	if err != nil {
		s.logger.Error("Failed to parse code generation response",
			zap.String("response_preview", logging.TruncateString(reply.Content, 200)),
			zap.Error(err))
		return nil, llm.NewParseError("parse code generation response", err)
	}

	result := &CodeGenerationResult{
		Code:        jsonutil.FlexibleStringValue(response.Code),
		Suggestions: jsonutil.FlexibleStringSlice(response.Suggestions),
	}
	if result.Code == "" {
		result.Defaulted = append(result.Defaulted, "code")
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
		result.Defaulted = append(result.Defaulted, "suggestions")
	}

	if len(result.Defaulted) > 0 {
		s.logger.Warn("Code generation response needed defaults",
			zap.Strings("fields", result.Defaulted))
	}

	return result, nil
}

func (s *codeGenerationService) FixCode(ctx context.Context, code, language string) (*BugFixResult, error) {
	s.logger.Debug("Fixing code",
		zap.String("language", language),
		zap.Int("code_length", len(code)))

	callCtx, cancel := callTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Complete(callCtx, prompts.BuildBugFixPrompt(code, language), prompts.BugFixSystemMessage(), s.temperature, true)
	if err != nil {
		return nil, err
	}

	response, err := llm.ParseJSONResponse[bugFixResponse](reply.Content)
	if err != nil {
		s.logger.Error("Failed to parse bug fix response",
			zap.String("response_preview", logging.TruncateString(reply.Content, 200)),
			zap.Error(err))
		return nil, llm.NewParseError("parse bug fix response", err)
	}

	result := &BugFixResult{
		FixedCode:     jsonutil.FlexibleStringValue(response.FixedCode),
		Issues:        jsonutil.FlexibleStringSlice(response.Issues),
		Optimizations: jsonutil.FlexibleStringSlice(response.Optimizations),
	}
	if result.FixedCode == "" {
		// The caller always gets code back, worst case their own.
		result.FixedCode = code
		result.Defaulted = append(result.Defaulted, "fixedCode")
	}
	if result.Issues == nil {
		result.Issues = []string{}
		result.Defaulted = append(result.Defaulted, "issues")
	}
	if result.Optimizations == nil {
		result.Optimizations = []string{}
		result.Defaulted = append(result.Defaulted, "optimizations")
	}

	if len(result.Defaulted) > 0 {
		s.logger.Warn("Bug fix response needed defaults",
			zap.Strings("fields", result.Defaulted))
	}

	return result, nil
}
