package handlers

import (
	"context"

	"github.com/codeloom-ai/codeloom-engine/pkg/extract"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// Function-field mocks for the extraction and orchestration services.
// Handler tests configure only the call they expect.

type mockExtractor struct {
	ExtractFunc func(content []byte) (*extract.Result, error)
}

func (m *mockExtractor) Extract(content []byte) (*extract.Result, error) {
	return m.ExtractFunc(content)
}

var _ extract.Extractor = (*mockExtractor)(nil)

type mockClassificationService struct {
	ClassifyFunc func(ctx context.Context, text string) (*services.ClassificationResult, error)
}

func (m *mockClassificationService) ClassifyRequirements(ctx context.Context, text string) (*services.ClassificationResult, error) {
	return m.ClassifyFunc(ctx, text)
}

var _ services.ClassificationService = (*mockClassificationService)(nil)

type mockCodeGenerationService struct {
	GenerateFunc func(ctx context.Context, description, language, framework string) (*services.CodeGenerationResult, error)
	FixFunc      func(ctx context.Context, code, language string) (*services.BugFixResult, error)
}

func (m *mockCodeGenerationService) GenerateCode(ctx context.Context, description, language, framework string) (*services.CodeGenerationResult, error) {
	return m.GenerateFunc(ctx, description, language, framework)
}

func (m *mockCodeGenerationService) FixCode(ctx context.Context, code, language string) (*services.BugFixResult, error) {
	return m.FixFunc(ctx, code, language)
}

var _ services.CodeGenerationService = (*mockCodeGenerationService)(nil)

type mockTestGenerationService struct {
	GenerateFunc func(ctx context.Context, input, framework string, inputType models.TestInput) (*services.TestGenerationResult, error)
}

func (m *mockTestGenerationService) GenerateTests(ctx context.Context, input, framework string, inputType models.TestInput) (*services.TestGenerationResult, error) {
	return m.GenerateFunc(ctx, input, framework, inputType)
}

var _ services.TestGenerationService = (*mockTestGenerationService)(nil)

type mockDocumentationService struct {
	SummarizeFunc func(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error)
}

func (m *mockDocumentationService) SummarizeCode(ctx context.Context, code string, style models.DocStyle) (*services.SummaryResult, error) {
	return m.SummarizeFunc(ctx, code, style)
}

var _ services.DocumentationService = (*mockDocumentationService)(nil)

type mockChatService struct {
	ChatFunc func(ctx context.Context, message string) (string, error)
}

func (m *mockChatService) Chat(ctx context.Context, message string) (string, error) {
	return m.ChatFunc(ctx, message)
}

var _ services.ChatService = (*mockChatService)(nil)
