package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/jsonutil"
	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/prompts"
)

// ClassifiedRequirement is one classified sentence as decoded from the
// model, before persistence assigns identifiers.
type ClassifiedRequirement struct {
	Text       string
	Phase      models.Phase
	Confidence int
	UserStory  string
}

// ClassificationResult carries the decoded requirements, a phase tally
// counted locally, and the names of response fields that were
// substituted with defaults.
type ClassificationResult struct {
	Requirements []ClassifiedRequirement
	Statistics   models.PhaseTally
	Defaulted    []string
}

// ClassificationService splits free-form requirements text into
// sentences classified by SDLC phase.
type ClassificationService interface {
	// ClassifyRequirements classifies the given document text. The
	// returned statistics are recounted from the decoded requirements,
	// never taken from the model's own report.
	ClassifyRequirements(ctx context.Context, text string) (*ClassificationResult, error)
}

type classificationService struct {
	client      llm.Client
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClassificationService creates a classification service backed by
// the given model client.
func NewClassificationService(client llm.Client, temperature float32, timeout time.Duration, logger *zap.Logger) ClassificationService {
	return &classificationService{
		client:      client,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger.Named("classification"),
	}
}

var _ ClassificationService = (*classificationService)(nil)

// classificationResponse mirrors the wire shape. Fields stay raw so
// decoding can coerce whatever the model actually sent.
type classificationResponse struct {
	Requirements json.RawMessage `json:"requirements"`
}

type classificationItem struct {
	Text       json.RawMessage `json:"text"`
	Phase      json.RawMessage `json:"phase"`
	Confidence json.RawMessage `json:"confidence"`
	UserStory  json.RawMessage `json:"userStory"`
}

func (s *classificationService) ClassifyRequirements(ctx context.Context, text string) (*ClassificationResult, error) {
	s.logger.Debug("Classifying requirements", zap.Int("text_length", len(text)))

	callCtx, cancel := callTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Complete(callCtx, prompts.BuildClassificationPrompt(text), prompts.ClassificationSystemMessage(), s.temperature, true)
	if err != nil {
		return nil, err
	}

	response, err := llm.ParseJSONResponse[classificationResponse](reply.Content)
	if err != nil {
		s.logger.Error("Failed to parse classification response",
			zap.String("response_preview", logging.TruncateString(reply.Content, 200)),
			zap.Error(err))
		return nil, llm.NewParseError("parse classification response", err)
	}

	result := &ClassificationResult{}

	var items []classificationItem
	if len(response.Requirements) > 0 && string(response.Requirements) != "null" {
		if err := json.Unmarshal(response.Requirements, &items); err != nil {
			items = nil
		}
	}
	if items == nil {
		result.Defaulted = append(result.Defaulted, "requirements")
	}

	for i, item := range items {
		reqText := jsonutil.FlexibleStringValue(item.Text)
		if reqText == "" {
			s.logger.Warn("Skipping requirement without text", zap.Int("index", i))
			continue
		}

		req := ClassifiedRequirement{
			Text:      reqText,
			UserStory: jsonutil.FlexibleStringValue(item.UserStory),
		}

		phase, ok := models.NormalizePhase(jsonutil.FlexibleStringValue(item.Phase))
		if !ok {
			phase = models.PhaseDevelopment
			result.Defaulted = append(result.Defaulted, fmt.Sprintf("requirements[%d].phase", i))
		}
		req.Phase = phase

		confidence, ok := jsonutil.FlexibleIntValue(item.Confidence)
		clamped := clampPercent(confidence)
		if !ok || clamped != confidence {
			result.Defaulted = append(result.Defaulted, fmt.Sprintf("requirements[%d].confidence", i))
		}
		req.Confidence = clamped

		result.Requirements = append(result.Requirements, req)
	}

	result.Statistics = tallyClassified(result.Requirements)

	if len(result.Defaulted) > 0 {
		s.logger.Warn("Classification response needed defaults",
			zap.Strings("fields", result.Defaulted))
	}
	s.logger.Debug("Classification complete",
		zap.Int("requirement_count", len(result.Requirements)))

	return result, nil
}

// tallyClassified recounts phases locally so reported statistics can
// never drift from the requirements actually returned.
func tallyClassified(reqs []ClassifiedRequirement) models.PhaseTally {
	tally := make(models.PhaseTally, len(models.ValidPhases))
	for _, p := range models.ValidPhases {
		tally[p] = 0
	}
	for _, r := range reqs {
		tally[r.Phase]++
	}
	return tally
}
