package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/prompts"
)

// ChatService answers free-form developer questions. Replies are plain
// text; no structured decoding or defaults apply.
type ChatService interface {
	// Chat returns the assistant's reply to the given message.
	Chat(ctx context.Context, message string) (string, error)
}

type chatService struct {
	client      llm.Client
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewChatService creates a chat service backed by the given model
// client.
func NewChatService(client llm.Client, temperature float32, timeout time.Duration, logger *zap.Logger) ChatService {
	return &chatService{
		client:      client,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger.Named("chat"),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) Chat(ctx context.Context, message string) (string, error) {
	s.logger.Debug("Handling chat message", zap.Int("message_length", len(message)))

	callCtx, cancel := callTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Complete(callCtx, message, prompts.ChatSystemMessage(), s.temperature, false)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply.Content), nil
}
