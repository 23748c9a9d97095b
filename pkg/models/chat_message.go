package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage pairs a user message with the assistant's reply.
type ChatMessage struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Message   string     `json:"message"`
	Response  string     `json:"response"`
	CreatedAt time.Time  `json:"createdAt"`
}
