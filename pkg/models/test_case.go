package models

import (
	"time"

	"github.com/google/uuid"
)

// TestInput says what kind of text tests were generated from.
type TestInput string

const (
	TestInputCode         TestInput = "code"
	TestInputRequirements TestInput = "requirements"
)

// IsValidTestInput checks if the given input kind is valid.
func IsValidTestInput(t TestInput) bool {
	return t == TestInputCode || t == TestInputRequirements
}

// TestCase holds generated test code for a piece of source code or a
// requirements description.
type TestCase struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	SnippetID *uuid.UUID `json:"snippetId,omitempty"`
	Framework string     `json:"framework"`
	InputType TestInput  `json:"inputType"`
	Code      string     `json:"code"`
	Coverage  int        `json:"coverage"`
	Total     int        `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TestStatistics is the tally returned alongside a generated test
// case. Total is recomputed as Positive+Negative when the model's own
// arithmetic disagrees, so the identity always holds.
type TestStatistics struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}
