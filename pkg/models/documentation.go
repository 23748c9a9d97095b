package models

import (
	"time"

	"github.com/google/uuid"
)

// DocStyle selects the register generated documentation is written in.
type DocStyle string

const (
	StyleTechnical DocStyle = "technical"
	StyleUserGuide DocStyle = "user-guide"
	StyleAPI       DocStyle = "api"
	StyleComments  DocStyle = "comments"
)

// ValidDocStyles contains all valid documentation style values.
var ValidDocStyles = []DocStyle{
	StyleTechnical,
	StyleUserGuide,
	StyleAPI,
	StyleComments,
}

// IsValidDocStyle checks if the given style is valid.
func IsValidDocStyle(s DocStyle) bool {
	for _, v := range ValidDocStyles {
		if v == s {
			return true
		}
	}
	return false
}

// MethodDoc describes one method in a code summary.
type MethodDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Documentation is a generated summary of a piece of code.
type Documentation struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *uuid.UUID  `json:"userId,omitempty"`
	SnippetID    *uuid.UUID  `json:"snippetId,omitempty"`
	Style        DocStyle    `json:"style"`
	Overview     string      `json:"overview,omitempty"`
	Features     []string    `json:"features"`
	Methods      []MethodDoc `json:"methods"`
	UsageExample string      `json:"usageExample,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}
