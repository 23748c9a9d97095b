package models

import (
	"time"

	"github.com/google/uuid"
)

// SnippetKind records how a snippet came to exist.
type SnippetKind string

const (
	SnippetGenerated SnippetKind = "generated"
	SnippetFixed     SnippetKind = "fixed"
	SnippetOriginal  SnippetKind = "original"
)

// ValidSnippetKinds contains all valid snippet kind values.
var ValidSnippetKinds = []SnippetKind{
	SnippetGenerated,
	SnippetFixed,
	SnippetOriginal,
}

// IsValidSnippetKind checks if the given kind is valid.
func IsValidSnippetKind(k SnippetKind) bool {
	for _, v := range ValidSnippetKinds {
		if v == k {
			return true
		}
	}
	return false
}

// CodeSnippet is a stored piece of code. Generation fills
// GeneratedCode; bug fixing starts from OriginalCode and attaches
// FixedCode afterwards. It is the only record kind with an in-place
// update.
type CodeSnippet struct {
	ID            uuid.UUID   `json:"id"`
	UserID        *uuid.UUID  `json:"userId,omitempty"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Language      string      `json:"language"`
	OriginalCode  string      `json:"originalCode,omitempty"`
	GeneratedCode string      `json:"generatedCode,omitempty"`
	FixedCode     string      `json:"fixedCode,omitempty"`
	Kind          SnippetKind `json:"kind"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
