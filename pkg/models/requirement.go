package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase is an SDLC classification label assigned to a requirement
// sentence.
type Phase string

const (
	PhaseRequirements Phase = "Requirements"
	PhaseDesign       Phase = "Design"
	PhaseDevelopment  Phase = "Development"
	PhaseTesting      Phase = "Testing"
	PhaseDeployment   Phase = "Deployment"
)

// ValidPhases contains all valid phase values.
var ValidPhases = []Phase{
	PhaseRequirements,
	PhaseDesign,
	PhaseDevelopment,
	PhaseTesting,
	PhaseDeployment,
}

// IsValidPhase checks if the given phase is valid.
func IsValidPhase(p Phase) bool {
	for _, v := range ValidPhases {
		if v == p {
			return true
		}
	}
	return false
}

// NormalizePhase maps a free-form label to its canonical phase,
// ignoring case and surrounding whitespace. The second return value
// reports whether the label matched a known phase.
func NormalizePhase(label string) (Phase, bool) {
	trimmed := strings.TrimSpace(label)
	for _, v := range ValidPhases {
		if strings.EqualFold(trimmed, string(v)) {
			return v, true
		}
	}
	return "", false
}

// Requirement is a single classified sentence extracted from a
// requirements document.
type Requirement struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"documentId"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	Text       string     `json:"text"`
	Phase      Phase      `json:"phase"`
	Confidence int        `json:"confidence"`
	UserStory  string     `json:"userStory,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PhaseTally counts requirements per phase. Every valid phase is
// present as a key so the serialized form is stable.
type PhaseTally map[Phase]int

// TallyByPhase recounts requirements locally instead of trusting any
// statistics the model reports alongside them.
func TallyByPhase(reqs []*Requirement) PhaseTally {
	tally := make(PhaseTally, len(ValidPhases))
	for _, p := range ValidPhases {
		tally[p] = 0
	}
	for _, r := range reqs {
		tally[r.Phase]++
	}
	return tally
}
