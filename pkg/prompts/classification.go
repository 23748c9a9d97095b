// Package prompts builds the deterministic prompt templates for every
// orchestration operation. Each builder states the task, embeds the
// user's input verbatim, and pins the exact output schema so responses
// can be decoded without guessing.
package prompts

import (
	"fmt"
	"strings"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// ClassificationSystemMessage returns the system message for
// requirement classification.
func ClassificationSystemMessage() string {
	return `You are a requirements engineering expert who classifies software requirements by SDLC phase.
Given the text of a requirements document, you split it into individual requirement sentences and classify each one.

For every requirement you must provide:
- text: the original sentence, unchanged
- phase: exactly one of "Requirements", "Design", "Development", "Testing", "Deployment"
- confidence: an integer from 0 to 100 expressing how certain the classification is
- userStory: the requirement rephrased as a user story ("As a <role>, I want <goal> so that <benefit>")

Ignore headings, page numbers, and boilerplate. Respond ONLY with valid JSON. No markdown, no explanations.`
}

// BuildClassificationPrompt builds the prompt for classifying a
// document's requirements.
func BuildClassificationPrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("Classify every requirement in the following document text by SDLC phase.\n\n")
	sb.WriteString("## Document Text\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")

	sb.WriteString("## Valid Phases\n")
	for _, p := range models.ValidPhases {
		sb.WriteString(fmt.Sprintf("- %s\n", p))
	}
	sb.WriteString("\n")

	sb.WriteString(`## Output Format
Respond with a JSON object containing the classified requirements:
{
  "requirements": [
    {
      "text": "The original requirement sentence",
      "phase": "Requirements" | "Design" | "Development" | "Testing" | "Deployment",
      "confidence": 85,
      "userStory": "As a user, I want ... so that ..."
    }
  ]
}`)

	return sb.String()
}
