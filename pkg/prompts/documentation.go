package prompts

import (
	"fmt"
	"strings"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// styleInstructions maps each documentation style to the register the
// summary should be written in.
var styleInstructions = map[models.DocStyle]string{
	models.StyleTechnical: "Write for developers maintaining this code: architecture, data flow, invariants.",
	models.StyleUserGuide: "Write for end users: what the code does for them, in plain language, no internals.",
	models.StyleAPI:       "Write API reference documentation: signatures, parameters, return values, errors.",
	models.StyleComments:  "Write the overview as if it were a file-level doc comment, concise and factual.",
}

// SummarizeSystemMessage returns the system message for code
// summarization in the given style.
func SummarizeSystemMessage(style models.DocStyle) string {
	instruction, ok := styleInstructions[style]
	if !ok {
		instruction = styleInstructions[models.StyleTechnical]
	}

	return fmt.Sprintf(`You are a technical writer who documents source code.
%s

Respond ONLY with valid JSON. No markdown, no explanations outside the JSON.`, instruction)
}

// BuildSummarizePrompt builds the prompt for summarizing the given
// code.
func BuildSummarizePrompt(code string, style models.DocStyle) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Document the following code in the %q style.\n\n", string(style)))
	sb.WriteString("## Code\n")
	sb.WriteString(code)
	sb.WriteString("\n\n")

	sb.WriteString(`## Output Format
Respond with a JSON object:
{
  "overview": "What this code does and how",
  "features": ["Notable capability", "..."],
  "methods": [
    {"name": "methodName", "description": "What it does"}
  ],
  "usageExample": "A short example showing how to use the code"
}`)

	return sb.String()
}
