package prompts

import (
	"fmt"
	"strings"

	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// TestGenerationSystemMessage returns the system message for test
// generation.
func TestGenerationSystemMessage() string {
	return `You are an expert test engineer who writes thorough automated test suites.
You cover the happy path, edge cases, and failure modes, and you report realistic
coverage and test-count figures for the suite you produce.

Respond ONLY with valid JSON. No markdown, no explanations outside the JSON.`
}

// BuildTestGenerationPrompt builds the prompt for generating tests
// from source code or from a requirements description, selected by
// inputType.
func BuildTestGenerationPrompt(input, framework string, inputType models.TestInput) string {
	var sb strings.Builder

	if inputType == models.TestInputRequirements {
		sb.WriteString("Generate an automated test suite for the following requirements.\n\n")
		sb.WriteString("## Requirements\n")
	} else {
		sb.WriteString("Generate an automated test suite for the following code.\n\n")
		sb.WriteString("## Code\n")
	}
	sb.WriteString(input)
	sb.WriteString("\n\n")

	if framework != "" {
		sb.WriteString(fmt.Sprintf("## Test Framework\n%s\n\n", framework))
	}

	sb.WriteString(`## Output Format
Respond with a JSON object:
{
  "testCode": "The complete test suite",
  "coverage": 85,
  "totalTests": 10,
  "positiveTests": 7,
  "negativeTests": 3
}

coverage is the estimated line coverage percentage (0-100).
totalTests must equal positiveTests + negativeTests.`)

	return sb.String()
}
