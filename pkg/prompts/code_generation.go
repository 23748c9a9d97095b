package prompts

import (
	"fmt"
	"strings"
)

// CodeGenerationSystemMessage returns the system message for code
// generation from a natural-language description.
func CodeGenerationSystemMessage() string {
	return `You are an expert software developer who writes clean, idiomatic, production-quality code.
You generate complete, runnable code from a natural-language description, following the conventions
of the requested language and framework.

Respond ONLY with valid JSON. No markdown, no explanations outside the JSON.`
}

// BuildCodeGenerationPrompt builds the prompt for generating code from
// a description. Language and framework are optional refinements.
func BuildCodeGenerationPrompt(description, language, framework string) string {
	var sb strings.Builder

	sb.WriteString("Generate code for the following task.\n\n")
	sb.WriteString("## Task Description\n")
	sb.WriteString(description)
	sb.WriteString("\n\n")

	if language != "" {
		sb.WriteString(fmt.Sprintf("## Language\n%s\n\n", language))
	}
	if framework != "" {
		sb.WriteString(fmt.Sprintf("## Framework\n%s\n\n", framework))
	}

	sb.WriteString(`## Output Format
Respond with a JSON object:
{
  "code": "The complete generated code",
  "suggestions": ["Improvement or usage suggestion", "..."]
}`)

	return sb.String()
}

// BugFixSystemMessage returns the system message for bug fixing.
func BugFixSystemMessage() string {
	return `You are an expert code reviewer who finds and fixes bugs.
Given a piece of code, you identify defects, return a corrected version, and point out
optimization opportunities. Preserve the author's style and intent; change only what is broken.

Respond ONLY with valid JSON. No markdown, no explanations outside the JSON.`
}

// BuildBugFixPrompt builds the prompt for fixing bugs in the given
// code. The original code is embedded verbatim.
func BuildBugFixPrompt(code, language string) string {
	var sb strings.Builder

	sb.WriteString("Find and fix the bugs in the following code.\n\n")
	if language != "" {
		sb.WriteString(fmt.Sprintf("## Language\n%s\n\n", language))
	}
	sb.WriteString("## Code\n")
	sb.WriteString(code)
	sb.WriteString("\n\n")

	sb.WriteString(`## Output Format
Respond with a JSON object:
{
  "fixedCode": "The corrected code",
  "issues": ["Description of each bug found", "..."],
  "optimizations": ["Optimization opportunity", "..."]
}`)

	return sb.String()
}
