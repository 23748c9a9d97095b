// assess-prompts exercises the engine's prompt contracts against a live
// model using ONLY deterministic checks (no LLM-as-judge).
//
// For each scenario it builds the same prompt the service layer builds,
// sends it to the configured model, extracts the JSON reply, and checks
// structure:
// - Structural validity: Is JSON parseable and well-formed?
// - Schema compliance: Are the contract's fields present and typed right?
// - Value validation: Are enum values valid? Percentages 0-100?
// - Arithmetic consistency: Does totalTests equal positive+negative?
//
// Usage: go run ./scripts/assess-prompts [-scenarios path] [-timeout 120s]
//
// Model configuration: Uses the engine's AI_* environment variables
// (AI_PROVIDER, AI_BASE_URL, AI_MODEL, AI_API_KEY).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/prompts"
)

// Scenario is one prompt-contract exercise loaded from the YAML file.
type Scenario struct {
	Name        string `yaml:"name"`
	Operation   string `yaml:"operation"`
	Text        string `yaml:"text,omitempty"`
	Description string `yaml:"description,omitempty"`
	Code        string `yaml:"code,omitempty"`
	Language    string `yaml:"language,omitempty"`
	Framework   string `yaml:"framework,omitempty"`
	InputType   string `yaml:"input_type,omitempty"`
	Style       string `yaml:"style,omitempty"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Result records one scenario's outcome.
type Result struct {
	Name       string
	Success    bool
	Failures   []string
	DurationMs int64
	TokensUsed int
}

func main() {
	scenariosPath := flag.String("scenarios", "scripts/assess-prompts/scenarios.yaml", "Path to the scenarios YAML file")
	timeout := flag.Duration("timeout", 120*time.Second, "Timeout for each model call")
	flag.Parse()

	scenarios, err := loadScenarios(*scenariosPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenarios: %v\n", err)
		os.Exit(1)
	}

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, _ := logConfig.Build()
	defer logger.Sync()

	client, err := llm.NewClient(&llm.Config{
		Provider: os.Getenv("AI_PROVIDER"),
		BaseURL:  os.Getenv("AI_BASE_URL"),
		Model:    modelFromEnv(),
		APIKey:   os.Getenv("AI_API_KEY"),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("Prompt Contract Assessment")
	fmt.Printf("Model: %s (%s), %d scenarios\n", client.GetModel(), client.GetProvider(), len(scenarios))
	fmt.Println(strings.Repeat("=", 80))

	ctx := context.Background()

	var results []Result
	for _, scenario := range scenarios {
		fmt.Printf("\n%s\n", strings.Repeat("-", 80))
		fmt.Printf("Scenario: %s (%s)\n", scenario.Name, scenario.Operation)
		fmt.Printf("%s\n", strings.Repeat("-", 80))

		result := runScenario(ctx, client, scenario, *timeout)
		results = append(results, result)
		printResult(result)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 80))
	fmt.Println("SUMMARY")
	fmt.Printf("%s\n\n", strings.Repeat("=", 80))

	allPassed := true
	for _, result := range results {
		status := "✓ PASS"
		if !result.Success {
			status = "✗ FAIL"
			allPassed = false
		}
		fmt.Printf("%s: %s (%dms, %d tokens)\n", status, result.Name, result.DurationMs, result.TokensUsed)
		for _, failure := range result.Failures {
			fmt.Printf("    - %s\n", failure)
		}
	}

	if allPassed {
		fmt.Println("\nAll scenarios passed!")
		os.Exit(0)
	}
	fmt.Println("\nSome scenarios failed.")
	os.Exit(1)
}

func loadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", path)
	}
	return file.Scenarios, nil
}

func modelFromEnv() string {
	if model := os.Getenv("AI_MODEL"); model != "" {
		return model
	}
	return "gpt-4o-mini"
}

func runScenario(ctx context.Context, client llm.Client, scenario Scenario, timeout time.Duration) Result {
	result := Result{Name: scenario.Name}

	prompt, system, err := buildPrompt(scenario)
	if err != nil {
		result.Failures = append(result.Failures, err.Error())
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := client.Complete(callCtx, prompt, system, 0.0, true)
	result.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Failures = append(result.Failures, fmt.Sprintf("model call failed: %v", err))
		return result
	}
	result.TokensUsed = reply.TotalTokens

	jsonStr, err := llm.ExtractJSON(reply.Content)
	if err != nil {
		result.Failures = append(result.Failures, fmt.Sprintf("JSON extraction failed: %v", err))
		return result
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		result.Failures = append(result.Failures, fmt.Sprintf("JSON parse failed: %v", err))
		return result
	}

	result.Failures = checkResponse(scenario.Operation, parsed)
	result.Success = len(result.Failures) == 0
	return result
}

func buildPrompt(scenario Scenario) (prompt, system string, err error) {
	switch scenario.Operation {
	case "classify_requirements":
		return prompts.BuildClassificationPrompt(scenario.Text), prompts.ClassificationSystemMessage(), nil
	case "generate_code":
		return prompts.BuildCodeGenerationPrompt(scenario.Description, scenario.Language, scenario.Framework),
			prompts.CodeGenerationSystemMessage(), nil
	case "fix_code":
		return prompts.BuildBugFixPrompt(scenario.Code, scenario.Language), prompts.BugFixSystemMessage(), nil
	case "generate_tests":
		inputType := models.TestInput(scenario.InputType)
		if scenario.InputType == "" {
			inputType = models.TestInputCode
		}
		return prompts.BuildTestGenerationPrompt(scenario.Code, scenario.Framework, inputType),
			prompts.TestGenerationSystemMessage(), nil
	case "summarize_code":
		style := models.DocStyle(scenario.Style)
		if scenario.Style == "" {
			style = models.StyleTechnical
		}
		return prompts.BuildSummarizePrompt(scenario.Code, style), prompts.SummarizeSystemMessage(style), nil
	default:
		return "", "", fmt.Errorf("unknown operation %q", scenario.Operation)
	}
}

// checkResponse runs the deterministic checks for the operation's
// output contract and returns every violation found.
func checkResponse(operation string, parsed map[string]interface{}) []string {
	switch operation {
	case "classify_requirements":
		return checkClassification(parsed)
	case "generate_code":
		return checkGeneration(parsed)
	case "fix_code":
		return checkBugFix(parsed)
	case "generate_tests":
		return checkTestGeneration(parsed)
	case "summarize_code":
		return checkSummary(parsed)
	}
	return []string{fmt.Sprintf("unknown operation %q", operation)}
}

func checkClassification(parsed map[string]interface{}) []string {
	var failures []string

	requirements, ok := parsed["requirements"].([]interface{})
	if !ok {
		return append(failures, "requirements: missing or not an array")
	}
	if len(requirements) == 0 {
		failures = append(failures, "requirements: empty array")
	}

	for i, raw := range requirements {
		item, ok := raw.(map[string]interface{})
		if !ok {
			failures = append(failures, fmt.Sprintf("requirements[%d]: not an object", i))
			continue
		}
		if text, _ := item["text"].(string); text == "" {
			failures = append(failures, fmt.Sprintf("requirements[%d].text: missing or empty", i))
		}
		phase, _ := item["phase"].(string)
		if _, ok := models.NormalizePhase(phase); !ok {
			failures = append(failures, fmt.Sprintf("requirements[%d].phase: invalid value %q", i, phase))
		}
		if confidence, ok := item["confidence"].(float64); !ok || confidence < 0 || confidence > 100 {
			failures = append(failures, fmt.Sprintf("requirements[%d].confidence: out of range", i))
		}
	}
	return failures
}

func checkGeneration(parsed map[string]interface{}) []string {
	var failures []string
	if code, _ := parsed["code"].(string); code == "" {
		failures = append(failures, "code: missing or empty")
	}
	if _, ok := parsed["suggestions"].([]interface{}); !ok {
		failures = append(failures, "suggestions: missing or not an array")
	}
	return failures
}

func checkBugFix(parsed map[string]interface{}) []string {
	var failures []string
	if code, _ := parsed["fixedCode"].(string); code == "" {
		failures = append(failures, "fixedCode: missing or empty")
	}
	if _, ok := parsed["issues"].([]interface{}); !ok {
		failures = append(failures, "issues: missing or not an array")
	}
	if _, ok := parsed["optimizations"].([]interface{}); !ok {
		failures = append(failures, "optimizations: missing or not an array")
	}
	return failures
}

func checkTestGeneration(parsed map[string]interface{}) []string {
	var failures []string
	if code, _ := parsed["testCode"].(string); code == "" {
		failures = append(failures, "testCode: missing or empty")
	}
	if coverage, ok := parsed["coverage"].(float64); !ok || coverage < 0 || coverage > 100 {
		failures = append(failures, "coverage: missing or out of range")
	}

	total, totalOK := parsed["totalTests"].(float64)
	positive, positiveOK := parsed["positiveTests"].(float64)
	negative, negativeOK := parsed["negativeTests"].(float64)
	if !totalOK || !positiveOK || !negativeOK {
		failures = append(failures, "test statistics: missing totalTests/positiveTests/negativeTests")
	} else if total != positive+negative {
		failures = append(failures, fmt.Sprintf("test statistics: totalTests=%v but positive+negative=%v", total, positive+negative))
	}
	return failures
}

func checkSummary(parsed map[string]interface{}) []string {
	var failures []string
	if overview, _ := parsed["overview"].(string); overview == "" {
		failures = append(failures, "overview: missing or empty")
	}
	if _, ok := parsed["features"].([]interface{}); !ok {
		failures = append(failures, "features: missing or not an array")
	}

	methods, ok := parsed["methods"].([]interface{})
	if !ok {
		failures = append(failures, "methods: missing or not an array")
		return failures
	}
	for i, raw := range methods {
		method, ok := raw.(map[string]interface{})
		if !ok {
			failures = append(failures, fmt.Sprintf("methods[%d]: not an object", i))
			continue
		}
		if name, _ := method["name"].(string); name == "" {
			failures = append(failures, fmt.Sprintf("methods[%d].name: missing or empty", i))
		}
	}
	return failures
}

func printResult(result Result) {
	if result.Success {
		fmt.Println("Status: ✓ PASS")
		return
	}
	fmt.Println("Status: ✗ FAIL")
	for _, failure := range result.Failures {
		fmt.Printf("  - %s\n", failure)
	}
}
