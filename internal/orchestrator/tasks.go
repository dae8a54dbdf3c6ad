package orchestrator

import (
	"context"

	"github.com/glint-dev/glint/internal/analysis"
	"github.com/glint-dev/glint/internal/providers"
)

// Per-task temperatures. Analysis runs cold for reproducible findings;
// test generation is allowed more variety.
var (
	analyzeTemperature  = 0.1
	optimizeTemperature = 0.2
	testsTemperature    = 0.3
)

// AnalyzeResult pairs the raw generation output with the structured
// findings derived from it.
type AnalyzeResult struct {
	providers.GenerateResult
	Parsed analysis.Result
}

// AnalyzeCode runs the analyze task and parses the response into
// findings. analysisType is echoed through to the caller's response; the
// prompt itself always requests the full issue list.
func (o *Orchestrator) AnalyzeCode(ctx context.Context, code, language, analysisType string) (AnalyzeResult, error) {
	bounded, truncated := analysis.TruncateCode(code)
	if truncated {
		o.logger.Warn("code truncated for analysis", "language", language, "original_bytes", len(code))
	}

	result, err := o.Generate(ctx, providers.GenerateRequest{
		Prompt:  analysis.AnalysisUserPrompt(bounded, language),
		System:  analysis.AnalysisSystemPrompt(language),
		Options: providers.Options{Temperature: &analyzeTemperature},
	})
	if err != nil {
		return AnalyzeResult{}, err
	}

	return AnalyzeResult{
		GenerateResult: result,
		Parsed:         analysis.Parse(result.Text),
	}, nil
}

// OptimizeCode runs the optimize task for the given focus (performance,
// readability, or memory).
func (o *Orchestrator) OptimizeCode(ctx context.Context, code, language, focus string) (providers.GenerateResult, error) {
	return o.Generate(ctx, providers.GenerateRequest{
		Prompt:  analysis.OptimizeUserPrompt(code, language, focus),
		System:  analysis.OptimizeSystemPrompt(language, focus),
		Options: providers.Options{Temperature: &optimizeTemperature},
	})
}

// DocumentCode runs the document task.
func (o *Orchestrator) DocumentCode(ctx context.Context, code, language, style string) (providers.GenerateResult, error) {
	return o.Generate(ctx, providers.GenerateRequest{
		Prompt: analysis.DocumentUserPrompt(code, language, style),
		System: analysis.DocumentSystemPrompt(language),
	})
}

// ExplainCode runs the explain task at the given skill level.
func (o *Orchestrator) ExplainCode(ctx context.Context, code, language, level string) (providers.GenerateResult, error) {
	return o.Generate(ctx, providers.GenerateRequest{
		Prompt: analysis.ExplainUserPrompt(code, language, level),
		System: analysis.ExplainSystemPrompt(language, level),
	})
}

// GenerateTests runs the generate-tests task. An empty framework selects
// the language's conventional one.
func (o *Orchestrator) GenerateTests(ctx context.Context, code, language, framework string) (providers.GenerateResult, string, error) {
	if framework == "" {
		framework = analysis.DefaultTestFramework(language)
	}
	result, err := o.Generate(ctx, providers.GenerateRequest{
		Prompt:  analysis.TestsUserPrompt(code, language, framework),
		System:  analysis.TestsSystemPrompt(language, framework),
		Options: providers.Options{Temperature: &testsTemperature},
	})
	return result, framework, err
}

// GenerateTestData runs the generate-data task against a schema.
func (o *Orchestrator) GenerateTestData(ctx context.Context, schema string, count int, format string) (providers.GenerateResult, error) {
	return o.Generate(ctx, providers.GenerateRequest{
		Prompt: analysis.TestDataUserPrompt(schema, count, format),
		System: analysis.TestDataSystemPrompt(),
	})
}

// SuggestTestCases asks for missing test cases given code and optional
// existing tests.
func (o *Orchestrator) SuggestTestCases(ctx context.Context, code, language, existingTests string) (providers.GenerateResult, error) {
	return o.Generate(ctx, providers.GenerateRequest{
		Prompt: analysis.SuggestTestCasesUserPrompt(code, language, existingTests),
		System: analysis.SuggestTestCasesSystemPrompt(language),
	})
}
