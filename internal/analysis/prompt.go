package analysis

import (
	"fmt"
	"strings"
)

// Code longer than this is truncated before prompting so local models
// don't time out on huge inputs.
const (
	maxPromptCodeLines = 200
	maxPromptCodeChars = 8000
)

// TruncateCode bounds code to the prompt limits. The returned bool reports
// whether anything was cut.
func TruncateCode(code string) (string, bool) {
	truncated := false
	lines := strings.Split(code, "\n")
	if len(lines) > maxPromptCodeLines {
		code = strings.Join(lines[:maxPromptCodeLines], "\n")
		truncated = true
	}
	if len(code) > maxPromptCodeChars {
		code = code[:maxPromptCodeChars]
		truncated = true
	}
	if truncated {
		code += "\n\n# ... (code truncated for analysis)"
	}
	return code, truncated
}

// AnalysisSystemPrompt returns the system prompt for the analyze task.
func AnalysisSystemPrompt(language string) string {
	return fmt.Sprintf("You are an expert %s code reviewer.", language)
}

// AnalysisUserPrompt builds the analyze prompt. The format contract
// (severity labels, "Line: X" references) is what Parse keys on.
func AnalysisUserPrompt(code, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s code and list specific issues in numbered format.\n\n", language)
	b.WriteString("For each issue, provide:\n")
	b.WriteString("- Severity (CRITICAL, HIGH, MEDIUM, or LOW)\n")
	b.WriteString("- Type (bug, security, performance, or style)\n")
	b.WriteString("- Line: [line number] (ALWAYS specify the line number where the issue occurs)\n")
	b.WriteString("- Description\n")
	b.WriteString("- Fix suggestion\n\n")
	fmt.Fprintf(&b, "Code with line numbers:\n```%s\n%s\n```\n\n", language, code)
	b.WriteString("IMPORTANT: Always include \"Line: X\" where X is the actual line number in the code above.\n\n")
	b.WriteString("List all issues found.")
	return b.String()
}

var optimizeFocusPrompts = map[string]string{
	"performance": "Optimize this code for maximum performance and efficiency.",
	"readability": "Refactor this code for better readability and maintainability.",
	"memory":      "Optimize this code to reduce memory usage and prevent leaks.",
}

// OptimizeSystemPrompt returns the system prompt for the optimize task.
func OptimizeSystemPrompt(language, focus string) string {
	return fmt.Sprintf("You are an expert %s developer specializing in code optimization.\nProvide optimized code that maintains functionality while improving %s.", language, focus)
}

// OptimizeUserPrompt builds the optimize prompt for the given focus
// (performance, readability, or memory; unknown focus falls back to
// performance).
func OptimizeUserPrompt(code, language, focus string) string {
	instruction, ok := optimizeFocusPrompts[focus]
	if !ok {
		instruction = optimizeFocusPrompts["performance"]
	}
	var b strings.Builder
	b.WriteString(instruction)
	fmt.Fprintf(&b, "\n\nOriginal %s code:\n```%s\n%s\n```\n\n", language, language, code)
	b.WriteString("Provide:\n1. Optimized version of the code\n2. Explanation of changes made\n3. Expected impact/improvements\n\n")
	b.WriteString("Format your response clearly with the optimized code in a code block.")
	return b.String()
}

// DocumentSystemPrompt returns the system prompt for the document task.
func DocumentSystemPrompt(language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert technical writer specializing in %s.\n", language)
	b.WriteString("Generate comprehensive documentation for the provided code including:\n")
	b.WriteString("- Clear function/class descriptions\n")
	b.WriteString("- Parameter documentation with types\n")
	b.WriteString("- Return value documentation\n")
	b.WriteString("- Usage examples\n")
	b.WriteString("- Notes about edge cases or important behavior\n\n")
	fmt.Fprintf(&b, "Follow %s documentation conventions.", language)
	return b.String()
}

// DocumentUserPrompt builds the document prompt for the given style.
func DocumentUserPrompt(code, language, style string) string {
	return fmt.Sprintf("Generate documentation for this %s code:\n\n```%s\n%s\n```\n\nProvide %s documentation following best practices.", language, language, code, style)
}

// ExplainSystemPrompt returns the system prompt for the explain task at
// the given skill level (beginner, intermediate, advanced).
func ExplainSystemPrompt(language, level string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s developer and teacher.\n", language)
	fmt.Fprintf(&b, "Explain the provided code clearly for a %s developer.\n", level)
	b.WriteString("Include:\n- What the code does (high-level)\n- How it works (step-by-step)\n- Key concepts used\n- Potential use cases\n\n")
	fmt.Fprintf(&b, "Use clear, accessible language appropriate for %s level.", level)
	return b.String()
}

// ExplainUserPrompt builds the explain prompt.
func ExplainUserPrompt(code, language, level string) string {
	return fmt.Sprintf("Explain this %s code:\n\n```%s\n%s\n```\n\nProvide a %s-level explanation.", language, language, code, level)
}

// TestsSystemPrompt returns the system prompt for the generate-tests task.
func TestsSystemPrompt(language, framework string) string {
	return fmt.Sprintf("You are an expert %s developer specializing in test-driven development.\nGenerate comprehensive unit tests using %s.", language, framework)
}

// TestsUserPrompt builds the generate-tests prompt.
func TestsUserPrompt(code, language, framework string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate comprehensive unit tests for this %s code using %s.\n\n", language, framework)
	fmt.Fprintf(&b, "Code to test:\n```%s\n%s\n```\n\n", language, code)
	b.WriteString("Generate tests that cover:\n- Happy path scenarios\n- Edge cases\n- Error conditions\n- Boundary values\n- All code paths\n\n")
	b.WriteString("Provide complete, runnable test code with:\n- Proper imports and setup\n- Clear test names\n- Assertions for expected behavior\n- Mocks/fixtures where needed\n- Comments explaining test purpose\n\n")
	b.WriteString("Format the tests in a code block.")
	return b.String()
}

// TestDataSystemPrompt returns the system prompt for the generate-data task.
func TestDataSystemPrompt() string {
	return "You are a test data generator.\nGenerate realistic, diverse test data based on the provided schema.\nEnsure data is valid and covers various edge cases."
}

// TestDataUserPrompt builds the generate-data prompt.
func TestDataUserPrompt(schema string, count int, format string) string {
	return fmt.Sprintf("Generate %d test data entries in %s format for this schema:\n\n%s\n\nMake the data realistic and diverse.", count, format, schema)
}

// SuggestTestCasesSystemPrompt returns the system prompt for suggesting
// additional test cases.
func SuggestTestCasesSystemPrompt(language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert QA engineer specializing in %s.\n", language)
	b.WriteString("Analyze the code and suggest test cases that should be added.\n")
	b.WriteString("Focus on:\n- Untested code paths\n- Edge cases\n- Error scenarios\n- Boundary conditions")
	return b.String()
}

// SuggestTestCasesUserPrompt builds the suggest-test-cases prompt,
// optionally including existing tests.
func SuggestTestCasesUserPrompt(code, language, existingTests string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s code:\n\n```%s\n%s\n```\n", language, language, code)
	if existingTests != "" {
		fmt.Fprintf(&b, "\nExisting tests:\n```%s\n%s\n```\n", language, existingTests)
	}
	b.WriteString("\nSuggest additional test cases needed for comprehensive coverage.")
	return b.String()
}

// defaultFrameworks maps languages to their conventional test framework.
var defaultFrameworks = map[string]string{
	"python":     "pytest",
	"javascript": "jest",
	"typescript": "jest",
	"java":       "junit",
	"go":         "testing",
	"rust":       "cargo test",
	"cpp":        "googletest",
	"c":          "unity",
}

// DefaultTestFramework returns the conventional framework for a language,
// falling back to pytest.
func DefaultTestFramework(language string) string {
	if fw, ok := defaultFrameworks[strings.ToLower(language)]; ok {
		return fw
	}
	return "pytest"
}
