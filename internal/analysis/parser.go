package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	minSectionLen     = 20
	maxMessageLen     = 1000
	maxSuggestionLen  = 1000
	maxRecommendation = 150
	minRecommendation = 10
	maxRecommendCount = 5
)

// severityRules is the ordered classification table: first match wins,
// default medium. Order matters: "critical" must be tested before "high"
// so that a section mentioning both ranks at the stronger label.
var severityRules = []struct {
	severity Severity
	pattern  *regexp.Regexp
}{
	{SeverityCritical, regexp.MustCompile(`(?i)critical|🔴`)},
	{SeverityHigh, regexp.MustCompile(`(?i)high|🟠`)},
	{SeverityMedium, regexp.MustCompile(`(?i)medium|🟡`)},
	{SeverityLow, regexp.MustCompile(`(?i)low|🔵`)},
}

// categoryRules is the ordered category table: first match wins, default
// bug. Security is tested first so "SQL injection bug" lands in security.
var categoryRules = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategorySecurity, regexp.MustCompile(`(?i)security|vulnerability|vulnerabilities|XSS|SQL injection|authentication`)},
	{CategoryBug, regexp.MustCompile(`(?i)bug|error|logic error|incorrect`)},
	{CategoryPerformance, regexp.MustCompile(`(?i)performance|latency|slow|N\+1|resource|optimization`)},
	{CategoryStyle, regexp.MustCompile(`(?i)style|readability|maintainability|naming|convention`)},
}

// sectionSplitRE applies heading, numbered-list, and bullet markers as one
// alternation. The markers are not reconciled against each other, so a
// response mixing styles inside one block can be re-split inconsistently.
// That mirrors the behavior callers already depend on; do not "fix" it
// without revisiting the downstream contract.
var sectionSplitRE = regexp.MustCompile(`\n(?:#+\s+|\d+\.\s+|[*\-]\s+)`)

// lineRefRE accepts both "line: N" and "line N" phrasing, optionally
// prefixed with "at". The extracted number is not validated against the
// submitted code's line count.
var lineRefRE = regexp.MustCompile(`(?i)(?:at\s+)?line[:\s]+(\d+)`)

var suggestionIndicatorRE = regexp.MustCompile(`(?i)recommendation|fix|should`)
var suggestionExtractRE = regexp.MustCompile(`(?i)(?:recommendation|fix|should|use|implement)[:\s]+([^\n]+)`)

var recommendationsBlockRE = regexp.MustCompile(`(?is)(?:recommendation|improve|suggest)s?[:\s]+(.+?)(?:\n\n|\z)`)

// Parse converts raw generated text into severity-ranked findings, a
// summary, and recommendation snippets. It never fails: text it cannot
// make sense of degrades to zero findings with the raw text passed
// through unchanged.
func Parse(raw string) Result {
	result := Result{
		Findings:        []Finding{},
		Recommendations: []string{},
		RawText:         raw,
	}
	if strings.TrimSpace(raw) == "" {
		return result
	}

	for _, section := range sectionSplitRE.Split(raw, -1) {
		if len(strings.TrimSpace(section)) < minSectionLen {
			continue
		}
		result.Findings = append(result.Findings, parseSection(section))
	}

	result.Summary = ComputeSummary(result.Findings)
	result.Recommendations = extractRecommendations(raw)
	return result
}

func parseSection(section string) Finding {
	f := Finding{
		Severity: SeverityMedium,
		Category: CategoryBug,
	}

	for _, rule := range severityRules {
		if rule.pattern.MatchString(section) {
			f.Severity = rule.severity
			break
		}
	}
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(section) {
			f.Category = rule.category
			break
		}
	}

	if m := lineRefRE.FindStringSubmatch(section); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			f.Line = &n
		}
	}

	f.Message = extractMessage(section)

	if suggestionIndicatorRE.MatchString(section) {
		if m := suggestionExtractRE.FindStringSubmatch(section); m != nil {
			f.Suggestion = truncate(strings.TrimSpace(m[1]), maxSuggestionLen)
		}
	}

	return f
}

// extractMessage takes the first non-empty, non-heading line; when no line
// qualifies it falls back to the leading characters of the whole section.
func extractMessage(section string) string {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return truncate(line, maxMessageLen)
	}
	return truncate(strings.TrimSpace(section), maxMessageLen)
}

// extractRecommendations scans the full text for a trailing
// recommendations block and pulls up to five bullet lines from it.
func extractRecommendations(raw string) []string {
	recs := []string{}
	m := recommendationsBlockRE.FindStringSubmatch(raw)
	if m == nil {
		return recs
	}
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.Trim(strings.TrimSpace(line), "-•* \t")
		line = strings.TrimSpace(line)
		if len(line) <= minRecommendation {
			continue
		}
		recs = append(recs, truncate(line, maxRecommendation))
		if len(recs) == maxRecommendCount {
			break
		}
	}
	return recs
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
