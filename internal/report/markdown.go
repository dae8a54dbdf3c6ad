package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/glint-dev/glint/internal/analysis"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, result *analysis.Result) error {
	s := result.Summary

	fmt.Fprintf(w, "## Code Analysis\n\n")

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	fmt.Fprintf(w, "| Critical | %d    |\n", s.Critical)
	fmt.Fprintf(w, "| High     | %d    |\n", s.High)
	fmt.Fprintf(w, "| Medium   | %d    |\n", s.Medium)
	fmt.Fprintf(w, "| Low      | %d    |\n", s.Low)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", s.TotalIssues)

	if s.TotalIssues == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
		m.writeRecommendations(w, result.Recommendations)
		return nil
	}

	grouped := groupBySeverity(result.Findings)
	order := []analysis.Severity{
		analysis.SeverityCritical,
		analysis.SeverityHigh,
		analysis.SeverityMedium,
		analysis.SeverityLow,
	}
	for _, sev := range order {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		icon := severityIcon(sev)
		label := strings.ToUpper(string(sev))

		fmt.Fprintf(w, "<details>\n<summary>%s %s (%d)</summary>\n\n", icon, label, len(findings))

		for _, f := range findings {
			if f.Line != nil {
				fmt.Fprintf(w, "**Line %d** | %s\n\n", *f.Line, f.Category)
			} else {
				fmt.Fprintf(w, "**%s**\n\n", f.Category)
			}
			fmt.Fprintf(w, "%s\n\n", f.Message)

			if f.Suggestion != "" {
				fmt.Fprintf(w, "**Suggestion:**\n\n")
				fmt.Fprintf(w, "> %s\n\n", strings.ReplaceAll(f.Suggestion, "\n", "\n> "))
			}

			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}

	m.writeRecommendations(w, result.Recommendations)
	return nil
}

func (m *MarkdownWriter) writeRecommendations(w io.Writer, recs []string) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintf(w, "### Recommendations\n\n")
	for _, r := range recs {
		fmt.Fprintf(w, "- %s\n", r)
	}
	fmt.Fprintln(w)
}

func groupBySeverity(findings []analysis.Finding) map[analysis.Severity][]analysis.Finding {
	m := make(map[analysis.Severity][]analysis.Finding)
	for _, f := range findings {
		m[f.Severity] = append(m[f.Severity], f)
	}
	return m
}

func severityIcon(s analysis.Severity) string {
	switch s {
	case analysis.SeverityCritical:
		return ":red_circle:"
	case analysis.SeverityHigh:
		return ":orange_circle:"
	case analysis.SeverityMedium:
		return ":yellow_circle:"
	case analysis.SeverityLow:
		return ":large_blue_circle:"
	default:
		return ":white_circle:"
	}
}
