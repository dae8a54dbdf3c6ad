package analysis

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category represents the type of finding.
type Category string

const (
	CategoryBug         Category = "bug"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryStyle       Category = "style"
)

// Finding is one structured issue derived from free-form generated text.
// Line is 1-based and nil when the text gave no usable reference; it is
// passed through without bounds-checking against the submitted code.
type Finding struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"type"`
	Line       *int     `json:"line,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Summary counts findings per severity. TotalIssues always equals the
// number of findings it was computed from.
type Summary struct {
	TotalIssues int `json:"total_issues"`
	Critical    int `json:"critical"`
	High        int `json:"high"`
	Medium      int `json:"medium"`
	Low         int `json:"low"`
}

// Result is the full output of one parse call.
type Result struct {
	Findings        []Finding `json:"issues"`
	Summary         Summary   `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	RawText         string    `json:"raw_analysis"`
}

// ComputeSummary calculates the summary from findings.
func ComputeSummary(findings []Finding) Summary {
	s := Summary{TotalIssues: len(findings)}
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	return s
}
