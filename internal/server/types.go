package server

import (
	"github.com/glint-dev/glint/internal/analysis"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Code         string `json:"code" binding:"required"`
	Language     string `json:"language" binding:"required"`
	AnalysisType string `json:"analysis_type" binding:"omitempty,oneof=full security performance style bugs"`
	OutputFormat string `json:"output_format" binding:"omitempty,oneof=json sarif markdown"`
	Context      string `json:"context"`
}

// AnalyzeResponse is the body of a successful analyze call.
type AnalyzeResponse struct {
	Success        bool               `json:"success"`
	Language       string             `json:"language"`
	AnalysisType   string             `json:"analysis_type"`
	Issues         []analysis.Finding `json:"issues"`
	Summary        AnalyzeSummary     `json:"summary"`
	Provider       string             `json:"provider"`
	ProcessingTime float64            `json:"processing_time"`
}

// AnalyzeSummary carries the severity counts plus the parser's extras.
type AnalyzeSummary struct {
	analysis.Summary
	Recommendations []string `json:"recommendations"`
	RawAnalysis     string   `json:"raw_analysis"`
}

// OptimizeRequest is the body of POST /api/optimize.
type OptimizeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
	Focus    string `json:"focus" binding:"omitempty,oneof=performance readability memory"`
}

// DocumentRequest is the body of POST /api/document.
type DocumentRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
	Style    string `json:"style"`
}

// ExplainRequest is the body of POST /api/explain.
type ExplainRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
	Level    string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// GenerateTestsRequest is the body of POST /api/generate-tests.
type GenerateTestsRequest struct {
	Code             string `json:"code" binding:"required"`
	Language         string `json:"language" binding:"required"`
	Framework        string `json:"framework"`
	CoverageTarget   *int   `json:"coverage_target" binding:"omitempty"`
	IncludeEdgeCases *bool  `json:"include_edge_cases"`
	IncludeMocks     *bool  `json:"include_mocks"`
}

// GenerateTestDataRequest is the body of POST /api/generate-test-data.
type GenerateTestDataRequest struct {
	Schema map[string]any `json:"schema" binding:"required"`
	Count  int            `json:"count" binding:"omitempty,min=1,max=100"`
	Format string         `json:"format" binding:"omitempty,oneof=json csv sql"`
}

// SuggestTestCasesRequest is the body of POST /api/suggest-test-cases.
type SuggestTestCasesRequest struct {
	Code          string `json:"code" binding:"required"`
	Language      string `json:"language" binding:"required"`
	ExistingTests string `json:"existing_tests"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
