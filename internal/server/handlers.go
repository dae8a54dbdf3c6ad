package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glint-dev/glint/internal/redact"
	"github.com/glint-dev/glint/internal/report"
)

// taskContext detaches the provider call from the client connection.
// Clients routinely give up before a slow local model finishes; the
// generation keeps running to completion either way.
func taskContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (s *Server) validateCode(c *gin.Context, code, language string) bool {
	if len(code) > s.cfg.Analysis.MaxCodeLength {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("Code exceeds maximum length of %d characters", s.cfg.Analysis.MaxCodeLength),
		})
		return false
	}
	lang := strings.ToLower(language)
	if !slices.Contains(s.cfg.Analysis.Languages(), lang) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("Unsupported language: %s", language),
		})
		return false
	}
	return true
}

// prepareCode masks secrets in submitted code when redaction is enabled.
// Runs after validation; length limits bind the client's original bytes.
func (s *Server) prepareCode(code string) string {
	if !s.cfg.Analysis.RedactSecrets {
		return code
	}
	redacted, count := redact.Secrets(code)
	if count > 0 {
		s.logger.Warn("secrets redacted from submitted code", "count", count)
	}
	return redacted
}

func (s *Server) providerError(c *gin.Context, err error) {
	s.logger.Error("provider request failed", "error", err)
	c.JSON(http.StatusServiceUnavailable, errorResponse{
		Error:   "Code analysis service temporarily unavailable",
		Details: err.Error(),
	})
}

func reportContentType(format string) string {
	switch format {
	case "sarif":
		return "application/sarif+json"
	case "markdown":
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.validateCode(c, req.Code, req.Language) {
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "full"
	}

	start := time.Now()
	result, err := s.service.AnalyzeCode(taskContext(c), s.prepareCode(req.Code), req.Language, req.AnalysisType)
	if err != nil {
		s.providerError(c, err)
		return
	}

	if req.OutputFormat != "" && req.OutputFormat != "json" {
		writer, err := report.Get(req.OutputFormat)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		var buf bytes.Buffer
		if err := writer.Write(&buf, &result.Parsed); err != nil {
			s.logger.Error("rendering report", "format", req.OutputFormat, "error", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to render report"})
			return
		}
		c.Data(http.StatusOK, reportContentType(req.OutputFormat), buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Success:      true,
		Language:     req.Language,
		AnalysisType: req.AnalysisType,
		Issues:       result.Parsed.Findings,
		Summary: AnalyzeSummary{
			Summary:         result.Parsed.Summary,
			Recommendations: result.Parsed.Recommendations,
			RawAnalysis:     result.Parsed.RawText,
		},
		Provider:       result.Provider,
		ProcessingTime: time.Since(start).Seconds(),
	})
}

func (s *Server) handleOptimize(c *gin.Context) {
	var req OptimizeRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.validateCode(c, req.Code, req.Language) {
		return
	}
	if req.Focus == "" {
		req.Focus = "performance"
	}

	start := time.Now()
	result, err := s.service.OptimizeCode(taskContext(c), s.prepareCode(req.Code), req.Language, req.Focus)
	if err != nil {
		s.providerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"language":        req.Language,
		"focus":           req.Focus,
		"optimized_code":  result.Text,
		"provider":        result.Provider,
		"processing_time": time.Since(start).Seconds(),
	})
}

func (s *Server) handleDocument(c *gin.Context) {
	var req DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.validateCode(c, req.Code, req.Language) {
		return
	}
	if req.Style == "" {
		req.Style = "standard"
	}

	start := time.Now()
	result, err := s.service.DocumentCode(taskContext(c), s.prepareCode(req.Code), req.Language, req.Style)
	if err != nil {
		s.providerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"language":        req.Language,
		"style":           req.Style,
		"documented_code": result.Text,
		"provider":        result.Provider,
		"processing_time": time.Since(start).Seconds(),
	})
}

func (s *Server) handleExplain(c *gin.Context) {
	var req ExplainRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.validateCode(c, req.Code, req.Language) {
		return
	}
	if req.Level == "" {
		req.Level = "intermediate"
	}

	start := time.Now()
	result, err := s.service.ExplainCode(taskContext(c), s.prepareCode(req.Code), req.Language, req.Level)
	if err != nil {
		s.providerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"language":        req.Language,
		"level":           req.Level,
		"explanation":     result.Text,
		"provider":        result.Provider,
		"processing_time": time.Since(start).Seconds(),
	})
}

func (s *Server) handleGenerateTests(c *gin.Context) {
	var req GenerateTestsRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.validateCode(c, req.Code, req.Language) {
		return
	}

	start := time.Now()
	result, framework, err := s.service.GenerateTests(taskContext(c), s.prepareCode(req.Code), req.Language, req.Framework)
	if err != nil {
		s.providerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"language":        req.Language,
		"framework":       framework,
		"tests":           result.Text,
		"provider":        result.Provider,
		"processing_time": time.Since(start).Seconds(),
	})
}

func (s *Server) handleGenerateTestData(c *gin.Context) {
	var req GenerateTestDataRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = 10
	}
	if req.Format == "" {
		req.Format = "json"
	}

	schema, err := json.Marshal(req.Schema)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:   "Invalid schema",
			Details: err.Error(),
		})
		return
	}

	start := time.Now()
	result, err := s.service.GenerateTestData(taskContext(c), string(schema), req.Count, req.Format)
	if err != nil {
		s.providerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"count":           req.Count,
		"format":          req.Format,
		"data":            result.Text,
		"provider":        result.Provider,
		"processing_time": time.Since(start).Seconds(),
	})
}

func (s *Server) handleSuggestTestCases(c *gin.Context) {
	var req SuggestTestCasesRequest
	if !bindJSON(c, &req) {
		return
	}
	if !s.validateCode(c, req.Code, req.Language) {
		return
	}

	start := time.Now()
	result, err := s.service.SuggestTestCases(taskContext(c), s.prepareCode(req.Code), req.Language, req.ExistingTests)
	if err != nil {
		s.providerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"language":        req.Language,
		"suggestions":     result.Text,
		"provider":        result.Provider,
		"processing_time": time.Since(start).Seconds(),
	})
}
