package api

import (
	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// AnalyzeRequest represents a request to analyze one subject.
type AnalyzeRequest struct {
	Subject string `json:"subject" binding:"required"`
	// Aspect optionally restricts the analysis to one ESG category
	// (environmental, social, governance).
	Aspect string `json:"aspect,omitempty"`
}

// AnalyzeResponse wraps the analysis report.
type AnalyzeResponse struct {
	Report *domain.AnalysisReport `json:"report"`
	// Text is the rendered plain-text report, included when requested.
	Text string `json:"text,omitempty"`
}

// SentimentRequest represents a single-text sentiment request.
type SentimentRequest struct {
	Text string `json:"text" binding:"required"`
}

// SentimentResponse represents a sentiment result.
type SentimentResponse struct {
	Result domain.SentimentResult `json:"result"`
}

// CategoryRequest represents a single-text category request.
type CategoryRequest struct {
	Text string `json:"text" binding:"required"`
}

// CategoryResponse represents a classification result.
type CategoryResponse struct {
	Result domain.CategoryResult `json:"result"`
}

// RisksRequest represents a standalone risk-detection request.
type RisksRequest struct {
	Subject string `json:"subject" binding:"required"`
	// Threshold overrides the configured risk threshold when positive.
	Threshold float64 `json:"threshold,omitempty"`
}

// RisksResponse represents detected risk events.
type RisksResponse struct {
	Subject string             `json:"subject"`
	Risks   []domain.RiskEvent `json:"risks"`
	Total   int                `json:"total"`
}

// CompareRequest represents a multi-subject comparison request.
type CompareRequest struct {
	Subjects []string `json:"subjects" binding:"required,min=2,max=10"`
}

// CompareResponse wraps the comparison result.
type CompareResponse struct {
	Comparison *domain.Comparison `json:"comparison"`
}
