package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/esg-analyzer/internal/corpus"
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
	"github.com/jonesrussell/esg-analyzer/internal/pipeline"
)

// Handler handles HTTP requests for the analyzer API.
type Handler struct {
	pipeline *pipeline.Pipeline
	fetch    corpus.FetchFunc
	scores   ScoreReader
	logger   logging.Logger
}

// ScoreReader supplies prior scores for blending; nil disables blending.
type ScoreReader interface {
	LatestScore(ctx context.Context, subject string) (*domain.ESGScoreSet, error)
}

// NewHandler creates a new API handler.
func NewHandler(p *pipeline.Pipeline, fetch corpus.FetchFunc, scores ScoreReader, logger logging.Logger) *Handler {
	return &Handler{
		pipeline: p,
		fetch:    fetch,
		scores:   scores,
		logger:   logger,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prior := h.prior(c, req.Subject)

	var (
		report *domain.AnalysisReport
		err    error
	)
	if req.Aspect != "" {
		aspect, ok := parseAspect(req.Aspect)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown aspect: " + req.Aspect})
			return
		}
		report, err = h.pipeline.AnalyzeAspect(c.Request.Context(), req.Subject, h.fetch, aspect, prior)
	} else {
		report, err = h.pipeline.Analyze(c.Request.Context(), req.Subject, h.fetch, prior)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := AnalyzeResponse{Report: report}
	if c.Query("format") == "text" {
		resp.Text = report.Render()
	}
	c.JSON(http.StatusOK, resp)
}

// Sentiment handles POST /api/v1/sentiment.
func (h *Handler) Sentiment(c *gin.Context) {
	var req SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SentimentResponse{Result: h.pipeline.ScoreSentiment(req.Text)})
}

// Category handles POST /api/v1/category.
func (h *Handler) Category(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Result: h.pipeline.ClassifyCategory(req.Text)})
}

// Risks handles POST /api/v1/risks.
func (h *Handler) Risks(c *gin.Context) {
	var req RisksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	risks, err := h.pipeline.DetectRisks(c.Request.Context(), req.Subject, h.fetch, req.Threshold)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RisksResponse{
		Subject: req.Subject,
		Risks:   risks,
		Total:   len(risks),
	})
}

// Compare handles POST /api/v1/compare.
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comparison, err := h.pipeline.Compare(c.Request.Context(), req.Subjects, h.fetch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CompareResponse{Comparison: comparison})
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) prior(c *gin.Context, subject string) *domain.ESGScoreSet {
	if h.scores == nil {
		return nil
	}
	prior, err := h.scores.LatestScore(c.Request.Context(), subject)
	if err != nil {
		return nil
	}
	return prior
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidSubject) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("request failed", logging.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func parseAspect(s string) (domain.Category, bool) {
	switch domain.Category(s) {
	case domain.CategoryEnvironmental, domain.CategorySocial, domain.CategoryGovernance:
		return domain.Category(s), true
	default:
		return "", false
	}
}
