package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

func riskItem(text string, sentScore float64) domain.ScoredItem {
	return domain.ScoredItem{
		Item:      domain.TextItem{Text: text},
		Sentiment: domain.SentimentResult{Score: sentScore},
		Category:  domain.CategoryResult{Category: domain.CategoryGovernance, Confidence: 0.8},
	}
}

func TestDetectSeverityLadder(t *testing.T) {
	d := NewRiskDetector(logging.NewNop())

	tests := []struct {
		name  string
		text  string
		score float64
		want  domain.Severity
	}{
		{
			name:  "very low score is critical without keywords",
			text:  "deeply troubling quarter for the company",
			score: 0.12,
			want:  domain.SeverityCritical,
		},
		{
			name:  "critical keyword escalates a mild score",
			text:  "prosecutors opened a fraud case against the firm",
			score: 0.29,
			want:  domain.SeverityCritical,
		},
		{
			name:  "below high cutoff",
			text:  "downturn worries several large holders",
			score: 0.2,
			want:  domain.SeverityHigh,
		},
		{
			name:  "below threshold is medium",
			text:  "weak quarter disappoints the street",
			score: 0.27,
			want:  domain.SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := d.Detect([]domain.ScoredItem{riskItem(tt.text, tt.score)}, 0)
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Severity)
			assert.Equal(t, domain.CategoryGovernance, events[0].Category)
			assert.False(t, events[0].DetectedAt.IsZero())
		})
	}
}

func TestDetectSkipsScoresAtOrAboveThreshold(t *testing.T) {
	d := NewRiskDetector(logging.NewNop())

	events := d.Detect([]domain.ScoredItem{
		riskItem("mildly downbeat coverage", 0.3),
		riskItem("upbeat coverage", 0.8),
	}, 0)

	assert.Empty(t, events)
}

func TestDetectRelaxedThresholdYieldsLow(t *testing.T) {
	d := NewRiskDetector(logging.NewNop())

	// 0.35 sits above the base threshold but below the relaxed one.
	events := d.Detect([]domain.ScoredItem{riskItem("borderline coverage item", 0.35)}, 0.4)

	require.Len(t, events, 1)
	assert.Equal(t, domain.SeverityLow, events[0].Severity)
}

func TestDetectOrdering(t *testing.T) {
	d := NewRiskDetector(logging.NewNop())

	events := d.Detect([]domain.ScoredItem{
		riskItem("weak quarter disappoints", 0.27),            // medium
		riskItem("bleak outlook deepens", 0.10),               // critical
		riskItem("fraud case filed against the firm", 0.28),   // critical via keyword
		riskItem("holders unsettled by steep downturn", 0.20), // high
	}, 0)

	require.Len(t, events, 4)

	// Severity rank descending, then score ascending within a rank.
	assert.Equal(t, domain.SeverityCritical, events[0].Severity)
	assert.InDelta(t, 0.10, events[0].SentimentScore, 1e-9)
	assert.Equal(t, domain.SeverityCritical, events[1].Severity)
	assert.InDelta(t, 0.28, events[1].SentimentScore, 1e-9)
	assert.Equal(t, domain.SeverityHigh, events[2].Severity)
	assert.Equal(t, domain.SeverityMedium, events[3].Severity)
}

func TestDetectTruncatesExcerpt(t *testing.T) {
	d := NewRiskDetector(logging.NewNop())
	long := strings.Repeat("grim coverage of the downturn ", 20)

	events := d.Detect([]domain.ScoredItem{riskItem(long, 0.1)}, 0)

	require.Len(t, events, 1)
	assert.Equal(t, 200, utf8.RuneCountInString(events[0].Excerpt))
	assert.True(t, strings.HasSuffix(events[0].Excerpt, "..."))
}

func TestDetectReusesCategoryResult(t *testing.T) {
	d := NewRiskDetector(logging.NewNop())

	item := domain.ScoredItem{
		Item:      domain.TextItem{Text: "pollution spill reported at the plant"},
		Sentiment: domain.SentimentResult{Score: 0.2},
		Category:  domain.CategoryResult{Category: domain.CategoryEnvironmental, Confidence: 0.9},
	}

	events := d.Detect([]domain.ScoredItem{item}, 0)

	require.Len(t, events, 1)
	assert.Equal(t, domain.CategoryEnvironmental, events[0].Category)
	assert.InDelta(t, 0.9, events[0].Confidence, 1e-9)
}
