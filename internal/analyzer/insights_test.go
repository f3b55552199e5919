package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

func containsSubstring(ss []string, sub string) bool {
	for _, s := range ss {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewInsightGenerator()
	scores := domain.ESGScoreSet{
		Environmental: 72, Social: 45, Governance: 38,
		Overall: 52.25, Confidence: 0.4, DataPoints: 8,
	}
	risks := []domain.RiskEvent{
		{Category: domain.CategoryGovernance, Severity: domain.SeverityCritical, SentimentScore: 0.1},
		{Category: domain.CategorySocial, Severity: domain.SeverityHigh, SentimentScore: 0.2},
	}

	in1, rec1 := g.Generate(scores, risks)
	in2, rec2 := g.Generate(scores, risks)

	assert.Equal(t, in1, in2)
	assert.Equal(t, rec1, rec2)
}

func TestGenerateScoreBands(t *testing.T) {
	g := NewInsightGenerator()

	tests := []struct {
		name    string
		overall float64
		want    string
	}{
		{"strong", 78, "Strong overall"},
		{"moderate", 55, "Moderate overall"},
		{"weak", 35, "needs improvement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := domain.ESGScoreSet{
				Environmental: tt.overall, Social: tt.overall, Governance: tt.overall,
				Overall: tt.overall, Confidence: 1, DataPoints: 20,
			}
			insights, _ := g.Generate(scores, nil)
			require.NotEmpty(t, insights)
			assert.Contains(t, insights[0], tt.want)
		})
	}
}

func TestGenerateInsufficientData(t *testing.T) {
	g := NewInsightGenerator()

	insights, recs := g.Generate(domain.ESGScoreSet{
		Environmental: 50, Social: 50, Governance: 50, Overall: 50,
	}, nil)

	assert.True(t, containsSubstring(insights, "Insufficient data"))
	assert.NotEmpty(t, recs)
}

func TestGenerateCriticalRiskRecommendation(t *testing.T) {
	g := NewInsightGenerator()
	scores := domain.ESGScoreSet{
		Environmental: 60, Social: 60, Governance: 60,
		Overall: 60, Confidence: 1, DataPoints: 20,
	}
	risks := []domain.RiskEvent{
		{Category: domain.CategoryGovernance, Severity: domain.SeverityCritical},
	}

	insights, recs := g.Generate(scores, risks)

	assert.True(t, containsSubstring(insights, "critical risk"))
	assert.True(t, containsSubstring(recs, "governance"))
	assert.True(t, containsSubstring(recs, "immediate review"))
}

func TestGenerateWeakPillarRecommendations(t *testing.T) {
	g := NewInsightGenerator()
	scores := domain.ESGScoreSet{
		Environmental: 30, Social: 45, Governance: 75,
		Overall: 48.75, Confidence: 1, DataPoints: 20,
	}

	insights, recs := g.Generate(scores, nil)

	assert.True(t, containsSubstring(insights, "environmental dimension requires attention"))
	assert.True(t, containsSubstring(recs, "environmental programs"))
	assert.True(t, containsSubstring(recs, "social initiatives"))
	assert.False(t, containsSubstring(recs, "governance practices"))
}

func TestGenerateHealthyScoresKeepMonitoring(t *testing.T) {
	g := NewInsightGenerator()
	scores := domain.ESGScoreSet{
		Environmental: 75, Social: 72, Governance: 71,
		Overall: 72.75, Confidence: 1, DataPoints: 20,
	}

	_, recs := g.Generate(scores, nil)

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Maintain current ESG practices")
}

func TestCompareInsights(t *testing.T) {
	g := NewInsightGenerator()

	rankings := []domain.Ranking{
		{Rank: 1, Subject: "Acme", Scores: domain.ESGScoreSet{Overall: 76.2}, Risks: 0},
		{Rank: 2, Subject: "Globex", Scores: domain.ESGScoreSet{Overall: 61.3}, Risks: 2},
	}

	insights := g.CompareInsights(rankings)

	require.NotEmpty(t, insights)
	assert.Contains(t, insights[0], "Acme leads")
	assert.True(t, containsSubstring(insights, "Globex trails"))
	assert.True(t, containsSubstring(insights, "2 open risk signal"))

	assert.Nil(t, g.CompareInsights(nil))
}
