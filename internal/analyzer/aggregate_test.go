package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

func scoredItem(cat domain.Category, sentScore, catConf float64) domain.ScoredItem {
	return domain.ScoredItem{
		Item:      domain.TextItem{Text: "item"},
		Sentiment: domain.SentimentResult{Score: sentScore},
		Category:  domain.CategoryResult{Category: cat, Confidence: catConf},
	}
}

func TestAggregateWeightedOverall(t *testing.T) {
	a := NewScoreAggregator(AggregatorConfig{}, logging.NewNop())

	items := []domain.ScoredItem{
		scoredItem(domain.CategoryEnvironmental, 0.8, 1.0),
		scoredItem(domain.CategorySocial, 0.3, 1.0),
	}

	got := a.Aggregate(items, nil)

	assert.InDelta(t, 80.0, got.Environmental, 1e-9)
	assert.InDelta(t, 30.0, got.Social, 1e-9)
	assert.InDelta(t, 50.0, got.Governance, 1e-9) // no evidence, neutral midpoint
	assert.InDelta(t, 53.5, got.Overall, 1e-9)    // 0.35*80 + 0.35*30 + 0.30*50
	assert.Equal(t, 2, got.DataPoints)
}

func TestAggregateEmptyCorpusIsNeutral(t *testing.T) {
	a := NewScoreAggregator(AggregatorConfig{}, logging.NewNop())

	got := a.Aggregate(nil, nil)

	assert.Equal(t, 50.0, got.Environmental)
	assert.Equal(t, 50.0, got.Social)
	assert.Equal(t, 50.0, got.Governance)
	assert.Equal(t, 50.0, got.Overall)
	assert.Zero(t, got.Confidence)
	assert.Zero(t, got.DataPoints)
}

func TestAggregateGeneralItemsCountOnlyAsData(t *testing.T) {
	a := NewScoreAggregator(AggregatorConfig{}, logging.NewNop())

	items := []domain.ScoredItem{
		scoredItem(domain.CategoryGeneral, 0.9, 0.0),
		scoredItem(domain.CategoryGeneral, 0.1, 0.0),
	}

	got := a.Aggregate(items, nil)

	assert.Equal(t, 50.0, got.Environmental)
	assert.Equal(t, 50.0, got.Social)
	assert.Equal(t, 50.0, got.Governance)
	assert.Equal(t, 2, got.DataPoints)
	assert.InDelta(t, 0.1, got.Confidence, 1e-9) // 2 of 20
}

func TestAggregateConfidenceSaturates(t *testing.T) {
	a := NewScoreAggregator(AggregatorConfig{ConfidenceSaturation: 4}, logging.NewNop())

	items := make([]domain.ScoredItem, 10)
	for i := range items {
		items[i] = scoredItem(domain.CategoryEnvironmental, 0.5, 1.0)
	}

	got := a.Aggregate(items, nil)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestAggregateBlendsPrior(t *testing.T) {
	a := NewScoreAggregator(AggregatorConfig{BlendWeight: 0.7}, logging.NewNop())

	items := []domain.ScoredItem{
		scoredItem(domain.CategoryEnvironmental, 0.8, 1.0),
	}
	prior := &domain.ESGScoreSet{
		Environmental: 40,
		Social:        50,
		Governance:    50,
	}

	got := a.Aggregate(items, prior)

	// 0.7*80 + 0.3*40 = 68; social and governance stay neutral.
	assert.InDelta(t, 68.0, got.Environmental, 1e-9)
	assert.InDelta(t, 50.0, got.Social, 1e-9)
	assert.InDelta(t, 50.0, got.Governance, 1e-9)
	// Overall recomputed from blended pillars, not blended directly.
	assert.InDelta(t, domain.OverallFrom(68, 50, 50), got.Overall, 1e-9)
}

func TestAggregateScoresStayInRange(t *testing.T) {
	a := NewScoreAggregator(AggregatorConfig{}, logging.NewNop())

	tests := []struct {
		name  string
		items []domain.ScoredItem
	}{
		{
			name: "all maximal",
			items: []domain.ScoredItem{
				scoredItem(domain.CategoryEnvironmental, 1.0, 1.0),
				scoredItem(domain.CategorySocial, 1.0, 1.0),
				scoredItem(domain.CategoryGovernance, 1.0, 1.0),
			},
		},
		{
			name: "all minimal",
			items: []domain.ScoredItem{
				scoredItem(domain.CategoryEnvironmental, 0.0, 1.0),
				scoredItem(domain.CategorySocial, 0.0, 1.0),
				scoredItem(domain.CategoryGovernance, 0.0, 1.0),
			},
		},
		{
			name: "low confidence damps toward zero",
			items: []domain.ScoredItem{
				scoredItem(domain.CategoryEnvironmental, 1.0, 0.1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Aggregate(tt.items, nil)
			for _, v := range []float64{got.Environmental, got.Social, got.Governance, got.Overall} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}
