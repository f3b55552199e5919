package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

func lexiconScorer(t *testing.T) *SentimentScorer {
	t.Helper()
	s := NewSentimentScorer(SentimentConfig{DisablePrimary: true}, logging.NewNop())
	assert.True(t, s.Degraded())
	return s
}

func TestSentimentLabels(t *testing.T) {
	s := lexiconScorer(t)

	tests := []struct {
		name string
		text string
		want domain.SentimentLabel
	}{
		{
			name: "positive corporate news",
			text: "The company achieved excellent progress this quarter",
			want: domain.LabelPositive,
		},
		{
			name: "negative enforcement news",
			text: "Regulators fined the firm over fraud and corruption",
			want: domain.LabelNegative,
		},
		{
			name: "no sentiment words",
			text: "The quarterly filing was published on Tuesday",
			want: domain.LabelNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.text)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, domain.MethodFallback, got.Method)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 1.0)
		})
	}
}

func TestSentimentBlankTextIsNeutral(t *testing.T) {
	s := lexiconScorer(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		got := s.Score(text)
		assert.Equal(t, domain.LabelNeutral, got.Label)
		assert.InDelta(t, 0.5, got.Score, 1e-9)
	}
}

func TestSentimentDeterministic(t *testing.T) {
	s := lexiconScorer(t)
	text := "Pollution violations led to a lawsuit against the supplier"

	first := s.Score(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(text))
	}
}

func TestSentimentNegationFlips(t *testing.T) {
	s := lexiconScorer(t)

	plain := s.Score("The results were good")
	negated := s.Score("The results were not good")

	assert.Equal(t, domain.LabelPositive, plain.Label)
	assert.Equal(t, domain.LabelNegative, negated.Label)
}

func TestSentimentModifierScales(t *testing.T) {
	s := lexiconScorer(t)

	base := s.Score("The outlook is good")
	boosted := s.Score("The outlook is very good")
	damped := s.Score("The outlook is slightly good")

	assert.Greater(t, boosted.Score, base.Score)
	assert.Less(t, damped.Score, base.Score)
}

func TestResultFromPolarityClipsScore(t *testing.T) {
	got := resultFromPolarity(1.5, domain.MethodPrimary)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, domain.LabelPositive, got.Label)

	got = resultFromPolarity(-1.5, domain.MethodPrimary)
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, domain.LabelNegative, got.Label)
}
