package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

func TestPreprocessorClean(t *testing.T) {
	p := NewPreprocessor(3, logging.NewNop())

	tests := []struct {
		name  string
		input []domain.TextItem
		want  []string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name: "drops short items",
			input: []domain.TextItem{
				{Text: "too short"},
				{Text: "this one is long enough"},
				{Text: ""},
			},
			want: []string{"this one is long enough"},
		},
		{
			name: "dedupes case and whitespace variants",
			input: []domain.TextItem{
				{Text: "Carbon emissions fell sharply"},
				{Text: "carbon   emissions fell  sharply"},
				{Text: "CARBON EMISSIONS FELL SHARPLY"},
				{Text: "a different item entirely"},
			},
			want: []string{"Carbon emissions fell sharply", "a different item entirely"},
		},
		{
			name: "preserves first-seen order",
			input: []domain.TextItem{
				{Text: "third item in the corpus"},
				{Text: "first item in the corpus"},
				{Text: "third item in the corpus"},
			},
			want: []string{"third item in the corpus", "first item in the corpus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Clean(tt.input)
			texts := make([]string, 0, len(got))
			for _, it := range got {
				texts = append(texts, it.Text)
			}
			if tt.want == nil {
				assert.Empty(t, texts)
				return
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestPreprocessorDefaultMinTokens(t *testing.T) {
	p := NewPreprocessor(0, logging.NewNop())

	got := p.Clean([]domain.TextItem{
		{Text: "one two"},
		{Text: "one two three"},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "one two three", got[0].Text)
}
