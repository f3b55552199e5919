package analyzer

import (
	"strings"
	"unicode"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// categoryKeywords is the curated term list backing the keyword signal of
// the category classifier. Terms are matched case-insensitively against
// normalized text; multi-word terms match as phrases.
var categoryKeywords = map[domain.Category][]string{
	domain.CategoryEnvironmental: {
		"carbon", "emissions", "climate", "renewable", "sustainable",
		"pollution", "waste", "recycling", "energy efficiency", "green",
		"fossil fuel", "clean energy", "biodiversity", "conservation",
		"carbon footprint", "greenhouse gas", "solar", "wind power",
		"deforestation", "net zero", "water usage", "environmental",
	},
	domain.CategorySocial: {
		"diversity", "inclusion", "labor", "human rights", "safety",
		"community", "employee", "workforce", "fair trade", "equity",
		"discrimination", "working conditions", "health", "welfare",
		"stakeholder", "customer satisfaction", "training", "education",
		"wages", "social responsibility", "philanthropy",
	},
	domain.CategoryGovernance: {
		"board", "ethics", "compliance", "transparency", "accountability",
		"corruption", "fraud", "audit", "shareholder", "executive compensation",
		"risk management", "internal controls", "whistleblower", "disclosure",
		"corporate governance", "independence", "integrity", "regulation",
		"bribery", "proxy", "insider trading",
	},
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// normalizeText lowercases and replaces non-alphanumeric runes with spaces,
// preserving word boundaries for phrase matching.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else {
			result.WriteByte(' ')
		}
	}

	return result.String()
}
