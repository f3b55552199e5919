package analyzer

import (
	"sync/atomic"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

// Default blend weights between the keyword signal and the trained model.
const (
	defaultKeywordWeight = 0.5
	defaultModelWeight   = 0.5
)

// CategoryClassifier maps text onto an ESG category using two signals:
// keyword frequency against a curated term list, and (when a trained model
// is present) a naive-Bayes probability distribution. The final category is
// the argmax of the weighted blend; ties break in fixed priority order
// environmental > social > governance > general.
//
// The model is held behind an atomic pointer: retraining swaps in a new
// immutable model without blocking concurrent classification.
type CategoryClassifier struct {
	matcher       *ahocorasick.Matcher
	keywords      []string
	kwCategory    []domain.Category // parallel to keywords
	model         atomic.Pointer[CategoryModel]
	keywordWeight float64
	modelWeight   float64
	logger        logging.Logger
}

// CategoryConfig configures the classifier blend.
type CategoryConfig struct {
	// KeywordWeight and ModelWeight blend the two signals; both default to
	// 0.5. They are renormalized when a model is absent.
	KeywordWeight float64
	ModelWeight   float64
	// Model is the optional trained model. Nil degrades to keyword-only
	// classification without error.
	Model *CategoryModel
}

// NewCategoryClassifier builds the keyword automaton once and stores the
// optional trained model.
func NewCategoryClassifier(cfg CategoryConfig, logger logging.Logger) *CategoryClassifier {
	if cfg.KeywordWeight <= 0 {
		cfg.KeywordWeight = defaultKeywordWeight
	}
	if cfg.ModelWeight <= 0 {
		cfg.ModelWeight = defaultModelWeight
	}

	var keywords []string
	var kwCategory []domain.Category
	for _, cat := range domain.CategoryPriority {
		for _, kw := range categoryKeywords[cat] {
			keywords = append(keywords, normalizeKeyword(kw))
			kwCategory = append(kwCategory, cat)
		}
	}

	c := &CategoryClassifier{
		matcher:       ahocorasick.NewStringMatcher(keywords),
		keywords:      keywords,
		kwCategory:    kwCategory,
		keywordWeight: cfg.KeywordWeight,
		modelWeight:   cfg.ModelWeight,
		logger:        logger,
	}
	if cfg.Model != nil {
		c.model.Store(cfg.Model)
	}

	logger.Info("category classifier initialized",
		logging.Int("keywords", len(keywords)),
		logging.Bool("trained_model", cfg.Model != nil),
	)

	return c
}

// SwapModel atomically replaces the trained model. Concurrent Classify
// calls observe either the old or the new model, never a partial state.
func (c *CategoryClassifier) SwapModel(m *CategoryModel) {
	c.model.Store(m)
	if m != nil {
		c.logger.Info("category model swapped", logging.String("version", m.Version))
	}
}

// Classify maps text to a category with a confidence in [0,1]. Text with no
// keyword or model signal is "general" with zero confidence.
func (c *CategoryClassifier) Classify(text string) domain.CategoryResult {
	counts := c.keywordCounts(text)

	total := 0
	for _, n := range counts {
		total += n
	}

	kwScore := make(map[domain.Category]float64, len(counts))
	if total > 0 {
		for cat, n := range counts {
			kwScore[cat] = float64(n) / float64(total)
		}
	}

	model := c.model.Load()

	blended := make(map[domain.Category]float64, len(domain.CategoryPriority))
	if model != nil {
		proba := model.Proba(text)
		for _, cat := range domain.CategoryPriority {
			blended[cat] = c.keywordWeight*kwScore[cat] + c.modelWeight*proba[cat]
		}
	} else {
		for cat, s := range kwScore {
			blended[cat] = s
		}
	}

	// Argmax with fixed priority tie-break: an earlier category keeps the
	// win unless a later one is strictly greater.
	winner := domain.CategoryGeneral
	var best float64
	for _, cat := range domain.CategoryPriority {
		if blended[cat] > best {
			best = blended[cat]
			winner = cat
		}
	}

	confidence := best
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}

	return domain.CategoryResult{
		Category:   winner,
		Confidence: confidence,
		RawCounts:  counts,
	}
}

// keywordCounts counts, per category, how many curated terms occur in the
// text. Each term is counted once, matching the term-presence semantics of
// the scoring blend.
func (c *CategoryClassifier) keywordCounts(text string) map[domain.Category]int {
	counts := map[domain.Category]int{
		domain.CategoryEnvironmental: 0,
		domain.CategorySocial:        0,
		domain.CategoryGovernance:    0,
	}

	hits := c.matcher.Match([]byte(normalizeText(text)))
	for _, idx := range hits {
		if idx < 0 || idx >= len(c.kwCategory) {
			continue
		}
		counts[c.kwCategory[idx]]++
	}

	return counts
}
