package analyzer

import (
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

// Defaults for the aggregator. BlendWeight is the share given to newly
// computed scores when a prior score set exists; ConfidenceSaturation is the
// item count at which confidence reaches 1.0.
const (
	defaultBlendWeight          = 0.7
	defaultConfidenceSaturation = 20
)

// ScoreAggregator folds per-item sentiment and category results into the
// 0-100 pillar scores, the weighted overall score, and a confidence value.
type ScoreAggregator struct {
	blendWeight float64
	saturation  int
	logger      logging.Logger
}

// AggregatorConfig configures score blending and confidence saturation.
// Zero values take the defaults.
type AggregatorConfig struct {
	// BlendWeight in (0,1] is the weight of new scores against a prior.
	BlendWeight float64
	// ConfidenceSaturation is the data-point count yielding full confidence.
	ConfidenceSaturation int
}

func NewScoreAggregator(cfg AggregatorConfig, logger logging.Logger) *ScoreAggregator {
	if cfg.BlendWeight <= 0 || cfg.BlendWeight > 1 {
		cfg.BlendWeight = defaultBlendWeight
	}
	if cfg.ConfidenceSaturation <= 0 {
		cfg.ConfidenceSaturation = defaultConfidenceSaturation
	}
	return &ScoreAggregator{
		blendWeight: cfg.BlendWeight,
		saturation:  cfg.ConfidenceSaturation,
		logger:      logger,
	}
}

// Aggregate computes a score set from scored items. A pillar with no items
// scores the neutral midpoint. When prior is non-nil, each pillar is blended
// blendWeight*new + (1-blendWeight)*prior and the overall is recomputed from
// the blended pillars so the pillar weighting always holds.
func (a *ScoreAggregator) Aggregate(items []domain.ScoredItem, prior *domain.ESGScoreSet) domain.ESGScoreSet {
	sums := map[domain.Category]float64{}
	counts := map[domain.Category]int{}

	for _, it := range items {
		cat := it.Category.Category
		if cat == domain.CategoryGeneral {
			continue
		}
		sums[cat] += it.Sentiment.Score * it.Category.Confidence
		counts[cat]++
	}

	pillar := func(cat domain.Category) float64 {
		n := counts[cat]
		if n == 0 {
			return domain.NeutralScore
		}
		return domain.Round2(sums[cat] / float64(n) * 100)
	}

	e := pillar(domain.CategoryEnvironmental)
	s := pillar(domain.CategorySocial)
	g := pillar(domain.CategoryGovernance)

	if prior != nil {
		e = a.blend(e, prior.Environmental)
		s = a.blend(s, prior.Social)
		g = a.blend(g, prior.Governance)
	}

	dataPoints := len(items)
	confidence := float64(dataPoints) / float64(a.saturation)
	if confidence > 1 {
		confidence = 1
	}

	set := domain.ESGScoreSet{
		Environmental: e,
		Social:        s,
		Governance:    g,
		Overall:       domain.OverallFrom(e, s, g),
		Confidence:    domain.Round2(confidence),
		DataPoints:    dataPoints,
	}

	a.logger.Debug("scores aggregated",
		logging.Float64("e_score", set.Environmental),
		logging.Float64("s_score", set.Social),
		logging.Float64("g_score", set.Governance),
		logging.Float64("overall", set.Overall),
		logging.Int("data_points", dataPoints),
		logging.Bool("blended_prior", prior != nil),
	)

	return set
}

func (a *ScoreAggregator) blend(fresh, prior float64) float64 {
	return domain.Round2(a.blendWeight*fresh + (1-a.blendWeight)*prior)
}
