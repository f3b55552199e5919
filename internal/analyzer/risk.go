package analyzer

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

// DefaultRiskThreshold is the sentiment score below which an item becomes a
// risk candidate.
const DefaultRiskThreshold = 0.3

// Severity score cutoffs, applied after the critical-keyword check.
const (
	criticalScoreCutoff = 0.15
	highScoreCutoff     = 0.25
)

// excerptLimit caps the excerpt length of a risk event, in runes.
const excerptLimit = 200

// RiskDetector flags scored items whose sentiment falls below a threshold.
// Severity grading is deterministic: critical keywords or a very low score
// outrank the plain score ladder. The detector never reclassifies an item;
// it reuses the category result already attached to it.
type RiskDetector struct {
	matcher *ahocorasick.Matcher
	clock   func() time.Time
	logger  logging.Logger
}

func NewRiskDetector(logger logging.Logger) *RiskDetector {
	terms := make([]string, len(criticalKeywords))
	copy(terms, criticalKeywords)
	return &RiskDetector{
		matcher: ahocorasick.NewStringMatcher(terms),
		clock:   time.Now,
		logger:  logger,
	}
}

// Detect returns risk events for items with sentiment score below threshold,
// sorted by severity rank descending and then by sentiment score ascending.
// threshold <= 0 uses the default. Passing a relaxed threshold (for example
// DefaultRiskThreshold+0.1) also surfaces "low" events at or above the base
// threshold.
func (d *RiskDetector) Detect(items []domain.ScoredItem, threshold float64) []domain.RiskEvent {
	if threshold <= 0 {
		threshold = DefaultRiskThreshold
	}

	now := d.clock().UTC()
	var events []domain.RiskEvent

	for _, it := range items {
		score := it.Sentiment.Score
		if score >= threshold {
			continue
		}

		events = append(events, domain.RiskEvent{
			Excerpt:        excerpt(it.Item.Text),
			Category:       it.Category.Category,
			Severity:       d.severity(it.Item.Text, score),
			SentimentScore: score,
			Confidence:     it.Category.Confidence,
			DetectedAt:     now,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		ri, rj := events[i].Severity.Rank(), events[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return events[i].SentimentScore < events[j].SentimentScore
	})

	if len(events) > 0 {
		d.logger.Debug("risks detected",
			logging.Int("events", len(events)),
			logging.Float64("threshold", threshold),
		)
	}

	return events
}

// severity grades a risk candidate. First match wins.
func (d *RiskDetector) severity(text string, score float64) domain.Severity {
	switch {
	case len(d.matcher.Match([]byte(normalizeText(text)))) > 0:
		return domain.SeverityCritical
	case score < criticalScoreCutoff:
		return domain.SeverityCritical
	case score < highScoreCutoff:
		return domain.SeverityHigh
	case score < DefaultRiskThreshold:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// excerpt truncates text to the excerpt limit on a rune boundary.
func excerpt(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= excerptLimit {
		return text
	}
	runes := []rune(text)
	return string(runes[:excerptLimit-3]) + "..."
}
