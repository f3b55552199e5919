package analyzer

import (
	"errors"
	"strings"

	prose "github.com/tsawler/prose/v3"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

// ErrModelUnavailable indicates the primary sentiment engine could not be
// constructed. The scorer recovers by running on the lexicon fallback; this
// error is logged, never returned to pipeline callers.
var ErrModelUnavailable = errors.New("primary sentiment engine unavailable")

// Polarity thresholds for mapping a [-1,1] polarity onto discrete labels.
const (
	positivePolarity = 0.1
	negativePolarity = -0.1
)

// neutralScore is the normalized score of a text with no polarity signal.
const neutralScore = 0.5

// sentimentEngine maps text to a polarity in [-1,1]. Both engines honor the
// same contract so callers never care which one ran.
type sentimentEngine interface {
	polarity(text string) (float64, error)
}

// SentimentScorer scores text polarity using a primary engine with a
// deterministic lexicon fallback. The engine is chosen at construction;
// per-call failures of the primary engine degrade to the fallback for that
// call only.
type SentimentScorer struct {
	primary  sentimentEngine // nil when running in degraded mode
	fallback *lexiconEngine
	logger   logging.Logger
}

// SentimentConfig configures the sentiment scorer.
type SentimentConfig struct {
	// DisablePrimary forces lexicon-only scoring. Used in tests and when the
	// deployment cannot ship the primary model.
	DisablePrimary bool
	// LexiconPath optionally points at an external lexicon file for the
	// primary engine. A load failure degrades to the fallback engine.
	LexiconPath string
}

// NewSentimentScorer builds a scorer, preferring the primary prose engine.
// Primary construction failure is a degraded-mode condition, not an error:
// the returned scorer runs on the fallback and the condition is logged.
func NewSentimentScorer(cfg SentimentConfig, logger logging.Logger) *SentimentScorer {
	s := &SentimentScorer{
		fallback: newLexiconEngine(),
		logger:   logger,
	}

	if cfg.DisablePrimary {
		logger.Info("sentiment scorer running lexicon-only")
		return s
	}

	primary, err := newProseEngine(cfg.LexiconPath)
	if err != nil {
		logger.Warn("sentiment scorer degraded to fallback engine",
			logging.Error(errors.Join(ErrModelUnavailable, err)))
		return s
	}

	s.primary = primary
	return s
}

// Degraded reports whether the scorer is running without its primary engine.
func (s *SentimentScorer) Degraded() bool {
	return s.primary == nil
}

// Score maps text to a sentiment label and a normalized score in [0,1].
// Empty text is neutral. A runtime failure of the primary engine falls back
// to the lexicon estimate for that text, flagged with MethodFallback.
func (s *SentimentScorer) Score(text string) domain.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentResult{
			Label:  domain.LabelNeutral,
			Score:  neutralScore,
			Method: domain.MethodFallback,
		}
	}

	if s.primary != nil {
		p, err := s.primary.polarity(text)
		if err == nil {
			return resultFromPolarity(p, domain.MethodPrimary)
		}
		s.logger.Warn("primary sentiment engine failed, using fallback",
			logging.Error(err))
	}

	p, _ := s.fallback.polarity(text)
	return resultFromPolarity(p, domain.MethodFallback)
}

// resultFromPolarity converts a [-1,1] polarity into the normalized result
// contract shared by both engines.
func resultFromPolarity(polarity float64, method domain.SentimentMethod) domain.SentimentResult {
	label := domain.LabelNeutral
	switch {
	case polarity > positivePolarity:
		label = domain.LabelPositive
	case polarity < negativePolarity:
		label = domain.LabelNegative
	}

	score := (polarity + 1) / 2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return domain.SentimentResult{Label: label, Score: score, Method: method}
}

// proseEngine wraps the prose sentiment analyzer as the primary engine.
type proseEngine struct {
	analyzer *prose.SentimentAnalyzer
}

func newProseEngine(lexiconPath string) (*proseEngine, error) {
	cfg := prose.DefaultSentimentConfig()

	if lexiconPath != "" {
		analyzer, err := prose.NewSentimentAnalyzerWithExternal(prose.English, cfg, lexiconPath)
		if err != nil {
			return nil, err
		}
		return &proseEngine{analyzer: analyzer}, nil
	}

	return &proseEngine{analyzer: prose.NewSentimentAnalyzer(prose.English, cfg)}, nil
}

func (e *proseEngine) polarity(text string) (float64, error) {
	// Tagging and entity extraction are not needed for polarity; skip them.
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return 0, err
	}
	return e.analyzer.AnalyzeDocument(doc).Polarity, nil
}
