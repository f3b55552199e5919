// Package pipeline orchestrates corpus acquisition, per-item scoring,
// aggregation, risk detection, and insight generation into the analyze,
// compare, and risk operations.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/esg-analyzer/internal/analyzer"
	"github.com/jonesrussell/esg-analyzer/internal/corpus"
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
	"github.com/jonesrussell/esg-analyzer/internal/telemetry"
)

// Defaults for pipeline options.
const (
	DefaultMaxItems     = 20
	DefaultConcurrency  = 4
	DefaultFetchTimeout = 15 * time.Second
)

// Options tunes one pipeline instance. Zero values take the defaults.
type Options struct {
	// MaxItems caps how many texts one analysis considers.
	MaxItems int
	// RiskThreshold is the sentiment score below which items become risks.
	RiskThreshold float64
	// Concurrency bounds the per-item scoring worker pool.
	Concurrency int
	// FetchTimeout bounds corpus acquisition per analysis.
	FetchTimeout time.Duration
	// CacheTTL is how long fetched corpora stay reusable.
	CacheTTL time.Duration
}

func (o *Options) applyDefaults() {
	if o.MaxItems <= 0 {
		o.MaxItems = DefaultMaxItems
	}
	if o.RiskThreshold <= 0 {
		o.RiskThreshold = analyzer.DefaultRiskThreshold
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
}

// Pipeline wires the analysis stages together. It is safe for concurrent
// use; all stages are either stateless or internally synchronized.
type Pipeline struct {
	opts Options

	preprocessor *analyzer.Preprocessor
	sentiment    *analyzer.SentimentScorer
	classifier   *analyzer.CategoryClassifier
	aggregator   *analyzer.ScoreAggregator
	risks        *analyzer.RiskDetector
	insights     *analyzer.InsightGenerator
	cache        *corpus.Cache

	telemetry *telemetry.Provider
	tracer    trace.Tracer
	logger    logging.Logger
	clock     func() time.Time
}

// Components are the analysis stages a pipeline orchestrates.
type Components struct {
	Preprocessor *analyzer.Preprocessor
	Sentiment    *analyzer.SentimentScorer
	Classifier   *analyzer.CategoryClassifier
	Aggregator   *analyzer.ScoreAggregator
	Risks        *analyzer.RiskDetector
	Insights     *analyzer.InsightGenerator
	Cache        *corpus.Cache
	// Telemetry is optional; a nil provider disables metrics.
	Telemetry *telemetry.Provider
}

// New builds a pipeline from pre-constructed components.
func New(opts Options, c Components, logger logging.Logger) *Pipeline {
	opts.applyDefaults()
	// The global tracer is a no-op unless a provider is registered.
	tracer := otel.Tracer("esg-analyzer/pipeline")
	if c.Telemetry != nil {
		tracer = c.Telemetry.Tracer
		if c.Cache != nil {
			c.Cache.SetStats(cacheStats{m: c.Telemetry.Metrics})
		}
	}
	return &Pipeline{
		opts:         opts,
		preprocessor: c.Preprocessor,
		sentiment:    c.Sentiment,
		classifier:   c.Classifier,
		aggregator:   c.Aggregator,
		risks:        c.Risks,
		insights:     c.Insights,
		cache:        c.Cache,
		telemetry:    c.Telemetry,
		tracer:       tracer,
		logger:       logger,
		clock:        time.Now,
	}
}

// NewDefault builds a pipeline with freshly constructed default components.
func NewDefault(opts Options, sentimentCfg analyzer.SentimentConfig, logger logging.Logger) *Pipeline {
	opts.applyDefaults()
	return New(opts, Components{
		Preprocessor: analyzer.NewPreprocessor(0, logger),
		Sentiment:    analyzer.NewSentimentScorer(sentimentCfg, logger),
		Classifier: analyzer.NewCategoryClassifier(analyzer.CategoryConfig{
			Model: analyzer.DefaultCategoryModel(),
		}, logger),
		Aggregator: analyzer.NewScoreAggregator(analyzer.AggregatorConfig{}, logger),
		Risks:      analyzer.NewRiskDetector(logger),
		Insights:   analyzer.NewInsightGenerator(),
		Cache:      corpus.NewCache(opts.CacheTTL, logger),
	}, logger)
}

// Analyze runs the full pipeline for one subject. fetch supplies the corpus;
// prior, when non-nil, is blended into the fresh scores. Acquisition
// failures degrade the report instead of failing it; the only returned error
// is domain.ErrInvalidSubject.
func (p *Pipeline) Analyze(ctx context.Context, subject string, fetch corpus.FetchFunc, prior *domain.ESGScoreSet) (*domain.AnalysisReport, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		p.countFailure()
		return nil, domain.ErrInvalidSubject
	}

	start := p.clock()
	ctx, span := p.startSpan(ctx, "pipeline.analyze")
	defer span.End()

	items, degraded := p.acquire(ctx, subject, fetch)
	items = p.clean(items)

	scored := p.scoreItems(ctx, items)
	scores := p.aggregator.Aggregate(scored, prior)
	risks := p.risks.Detect(scored, p.opts.RiskThreshold)
	insights, recommendations := p.insights.Generate(scores, risks)

	report := &domain.AnalysisReport{
		ID:              uuid.NewString(),
		Subject:         subject,
		Scores:          scores,
		Risks:           risks,
		Insights:        insights,
		Recommendations: recommendations,
		DataPoints:      scores.DataPoints,
		Degraded:        degraded || p.sentiment.Degraded(),
		GeneratedAt:     p.clock().UTC(),
	}

	p.recordAnalysis("analyze", start, scored, risks)
	p.logger.Info("analysis complete",
		logging.String("subject", subject),
		logging.Float64("overall", scores.Overall),
		logging.Int("data_points", scores.DataPoints),
		logging.Int("risks", len(risks)),
		logging.Bool("degraded", report.Degraded),
	)

	return report, nil
}

// AnalyzeAspect analyzes a subject restricted to one ESG category. Items
// classified outside the aspect are discarded before aggregation, so the
// other pillars score the neutral midpoint.
func (p *Pipeline) AnalyzeAspect(ctx context.Context, subject string, fetch corpus.FetchFunc, aspect domain.Category, prior *domain.ESGScoreSet) (*domain.AnalysisReport, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		p.countFailure()
		return nil, domain.ErrInvalidSubject
	}

	start := p.clock()
	ctx, span := p.startSpan(ctx, "pipeline.analyze_aspect")
	defer span.End()

	items, degraded := p.acquire(ctx, subject, fetch)
	items = p.clean(items)

	scored := p.scoreItems(ctx, items)
	var filtered []domain.ScoredItem
	for _, it := range scored {
		if it.Category.Category == aspect {
			filtered = append(filtered, it)
		}
	}

	scores := p.aggregator.Aggregate(filtered, prior)
	risks := p.risks.Detect(filtered, p.opts.RiskThreshold)
	insights, recommendations := p.insights.Generate(scores, risks)

	report := &domain.AnalysisReport{
		ID:              uuid.NewString(),
		Subject:         subject,
		Scores:          scores,
		Risks:           risks,
		Insights:        insights,
		Recommendations: recommendations,
		DataPoints:      scores.DataPoints,
		Degraded:        degraded || p.sentiment.Degraded(),
		GeneratedAt:     p.clock().UTC(),
	}

	p.recordAnalysis("analyze_aspect", start, filtered, risks)
	return report, nil
}

// Compare analyzes each subject independently and ranks them descending by
// overall score, ties broken alphabetically by subject.
func (p *Pipeline) Compare(ctx context.Context, subjects []string, fetch corpus.FetchFunc) (*domain.Comparison, error) {
	if len(subjects) == 0 {
		p.countFailure()
		return nil, domain.ErrInvalidSubject
	}

	ctx, span := p.startSpan(ctx, "pipeline.compare")
	defer span.End()

	reports := make(map[string]*domain.AnalysisReport, len(subjects))
	for _, subject := range subjects {
		report, err := p.Analyze(ctx, subject, fetch, nil)
		if err != nil {
			return nil, err
		}
		reports[report.Subject] = report
	}

	rankings := make([]domain.Ranking, 0, len(reports))
	for subject, report := range reports {
		rankings = append(rankings, domain.Ranking{
			Subject: subject,
			Scores:  report.Scores,
			Risks:   len(report.Risks),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Scores.Overall != rankings[j].Scores.Overall {
			return rankings[i].Scores.Overall > rankings[j].Scores.Overall
		}
		return rankings[i].Subject < rankings[j].Subject
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	ordered := make([]string, len(rankings))
	for i, r := range rankings {
		ordered[i] = r.Subject
	}

	p.countOp("compare")
	return &domain.Comparison{
		Subjects:    ordered,
		Rankings:    rankings,
		Reports:     reports,
		Insights:    p.insights.CompareInsights(rankings),
		GeneratedAt: p.clock().UTC(),
	}, nil
}

// DetectRisks runs acquisition and scoring but skips aggregation, returning
// only the risk events above the given threshold.
func (p *Pipeline) DetectRisks(ctx context.Context, subject string, fetch corpus.FetchFunc, threshold float64) ([]domain.RiskEvent, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		p.countFailure()
		return nil, domain.ErrInvalidSubject
	}

	ctx, span := p.startSpan(ctx, "pipeline.detect_risks")
	defer span.End()

	items, _ := p.acquire(ctx, subject, fetch)
	items = p.clean(items)

	scored := p.scoreItems(ctx, items)
	risks := p.risks.Detect(scored, threshold)

	p.countOp("risks")
	p.countRisks(risks)
	return risks, nil
}

// ScoreSentiment exposes single-text sentiment scoring for API callers.
func (p *Pipeline) ScoreSentiment(text string) domain.SentimentResult {
	return p.sentiment.Score(text)
}

// ClassifyCategory exposes single-text category classification for API callers.
func (p *Pipeline) ClassifyCategory(text string) domain.CategoryResult {
	return p.classifier.Classify(text)
}

// InvalidateCorpus drops the cached corpus for a subject.
func (p *Pipeline) InvalidateCorpus(subject string) {
	p.cache.Invalidate(subject)
}

func (p *Pipeline) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name)
}

// cacheStats bridges corpus cache activity into Prometheus counters.
type cacheStats struct {
	m *telemetry.Metrics
}

func (s cacheStats) CacheHit()       { s.m.CacheHits.Inc() }
func (s cacheStats) CacheMiss()      { s.m.CacheMisses.Inc() }
func (s cacheStats) FetchCoalesced() { s.m.FetchCoalesced.Inc() }

// acquire fetches the corpus through the cache under the fetch timeout. A
// failed or timed-out fetch yields no items and marks the run degraded.
func (p *Pipeline) acquire(ctx context.Context, subject string, fetch corpus.FetchFunc) ([]domain.TextItem, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()

	items, err := p.cache.GetOrFetch(fetchCtx, subject, fetch)
	if err != nil {
		p.logger.Warn("corpus acquisition failed, continuing degraded",
			logging.String("subject", subject),
			logging.Error(err),
		)
		return nil, true
	}
	return items, false
}

// clean preprocesses the raw items and caps them at MaxItems. Items removed
// by either step count as dropped.
func (p *Pipeline) clean(items []domain.TextItem) []domain.TextItem {
	cleaned := p.preprocessor.Clean(items)
	if len(cleaned) > p.opts.MaxItems {
		cleaned = cleaned[:p.opts.MaxItems]
	}
	if p.telemetry != nil {
		p.telemetry.Metrics.ItemsDropped.Add(float64(len(items) - len(cleaned)))
	}
	return cleaned
}

// scoreItems runs sentiment and category scoring over the items with a
// bounded worker pool, preserving input order in the result.
func (p *Pipeline) scoreItems(ctx context.Context, items []domain.TextItem) []domain.ScoredItem {
	if len(items) == 0 {
		return nil
	}

	scored := make([]domain.ScoredItem, len(items))
	jobs := make(chan int)

	workers := p.opts.Concurrency
	if workers > len(items) {
		workers = len(items)
	}

	var fallbacks atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item := items[i]
				scored[i] = domain.ScoredItem{
					Item:      item,
					Sentiment: p.sentiment.Score(item.Text),
					Category:  p.classifier.Classify(item.Text),
				}
				if scored[i].Sentiment.Method == domain.MethodFallback {
					fallbacks.Add(1)
				}
			}
		}()
	}

	// Jobs are fed in order, so on cancellation everything before fed is
	// complete once the workers drain.
	fed := 0
feed:
	for i := range items {
		select {
		case jobs <- i:
			fed++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if p.telemetry != nil {
		p.telemetry.Metrics.ItemsScored.Add(float64(fed))
		p.telemetry.Metrics.SentimentFallbacks.Add(float64(fallbacks.Load()))
	}

	return scored[:fed]
}

func (p *Pipeline) recordAnalysis(op string, start time.Time, scored []domain.ScoredItem, risks []domain.RiskEvent) {
	if p.telemetry == nil {
		return
	}
	p.telemetry.Metrics.AnalysesTotal.WithLabelValues(op).Inc()
	p.telemetry.Metrics.AnalysisDuration.Observe(p.clock().Sub(start).Seconds())
	p.countRisks(risks)
}

func (p *Pipeline) countOp(op string) {
	if p.telemetry != nil {
		p.telemetry.Metrics.AnalysesTotal.WithLabelValues(op).Inc()
	}
}

func (p *Pipeline) countFailure() {
	if p.telemetry != nil {
		p.telemetry.Metrics.AnalysesFailed.Inc()
	}
}

func (p *Pipeline) countRisks(risks []domain.RiskEvent) {
	if p.telemetry == nil {
		return
	}
	for _, r := range risks {
		p.telemetry.Metrics.RisksDetected.WithLabelValues(string(r.Severity)).Inc()
	}
}
