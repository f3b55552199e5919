// Package telemetry provides OpenTelemetry instrumentation for the analyzer
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "esg-analyzer"

// Metrics holds all analyzer Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysesFailed   prometheus.Counter
	AnalysisDuration prometheus.Histogram
	ItemsScored      prometheus.Counter
	ItemsDropped     prometheus.Counter

	// Corpus cache metrics
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	FetchCoalesced prometheus.Counter

	// Degradation metrics
	SentimentFallbacks prometheus.Counter

	// Risk metrics
	RisksDetected *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m)
	initCacheMetrics(m)
	initRiskMetrics(m)
	return m
}

func initPipelineMetrics(m *Metrics) {
	m.AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esg_analyses_total",
		Help: "Total analyses run, by operation (analyze, compare, risks)",
	}, []string{"operation"})

	m.AnalysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_analyses_failed_total",
		Help: "Total analyses that failed",
	})

	m.AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esg_analysis_duration_seconds",
		Help:    "Time to run one full analysis",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})

	m.ItemsScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_items_scored_total",
		Help: "Total text items scored for sentiment and category",
	})

	m.ItemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_items_dropped_total",
		Help: "Total text items dropped in preprocessing or by the per-analysis cap",
	})

	m.SentimentFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_sentiment_fallbacks_total",
		Help: "Total sentiment scores served by the lexicon fallback",
	})
}

func initCacheMetrics(m *Metrics) {
	m.CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_corpus_cache_hits_total",
		Help: "Corpus cache hits",
	})

	m.CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_corpus_cache_misses_total",
		Help: "Corpus cache misses resulting in a fetch",
	})

	m.FetchCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esg_corpus_fetch_coalesced_total",
		Help: "Concurrent fetches coalesced into one upstream call",
	})
}

func initRiskMetrics(m *Metrics) {
	m.RisksDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esg_risks_detected_total",
		Help: "Risk events detected, by severity",
	}, []string{"severity"})
}
