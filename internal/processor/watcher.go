// Package processor runs the background watch loop: re-analyze a watchlist
// of subjects on an interval and persist scores and serious alerts.
package processor

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/esg-analyzer/internal/corpus"
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
	"github.com/jonesrussell/esg-analyzer/internal/pipeline"
)

const defaultPollInterval = 15 * time.Minute

// ScoreStore persists score history and supplies priors for blending.
type ScoreStore interface {
	SaveScore(ctx context.Context, subject string, scores domain.ESGScoreSet) error
	LatestScore(ctx context.Context, subject string) (*domain.ESGScoreSet, error)
}

// AlertStore persists detected risk events.
type AlertStore interface {
	SaveAlert(ctx context.Context, subject string, event domain.RiskEvent) error
}

// Watcher periodically re-analyzes the watchlist. Persistence is optional
// and only runs when AutoPersist is set and stores are wired.
type Watcher struct {
	pipeline *pipeline.Pipeline
	fetch    corpus.FetchFunc
	scores   ScoreStore
	alerts   AlertStore
	logger   logging.Logger

	subjects     []string
	pollInterval time.Duration
	autoPersist  bool
	limiter      *rate.Limiter

	running  bool
	stopChan chan struct{}
}

// WatcherConfig holds watcher configuration.
type WatcherConfig struct {
	Subjects     []string
	PollInterval time.Duration
	AutoPersist  bool
	// FetchesPerMinute rate-limits acquisition across subjects.
	FetchesPerMinute float64
}

// NewWatcher creates a watcher. scores and alerts may be nil when
// persistence is disabled.
func NewWatcher(p *pipeline.Pipeline, fetch corpus.FetchFunc, scores ScoreStore, alerts AlertStore, cfg WatcherConfig, logger logging.Logger) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.FetchesPerMinute <= 0 {
		cfg.FetchesPerMinute = 30
	}

	return &Watcher{
		pipeline:     p,
		fetch:        fetch,
		scores:       scores,
		alerts:       alerts,
		logger:       logger,
		subjects:     cfg.Subjects,
		pollInterval: cfg.PollInterval,
		autoPersist:  cfg.AutoPersist,
		limiter:      rate.NewLimiter(rate.Limit(cfg.FetchesPerMinute/60), 1),
		stopChan:     make(chan struct{}),
	}
}

// Start launches the watch loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	if w.running {
		return errors.New("watcher is already running")
	}
	if len(w.subjects) == 0 {
		return errors.New("watchlist is empty")
	}

	w.running = true
	w.logger.Info("watcher starting",
		logging.Int("subjects", len(w.subjects)),
		logging.Duration("poll_interval", w.pollInterval),
		logging.Bool("auto_persist", w.autoPersist),
	)

	go w.run(ctx)
	return nil
}

// Stop stops the watch loop.
func (w *Watcher) Stop() {
	if !w.running {
		return
	}
	w.logger.Info("watcher stopping")
	close(w.stopChan)
	w.running = false
}

func (w *Watcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Run a sweep immediately on start.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped due to context cancellation")
			return
		case <-w.stopChan:
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep analyzes every watched subject once.
func (w *Watcher) sweep(ctx context.Context) {
	for _, subject := range w.subjects {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}

		// Force a fresh corpus per sweep; stale cache would make the
		// sweep a no-op against new coverage.
		w.pipeline.InvalidateCorpus(subject)

		prior := w.prior(ctx, subject)
		report, err := w.pipeline.Analyze(ctx, subject, w.fetch, prior)
		if err != nil {
			w.logger.Error("watch analysis failed",
				logging.String("subject", subject),
				logging.Error(err),
			)
			continue
		}

		w.logger.Info("watch analysis complete",
			logging.String("subject", subject),
			logging.Float64("overall", report.Scores.Overall),
			logging.Int("risks", len(report.Risks)),
		)

		if w.autoPersist {
			w.persist(ctx, subject, report)
		}
	}
}

func (w *Watcher) prior(ctx context.Context, subject string) *domain.ESGScoreSet {
	if w.scores == nil {
		return nil
	}
	prior, err := w.scores.LatestScore(ctx, subject)
	if err != nil {
		return nil
	}
	return prior
}

func (w *Watcher) persist(ctx context.Context, subject string, report *domain.AnalysisReport) {
	if w.scores != nil {
		if err := w.scores.SaveScore(ctx, subject, report.Scores); err != nil {
			w.logger.Error("failed to persist score",
				logging.String("subject", subject),
				logging.Error(err),
			)
		}
	}

	if w.alerts == nil {
		return
	}
	for _, risk := range report.Risks {
		if risk.Severity != domain.SeverityCritical && risk.Severity != domain.SeverityHigh {
			continue
		}
		if err := w.alerts.SaveAlert(ctx, subject, risk); err != nil {
			w.logger.Error("failed to persist alert",
				logging.String("subject", subject),
				logging.Error(err),
			)
		}
	}
}
