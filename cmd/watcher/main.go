package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jonesrussell/esg-analyzer/internal/analyzer"
	"github.com/jonesrussell/esg-analyzer/internal/collector"
	"github.com/jonesrussell/esg-analyzer/internal/config"
	"github.com/jonesrussell/esg-analyzer/internal/corpus"
	"github.com/jonesrussell/esg-analyzer/internal/database"
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
	"github.com/jonesrussell/esg-analyzer/internal/pipeline"
	"github.com/jonesrussell/esg-analyzer/internal/processor"
	"github.com/jonesrussell/esg-analyzer/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting watch processor",
		logging.Strings("watchlist", cfg.Watcher.Subjects),
		logging.Duration("poll_interval", cfg.Watcher.PollInterval),
	)

	var scoreStore processor.ScoreStore
	var alertStore processor.AlertStore
	if cfg.Database.Enabled {
		db, dbErr := database.NewPostgresConnection(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if dbErr != nil {
			logger.Error("database connection failed, persistence disabled", logging.Error(dbErr))
		} else {
			defer func() { _ = db.Close() }()
			scoreStore = database.NewScoreRepository(db)
			alertStore = database.NewAlertRepository(db)
		}
	}

	client := collector.NewClient(cfg.Collector.URL, cfg.Collector.Timeout)
	fetch := corpus.FetchFunc(func(ctx context.Context, subject string) ([]domain.TextItem, error) {
		return client.FetchTexts(ctx, subject, cfg.Analysis.MaxItems)
	})

	p := pipeline.New(pipeline.Options{
		MaxItems:      cfg.Analysis.MaxItems,
		RiskThreshold: cfg.Analysis.RiskThreshold,
		Concurrency:   cfg.Analysis.Concurrency,
		FetchTimeout:  cfg.Analysis.FetchTimeout,
		CacheTTL:      cfg.Analysis.CacheTTL,
	}, pipeline.Components{
		Preprocessor: analyzer.NewPreprocessor(0, logger),
		Sentiment: analyzer.NewSentimentScorer(analyzer.SentimentConfig{
			DisablePrimary: cfg.Analysis.DisablePrimarySent,
		}, logger),
		Classifier: analyzer.NewCategoryClassifier(analyzer.CategoryConfig{
			Model: analyzer.DefaultCategoryModel(),
		}, logger),
		Aggregator: analyzer.NewScoreAggregator(analyzer.AggregatorConfig{
			BlendWeight:          cfg.Analysis.BlendWeight,
			ConfidenceSaturation: cfg.Analysis.ConfidenceSaturation,
		}, logger),
		Risks:     analyzer.NewRiskDetector(logger),
		Insights:  analyzer.NewInsightGenerator(),
		Cache:     corpus.NewCache(cfg.Analysis.CacheTTL, logger),
		Telemetry: telemetry.NewProvider(),
	}, logger)

	watcher := processor.NewWatcher(p, fetch, scoreStore, alertStore, processor.WatcherConfig{
		Subjects:         cfg.Watcher.Subjects,
		PollInterval:     cfg.Watcher.PollInterval,
		AutoPersist:      cfg.Watcher.AutoPersist,
		FetchesPerMinute: cfg.Watcher.FetchesPerMinute,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		logger.Error("watcher failed to start", logging.Error(err))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown

	logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	watcher.Stop()
	cancel()
}
