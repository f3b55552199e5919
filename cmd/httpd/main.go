package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jonesrussell/esg-analyzer/internal/analyzer"
	"github.com/jonesrussell/esg-analyzer/internal/api"
	"github.com/jonesrussell/esg-analyzer/internal/collector"
	"github.com/jonesrussell/esg-analyzer/internal/config"
	"github.com/jonesrussell/esg-analyzer/internal/corpus"
	"github.com/jonesrussell/esg-analyzer/internal/database"
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
	"github.com/jonesrussell/esg-analyzer/internal/pipeline"
	"github.com/jonesrussell/esg-analyzer/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
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

	logger.Info("starting analyzer http server",
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port),
	)

	provider := telemetry.NewProvider()

	var scores api.ScoreReader
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
			logger.Error("database connection failed, continuing without priors", logging.Error(dbErr))
		} else {
			defer func() { _ = db.Close() }()
			scores = database.NewScoreRepository(db)
			logger.Info("database connected", logging.String("host", cfg.Database.Host))
		}
	}

	client := collector.NewClient(cfg.Collector.URL, cfg.Collector.Timeout)
	fetch := func(ctx context.Context, subject string) ([]domain.TextItem, error) {
		return client.FetchTexts(ctx, subject, cfg.Analysis.MaxItems)
	}

	p := buildPipeline(cfg, provider, logger)
	handler := api.NewHandler(p, corpus.FetchFunc(fetch), scores, logger)
	server := api.NewServer(handler, provider.Handler(), api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}

func buildPipeline(cfg *config.Config, provider *telemetry.Provider, logger logging.Logger) *pipeline.Pipeline {
	opts := pipeline.Options{
		MaxItems:      cfg.Analysis.MaxItems,
		RiskThreshold: cfg.Analysis.RiskThreshold,
		Concurrency:   cfg.Analysis.Concurrency,
		FetchTimeout:  cfg.Analysis.FetchTimeout,
		CacheTTL:      cfg.Analysis.CacheTTL,
	}

	return pipeline.New(opts, pipeline.Components{
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
		Telemetry: provider,
	}, logger)
}
