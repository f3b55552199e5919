// Package config loads service configuration from the environment with
// sensible defaults. Entrypoints load a .env file first via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default configuration values.
const (
	defaultServiceName      = "esg-analyzer"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8085
	defaultMaxItems         = 20
	defaultRiskThreshold    = 0.3
	defaultBlendWeight      = 0.7
	defaultConfidenceSat    = 20
	defaultConcurrency      = 4
	defaultCacheTTLSec      = 3600
	defaultFetchTimeoutSec  = 15
	defaultPollIntervalSec  = 900
	defaultCollectorURL     = "http://localhost:8086"
	defaultCollectorTimeout = 10
	defaultDBHost           = "localhost"
	defaultDBPort           = "5432"
	defaultDBUser           = "postgres"
	defaultDBName           = "esg"
	defaultDBSSLMode        = "disable"
	defaultLogLevel         = "info"
)

// Config holds all configuration for the analyzer service.
type Config struct {
	Service   ServiceConfig
	Analysis  AnalysisConfig
	Collector CollectorConfig
	Database  DatabaseConfig
	Watcher   WatcherConfig
	Logging   LoggingConfig
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string
	Version string
	Port    int
	Debug   bool
}

// AnalysisConfig holds pipeline tuning options.
type AnalysisConfig struct {
	MaxItems             int
	RiskThreshold        float64
	BlendWeight          float64
	ConfidenceSaturation int
	Concurrency          int
	CacheTTL             time.Duration
	FetchTimeout         time.Duration
	DisablePrimarySent   bool
}

// CollectorConfig holds the text collector client settings.
type CollectorConfig struct {
	URL     string
	Timeout time.Duration
}

// DatabaseConfig holds database configuration. Enabled is derived from
// POSTGRES_HOST being set explicitly.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// WatcherConfig holds the background watch processor settings.
type WatcherConfig struct {
	Subjects     []string
	PollInterval time.Duration
	AutoPersist  bool
	// FetchesPerMinute rate-limits acquisition across the watchlist.
	FetchesPerMinute float64
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string
	Development bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:    defaultServiceName,
			Version: defaultServiceVersion,
			Port:    getEnvInt("ESG_PORT", defaultServicePort),
			Debug:   getEnvBool("APP_DEBUG", false),
		},
		Analysis: AnalysisConfig{
			MaxItems:             getEnvInt("ESG_MAX_ITEMS", defaultMaxItems),
			RiskThreshold:        getEnvFloat("ESG_RISK_THRESHOLD", defaultRiskThreshold),
			BlendWeight:          getEnvFloat("ESG_BLEND_WEIGHT", defaultBlendWeight),
			ConfidenceSaturation: getEnvInt("ESG_CONFIDENCE_SATURATION", defaultConfidenceSat),
			Concurrency:          getEnvInt("ESG_CONCURRENCY", defaultConcurrency),
			CacheTTL:             getEnvSeconds("ESG_CACHE_TTL_SECONDS", defaultCacheTTLSec),
			FetchTimeout:         getEnvSeconds("ESG_FETCH_TIMEOUT_SECONDS", defaultFetchTimeoutSec),
			DisablePrimarySent:   getEnvBool("ESG_DISABLE_PRIMARY_SENTIMENT", false),
		},
		Collector: CollectorConfig{
			URL:     getEnv("COLLECTOR_URL", defaultCollectorURL),
			Timeout: getEnvSeconds("COLLECTOR_TIMEOUT_SECONDS", defaultCollectorTimeout),
		},
		Database: DatabaseConfig{
			Enabled:  os.Getenv("POSTGRES_HOST") != "",
			Host:     getEnv("POSTGRES_HOST", defaultDBHost),
			Port:     getEnv("POSTGRES_PORT", defaultDBPort),
			User:     getEnv("POSTGRES_USER", defaultDBUser),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   getEnv("POSTGRES_DB", defaultDBName),
			SSLMode:  getEnv("POSTGRES_SSLMODE", defaultDBSSLMode),
		},
		Watcher: WatcherConfig{
			Subjects:         splitList(os.Getenv("ESG_WATCHLIST")),
			PollInterval:     getEnvSeconds("ESG_POLL_INTERVAL_SECONDS", defaultPollIntervalSec),
			AutoPersist:      getEnvBool("ESG_AUTO_PERSIST", false),
			FetchesPerMinute: getEnvFloat("ESG_FETCHES_PER_MINUTE", 30),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", defaultLogLevel),
			Development: getEnvBool("APP_DEBUG", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Analysis.MaxItems <= 0 {
		return fmt.Errorf("ESG_MAX_ITEMS must be positive, got %d", c.Analysis.MaxItems)
	}
	if c.Analysis.RiskThreshold <= 0 || c.Analysis.RiskThreshold >= 1 {
		return fmt.Errorf("ESG_RISK_THRESHOLD must be in (0,1), got %v", c.Analysis.RiskThreshold)
	}
	if c.Analysis.BlendWeight <= 0 || c.Analysis.BlendWeight > 1 {
		return fmt.Errorf("ESG_BLEND_WEIGHT must be in (0,1], got %v", c.Analysis.BlendWeight)
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("ESG_PORT out of range: %d", c.Service.Port)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallbackSec int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSec)) * time.Second
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
