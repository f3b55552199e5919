package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultServicePort, cfg.Service.Port)
	assert.Equal(t, defaultMaxItems, cfg.Analysis.MaxItems)
	assert.InDelta(t, defaultRiskThreshold, cfg.Analysis.RiskThreshold, 1e-9)
	assert.InDelta(t, defaultBlendWeight, cfg.Analysis.BlendWeight, 1e-9)
	assert.Equal(t, time.Hour, cfg.Analysis.CacheTTL)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Watcher.AutoPersist)
	assert.Empty(t, cfg.Watcher.Subjects)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ESG_PORT", "9090")
	t.Setenv("ESG_MAX_ITEMS", "50")
	t.Setenv("ESG_RISK_THRESHOLD", "0.25")
	t.Setenv("ESG_WATCHLIST", "Acme Corp, Globex ,Initech")
	t.Setenv("ESG_AUTO_PERSIST", "true")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, 50, cfg.Analysis.MaxItems)
	assert.InDelta(t, 0.25, cfg.Analysis.RiskThreshold, 1e-9)
	assert.Equal(t, []string{"Acme Corp", "Globex", "Initech"}, cfg.Watcher.Subjects)
	assert.True(t, cfg.Watcher.AutoPersist)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"threshold too high", "ESG_RISK_THRESHOLD", "1.5"},
		{"blend weight zero", "ESG_BLEND_WEIGHT", "-1"},
		{"negative max items", "ESG_MAX_ITEMS", "-5"},
		{"port out of range", "ESG_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("ESG_MAX_ITEMS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultMaxItems, cfg.Analysis.MaxItems)
}
