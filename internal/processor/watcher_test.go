package processor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esg-analyzer/internal/analyzer"
	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
	"github.com/jonesrussell/esg-analyzer/internal/pipeline"
)

type memoryStore struct {
	mu     sync.Mutex
	scores     map[string][]domain.ESGScoreSet
	alerts     map[string][]domain.RiskEvent
	saved      chan struct{}
	alertSaved chan struct{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		scores:     make(map[string][]domain.ESGScoreSet),
		alerts:     make(map[string][]domain.RiskEvent),
		saved:      make(chan struct{}, 16),
		alertSaved: make(chan struct{}, 16),
	}
}

func (m *memoryStore) SaveScore(_ context.Context, subject string, scores domain.ESGScoreSet) error {
	m.mu.Lock()
	m.scores[subject] = append(m.scores[subject], scores)
	m.mu.Unlock()
	m.saved <- struct{}{}
	return nil
}

func (m *memoryStore) LatestScore(_ context.Context, subject string) (*domain.ESGScoreSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := m.scores[subject]
	if len(history) == 0 {
		return nil, domain.ErrInvalidSubject
	}
	latest := history[len(history)-1]
	return &latest, nil
}

func (m *memoryStore) SaveAlert(_ context.Context, subject string, event domain.RiskEvent) error {
	m.mu.Lock()
	m.alerts[subject] = append(m.alerts[subject], event)
	m.mu.Unlock()
	m.alertSaved <- struct{}{}
	return nil
}

func testWatcherPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	return pipeline.NewDefault(
		pipeline.Options{},
		analyzer.SentimentConfig{DisablePrimary: true},
		logging.NewNop(),
	)
}

func TestWatcherPersistsScoresAndAlerts(t *testing.T) {
	store := newMemoryStore()
	fetch := func(_ context.Context, subject string) ([]domain.TextItem, error) {
		return []domain.TextItem{
			{Text: "The company was fined for fraud and corruption in a major scandal", Subject: subject},
		}, nil
	}

	w := NewWatcher(testWatcherPipeline(t), fetch, store, store, WatcherConfig{
		Subjects:         []string{"acme"},
		PollInterval:     time.Hour, // only the startup sweep runs
		AutoPersist:      true,
		FetchesPerMinute: 6000,
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	select {
	case <-store.saved:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never persisted a score")
	}
	select {
	case <-store.alertSaved:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never persisted an alert")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.scores["acme"], 1)
	require.NotEmpty(t, store.alerts["acme"])
	assert.Equal(t, domain.SeverityCritical, store.alerts["acme"][0].Severity)
}

func TestWatcherStartValidation(t *testing.T) {
	w := NewWatcher(testWatcherPipeline(t), nil, nil, nil, WatcherConfig{}, logging.NewNop())
	assert.Error(t, w.Start(context.Background()), "empty watchlist must be rejected")

	w = NewWatcher(testWatcherPipeline(t), func(context.Context, string) ([]domain.TextItem, error) {
		return nil, nil
	}, nil, nil, WatcherConfig{Subjects: []string{"acme"}, PollInterval: time.Hour}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx), "double start must be rejected")
	w.Stop()
}
