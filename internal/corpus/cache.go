// Package corpus caches fetched text corpora per subject so repeated
// analyses within the TTL reuse one fetch, and concurrent analyses of the
// same subject coalesce into a single upstream call.
package corpus

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
	"github.com/jonesrussell/esg-analyzer/internal/logging"
)

// DefaultTTL is how long a fetched corpus stays live.
const DefaultTTL = time.Hour

// FetchFunc loads the corpus for a subject from an upstream source.
type FetchFunc func(ctx context.Context, subject string) ([]domain.TextItem, error)

// StatsRecorder receives cache activity counts. Implementations must be
// safe for concurrent use.
type StatsRecorder interface {
	CacheHit()
	CacheMiss()
	FetchCoalesced()
}

type entry struct {
	items     []domain.TextItem
	fetchedAt time.Time
}

// Cache is a TTL cache of per-subject corpora. Lookups of a live entry never
// touch the upstream; expired entries are evicted lazily on access.
// Concurrent misses for the same subject share one fetch via singleflight.
type Cache struct {
	ttl    time.Duration
	logger logging.Logger

	mu      sync.RWMutex
	entries map[string]entry

	group singleflight.Group
	clock func() time.Time
	stats StatsRecorder
}

func NewCache(ttl time.Duration, logger logging.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// SetStats attaches a stats recorder. Call before the cache is shared.
func (c *Cache) SetStats(r StatsRecorder) {
	c.stats = r
}

// GetOrFetch returns the cached corpus for subject, fetching it when absent
// or expired. The returned slice must be treated as read-only; callers that
// mutate items must copy first.
func (c *Cache) GetOrFetch(ctx context.Context, subject string, fetch FetchFunc) ([]domain.TextItem, error) {
	key := cacheKey(subject)

	if items, ok := c.lookup(key); ok {
		c.logger.Debug("corpus cache hit", logging.String("subject", subject))
		if c.stats != nil {
			c.stats.CacheHit()
		}
		return items, nil
	}
	if c.stats != nil {
		c.stats.CacheMiss()
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// A racing goroutine may have completed the fetch while this one
		// waited to enter the group.
		if items, ok := c.lookup(key); ok {
			return items, nil
		}

		items, err := fetch(ctx, subject)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry{items: items, fetchedAt: c.clock()}
		c.mu.Unlock()

		c.logger.Debug("corpus fetched",
			logging.String("subject", subject),
			logging.Int("items", len(items)),
		)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("corpus fetch coalesced", logging.String("subject", subject))
		if c.stats != nil {
			c.stats.FetchCoalesced()
		}
	}

	return v.([]domain.TextItem), nil
}

// Invalidate drops the cached corpus for a subject.
func (c *Cache) Invalidate(subject string) {
	c.mu.Lock()
	delete(c.entries, cacheKey(subject))
	c.mu.Unlock()
}

// Len reports the number of live entries, evicting expired ones.
func (c *Cache) Len() int {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}

func (c *Cache) lookup(key string) ([]domain.TextItem, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.clock().Sub(e.fetchedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a fresh entry may have replaced it.
		if cur, still := c.entries[key]; still && cur.fetchedAt.Equal(e.fetchedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.items, true
}

func cacheKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
