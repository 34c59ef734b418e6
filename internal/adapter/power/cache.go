package power

import (
	"container/list"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/observability"
)

// CachedProvider wraps a HistoryProvider with an in-memory LRU cache keyed by
// rounded coordinates and year.
type CachedProvider struct {
	inner   domain.HistoryProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a history provider.
func NewCachedProvider(inner domain.HistoryProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// cacheKey rounds to two decimals, about 1 km, well inside one POWER grid cell.
func cacheKey(lat, lon float64, year int) string {
	return fmt.Sprintf("%.2f,%.2f|%d", lat, lon, year)
}

func (c *CachedProvider) DailyExtremes(ctx context.Context, lat, lon float64, year int) ([]domain.HistoricalSample, error) {
	key := cacheKey(lat, lon, year)
	if samples, ok := c.cache.get(key); ok {
		c.metrics.HistoryCache.WithLabelValues("hit").Inc()
		return slices.Clone(samples), nil
	}
	c.metrics.HistoryCache.WithLabelValues("miss").Inc()

	samples, err := c.inner.DailyExtremes(ctx, lat, lon, year)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so a year still being published can be retried.
	if len(samples) > 0 {
		c.cache.put(key, slices.Clone(samples))
	}
	return samples, nil
}

// lruCache is a thread-safe LRU cache of sample series.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type entry struct {
	key   string
	value []domain.HistoricalSample
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]domain.HistoricalSample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (c *lruCache) put(key string, value []domain.HistoricalSample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
