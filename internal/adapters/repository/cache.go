package repository

import (
	"context"
	"sync"

	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/pkg/metrics"
)

// defaultCacheSize bounds the in-memory artifact cache.
const defaultCacheSize = 256

type cacheEntry struct {
	art  Artifact
	meta types.Metadata
}

// CachedStore is a bounded read-through cache in front of a Store. The
// inference path is read-heavy and lock-free apart from the RWMutex here;
// Save invalidates the route so a retrain is visible immediately.
type CachedStore struct {
	next Store

	mu      sync.RWMutex
	entries map[string]cacheEntry
	order   []string // insertion order for eviction
	maxSize int
}

// NewCachedStore wraps next with a bounded cache.
func NewCachedStore(next Store, opts ...CacheOption) *CachedStore {
	c := &CachedStore{
		next:    next,
		entries: make(map[string]cacheEntry),
		maxSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheOption applies a configuration option to the CachedStore.
type CacheOption func(*CachedStore)

// WithCacheSize bounds the number of cached routes.
func WithCacheSize(size int) CacheOption {
	return func(c *CachedStore) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// Save writes through and invalidates the cached route.
func (c *CachedStore) Save(ctx context.Context, routeID string, art Artifact, meta types.Metadata) error {
	if err := c.next.Save(ctx, routeID, art, meta); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.entries, routeID)
	c.mu.Unlock()
	return nil
}

// Load serves from cache when possible, reading through on a miss.
func (c *CachedStore) Load(ctx context.Context, routeID string) (Artifact, types.Metadata, error) {
	c.mu.RLock()
	entry, ok := c.entries[routeID]
	c.mu.RUnlock()
	if ok {
		metrics.RecordModelCacheHit()
		return entry.art, entry.meta, nil
	}
	metrics.RecordModelCacheMiss()

	art, meta, err := c.next.Load(ctx, routeID)
	if err != nil {
		return art, meta, err
	}

	c.mu.Lock()
	if _, exists := c.entries[routeID]; !exists {
		// Invalidated routes may linger in order; keep popping until an
		// actual entry is evicted or the list drains.
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[routeID] = cacheEntry{art: art, meta: meta}
		c.order = append(c.order, routeID)
	}
	c.mu.Unlock()
	return art, meta, nil
}

// ListRoutes always hits the underlying store; listings must reflect disk.
func (c *CachedStore) ListRoutes(ctx context.Context) ([]string, error) {
	return c.next.ListRoutes(ctx)
}
