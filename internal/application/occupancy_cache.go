package application

import (
	"sync"
	"time"
)

// occupancyCache stores recently computed advisory projections to avoid
// repeated store queries for identical requests. Results are advisory by
// contract, so serving a slightly stale projection is acceptable; the
// orchestrator re-validates at commit time.
type occupancyCache[T any] struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]occupancyCacheEntry[T]
}

type occupancyCacheEntry[T any] struct {
	values    []T
	expiresAt time.Time
}

func newOccupancyCache[T any](ttl time.Duration, maxEntries int, now func() time.Time) *occupancyCache[T] {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &occupancyCache[T]{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]occupancyCacheEntry[T]),
	}
}

func (c *occupancyCache[T]) Get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneValues(entry.values), true
}

func (c *occupancyCache[T]) Store(key string, values []T) {
	if c == nil {
		return
	}
	cloned := cloneValues(values)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = occupancyCacheEntry[T]{values: cloned, expiresAt: expiry}
}

func (c *occupancyCache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]occupancyCacheEntry[T])
	c.mu.Unlock()
}

func (c *occupancyCache[T]) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *occupancyCache[T]) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneValues[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	return out
}
