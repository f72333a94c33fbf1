package cache

import (
	"sync"
	"time"
)

// Entry is a cached value and when it was stored
type Entry[T any] struct {
	Value     T
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Cache holds a single value for a fixed TTL. It replaces package-level
// mutable state so callers can inject a cache per service.
type Cache[T any] struct {
	mu    sync.RWMutex
	entry *Entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache
type Option[T any] func(*Cache[T])

// WithClock overrides the time source, mostly for tests
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.now = now
	}
}

// New creates a cache whose entries expire after ttl. A ttl <= 0 means
// entries never expire.
func New[T any](ttl time.Duration, opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached entry if one is present and not expired
func (c *Cache[T]) Get() (Entry[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return Entry[T]{}, false
	}
	if c.ttl > 0 && !c.now().Before(c.entry.ExpiresAt) {
		return Entry[T]{}, false
	}
	return *c.entry, true
}

// Set stores value, replacing any previous entry
func (c *Cache[T]) Set(value T) Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entry = &Entry[T]{
		Value:     value,
		StoredAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
	return *c.entry
}

// Invalidate drops the cached entry
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// TTL returns the configured staleness window
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}
