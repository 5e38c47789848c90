// internal/cache/cache.go
package cache

import (
	"sync"
	"time"
)

// entry is a cached value with its expiry deadline.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a memoizing cache with a fixed time-to-live per entry. Expired
// entries are replaced lazily on the next access with the same key; there is
// no background eviction.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time

	// Hit and Miss are invoked outside the lock on each lookup outcome.
	// Either may be nil.
	Hit  func()
	Miss func()
}

// New creates a cache whose entries live for ttl after being stored.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrCompute returns the cached value for key, invoking compute on a miss
// or after expiry and storing its result. Errors from compute propagate to
// the caller and are never cached, so a failing lookup is retried on the
// next call.
//
// The lock is not held across compute: concurrent misses for the same cold
// key may each invoke compute, with the last writer winning. That is
// acceptable for the low-cardinality lookups this cache fronts.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	now := c.now()
	c.mu.Unlock()

	if ok && now.Before(e.expiresAt) {
		if c.Hit != nil {
			c.Hit()
		}
		return e.value, nil
	}
	if c.Miss != nil {
		c.Miss()
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
