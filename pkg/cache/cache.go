// Package cache provides the in-process read-through cache used for
// slow-changing catalog data.
//
// Entries expire lazily: Get evicts an entry it finds past its expiry.
// Sweep removes every expired entry and is meant to be driven by a
// scheduler; correctness never depends on it running.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 300000 * time.Millisecond

// Clock returns the current time. Tests substitute a controllable clock.
type Clock func() time.Time

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a process-wide key/value map with per-entry expiry.
// The zero value is not usable; construct with New.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	now        Clock
	defaultTTL time.Duration
}

type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithDefaultTTL overrides DefaultTTL for this cache.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key until now+ttl.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Get returns the cached value and true while now <= expiresAt.
// A stored nil or empty value is still a hit; ok is false only on a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()
	if !found {
		return nil, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Another writer may have refreshed the key since the read lock.
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Clear removes the given keys, or every entry when called with none.
func (c *Cache) Clear(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Sweep drops all expired entries and reports how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
