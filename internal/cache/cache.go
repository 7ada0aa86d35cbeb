// Package cache provides the in-process TTL result cache consulted by the
// analysis pool and the API layer.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a namespaced key/value store with per-entry TTL. Expired entries
// are evicted lazily on read and swept periodically by a janitor goroutine.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	stop chan struct{}
	once sync.Once
}

// New creates a cache whose janitor sweeps expired entries every interval.
func New(janitorInterval time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.janitor(janitorInterval)
	return c
}

func cacheKey(namespace, key string) string {
	return namespace + "/" + key
}

// Get returns the value stored under (namespace, key), reporting a miss for
// absent or expired entries.
func (c *Cache) Get(namespace, key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[cacheKey(namespace, key)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, cacheKey(namespace, key))
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Put stores value under (namespace, key) for ttl. A non-positive ttl stores
// nothing.
func (c *Cache) Put(namespace, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[cacheKey(namespace, key)] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate removes one entry.
func (c *Cache) Invalidate(namespace, key string) {
	c.mu.Lock()
	delete(c.entries, cacheKey(namespace, key))
	c.mu.Unlock()
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the janitor. It is idempotent.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
