package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe in-memory cache with a hard size limit and TTL
// expiry. When full, the least recently used entry is evicted.
type Cache struct {
	maxSize int
	ttl     time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	hits    int64
	misses  int64
}

type entry struct {
	value      any
	storedAt   time.Time
	accessedAt time.Time
}

func New(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	e.accessedAt = time.Now()
	c.hits++
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	now := time.Now()
	c.entries[key] = &entry{value: value, storedAt: now, accessedAt: now}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// caller must hold c.mu
func (c *Cache) evictLRU() {
	var lruKey string
	var lruTime time.Time
	for key, e := range c.entries {
		if lruKey == "" || e.accessedAt.Before(lruTime) {
			lruKey = key
			lruTime = e.accessedAt
		}
	}
	if lruKey != "" {
		delete(c.entries, lruKey)
	}
}
