package aws

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value    V
	expires  time.Time
	inserted time.Time
}

type ttlCache[V any] struct {
	mu       sync.RWMutex
	ttl      time.Duration
	capacity int
	data     map[string]cacheEntry[V]
}

func newTTLCache[V any](ttl time.Duration, capacity int) *ttlCache[V] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if capacity <= 0 {
		capacity = 1000
	}
	return &ttlCache[V]{
		ttl:      ttl,
		capacity: capacity,
		data:     make(map[string]cacheEntry[V]),
	}
}

func (c *ttlCache[V]) get(key string) (V, bool) {
	var zero V
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(entry.expires) {
		c.invalidate(key)
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[V]) set(key string, value V) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; !exists && len(c.data) >= c.capacity {
		c.evictOldestLocked()
	}
	c.data[key] = cacheEntry[V]{
		value:    value,
		expires:  now.Add(c.ttl),
		inserted: now,
	}
}

func (c *ttlCache[V]) invalidate(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

func (c *ttlCache[V]) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, v := range c.data {
		if first || v.inserted.Before(oldestTime) {
			oldestKey = k
			oldestTime = v.inserted
			first = false
		}
	}
	delete(c.data, oldestKey)
}
