// Package cache provides an in-memory LRU cache with TTL for caching
// responses from the read-heavy guard-check endpoints (origination and
// publish checks).
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is one cached guard-check response.
type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// LRUCache is a thread-safe cache with TTL and size-bounded eviction. The
// order list tracks recency; when the cache is full the entry at the back
// of the list is dropped. Expired entries are removed lazily on Get.
type LRUCache struct {
	mu      sync.Mutex
	index   map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
}

// NewLRUCache creates a cache holding at most maxSize entries, each valid
// for ttl. Non-positive arguments are clamped to a 1-entry, 5-second cache.
func NewLRUCache(maxSize int, ttl time.Duration) *LRUCache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &LRUCache{
		index:   make(map[string]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get returns the cached value for key, or (nil, false) when the key is
// absent or its TTL has elapsed.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		c.remove(el)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, refreshing the TTL. When the cache is full the
// oldest entry is evicted first.
func (c *LRUCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := time.Now().Add(c.ttl)
	if el, ok := c.index[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expires
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
	c.index[key] = c.order.PushFront(&entry{key: key, value: value, expiresAt: expires})
}

// Invalidate removes one key.
func (c *LRUCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.remove(el)
	}
}

// InvalidateAll empties the cache.
func (c *LRUCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]*list.Element, c.maxSize)
	c.order.Init()
}

// Size returns the number of entries, counting expired ones not yet swept.
func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// remove unlinks an element. Callers hold c.mu.
func (c *LRUCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*entry).key)
}
