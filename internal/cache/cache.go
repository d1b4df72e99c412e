package cache

import "sync"

// Cache is a generic thread-safe cache with a soft entry limit. When
// the cache exceeds the limit, least recently used entries are evicted.
//
// Cache is safe for concurrent use and must not be copied after
// creation.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[K, V]
	lru       *List[K]
	softLimit int

	hits   uint64
	misses uint64
}

type entry[K comparable, V any] struct {
	value V
	node  *Node[K]
}

// New creates a cache with the given soft limit. A limit of 0 means
// unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[K, V]),
		lru:       NewList[K](),
		softLimit: softLimit,
	}
}

// Get retrieves a value. Returns (value, true) on a hit.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.lru.MoveToFront(e.node)
	c.hits++
	return e.value, true
}

// Set stores a value, evicting the oldest entries when over the limit.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.lru.MoveToFront(e.node)
		return
	}
	c.entries[key] = &entry[K, V]{value: value, node: c.lru.PushFront(key)}
	for c.softLimit > 0 && len(c.entries) > c.softLimit {
		old, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(c.entries, old)
	}
}

// GetOrCreate returns the cached value or creates it under the lock,
// preventing duplicate creation.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.lru.MoveToFront(e.node)
		c.hits++
		return e.value
	}
	c.misses++
	value := create()
	c.entries[key] = &entry[K, V]{value: value, node: c.lru.PushFront(key)}
	for c.softLimit > 0 && len(c.entries) > c.softLimit {
		old, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(c.entries, old)
	}
	return value
}

// Delete removes an entry. Returns true when it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lru.Remove(e.node)
	delete(c.entries, key)
	return true
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*entry[K, V])
	c.lru.Clear()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit/miss counters since creation.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
