package catalog

import "sync"

// Cache is an in-process response cache keyed by final resolved URL. It is an
// explicit injected object rather than package state so each process (and
// each test) constructs its own instance and can assert on hits and misses.
//
// Entries are never invalidated except by Clear; within one resolution pass
// consistency matters more than freshness.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	hits    int
	misses  int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// Get returns the cached body for url, if present.
func (c *Cache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, ok := c.entries[url]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return body, ok
}

// Set stores a response body under url.
func (c *Cache) Set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = body
}

// Clear drops every entry and resets counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counts since creation or the last Clear.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
