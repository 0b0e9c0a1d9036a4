package adapter

import (
	"strings"
	"sync"
)

// GroupCache is a keyed store shared by adapters whose characteristics
// jointly encode one composite value.
//
// Each key has its own lock, so a getter on the broker delivery goroutine
// and a setter on the HAP server goroutine serialize per group without
// blocking unrelated groups.
type GroupCache struct {
	mu      sync.Mutex
	entries map[string]*groupEntry
}

type groupEntry struct {
	mu    sync.Mutex
	value any
	set   bool
}

// NewGroupCache creates an empty cache.
func NewGroupCache() *GroupCache {
	return &GroupCache{entries: make(map[string]*groupEntry)}
}

func (c *GroupCache) entry(key string) *groupEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &groupEntry{}
		c.entries[key] = e
	}
	return e
}

// Update runs fn with the current value for key while holding the key's
// lock and stores its result. ok is false when the key has no value yet.
//
// Returns:
//   - any: The value stored by fn
func (c *GroupCache) Update(key string, fn func(current any, ok bool) any) any {
	e := c.entry(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.value = fn(e.value, e.set)
	e.set = true
	return e.value
}

// Get returns the value stored for key.
func (c *GroupCache) Get(key string) (any, bool) {
	e := c.entry(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.set
}

// Len returns the number of keys ever touched.
func (c *GroupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *GroupCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*groupEntry)
	c.mu.Unlock()
}

// GroupKey derives the cache key for a topic by dropping its first and last
// segments, so "stat/lamp/RESULT" and "cmnd/lamp/HSBColor" share "lamp".
// Topics with fewer than three segments map to "".
func GroupKey(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[1:len(parts)-1], "/")
}
