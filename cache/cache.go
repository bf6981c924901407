package cache

import (
	"sort"
	"sync"
	"time"
)

type Entry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

// IsExpired reports whether the entry is past its deadline.
// A zero ExpiresAt never expires.
func (e Entry[T]) IsExpired() bool {
	if e.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.ExpiresAt)
}

// Cache is a keyed store safe for concurrent use.
// With ttl == 0 entries live until removed.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
	ttl     time.Duration
}

func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]Entry[T]),
		ttl:     ttl,
	}
}

func (c *Cache[T]) newEntry(value T) Entry[T] {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}
	return Entry[T]{Value: value, ExpiresAt: expiresAt}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || entry.IsExpired() {
		var zero T
		return zero, false
	}
	return entry.Value, true
}

func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = c.newEntry(value)
}

// Add stores value under key only if no live entry exists.
// It reports whether the value was stored.
func (c *Cache[T]) Add(key string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists && !entry.IsExpired() {
		return false
	}
	c.entries[key] = c.newEntry(value)
	return true
}

// Remove deletes key and returns the live value it held, if any.
func (c *Cache[T]) Remove(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	delete(c.entries, key)
	if !exists || entry.IsExpired() {
		var zero T
		return zero, false
	}
	return entry.Value, true
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Keys returns the sorted keys of live entries.
func (c *Cache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k, entry := range c.entries {
		if !entry.IsExpired() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry[T])
}

func (c *Cache[T]) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.IsExpired() {
			delete(c.entries, key)
		}
	}
}
