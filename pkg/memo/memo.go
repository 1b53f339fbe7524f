// Package memo marks memoized evaluation on the context and provides a minimal
// keyed memoizer. Widget declarations read the mark to warn that a memoized
// body only runs on a cache miss.
package memo

import (
	"context"
	"sync"
)

type insideKey struct{}

// Enter returns a context flagged as inside a memoized evaluation.
func Enter(ctx context.Context) context.Context {
	return context.WithValue(ctx, insideKey{}, true)
}

// Active reports whether ctx is inside a memoized evaluation.
func Active(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	inside, _ := ctx.Value(insideKey{}).(bool)
	return inside
}

// Cache memoizes results by key. Failed evaluations are not stored. It is
// safe for concurrent use; concurrent misses on the same key may both run fn.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]T
}

// NewCache returns an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// Do returns the cached value for key, or evaluates fn with a memo-flagged
// context and stores the result.
func (c *Cache[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := fn(Enter(ctx))
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
