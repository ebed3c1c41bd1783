// Package cache provides a small TTL cache used for derived read models.
// Entries are held per process; invalidation is explicit and local, so a
// multi-instance deployment serves at most one TTL of staleness.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultSize = 512

// TTLCache is a bounded, expiring key/value cache.
type TTLCache[V any] struct {
	lru *expirable.LRU[string, V]
}

// NewTTLCache creates a cache whose entries expire after ttl.
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		lru: expirable.NewLRU[string, V](defaultSize, nil, ttl),
	}
}

// Get returns the cached value for key and whether it was present.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Set stores a value under key, replacing any previous entry.
func (c *TTLCache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Invalidate drops the entry for key, if any.
func (c *TTLCache[V]) Invalidate(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *TTLCache[V]) Purge() {
	c.lru.Purge()
}
