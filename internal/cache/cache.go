// Package cache provides a fixed-capacity LRU cache used for address and
// geometry-info query results. Eviction drops the least recently used entry;
// invalidation is wholesale via Clear, never per key.
package cache

import "container/list"

// Cache is a fixed-capacity key-value cache with LRU eviction. It is not
// safe for concurrent use; the geocoder serializes access behind its own
// lock.
type Cache[K comparable, V any] struct {
	capacity int
	order    *list.List
	entries  map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// New creates a cache holding at most capacity entries. Capacity below one
// is raised to one.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[K]*list.Element),
	}
}

// Read looks up a key, marking it most recently used on a hit.
func (c *Cache[K, V]) Read(key K) (V, bool) {
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(entry[K, V]).val, true
	}
	var zero V
	return zero, false
}

// Put stores a value, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(key K, val V) {
	if el, ok := c.entries[key]; ok {
		el.Value = entry[K, V]{key: key, val: val}
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(entry[K, V]{key: key, val: val})
	for c.order.Len() > c.capacity {
		back := c.order.Back()
		delete(c.entries, back.Value.(entry[K, V]).key)
		c.order.Remove(back)
	}
}

// Clear drops every entry.
func (c *Cache[K, V]) Clear() {
	c.order.Init()
	clear(c.entries)
}

// Len returns the current entry count.
func (c *Cache[K, V]) Len() int {
	return c.order.Len()
}
