// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Package cache provides the per-feed deduplication cache.
//
// Each feed owns one FeedCache holding the identity keys of every event
// it has already rendered. The cache is created empty at process start,
// grows as new unique events are observed, and is never persisted:
// a full reload rebuilds it from scratch.
package cache

import "sync"

// entry is a node in the insertion-ordered doubly-linked list.
// head.next is the oldest-inserted entry, tail.prev the newest.
type entry struct {
	key  string
	prev *entry
	next *entry
}

// FeedCache is a thread-safe set of event identity keys.
//
// By default it is unbounded for the session lifetime, which is the
// accepted trade-off for session-scoped use. A positive capacity turns
// it into a bounded cache that evicts the oldest-inserted key first;
// membership tests never refresh insertion order, so eviction order is
// strictly FIFO.
type FeedCache struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]*entry
	head     *entry
	tail     *entry
}

// New creates a FeedCache. capacity <= 0 means unbounded.
func New(capacity int) *FeedCache {
	c := &FeedCache{
		capacity: capacity,
		items:    make(map[string]*entry),
		head:     &entry{},
		tail:     &entry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Has reports whether key has been observed.
func (c *FeedCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[key]
	return ok
}

// Add records key as observed. Adding an existing key is a no-op, so
// concurrent merges of overlapping fetches converge on one insertion.
func (c *FeedCache) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return
	}

	e := &entry{key: key}
	e.prev = c.tail.prev
	e.next = c.tail
	c.tail.prev.next = e
	c.tail.prev = e
	c.items[key] = e

	for c.capacity > 0 && len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Len returns the number of cached keys.
func (c *FeedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the oldest-inserted entry (must hold mu).
func (c *FeedCache) evictOldest() {
	oldest := c.head.next
	if oldest == c.tail {
		return
	}
	oldest.prev.next = oldest.next
	oldest.next.prev = oldest.prev
	delete(c.items, oldest.key)
}
