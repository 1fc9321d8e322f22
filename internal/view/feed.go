// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import "sync"

// Feed is the append-only, newest-first list view model backing one
// event feed. Merging only ever prepends new items; existing entries
// are never removed or reordered, so the UI keeps scroll position and
// item state across poll cycles.
type Feed struct {
	mu          sync.Mutex
	name        string
	items       []*ListItem
	index       map[string]*ListItem
	placeholder string
	errored     bool
	publisher   Publisher
}

// NewFeed creates an empty feed view model.
func NewFeed(name string, publisher Publisher) *Feed {
	return &Feed{
		name:      name,
		index:     make(map[string]*ListItem),
		publisher: publisher,
	}
}

// Name returns the feed identifier ("live" or "flagged").
func (f *Feed) Name() string {
	return f.name
}

// Prepend inserts item at the top of the feed and clears any
// placeholder currently shown.
func (f *Feed) Prepend(item *ListItem) {
	f.mu.Lock()
	f.placeholder = ""
	f.errored = false
	f.items = append([]*ListItem{item}, f.items...)
	f.index[item.Key] = item
	f.mu.Unlock()

	f.publisher.Publish(MessageTypeFeedPrepend, FeedItemUpdate{Feed: f.name, Item: item})
}

// SetEmptyPlaceholder shows the neutral empty-state text. Only called
// while the feed has rendered nothing yet; once events exist the
// placeholder is never re-shown.
func (f *Feed) SetEmptyPlaceholder(text string) {
	f.mu.Lock()
	f.placeholder = text
	f.errored = false
	f.mu.Unlock()

	f.publisher.Publish(MessageTypeFeedPlaceholder, FeedPlaceholderUpdate{Feed: f.name, Text: text})
}

// SetError replaces the feed's visible content with an error
// placeholder. Rendered items are discarded from the view model; the
// dedup cache is owned by the synchronizer and stays untouched, so
// discarded identities do not re-render on recovery.
func (f *Feed) SetError(text string) {
	f.mu.Lock()
	f.items = nil
	f.index = make(map[string]*ListItem)
	f.placeholder = text
	f.errored = true
	f.mu.Unlock()

	f.publisher.Publish(MessageTypeFeedPlaceholder, FeedPlaceholderUpdate{Feed: f.name, Text: text, Error: true})
}

// Items returns a snapshot of the feed's items, newest first.
func (f *Feed) Items() []*ListItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]*ListItem, len(f.items))
	copy(snapshot, f.items)
	return snapshot
}

// ItemByKey returns the rendered item for an identity key, if present.
func (f *Feed) ItemByKey(key string) (*ListItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.index[key]
	return item, ok
}

// Len returns the number of rendered items.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Placeholder returns the currently shown placeholder text ("" when
// items are visible) and whether it is the error variant.
func (f *Feed) Placeholder() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placeholder, f.errored
}
