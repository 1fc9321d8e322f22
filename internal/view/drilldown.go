// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import "sync"

// Panel is the drill-down view model. Unlike a feed it is a snapshot
// view: every query fully replaces its contents, and it keeps no dedup
// cache.
type Panel struct {
	mu          sync.Mutex
	title       string
	items       []*ListItem
	placeholder string
	publisher   Publisher
}

// NewPanel creates an empty drill-down panel.
func NewPanel(publisher Publisher) *Panel {
	return &Panel{publisher: publisher}
}

// SetResults replaces the panel with a query's results.
func (p *Panel) SetResults(title string, items []*ListItem) {
	p.mu.Lock()
	p.title = title
	p.items = items
	p.placeholder = ""
	p.mu.Unlock()

	p.publisher.Publish(MessageTypeDrillDown, DrillDownUpdate{Title: title, Items: items})
}

// SetEmpty replaces the panel with the no-results placeholder.
func (p *Panel) SetEmpty(title string) {
	p.setPlaceholder(title, PlaceholderNoLocationEvents)
}

// SetError replaces the panel with the error placeholder.
func (p *Panel) SetError(title string) {
	p.setPlaceholder(title, PlaceholderErrorLoading)
}

func (p *Panel) setPlaceholder(title, text string) {
	p.mu.Lock()
	p.title = title
	p.items = nil
	p.placeholder = text
	p.mu.Unlock()

	p.publisher.Publish(MessageTypeDrillDown, DrillDownUpdate{Title: title, Placeholder: text})
}

// Title returns the panel's current title.
func (p *Panel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Items returns a snapshot of the panel's items.
func (p *Panel) Items() []*ListItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot := make([]*ListItem, len(p.items))
	copy(snapshot, p.items)
	return snapshot
}

// Placeholder returns the current placeholder text, "" when results
// are shown.
func (p *Panel) Placeholder() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placeholder
}
