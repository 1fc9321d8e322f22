// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import "sync"

// WheelOutcome describes how a wheel gesture was handled. Absorbed is
// always true: a contained region never forwards scroll input to an
// ancestor, neither while scrolling its interior nor at its edges.
type WheelOutcome struct {
	Offset   float64 `json:"offset"`
	AtTop    bool    `json:"at_top"`
	AtBottom bool    `json:"at_bottom"`
	Absorbed bool    `json:"absorbed"`
}

// ScrollRegion contains a scrollable list region. Scrolling up at the
// top or down at the bottom clamps in place instead of passing through
// to the page, and interior scrolling never bubbles upward either.
type ScrollRegion struct {
	mu        sync.Mutex
	viewport  float64
	content   float64
	offset    float64
	contained bool
}

// NewScrollRegion creates a contained region with the given viewport
// and content heights.
func NewScrollRegion(viewport, content float64) *ScrollRegion {
	if viewport < 0 {
		viewport = 0
	}
	if content < 0 {
		content = 0
	}
	return &ScrollRegion{viewport: viewport, content: content}
}

// Contain marks the region self-contained. From then on every wheel
// gesture is absorbed, including at the edges.
func (r *ScrollRegion) Contain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contained = true
}

// Contained reports whether the region absorbs wheel input.
func (r *ScrollRegion) Contained() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contained
}

// HandleWheel applies a wheel delta (positive scrolls down) and
// reports the outcome. The offset clamps to the region's own bounds;
// once contained, the gesture is absorbed in every case.
func (r *ScrollRegion) HandleWheel(delta float64) WheelOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.offset += delta
	max := r.maxOffset()
	if r.offset < 0 {
		r.offset = 0
	}
	if r.offset > max {
		r.offset = max
	}

	return WheelOutcome{
		Offset:   r.offset,
		AtTop:    r.offset == 0,
		AtBottom: r.offset == max,
		Absorbed: r.contained,
	}
}

// Resize updates both dimensions when the UI reports new geometry,
// re-clamping the offset to the new bounds.
func (r *ScrollRegion) Resize(viewport, content float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if viewport < 0 {
		viewport = 0
	}
	if content < 0 {
		content = 0
	}
	r.viewport = viewport
	r.content = content
	if max := r.maxOffset(); r.offset > max {
		r.offset = max
	}
}

// SetContentHeight updates the content height as items accumulate,
// re-clamping the offset if the content shrank.
func (r *ScrollRegion) SetContentHeight(content float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if content < 0 {
		content = 0
	}
	r.content = content
	if max := r.maxOffset(); r.offset > max {
		r.offset = max
	}
}

// Offset returns the current scroll offset.
func (r *ScrollRegion) Offset() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset
}

// maxOffset computes the scrollable range (must hold mu).
func (r *ScrollRegion) maxOffset() float64 {
	max := r.content - r.viewport
	if max < 0 {
		return 0
	}
	return max
}
