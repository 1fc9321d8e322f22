// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Package view holds the dashboard's view models: rendered feed items,
// the marker set, the drill-down panel and the menu/modal chrome.
//
// View models are the source of truth for what the attached UI shows.
// Every mutation is mirrored to the UI through a Publisher as a typed
// message; the UI applies mutations incrementally and never re-renders
// existing entries, so scroll position and item state survive updates.
package view

// Publisher delivers view mutations to the attached UI. The WebSocket
// hub implements it; tests substitute an in-memory recorder.
type Publisher interface {
	Publish(msgType string, data interface{})
}

// MenuController opens the context menu for a feed item. Implemented by
// Chrome; the renderer binds it into each item's secondary activation.
type MenuController interface {
	OpenMenu(srcIP string, x, y int)
}

// Message types for view mutations pushed to the UI.
const (
	MessageTypeFeedPrepend     = "feed_prepend"
	MessageTypeFeedPlaceholder = "feed_placeholder"
	MessageTypeMapReplace      = "map_replace"
	MessageTypeDrillDown       = "drilldown"
	MessageTypeNotice          = "notice"
	MessageTypeOpenURL         = "open_url"
	MessageTypeMenu            = "menu"
	MessageTypeModal           = "modal"
	MessageTypeScroll          = "scroll"
)

// Placeholder literals shown in place of list content.
const (
	PlaceholderNoLiveEvents     = "No recent events found."
	PlaceholderNoFlaggedEvents  = "No flagged events found."
	PlaceholderErrorLoading     = "Error loading events."
	PlaceholderNoLocationEvents = "No events found for this location."
)

// FeedItemUpdate announces one newly rendered item prepended to a feed.
type FeedItemUpdate struct {
	Feed string    `json:"feed"`
	Item *ListItem `json:"item"`
}

// FeedPlaceholderUpdate replaces a feed's visible content with a
// placeholder. Error marks the error variant, which also discards any
// previously shown items on the UI side.
type FeedPlaceholderUpdate struct {
	Feed  string `json:"feed"`
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

// MapUpdate carries a full replacement marker snapshot.
type MapUpdate struct {
	Markers []Marker `json:"markers"`
}

// DrillDownUpdate carries a full replacement of the drill-down panel.
type DrillDownUpdate struct {
	Title       string      `json:"title"`
	Items       []*ListItem `json:"items"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// Notice is a user-facing acknowledgment (flag confirmations and
// rejections).
type Notice struct {
	Level string `json:"level"` // "info" or "error"
	Text  string `json:"text"`
}

// OpenURL directs the UI to open an external lookup in a new view.
type OpenURL struct {
	URL string `json:"url"`
}

// MenuUpdate mirrors the context menu state.
type MenuUpdate struct {
	Open  bool   `json:"open"`
	SrcIP string `json:"src_ip,omitempty"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
}

// ModalUpdate mirrors the informational dialog state.
type ModalUpdate struct {
	Open bool `json:"open"`
}

// ScrollUpdate reports the contained outcome of a wheel gesture so the
// UI applies the clamped offset instead of its native scroll.
type ScrollUpdate struct {
	Region string `json:"region"`
	WheelOutcome
}
