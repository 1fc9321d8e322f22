// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package websocket

// Control message types owned by the transport itself. View mutation
// types are defined next to their payloads in internal/view.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message is an outbound WebSocket message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Inbound command types sent by the attached UI.
const (
	CommandPrimaryActivate   = "primary_activate"
	CommandSecondaryActivate = "secondary_activate"
	CommandMenuAction        = "menu_action"
	CommandDismiss           = "dismiss"
	CommandMarkerActivate    = "marker_activate"
	CommandModal             = "modal"
	CommandWheel             = "wheel"
	CommandRegionResize      = "region_resize"
)

// Command is an inbound interaction event from the UI. Field use
// depends on Type: item activations carry feed+key (+pointer position
// for the secondary gesture), marker activations carry the marker's
// location bucket, menu and modal commands carry an action verb, wheel
// and resize commands carry a region name with its geometry.
type Command struct {
	Type     string  `json:"type"`
	Feed     string  `json:"feed,omitempty"`
	Key      string  `json:"key,omitempty"`
	X        int     `json:"x,omitempty"`
	Y        int     `json:"y,omitempty"`
	City     string  `json:"city,omitempty"`
	Country  string  `json:"country,omitempty"`
	Action   string  `json:"action,omitempty"`
	Region   string  `json:"region,omitempty"`
	Delta    float64 `json:"delta,omitempty"`
	Viewport float64 `json:"viewport,omitempty"`
	Content  float64 `json:"content,omitempty"`
}
