// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import (
	"fmt"
	"time"

	"github.com/threatdeck/threatdeck/internal/models"
)

// Location visual categories for rendered items.
const (
	LocationClassKnown   = "known"
	LocationClassUnknown = "unknown"
)

// timestampFormat is the viewer-facing local time representation.
const timestampFormat = "2006-01-02 15:04:05"

// ListItem is one rendered feed entry. Fields are display-ready; the
// raw source IP is carried as addressable metadata so the context menu
// and flag workflow can recover which IP was targeted.
type ListItem struct {
	Key           string `json:"key"`
	Timestamp     string `json:"timestamp"`
	SrcIP         string `json:"src_ip"`
	SrcPort       int    `json:"src_port"`
	DstPort       int    `json:"dst_port"`
	Location      string `json:"location"`
	LocationClass string `json:"location_class"`
	Hostname      string `json:"hostname"`
	ISP           string `json:"isp"`
	Suspicious    bool   `json:"suspicious"`
	CanFlag       bool   `json:"can_flag"`

	activation Activation
}

// Activation is the capability set attached to a rendered item. Items
// react to two distinct gestures without central dispatch; a nil
// handler means the item does not offer that gesture.
type Activation struct {
	OnPrimaryActivate   func()
	OnSecondaryActivate func(x, y int)
}

// PrimaryActivate fires the item's primary activation (external IP
// lookup).
func (i *ListItem) PrimaryActivate() {
	if i.activation.OnPrimaryActivate != nil {
		i.activation.OnPrimaryActivate()
	}
}

// SecondaryActivate fires the item's secondary activation (context
// menu) at the given pointer position. Returns false when the item has
// no secondary binding, which is the case for every already-flagged
// item.
func (i *ListItem) SecondaryActivate(x, y int) bool {
	if i.activation.OnSecondaryActivate == nil {
		return false
	}
	i.activation.OnSecondaryActivate(x, y)
	return true
}

// Renderer transforms event records into list items. Rendering is a
// pure transformation of the record aside from the capability bindings
// attached to each produced item.
type Renderer struct {
	loc       *time.Location
	lookupURL string
	publisher Publisher
	menu      MenuController
}

// NewRenderer creates a Renderer. loc controls the viewer-local
// timestamp representation (nil means time.Local); lookupURL is the
// external IP-intelligence template with one %s for the raw IP.
func NewRenderer(loc *time.Location, lookupURL string, publisher Publisher, menu MenuController) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{
		loc:       loc,
		lookupURL: lookupURL,
		publisher: publisher,
		menu:      menu,
	}
}

// Render produces the list item for one event record.
func (r *Renderer) Render(ev *models.Event) *ListItem {
	location, known := ev.DisplayLocation()
	locationClass := LocationClassKnown
	if !known {
		locationClass = LocationClassUnknown
	}

	item := &ListItem{
		Key:           ev.Key(),
		Timestamp:     ev.Timestamp.In(r.loc).Format(timestampFormat),
		SrcIP:         ev.SrcIP,
		SrcPort:       ev.SrcPort,
		DstPort:       ev.DstPort,
		Location:      location,
		LocationClass: locationClass,
		Hostname:      ev.HostnameOrDefault(),
		ISP:           ev.ISPOrDefault(),
		Suspicious:    ev.IsSuspicious,
		CanFlag:       !ev.IsSuspicious,
	}

	srcIP := ev.SrcIP
	item.activation.OnPrimaryActivate = func() {
		r.publisher.Publish(MessageTypeOpenURL, OpenURL{URL: fmt.Sprintf(r.lookupURL, srcIP)})
	}

	// Already-flagged events must not offer the flag action again.
	if !ev.IsSuspicious {
		item.activation.OnSecondaryActivate = func(x, y int) {
			r.menu.OpenMenu(srcIP, x, y)
		}
	}

	return item
}
