// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import "sync"

// Chrome is the context menu and informational dialog state machine.
// The menu is either closed or open with exactly one selected source
// IP; the selection is valid only from the opening gesture until the
// next menu action or dismissal. At most one menu is active at a time;
// opening replaces any prior state.
type Chrome struct {
	mu        sync.Mutex
	menuOpen  bool
	menuIP    string
	menuX     int
	menuY     int
	modalOpen bool
	publisher Publisher
}

// Ensure Chrome satisfies the renderer's menu binding.
var _ MenuController = (*Chrome)(nil)

// NewChrome creates chrome state with menu and dialog closed.
func NewChrome(publisher Publisher) *Chrome {
	return &Chrome{publisher: publisher}
}

// OpenMenu opens the context menu at the pointer position with srcIP
// selected.
func (c *Chrome) OpenMenu(srcIP string, x, y int) {
	c.mu.Lock()
	c.menuOpen = true
	c.menuIP = srcIP
	c.menuX = x
	c.menuY = y
	c.mu.Unlock()

	c.publisher.Publish(MessageTypeMenu, MenuUpdate{Open: true, SrcIP: srcIP, X: x, Y: y})
}

// Dismiss closes the menu and drops the selection. Any click anywhere
// outside a menu action funnels here; dismissing a closed menu is a
// no-op.
func (c *Chrome) Dismiss() {
	c.mu.Lock()
	if !c.menuOpen {
		c.mu.Unlock()
		return
	}
	c.menuOpen = false
	c.menuIP = ""
	c.mu.Unlock()

	c.publisher.Publish(MessageTypeMenu, MenuUpdate{Open: false})
}

// TakeSelection consumes the current selection for a menu action,
// closing the menu. Returns false when no menu is open.
func (c *Chrome) TakeSelection() (string, bool) {
	c.mu.Lock()
	if !c.menuOpen {
		c.mu.Unlock()
		return "", false
	}
	ip := c.menuIP
	c.menuOpen = false
	c.menuIP = ""
	c.mu.Unlock()

	c.publisher.Publish(MessageTypeMenu, MenuUpdate{Open: false})
	return ip, true
}

// Selection returns the currently selected IP without consuming it.
func (c *Chrome) Selection() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.menuOpen {
		return "", false
	}
	return c.menuIP, true
}

// MenuOpen reports whether the context menu is open.
func (c *Chrome) MenuOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuOpen
}

// OpenModal opens the informational dialog.
func (c *Chrome) OpenModal() {
	c.setModal(true)
}

// CloseModal closes the informational dialog.
func (c *Chrome) CloseModal() {
	c.setModal(false)
}

// BackdropClick closes the dialog when its backdrop is clicked.
func (c *Chrome) BackdropClick() {
	c.setModal(false)
}

// ModalOpen reports whether the informational dialog is open.
func (c *Chrome) ModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalOpen
}

func (c *Chrome) setModal(open bool) {
	c.mu.Lock()
	changed := c.modalOpen != open
	c.modalOpen = open
	c.mu.Unlock()

	if changed {
		c.publisher.Publish(MessageTypeModal, ModalUpdate{Open: open})
	}
}
