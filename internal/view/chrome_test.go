// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import "testing"

func TestMenuOpenDismiss(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	chrome := NewChrome(rec)

	chrome.OpenMenu("1.2.3.4", 100, 200)
	if !chrome.MenuOpen() {
		t.Fatal("menu should be open")
	}
	if ip, ok := chrome.Selection(); !ok || ip != "1.2.3.4" {
		t.Errorf("selection = (%q, %v)", ip, ok)
	}

	chrome.Dismiss()
	if chrome.MenuOpen() {
		t.Error("menu should be closed after dismiss")
	}
	if _, ok := chrome.Selection(); ok {
		t.Error("selection must not survive dismissal")
	}

	// Dismissing again is a no-op and publishes nothing further.
	before := len(rec.byType(MessageTypeMenu))
	chrome.Dismiss()
	if after := len(rec.byType(MessageTypeMenu)); after != before {
		t.Error("dismiss of closed menu must not publish")
	}
}

func TestMenuOpenReplacesPriorSelection(t *testing.T) {
	t.Parallel()

	chrome := NewChrome(&recorder{})

	chrome.OpenMenu("1.2.3.4", 10, 10)
	chrome.OpenMenu("5.6.7.8", 20, 20)

	ip, ok := chrome.Selection()
	if !ok || ip != "5.6.7.8" {
		t.Errorf("selection = (%q, %v), want replacement", ip, ok)
	}
}

func TestTakeSelectionConsumes(t *testing.T) {
	t.Parallel()

	chrome := NewChrome(&recorder{})

	if _, ok := chrome.TakeSelection(); ok {
		t.Error("closed menu has no selection to take")
	}

	chrome.OpenMenu("1.2.3.4", 5, 5)
	ip, ok := chrome.TakeSelection()
	if !ok || ip != "1.2.3.4" {
		t.Fatalf("TakeSelection = (%q, %v)", ip, ok)
	}
	if chrome.MenuOpen() {
		t.Error("menu action must close the menu")
	}
	if _, ok := chrome.TakeSelection(); ok {
		t.Error("selection must be single-use")
	}
}

func TestModalToggleAndBackdrop(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	chrome := NewChrome(rec)

	chrome.OpenModal()
	if !chrome.ModalOpen() {
		t.Fatal("modal should be open")
	}

	chrome.BackdropClick()
	if chrome.ModalOpen() {
		t.Error("backdrop click must close the modal")
	}

	// Closing a closed modal publishes nothing.
	before := len(rec.byType(MessageTypeModal))
	chrome.CloseModal()
	if after := len(rec.byType(MessageTypeModal)); after != before {
		t.Error("redundant close must not publish")
	}
}
