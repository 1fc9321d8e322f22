// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import "testing"

func TestFeedPrependNewestFirst(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	feed := NewFeed("live", rec)

	feed.Prepend(&ListItem{Key: "older"})
	feed.Prepend(&ListItem{Key: "newer"})

	items := feed.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Key != "newer" || items[1].Key != "older" {
		t.Errorf("order = [%s, %s], want newest first", items[0].Key, items[1].Key)
	}

	if got := len(rec.byType(MessageTypeFeedPrepend)); got != 2 {
		t.Errorf("published %d prepend messages, want 2", got)
	}
}

func TestFeedPrependClearsPlaceholder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	feed := NewFeed("live", rec)

	feed.SetEmptyPlaceholder(PlaceholderNoLiveEvents)
	if text, errored := feed.Placeholder(); text != PlaceholderNoLiveEvents || errored {
		t.Fatalf("placeholder = (%q, %v)", text, errored)
	}

	feed.Prepend(&ListItem{Key: "first"})
	if text, _ := feed.Placeholder(); text != "" {
		t.Errorf("placeholder after prepend = %q, want cleared", text)
	}
	if feed.Len() != 1 {
		t.Errorf("Len() = %d, want 1", feed.Len())
	}
}

func TestFeedSetErrorReplacesContent(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	feed := NewFeed("flagged", rec)

	feed.Prepend(&ListItem{Key: "a"})
	feed.SetError(PlaceholderErrorLoading)

	if feed.Len() != 0 {
		t.Errorf("Len() after error = %d, want 0", feed.Len())
	}
	text, errored := feed.Placeholder()
	if text != PlaceholderErrorLoading || !errored {
		t.Errorf("placeholder = (%q, %v), want error variant", text, errored)
	}

	msgs := rec.byType(MessageTypeFeedPlaceholder)
	if len(msgs) != 1 {
		t.Fatalf("got %d placeholder messages", len(msgs))
	}
	update := msgs[0].Data.(FeedPlaceholderUpdate)
	if !update.Error || update.Feed != "flagged" {
		t.Errorf("update = %+v", update)
	}
}

func TestFeedItemByKey(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	feed := NewFeed("live", rec)

	feed.Prepend(&ListItem{Key: "k1", SrcIP: "1.2.3.4"})

	item, ok := feed.ItemByKey("k1")
	if !ok || item.SrcIP != "1.2.3.4" {
		t.Errorf("ItemByKey = (%+v, %v)", item, ok)
	}
	if _, ok := feed.ItemByKey("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}
