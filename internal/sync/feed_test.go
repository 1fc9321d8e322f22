// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/threatdeck/threatdeck/internal/cache"
	"github.com/threatdeck/threatdeck/internal/models"
	"github.com/threatdeck/threatdeck/internal/view"
)

// recorder captures published messages for assertions.
type recorder struct {
	mu   sync.Mutex
	msgs []recorded
}

type recorded struct {
	Type string
	Data interface{}
}

func (r *recorder) Publish(msgType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, recorded{Type: msgType, Data: data})
}

func (r *recorder) byType(msgType string) []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recorded
	for _, m := range r.msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func strptr(s string) *string { return &s }

// testEvent builds an event with a unique identity per (ip, port, offset).
func testEvent(ip string, port int, offset time.Duration) models.Event {
	return models.Event{
		Timestamp:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Add(offset),
		SrcIP:        ip,
		DstPort:      port,
		City:         strptr("Berlin"),
		Country:      strptr("Germany"),
		IsSuspicious: false,
	}
}

func newTestSynchronizer(t *testing.T, emptyText string, fetch FetchFunc) (*FeedSynchronizer, *view.Feed, *cache.FeedCache, *recorder) {
	t.Helper()
	rec := &recorder{}
	chrome := view.NewChrome(rec)
	renderer := view.NewRenderer(time.UTC, "https://reputation.example/%s", rec, chrome)
	feed := view.NewFeed("live", rec)
	seen := cache.New(0)
	s := NewFeedSynchronizer(FeedSynchronizerConfig{
		Name:      "live",
		Interval:  10 * time.Millisecond,
		EmptyText: emptyText,
	}, fetch, seen, feed, renderer)
	return s, feed, seen, rec
}

func TestFeedSynchronizerNewestOnTop(t *testing.T) {
	t.Parallel()

	// Snapshot is newest-first, as the upstream serves it.
	snapshot := []models.Event{
		testEvent("10.0.0.2", 22, 2*time.Minute),
		testEvent("10.0.0.1", 22, 1*time.Minute),
	}
	s, feed, _, _ := newTestSynchronizer(t, view.PlaceholderNoLiveEvents, func(ctx context.Context) ([]models.Event, error) {
		return snapshot, nil
	})

	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}

	items := feed.Items()
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].SrcIP != "10.0.0.2" || items[1].SrcIP != "10.0.0.1" {
		t.Errorf("item order = [%s, %s], want newest first", items[0].SrcIP, items[1].SrcIP)
	}

	// A newer record appears at the head of the next snapshot and must
	// land on top without disturbing the existing items.
	snapshot = append([]models.Event{testEvent("10.0.0.3", 22, 3*time.Minute)}, snapshot...)
	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}

	items = feed.Items()
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[0].SrcIP != "10.0.0.3" {
		t.Errorf("items[0].SrcIP = %s, want 10.0.0.3", items[0].SrcIP)
	}
}

func TestFeedSynchronizerDeduplicates(t *testing.T) {
	t.Parallel()

	snapshot := []models.Event{
		testEvent("10.0.0.1", 22, 0),
		testEvent("10.0.0.1", 443, 0),
	}
	s, feed, _, _ := newTestSynchronizer(t, view.PlaceholderNoLiveEvents, func(ctx context.Context) ([]models.Event, error) {
		return snapshot, nil
	})

	for i := 0; i < 3; i++ {
		if err := s.SyncNow(context.Background()); err != nil {
			t.Fatalf("SyncNow() cycle %d error = %v", i, err)
		}
	}

	if got := feed.Len(); got != 2 {
		t.Errorf("feed.Len() = %d after repeated identical snapshots, want 2", got)
	}
}

func TestFeedSynchronizerEmptyPlaceholder(t *testing.T) {
	t.Parallel()

	var snapshot []models.Event
	s, feed, _, _ := newTestSynchronizer(t, view.PlaceholderNoLiveEvents, func(ctx context.Context) ([]models.Event, error) {
		return snapshot, nil
	})

	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}
	if text, errored := feed.Placeholder(); text != view.PlaceholderNoLiveEvents || errored {
		t.Errorf("Placeholder() = (%q, %v), want (%q, false)", text, errored, view.PlaceholderNoLiveEvents)
	}

	// Once records have merged, a later empty snapshot is a no-op and
	// must not bring the placeholder back.
	snapshot = []models.Event{testEvent("10.0.0.1", 22, 0)}
	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}
	snapshot = nil
	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}

	if got := feed.Len(); got != 1 {
		t.Errorf("feed.Len() = %d after empty snapshot, want 1", got)
	}
	if text, _ := feed.Placeholder(); text != "" {
		t.Errorf("Placeholder() = %q after merge, want empty", text)
	}
}

func TestFeedSynchronizerFetchError(t *testing.T) {
	t.Parallel()

	var fetchErr error
	s, feed, seen, rec := newTestSynchronizer(t, view.PlaceholderNoLiveEvents, func(ctx context.Context) ([]models.Event, error) {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return []models.Event{testEvent("10.0.0.1", 22, 0)}, nil
	})

	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}
	before := seen.Len()

	fetchErr = errors.New("connection refused")
	if err := s.SyncNow(context.Background()); err == nil {
		t.Fatal("SyncNow() error = nil, want fetch error")
	}

	text, errored := feed.Placeholder()
	if text != view.PlaceholderErrorLoading || !errored {
		t.Errorf("Placeholder() = (%q, %v), want (%q, true)", text, errored, view.PlaceholderErrorLoading)
	}
	if msgs := rec.byType(view.MessageTypeFeedPlaceholder); len(msgs) == 0 {
		t.Error("no feed_placeholder message published for fetch error")
	}
	// The failed cycle must not touch the dedup cache; the record merged
	// before the outage is still known next cycle.
	if got := seen.Len(); got != before {
		t.Errorf("seen.Len() = %d after failed cycle, want %d", got, before)
	}
}

func TestFeedSynchronizerStartStop(t *testing.T) {
	t.Parallel()

	var cycles atomic.Int64
	s, _, _, _ := newTestSynchronizer(t, view.PlaceholderNoLiveEvents, func(ctx context.Context) ([]models.Event, error) {
		cycles.Add(1)
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	// Start is idempotent.
	if err := s.Start(ctx); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for cycles.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d cycles ran before deadline", cycles.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	s.Stop() // idempotent

	settled := cycles.Load()
	time.Sleep(50 * time.Millisecond)
	if got := cycles.Load(); got != settled {
		t.Errorf("cycles advanced after Stop(): %d -> %d", settled, got)
	}
}

func TestFeedSynchronizerManyEvents(t *testing.T) {
	t.Parallel()

	var snapshot []models.Event
	for i := 0; i < 250; i++ {
		snapshot = append(snapshot, testEvent(fmt.Sprintf("10.0.%d.%d", i/256, i%256), 22, time.Duration(250-i)*time.Second))
	}
	s, feed, _, _ := newTestSynchronizer(t, view.PlaceholderNoLiveEvents, func(ctx context.Context) ([]models.Event, error) {
		return snapshot, nil
	})

	if err := s.SyncNow(context.Background()); err != nil {
		t.Fatalf("SyncNow() error = %v", err)
	}
	if got := feed.Len(); got != 250 {
		t.Fatalf("feed.Len() = %d, want 250", got)
	}
	// Head of the snapshot is the newest record and must be on top.
	if got := feed.Items()[0].SrcIP; got != snapshot[0].SrcIP {
		t.Errorf("top item = %s, want %s", got, snapshot[0].SrcIP)
	}
}
