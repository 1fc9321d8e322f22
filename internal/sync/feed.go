// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

/*
feed.go - Incremental Feed Synchronizer

This file implements the polling loop that keeps an event feed in step
with the upstream API. Each cycle fetches the latest snapshot, skips
records whose identity key is already in the seen-cache, and prepends
the remainder so the newest record ends up on top. Items are never
removed or reordered between cycles.
*/

package sync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/threatdeck/threatdeck/internal/cache"
	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/metrics"
	"github.com/threatdeck/threatdeck/internal/models"
	"github.com/threatdeck/threatdeck/internal/view"
)

// FetchFunc retrieves the current upstream snapshot for a feed.
type FetchFunc func(ctx context.Context) ([]models.Event, error)

// FeedSynchronizerConfig configures a single feed's polling behaviour.
type FeedSynchronizerConfig struct {
	// Name labels the feed in logs, metrics, and outbound messages.
	Name string
	// Interval between poll cycles.
	Interval time.Duration
	// EmptyText is shown when the very first snapshot has no records.
	EmptyText string
}

// FeedSynchronizer periodically polls an upstream endpoint and merges
// new records into its feed.
type FeedSynchronizer struct {
	config   FeedSynchronizerConfig
	fetch    FetchFunc
	seen     *cache.FeedCache
	feed     *view.Feed
	renderer *view.Renderer

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewFeedSynchronizer creates a feed synchronizer. The seen-cache is
// owned by the caller so the flag workflow can share it across manual
// refreshes.
func NewFeedSynchronizer(config FeedSynchronizerConfig, fetch FetchFunc, seen *cache.FeedCache, feed *view.Feed, renderer *view.Renderer) *FeedSynchronizer {
	return &FeedSynchronizer{
		config:   config,
		fetch:    fetch,
		seen:     seen,
		feed:     feed,
		renderer: renderer,
	}
}

// Start begins the polling loop. Safe to call more than once.
func (s *FeedSynchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	logging.Info().
		Str("feed", s.config.Name).
		Dur("interval", s.config.Interval).
		Msg("Starting feed synchronizer")

	s.wg.Add(1)
	go s.pollLoop(ctx)

	return nil
}

// Stop stops the polling loop and waits for the in-flight cycle.
func (s *FeedSynchronizer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	logging.Info().Str("feed", s.config.Name).Msg("Feed synchronizer stopped")
}

// pollLoop runs an immediate first cycle, then one per interval.
func (s *FeedSynchronizer) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	if err := s.SyncNow(ctx); err != nil {
		logging.Debug().Err(err).Str("feed", s.config.Name).Msg("Initial sync failed")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.SyncNow(ctx); err != nil {
				logging.Debug().Err(err).Str("feed", s.config.Name).Msg("Sync cycle failed")
			}
		}
	}
}

// SyncNow runs a single synchronization cycle. It is called by the
// poll loop and directly by the flag workflow after a successful flag.
func (s *FeedSynchronizer) SyncNow(ctx context.Context) error {
	cycleID := uuid.New().String()

	events, err := s.fetch(ctx)
	if err != nil {
		metrics.SyncCyclesTotal.WithLabelValues(s.config.Name, "error").Inc()
		logging.Error().
			Err(err).
			Str("feed", s.config.Name).
			Str("cycle_id", cycleID).
			Msg("Feed fetch failed")
		s.feed.SetError(view.PlaceholderErrorLoading)
		return err
	}

	// Empty-state is keyed off the cache, not the current snapshot:
	// once any record has been merged the placeholder never returns.
	if s.seen.Len() == 0 && len(events) == 0 {
		s.feed.SetEmptyPlaceholder(s.config.EmptyText)
	}

	// The snapshot arrives newest-first. Walk it oldest-first so each
	// prepend lands above the previous one and the newest record ends
	// up on top.
	merged := 0
	duplicates := 0
	for i := len(events) - 1; i >= 0; i-- {
		ev := &events[i]
		key := ev.Key()
		if s.seen.Has(key) {
			duplicates++
			metrics.DuplicateEventsTotal.WithLabelValues(s.config.Name).Inc()
			continue
		}
		s.feed.Prepend(s.renderer.Render(ev))
		s.seen.Add(key)
		merged++
	}

	metrics.SyncCyclesTotal.WithLabelValues(s.config.Name, "success").Inc()
	metrics.EventsMergedTotal.WithLabelValues(s.config.Name).Add(float64(merged))
	metrics.FeedCacheSize.WithLabelValues(s.config.Name).Set(float64(s.seen.Len()))

	logging.Debug().
		Str("feed", s.config.Name).
		Str("cycle_id", cycleID).
		Int("fetched", len(events)).
		Int("merged", merged).
		Int("duplicates", duplicates).
		Msg("Sync cycle complete")

	return nil
}
