// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package sync

import (
	"context"
	"sync"
	"time"

	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/metrics"
	"github.com/threatdeck/threatdeck/internal/models"
	"github.com/threatdeck/threatdeck/internal/view"
)

// LocationQuerier is the upstream surface the map layer needs.
type LocationQuerier interface {
	MapData(ctx context.Context) ([]models.MapPoint, error)
	EventsByLocation(ctx context.Context, city, country string) ([]models.Event, error)
}

// MapSynchronizer keeps the clustered map current and serves drill-down
// queries when a marker is activated. Unlike the feeds, the map is a
// full-replace surface: every successful refresh swaps the marker set
// wholesale, and a failed refresh leaves the previous markers in place.
type MapSynchronizer struct {
	client   LocationQuerier
	interval time.Duration
	markers  *view.MarkerSet
	panel    *view.Panel
	renderer *view.Renderer

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewMapSynchronizer creates a map synchronizer.
func NewMapSynchronizer(client LocationQuerier, interval time.Duration, markers *view.MarkerSet, panel *view.Panel, renderer *view.Renderer) *MapSynchronizer {
	return &MapSynchronizer{
		client:   client,
		interval: interval,
		markers:  markers,
		panel:    panel,
		renderer: renderer,
	}
}

// Start begins the refresh loop. Safe to call more than once.
func (m *MapSynchronizer) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	logging.Info().Dur("interval", m.interval).Msg("Starting map synchronizer")

	m.wg.Add(1)
	go m.pollLoop(ctx)

	return nil
}

// Stop stops the refresh loop and waits for the in-flight cycle.
func (m *MapSynchronizer) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	m.wg.Wait()
	logging.Info().Msg("Map synchronizer stopped")
}

func (m *MapSynchronizer) pollLoop(ctx context.Context) {
	defer m.wg.Done()

	if err := m.SyncNow(ctx); err != nil {
		logging.Debug().Err(err).Msg("Initial map refresh failed")
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			if err := m.SyncNow(ctx); err != nil {
				logging.Debug().Err(err).Msg("Map refresh failed")
			}
		}
	}
}

// SyncNow runs a single map refresh cycle.
func (m *MapSynchronizer) SyncNow(ctx context.Context) error {
	points, err := m.client.MapData(ctx)
	if err != nil {
		metrics.MapRefreshesTotal.WithLabelValues("error").Inc()
		logging.Error().Err(err).Msg("Map data fetch failed")
		return err
	}

	m.markers.ReplaceAll(points)
	metrics.MapRefreshesTotal.WithLabelValues("success").Inc()
	metrics.MapMarkers.Set(float64(len(points)))

	logging.Debug().Int("markers", len(points)).Msg("Map refreshed")
	return nil
}

// DrillDown fetches the events behind a marker's location bucket and
// replaces the drill-down panel's contents. Exactly one of city or
// country is normally set; when both are empty the panel is titled
// with the unknown-location fallback and the query matches events
// missing both fields.
func (m *MapSynchronizer) DrillDown(ctx context.Context, city, country string) error {
	title := models.UnknownLocation
	switch {
	case city != "":
		title = city
	case country != "":
		title = country
	}

	events, err := m.client.EventsByLocation(ctx, city, country)
	if err != nil {
		metrics.DrillDownQueriesTotal.WithLabelValues("error").Inc()
		logging.Error().Err(err).Str("title", title).Msg("Drill-down query failed")
		m.panel.SetError(title)
		return err
	}

	if len(events) == 0 {
		metrics.DrillDownQueriesTotal.WithLabelValues("empty").Inc()
		m.panel.SetEmpty(title)
		return nil
	}

	items := make([]*view.ListItem, 0, len(events))
	for i := range events {
		items = append(items, m.renderer.Render(&events[i]))
	}
	m.panel.SetResults(title, items)
	metrics.DrillDownQueriesTotal.WithLabelValues("success").Inc()

	logging.Debug().Str("title", title).Int("events", len(events)).Msg("Drill-down complete")
	return nil
}
