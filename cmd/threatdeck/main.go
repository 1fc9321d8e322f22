// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Command threatdeck runs the feed synchronization engine: it polls the
// upstream event store, maintains the live/flagged feeds and the
// clustered map, and serves the WebSocket surface the dashboard UI
// attaches to.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/threatdeck/threatdeck/internal/api"
	"github.com/threatdeck/threatdeck/internal/cache"
	"github.com/threatdeck/threatdeck/internal/config"
	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/supervisor"
	"github.com/threatdeck/threatdeck/internal/sync"
	"github.com/threatdeck/threatdeck/internal/upstream"
	"github.com/threatdeck/threatdeck/internal/view"
	ws "github.com/threatdeck/threatdeck/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Config not yet available, use the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("upstream", cfg.Upstream.URL).
		Str("listen", cfg.Server.Listen).
		Msg("Starting ThreatDeck")

	loc := time.UTC
	if cfg.Lookup.TimeZone != "" {
		loc, err = time.LoadLocation(cfg.Lookup.TimeZone)
		if err != nil {
			logging.Fatal().Err(err).Str("time_zone", cfg.Lookup.TimeZone).Msg("Invalid time zone")
		}
	}

	// Upstream client, optionally behind a circuit breaker.
	var client upstream.API = upstream.NewClient(&cfg.Upstream)
	if cfg.Upstream.BreakerEnabled {
		client = upstream.NewBreakerClient(client)
		logging.Info().Msg("Circuit breaker enabled for upstream requests")
	}

	// The hub is the publisher every view component pushes through.
	hub := ws.NewHub()

	chrome := view.NewChrome(hub)
	renderer := view.NewRenderer(loc, cfg.Lookup.IPReputationURL, hub, chrome)

	liveFeed := view.NewFeed("live", hub)
	flaggedFeed := view.NewFeed("flagged", hub)
	markers := view.NewMarkerSet(hub)
	panel := view.NewPanel(hub)

	liveSync := sync.NewFeedSynchronizer(sync.FeedSynchronizerConfig{
		Name:      "live",
		Interval:  cfg.Feeds.LiveInterval,
		EmptyText: view.PlaceholderNoLiveEvents,
	}, client.RecentEvents, cache.New(cfg.Feeds.CacheCapacity), liveFeed, renderer)

	flaggedSync := sync.NewFeedSynchronizer(sync.FeedSynchronizerConfig{
		Name:      "flagged",
		Interval:  cfg.Feeds.FlaggedInterval,
		EmptyText: view.PlaceholderNoFlaggedEvents,
	}, client.FlaggedEvents, cache.New(cfg.Feeds.CacheCapacity), flaggedFeed, renderer)

	mapSync := sync.NewMapSynchronizer(client, cfg.Map.Interval, markers, panel, renderer)

	flagFlow := sync.NewFlagWorkflow(client, liveSync, flaggedSync, hub)
	interactions := sync.NewInteractions(chrome, flagFlow, mapSync, hub, cfg.Lookup.ThreatIntelURL, liveFeed, flaggedFeed)
	hub.SetCommandHandler(interactions.HandleCommand)

	router := api.NewRouter(&cfg.Server, hub)
	server := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           router.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddSyncService(supervisor.NewHubService(hub))
	tree.AddSyncService(supervisor.NewSynchronizerService("live-feed", liveSync))
	tree.AddSyncService(supervisor.NewSynchronizerService("flagged-feed", flaggedSync))
	tree.AddSyncService(supervisor.NewSynchronizerService("map", mapSync))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
	}

	logging.Info().Msg("Stopped gracefully")
}
