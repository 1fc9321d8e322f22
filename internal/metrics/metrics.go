// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Package metrics provides Prometheus instrumentation for the sync
// engine: poll cycle outcomes, merge/dedup counts, upstream latency,
// circuit breaker state and the WebSocket surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed synchronization metrics
	SyncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_sync_cycles_total",
			Help: "Total number of feed sync cycles by outcome",
		},
		[]string{"feed", "result"}, // result: "success", "error"
	)

	EventsMergedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_events_merged_total",
			Help: "Total number of newly observed events merged into a feed",
		},
		[]string{"feed"},
	)

	DuplicateEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_duplicate_events_total",
			Help: "Total number of re-delivered events suppressed by the feed cache",
		},
		[]string{"feed"},
	)

	FeedCacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "threatdeck_feed_cache_keys",
			Help: "Current number of identity keys in a feed cache",
		},
		[]string{"feed"},
	)

	// Map synchronization metrics
	MapMarkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "threatdeck_map_markers",
			Help: "Number of markers in the current map snapshot",
		},
	)

	MapRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_map_refreshes_total",
			Help: "Total number of map snapshot refreshes by outcome",
		},
		[]string{"result"},
	)

	DrillDownQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_drilldown_queries_total",
			Help: "Total number of location drill-down queries by outcome",
		},
		[]string{"result"}, // "success", "empty", "error"
	)

	// Flag workflow metrics
	FlagRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_flag_requests_total",
			Help: "Total number of flag-by-IP mutations by outcome",
		},
		[]string{"result"},
	)

	// Upstream client metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "threatdeck_upstream_request_duration_seconds",
			Help:    "Duration of event store API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "threatdeck_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// WebSocket surface metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "threatdeck_websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	WebSocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threatdeck_websocket_messages_total",
			Help: "WebSocket messages by direction and type",
		},
		[]string{"direction", "type"}, // direction: "inbound", "outbound"
	)
)
