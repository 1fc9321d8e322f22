// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Package api provides the local HTTP surface: the WebSocket endpoint
// the UI attaches to, health, and Prometheus metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threatdeck/threatdeck/internal/config"
	"github.com/threatdeck/threatdeck/internal/logging"
	"github.com/threatdeck/threatdeck/internal/websocket"
)

// Router wires the HTTP surface together.
type Router struct {
	config *config.ServerConfig
	hub    *websocket.Hub
}

// NewRouter creates a router serving the given hub.
func NewRouter(cfg *config.ServerConfig, hub *websocket.Hub) *Router {
	return &Router{config: cfg, hub: hub}
}

// Routes builds the chi handler.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", rt.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.config.WSRateLimit, time.Minute))
		r.Get("/ws", rt.serveWS)
	})

	return r
}

func (rt *Router) allowedOrigins() []string {
	if len(rt.config.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return rt.config.AllowedOrigins
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"clients": rt.hub.GetClientCount(),
	})
}

// upgrader builds a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (rt *Router) upgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      rt.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates connection origins. Browsers always
// send Origin; a missing header means a non-browser client, which is
// allowed since the UI shell runs outside a browser in kiosk setups.
func (rt *Router) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range rt.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unauthorized origin")
	return false
}

func (rt *Router) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := rt.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(rt.hub, conn)
	rt.hub.Register <- client

	// The request context ends when this handler returns, which is
	// immediately after the upgrade. Commands run against the
	// background context; the pumps own the connection's lifetime.
	client.Start(context.Background())
}
