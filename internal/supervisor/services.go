// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Synchronizer matches the Start/Stop lifecycle of the feed and map
// synchronizers. The interface lets the wrapper adapt that pattern to
// suture's Serve pattern without importing the sync package.
type Synchronizer interface {
	Start(ctx context.Context) error
	Stop()
}

// SynchronizerService wraps a poll-loop synchronizer as a supervised
// service: Start spawns the loop, the wrapper blocks on the context,
// and Stop waits for the loop to drain.
type SynchronizerService struct {
	sync Synchronizer
	name string
}

// NewSynchronizerService creates a synchronizer service wrapper.
func NewSynchronizerService(name string, sync Synchronizer) *SynchronizerService {
	return &SynchronizerService{sync: sync, name: name}
}

// Serve implements suture.Service.
func (s *SynchronizerService) Serve(ctx context.Context) error {
	if err := s.sync.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	// Stop blocks until the poll loop's goroutine has exited.
	s.sync.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *SynchronizerService) String() string {
	return s.name
}

// ContextHub matches *websocket.Hub's RunWithContext method without
// importing the websocket package.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// HubService wraps the WebSocket hub as a supervised service. The hub's
// RunWithContext already implements the suture.Service pattern, so this
// only adds a name for logging.
type HubService struct {
	hub  ContextHub
	name string
}

// NewHubService creates a hub service wrapper.
func NewHubService(hub ContextHub) *HubService {
	return &HubService{hub: hub, name: "websocket-hub"}
}

// Serve implements suture.Service.
func (h *HubService) Serve(ctx context.Context) error {
	return h.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer.
func (h *HubService) String() string {
	return h.name
}

// HTTPServer matches *http.Server's lifecycle methods.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService wraps an HTTP server as a supervised service,
// translating the blocking ListenAndServe pattern into suture's
// context-aware Serve pattern.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService creates an HTTP server service wrapper. The
// shutdownTimeout bounds graceful shutdown of active connections.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service. http.ErrServerClosed is converted to
// nil since it is expected on shutdown.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// The original context is canceled; use a fresh one for the
		// bounded shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
func (h *HTTPServerService) String() string {
	return h.name
}
