// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/threatdeck/threatdeck/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates and starts a hub that stops with the test.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(10 * time.Millisecond)
	return hub
}

// createTestClient creates a client without a live connection.
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, conn: nil, send: make(chan Message, 256)}
}

// registerClient registers a client and waits for registration.
func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"broadcast channel", hub.broadcast != nil, "broadcast channel not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"empty clients", len(hub.clients) == 0, "clients map should be empty"},
	}

	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := setupHub(t)

	client := createTestClient(hub)
	registerClient(hub, client)
	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("GetClientCount() = %d after register, want 1", got)
	}

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)
	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("GetClientCount() = %d after unregister, want 0", got)
	}
}

func TestHub_PublishReachesAllClients(t *testing.T) {
	hub := setupHub(t)

	c1 := createTestClient(hub)
	c2 := createTestClient(hub)
	registerClient(hub, c1)
	registerClient(hub, c2)

	hub.Publish("notice", map[string]interface{}{"level": "info", "text": "hello"})

	for i, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if msg.Type != "notice" {
				t.Errorf("client %d received type %q, want notice", i, msg.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d received no message", i)
		}
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := setupHub(t)
	// Must not block or panic.
	hub.Publish("map_replace", map[string]interface{}{"markers": []string{}})
	time.Sleep(10 * time.Millisecond)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := setupHub(t)

	// Buffer of one: the second broadcast cannot be delivered.
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 1)}
	registerClient(hub, slow)

	hub.Publish("notice", "first")
	hub.Publish("notice", "second")
	time.Sleep(50 * time.Millisecond)

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("GetClientCount() = %d, want 0 after slow client dropped", got)
	}
}

func TestHub_DispatchCommand(t *testing.T) {
	hub := NewHub()

	var got []Command
	hub.SetCommandHandler(func(ctx context.Context, cmd Command) {
		got = append(got, cmd)
	})

	hub.dispatchCommand(context.Background(), Command{Type: CommandDismiss})
	hub.dispatchCommand(context.Background(), Command{Type: CommandMarkerActivate, City: "Berlin"})

	if len(got) != 2 {
		t.Fatalf("handler received %d commands, want 2", len(got))
	}
	if got[1].City != "Berlin" {
		t.Errorf("got[1].City = %q, want Berlin", got[1].City)
	}
}

func TestHub_DispatchWithoutHandler(t *testing.T) {
	hub := NewHub()
	// Must not panic.
	hub.dispatchCommand(context.Background(), Command{Type: CommandDismiss})
}

func TestHub_RunWithContextReturnsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- hub.RunWithContext(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	client := createTestClient(hub)
	registerClient(hub, client)

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("GetClientCount() = %d after shutdown, want 0", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: "notice", Data: map[string]string{"text": "hi"}})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("MarshalMessage() returned empty payload")
	}
}
