// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}

	if cfg.Feeds.LiveInterval != 10*time.Second {
		t.Errorf("live interval = %v, want 10s", cfg.Feeds.LiveInterval)
	}
	if cfg.Feeds.FlaggedInterval != 10*time.Second {
		t.Errorf("flagged interval = %v, want 10s", cfg.Feeds.FlaggedInterval)
	}
	if cfg.Map.Interval != 30*time.Second {
		t.Errorf("map interval = %v, want 30s", cfg.Map.Interval)
	}
	if cfg.Feeds.CacheCapacity != 0 {
		t.Errorf("cache capacity = %d, want 0 (unbounded)", cfg.Feeds.CacheCapacity)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
upstream:
  url: "http://eventstore.internal:8000"
  timeout: 5s
feeds:
  live_interval: 2s
  cache_capacity: 5000
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Upstream.URL != "http://eventstore.internal:8000" {
		t.Errorf("upstream url = %q", cfg.Upstream.URL)
	}
	if cfg.Upstream.Timeout != 5*time.Second {
		t.Errorf("upstream timeout = %v", cfg.Upstream.Timeout)
	}
	if cfg.Feeds.LiveInterval != 2*time.Second {
		t.Errorf("live interval = %v", cfg.Feeds.LiveInterval)
	}
	// Unset fields keep their defaults.
	if cfg.Feeds.FlaggedInterval != 10*time.Second {
		t.Errorf("flagged interval = %v, want default 10s", cfg.Feeds.FlaggedInterval)
	}
	if cfg.Feeds.CacheCapacity != 5000 {
		t.Errorf("cache capacity = %d", cfg.Feeds.CacheCapacity)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("THREATDECK_UPSTREAM_URL", "http://override.internal:9000")
	t.Setenv("THREATDECK_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Upstream.URL != "http://override.internal:9000" {
		t.Errorf("upstream url = %q, want env override", cfg.Upstream.URL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging level = %q, want env override", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Upstream.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for malformed upstream url")
	}

	cfg = defaultConfig()
	cfg.Feeds.LiveInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero live interval")
	}

	cfg = defaultConfig()
	cfg.Lookup.IPReputationURL = "https://example.com/check"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for template without placeholder")
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"THREATDECK_UPSTREAM_URL", "upstream.url"},
		{"THREATDECK_FEEDS_LIVE_INTERVAL", "feeds.live_interval"},
		{"THREATDECK_LOOKUP_IP_REPUTATION_URL", "lookup.ip_reputation_url"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
