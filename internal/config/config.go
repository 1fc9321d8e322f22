// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Package config provides layered configuration for ThreatDeck:
// built-in defaults, an optional YAML file, and THREATDECK_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Feeds    FeedsConfig    `koanf:"feeds"`
	Map      MapConfig      `koanf:"map"`
	Lookup   LookupConfig   `koanf:"lookup"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the local HTTP/WebSocket surface.
type ServerConfig struct {
	Listen          string        `koanf:"listen" validate:"required"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	WSRateLimit     int           `koanf:"ws_rate_limit" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// UpstreamConfig controls the event store API client.
type UpstreamConfig struct {
	URL            string        `koanf:"url" validate:"required,url"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimit      float64       `koanf:"rate_limit" validate:"gt=0"`
	RateBurst      int           `koanf:"rate_burst" validate:"gt=0"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// FeedsConfig controls the live and flagged feed synchronizers.
// CacheCapacity bounds each dedup cache; 0 keeps it unbounded for the
// session, which matches the default append-only behavior.
type FeedsConfig struct {
	LiveInterval    time.Duration `koanf:"live_interval" validate:"gt=0"`
	FlaggedInterval time.Duration `koanf:"flagged_interval" validate:"gt=0"`
	CacheCapacity   int           `koanf:"cache_capacity" validate:"gte=0"`
}

// MapConfig controls the map aggregate synchronizer.
type MapConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
}

// LookupConfig holds the external lookup URL templates. Each template
// embeds the raw source IP at its %s placeholder and is opened by the
// attached UI, never fetched by this process.
type LookupConfig struct {
	IPReputationURL string `koanf:"ip_reputation_url" validate:"required,contains=%s"`
	ThreatIntelURL  string `koanf:"threat_intel_url" validate:"required,contains=%s"`
	TimeZone        string `koanf:"time_zone"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all defaults applied. The feed
// intervals mirror the dashboard's native cadence: 10s for both feeds,
// 30s for the map snapshot.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          ":8480",
			AllowedOrigins:  []string{"*"},
			WSRateLimit:     30,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			URL:            "http://127.0.0.1:8000",
			Timeout:        30 * time.Second,
			RateLimit:      5,
			RateBurst:      10,
			BreakerEnabled: true,
		},
		Feeds: FeedsConfig{
			LiveInterval:    10 * time.Second,
			FlaggedInterval: 10 * time.Second,
			CacheCapacity:   0,
		},
		Map: MapConfig{
			Interval: 30 * time.Second,
		},
		Lookup: LookupConfig{
			IPReputationURL: "https://www.abuseipdb.com/check/%s",
			ThreatIntelURL:  "https://www.virustotal.com/gui/ip-address/%s",
			TimeZone:        "Local",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration via struct tags plus the checks the
// tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if ok := errors.As(err, &verrs); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config field %s: failed %q validation", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if strings.Count(c.Lookup.IPReputationURL, "%s") != 1 {
		return fmt.Errorf("lookup.ip_reputation_url must contain exactly one %%s placeholder")
	}
	if strings.Count(c.Lookup.ThreatIntelURL, "%s") != 1 {
		return fmt.Errorf("lookup.threat_intel_url must contain exactly one %%s placeholder")
	}

	return nil
}
