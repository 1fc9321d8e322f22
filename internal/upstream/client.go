// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

/*
client.go - Event Store REST API Client

Read endpoints deliver event records and map aggregates; the single
write endpoint flags every event from one source IP as suspicious.
All timestamps on the wire are RFC 3339 instants.
*/

// Package upstream implements the HTTP client for the remote event
// store that the synchronizers poll.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/threatdeck/threatdeck/internal/config"
	"github.com/threatdeck/threatdeck/internal/metrics"
	"github.com/threatdeck/threatdeck/internal/models"
)

// API defines the event store operations consumed by the sync engine.
// Both Client and BreakerClient implement this interface.
type API interface {
	RecentEvents(ctx context.Context) ([]models.Event, error)
	FlaggedEvents(ctx context.Context) ([]models.Event, error)
	MapData(ctx context.Context) ([]models.MapPoint, error)
	EventsByLocation(ctx context.Context, city, country string) ([]models.Event, error)
	FlagIP(ctx context.Context, ip string) (*models.StatusResponse, error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)

// Client provides access to the event store REST API.
// Outbound calls share a token-bucket rate limiter so that four
// independent poll loops cannot stampede the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new event store API client.
func NewClient(cfg *config.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// RecentEvents retrieves the most recent non-flagged events,
// newest first.
func (c *Client) RecentEvents(ctx context.Context) ([]models.Event, error) {
	return c.getEvents(ctx, "/api/recent-events")
}

// FlaggedEvents retrieves the most recent flagged events, newest first.
func (c *Client) FlaggedEvents(ctx context.Context) ([]models.Event, error) {
	return c.getEvents(ctx, "/api/flagged-events")
}

// MapData retrieves the full location-bucketed aggregate snapshot.
func (c *Client) MapData(ctx context.Context) ([]models.MapPoint, error) {
	endpoint := "/api/map-data"

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, fmt.Errorf("map data request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(endpoint, resp)
	}

	var points []models.MapPoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("failed to decode map data: %w", err)
	}

	return points, nil
}

// EventsByLocation retrieves all individual events for one location
// bucket. A non-empty city scopes the query to that city; otherwise a
// non-empty country scopes it to that country; with neither, the event
// store matches its location-less bucket.
func (c *Client) EventsByLocation(ctx context.Context, city, country string) ([]models.Event, error) {
	endpoint := "/api/events-by-location"

	query := url.Values{}
	if city != "" {
		query.Set("city", city)
	} else if country != "" {
		query.Set("country", country)
	}

	path := endpoint
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	events, err := c.getEvents(ctx, path)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FlagIP flags every event from the given source IP as suspicious.
// The mutation is idempotent on the server side. A rejected mutation is
// returned as a *FlagError carrying the server's reason.
func (c *Client) FlagIP(ctx context.Context, ip string) (*models.StatusResponse, error) {
	endpoint := "/api/flag-ip/" + url.PathEscape(ip)

	resp, err := c.doRequest(ctx, http.MethodPut, endpoint)
	if err != nil {
		return nil, fmt.Errorf("flag request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flag response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		reason := errorDetail(body)
		if reason == "" {
			reason = GenericFlagFailure
		}
		return nil, &FlagError{StatusCode: resp.StatusCode, Reason: reason}
	}

	var status models.StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode flag response: %w", err)
	}

	return &status, nil
}

// getEvents fetches and decodes a list of event records.
func (c *Client) getEvents(ctx context.Context, path string) ([]models.Event, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(path, resp)
	}

	var events []models.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

// doRequest performs a rate-limited HTTP request against the event store.
func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpointLabel(path)).Observe(time.Since(start).Seconds())

	return resp, err
}

// statusError builds a StatusError from a non-success response,
// reading the body for the server-provided detail.
func statusError(endpoint string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return &StatusError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Detail:     errorDetail(body),
	}
}

// endpointLabel strips query strings and path parameters so metric
// cardinality stays bounded.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if strings.HasPrefix(path, "/api/flag-ip/") {
		return "/api/flag-ip"
	}
	return path
}
