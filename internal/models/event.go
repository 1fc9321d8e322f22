// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

// Package models provides the wire-level data models exchanged with the
// event store and the derived identity keys used for deduplication.
package models

import (
	"strconv"
	"time"
)

// UnknownLocation is the display fallback when an event or map point
// carries neither a city nor a country.
const UnknownLocation = "Unknown Location"

// NotAvailable is the display fallback for absent enrichment fields.
const NotAvailable = "N/A"

// Event is a single enriched rejection event as delivered by the event
// store. City, country, hostname and ISP are enrichment fields whose
// absence is meaningful ("unknown"), not an error.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	SrcIP        string    `json:"src_ip"`
	SrcPort      int       `json:"src_port"`
	DstPort      int       `json:"dst_port"`
	City         *string   `json:"city"`
	Country      *string   `json:"country"`
	Hostname     *string   `json:"hostname"`
	ISP          *string   `json:"isp"`
	IsSuspicious bool      `json:"is_suspicious"`
}

// Key derives the event's identity key from the (timestamp, src_ip,
// dst_port) triple. Two records with the same triple are the same event
// for deduplication purposes even when enrichment fields differ between
// deliveries; a cached identity is never updated on re-delivery.
func (e *Event) Key() string {
	return e.Timestamp.UTC().Format(time.RFC3339Nano) +
		"|" + e.SrcIP +
		"|" + strconv.Itoa(e.DstPort)
}

// DisplayLocation resolves the display location for the event:
// city, falling back to country, falling back to UnknownLocation.
// The second return value reports whether any location was known.
func (e *Event) DisplayLocation() (string, bool) {
	return displayLocation(e.City, e.Country)
}

// HostnameOrDefault returns the hostname, or NotAvailable when absent.
func (e *Event) HostnameOrDefault() string {
	if e.Hostname == nil || *e.Hostname == "" {
		return NotAvailable
	}
	return *e.Hostname
}

// ISPOrDefault returns the ISP, or NotAvailable when absent.
func (e *Event) ISPOrDefault() string {
	if e.ISP == nil || *e.ISP == "" {
		return NotAvailable
	}
	return *e.ISP
}

// MapPoint is one location-bucketed aggregate from the map snapshot
// endpoint. Snapshots are delivered wholesale; there is no incremental
// merge between refreshes.
type MapPoint struct {
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	AttemptCount int     `json:"attempt_count"`
}

// DisplayLocation resolves the display location for the aggregate with
// the same fallback rule as Event.DisplayLocation.
func (p *MapPoint) DisplayLocation() (string, bool) {
	return displayLocation(p.City, p.Country)
}

// StatusResponse is the event store's response to a state mutation.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func displayLocation(city, country *string) (string, bool) {
	if city != nil && *city != "" {
		return *city, true
	}
	if country != nil && *country != "" {
		return *country, true
	}
	return UnknownLocation, false
}
