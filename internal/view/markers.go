// ThreatDeck - Threat Intelligence Feed Synchronization and Visualization
// Copyright 2026 ThreatDeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/threatdeck/threatdeck

package view

import (
	"fmt"
	"sync"

	"github.com/threatdeck/threatdeck/internal/models"
)

// Marker is one map marker derived from an aggregate record. City and
// country are carried through so a marker activation can scope its
// drill-down query.
type Marker struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Location     string  `json:"location"`
	City         *string `json:"city,omitempty"`
	Country      *string `json:"country,omitempty"`
	AttemptCount int     `json:"attempt_count"`
	Tooltip      string  `json:"tooltip"`
}

// MarkerSet is the map view model. Refreshes are full replacements:
// after a snapshot lands, no marker from the previous snapshot remains.
type MarkerSet struct {
	mu        sync.Mutex
	markers   []Marker
	publisher Publisher
}

// NewMarkerSet creates an empty marker set.
func NewMarkerSet(publisher Publisher) *MarkerSet {
	return &MarkerSet{publisher: publisher}
}

// ReplaceAll discards all current markers and instantiates one marker
// per aggregate record.
func (s *MarkerSet) ReplaceAll(points []models.MapPoint) {
	markers := make([]Marker, 0, len(points))
	for i := range points {
		p := &points[i]
		location, _ := p.DisplayLocation()
		markers = append(markers, Marker{
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			Location:     location,
			City:         p.City,
			Country:      p.Country,
			AttemptCount: p.AttemptCount,
			Tooltip:      fmt.Sprintf("%s: %d attempts", location, p.AttemptCount),
		})
	}

	s.mu.Lock()
	s.markers = markers
	s.mu.Unlock()

	s.publisher.Publish(MessageTypeMapReplace, MapUpdate{Markers: markers})
}

// Markers returns a snapshot of the current markers.
func (s *MarkerSet) Markers() []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]Marker, len(s.markers))
	copy(snapshot, s.markers)
	return snapshot
}

// Len returns the number of current markers.
func (s *MarkerSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}
