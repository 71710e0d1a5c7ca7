// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import "time"

// DiscoveryItem is one nearby event in a discovery response. Distance is
// annotated but results are ordered by recency; fresh events beat near ones.
type DiscoveryItem struct {
	EventID         string        `json:"event_id"`
	Title           string        `json:"title"`
	CreatorUsername string        `json:"creator_username,omitempty"`
	Description     string        `json:"description,omitempty"`
	Category        EventCategory `json:"category"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          EventStatus   `json:"status"`
	PlaceName       string        `json:"place_name"`
	Lat             float64       `json:"lat"`
	Lng             float64       `json:"lng"`
	DistanceM       float64       `json:"distance_m"`
	TTLMinutes      int           `json:"ttl_minutes"`
	Counts          GoingCount    `json:"counts"`
}

// GoingCount is the single aggregate attached to discovery items.
type GoingCount struct {
	Going int `json:"going"`
}

// MapPointType distinguishes raw event points from grid cluster summaries.
type MapPointType string

// Map point types.
const (
	PointEvent   MapPointType = "event"
	PointCluster MapPointType = "cluster"
)

// MapPoint is one entry in a map viewport response: either a single event
// or a grid-cell cluster summary when the viewport is overloaded.
type MapPoint struct {
	ID   string       `json:"id"`
	Type MapPointType `json:"type"`
	Lat  float64      `json:"lat"`
	Lng  float64      `json:"lng"`

	// Event point fields.
	Title      string        `json:"title,omitempty"`
	Category   EventCategory `json:"category,omitempty"`
	StartTime  *time.Time    `json:"start_time,omitempty"`
	TTLMinutes *int          `json:"ttl_minutes,omitempty"`

	// Cluster point fields.
	Count           int        `json:"count,omitempty"`
	NewestStartTime *time.Time `json:"newest_start_time,omitempty"`
}

// OverloadControl reports whether the viewport response was clustered and,
// if so, at which grid size. Clustering bounds response and render cost; it
// is backpressure, not a spatial index.
type OverloadControl struct {
	Clustered bool    `json:"clustered"`
	GridSize  float64 `json:"grid_size,omitempty"`
}
