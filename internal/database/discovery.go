// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pingcampus/ping/internal/models"
)

// DiscoveryParams are the resolved inputs for a discovery query. Defaults
// and caps are applied at the API layer; the store trusts its inputs.
type DiscoveryParams struct {
	Lat     float64
	Lng     float64
	RadiusM float64
	Limit   int
	Now     time.Time
}

// Bounds is a map viewport rectangle.
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// MaxViewportRows bounds the raw rows fetched for a viewport before
// clustering. Past this, older events in the viewport simply do not appear.
const MaxViewportRows = 500

// haversineSQL computes the great-circle distance in meters between an
// event row and a fixed point. Parameters: lat, lat, lng. Uses only core
// DuckDB math functions so no extension is required.
const haversineSQL = `2 * 6371000 * asin(sqrt(
	pow(sin(radians(e.lat - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(e.lat)) * pow(sin(radians(e.lng - ?) / 2), 2)))`

// Discover returns active, unexpired events within the radius, ordered by
// recency rather than proximity: a fresh event at the edge of the radius
// outranks a stale one next door. Distance is annotated on each item.
func (db *DB) Discover(ctx context.Context, p DiscoveryParams) ([]models.DiscoveryItem, error) {
	defer db.observe("Discover", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT * FROM (
			SELECT e.id, e.title, u.username, e.description, e.category,
				e.start_time, e.end_time, e.status, e.place_name, e.lat, e.lng,
				(SELECT COUNT(*) FROM event_joins j WHERE j.event_id = e.id) AS going,
				`+haversineSQL+` AS distance_m
			FROM events e
			JOIN users u ON u.id = e.creator_id
			WHERE e.status = 'active' AND e.end_time > ?
		)
		WHERE distance_m <= ?
		ORDER BY start_time DESC, id ASC
		LIMIT ?`,
		p.Lat, p.Lat, p.Lng, p.Now, p.RadiusM, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run discovery query: %w", err)
	}
	defer rows.Close()

	items := make([]models.DiscoveryItem, 0, p.Limit)
	for rows.Next() {
		var (
			it       models.DiscoveryItem
			category string
			status   string
		)
		if err := rows.Scan(&it.EventID, &it.Title, &it.CreatorUsername, &it.Description, &category,
			&it.StartTime, &it.EndTime, &status, &it.PlaceName, &it.Lat, &it.Lng,
			&it.Counts.Going, &it.DistanceM); err != nil {
			return nil, fmt.Errorf("failed to scan discovery item: %w", err)
		}
		it.Category = models.EventCategory(category)
		it.Status = models.EventStatus(status)
		it.TTLMinutes = (&models.Event{EndTime: it.EndTime}).TTLMinutes(p.Now)
		items = append(items, it)
	}
	return items, rows.Err()
}

// ViewportEvents returns up to MaxViewportRows active, unexpired events
// inside the bounds as raw map points, newest first. Grid clustering, when
// needed, happens above the store.
func (db *DB) ViewportEvents(ctx context.Context, b Bounds, now time.Time) ([]models.MapPoint, error) {
	defer db.observe("ViewportEvents", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT e.id, e.title, e.category, e.lat, e.lng, e.start_time, e.end_time
		 FROM events e
		 WHERE e.status = 'active' AND e.end_time > ?
			AND e.lat BETWEEN ? AND ? AND e.lng BETWEEN ? AND ?
		 ORDER BY e.start_time DESC, e.id ASC
		 LIMIT ?`,
		now, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng, MaxViewportRows)
	if err != nil {
		return nil, fmt.Errorf("failed to run viewport query: %w", err)
	}
	defer rows.Close()

	var points []models.MapPoint
	for rows.Next() {
		var (
			p        models.MapPoint
			category string
			start    time.Time
			end      time.Time
		)
		if err := rows.Scan(&p.ID, &p.Title, &category, &p.Lat, &p.Lng, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan map point: %w", err)
		}
		p.Type = models.PointEvent
		p.Category = models.EventCategory(category)
		p.StartTime = &start
		ttl := (&models.Event{EndTime: end}).TTLMinutes(now)
		p.TTLMinutes = &ttl
		points = append(points, p)
	}
	return points, rows.Err()
}
