// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"time"

	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/models"
)

// Seed inserts a small set of demo users and events for local development.
// Idempotent: it does nothing if any event already exists.
func (db *DB) Seed(ctx context.Context, now time.Time) error {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		logging.Debug().Msg("Seed skipped, events already exist")
		return nil
	}

	alice, err := db.EnsureUser(ctx, "alice@campus.example.edu", "alice", now)
	if err != nil {
		return err
	}
	bob, err := db.EnsureUser(ctx, "bob@campus.example.edu", "bob", now)
	if err != nil {
		return err
	}

	seedEvents := []models.Event{
		{
			ID: "seed-evt-pickup-soccer", CreatorID: alice.ID,
			Title: "Pickup soccer at the main field", Category: models.CategorySport,
			PlaceName: "Main Field", Lat: 49.2680, Lng: -123.2480,
		},
		{
			ID: "seed-evt-figure-drawing", CreatorID: alice.ID,
			Title: "Open figure drawing session", Category: models.CategoryArt,
			PlaceName: "Arts Building Room 120", Lat: 49.2692, Lng: -123.2532,
		},
		{
			ID: "seed-evt-board-games", CreatorID: bob.ID,
			Title: "Board game night", Category: models.CategorySocial,
			PlaceName: "Student Union Lounge", Lat: 49.2665, Lng: -123.2494,
		},
		{
			ID: "seed-evt-midterm-cram", CreatorID: bob.ID,
			Title: "Calculus midterm study group", Category: models.CategoryStudy,
			PlaceName: "Library Level 3", Lat: 49.2676, Lng: -123.2526,
		},
	}

	for i := range seedEvents {
		ev := &seedEvents[i]
		ev.StartTime = now.Add(time.Duration(i) * time.Hour)
		ev.EndTime = ev.StartTime.Add(models.EventDuration)
		ev.Status = models.StatusActive
		ev.CreatedAt = now
		ev.UpdatedAt = now
		if err := db.CreateEvent(ctx, ev); err != nil {
			return err
		}
	}

	logging.Info().Int("events", len(seedEvents)).Msg("Seeded demo data")
	return nil
}
