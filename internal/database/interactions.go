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

// interactionTable maps a toggleable interaction kind to its table. Each
// table has PRIMARY KEY (event_id, user_id), so set operations are
// idempotent under ON CONFLICT DO NOTHING.
func interactionTable(kind models.InteractionKind) (string, error) {
	switch kind {
	case models.InteractionGoing:
		return "event_joins", nil
	case models.InteractionInterested:
		return "event_saves", nil
	case models.InteractionLiked:
		return "event_likes", nil
	}
	return "", fmt.Errorf("unknown interaction kind %q", kind)
}

// SetInteraction records an (event, user) relation. Setting an already-set
// relation is a no-op, not an error. Returns ErrNotFound if the event does
// not exist.
func (db *DB) SetInteraction(ctx context.Context, kind models.InteractionKind, eventID, userID string, now time.Time) error {
	defer db.observe("SetInteraction", time.Now())

	table, err := interactionTable(kind)
	if err != nil {
		return err
	}

	if _, err := db.GetEvent(ctx, eventID); err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO `+table+` (event_id, user_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		eventID, userID, now)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", kind, err)
	}
	return nil
}

// UnsetInteraction removes an (event, user) relation. Removing an absent
// relation is a no-op. Returns ErrNotFound if the event does not exist.
func (db *DB) UnsetInteraction(ctx context.Context, kind models.InteractionKind, eventID, userID string) error {
	defer db.observe("UnsetInteraction", time.Now())

	table, err := interactionTable(kind)
	if err != nil {
		return err
	}

	if _, err := db.GetEvent(ctx, eventID); err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to unset %s: %w", kind, err)
	}
	return nil
}

// GetCounts computes the live interaction aggregates for an event by
// counting current records. There is no stored counter to drift.
func (db *DB) GetCounts(ctx context.Context, eventID string) (models.EventCounts, error) {
	defer db.observe("GetCounts", time.Now())

	var c models.EventCounts
	row := db.conn.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM event_joins WHERE event_id = ?),
			(SELECT COUNT(*) FROM event_saves WHERE event_id = ?),
			(SELECT COUNT(*) FROM event_likes WHERE event_id = ?),
			(SELECT COUNT(*) FROM event_comments WHERE event_id = ?)`,
		eventID, eventID, eventID, eventID)
	if err := row.Scan(&c.Going, &c.Interested, &c.Likes, &c.Comments); err != nil {
		return c, fmt.Errorf("failed to count interactions: %w", err)
	}
	return c, nil
}

// GetViewerState reports which relations the user currently holds on the
// event.
func (db *DB) GetViewerState(ctx context.Context, eventID, userID string) (models.ViewerState, error) {
	defer db.observe("GetViewerState", time.Now())

	var s models.ViewerState
	row := db.conn.QueryRowContext(ctx,
		`SELECT
			EXISTS (SELECT 1 FROM event_joins WHERE event_id = ? AND user_id = ?),
			EXISTS (SELECT 1 FROM event_saves WHERE event_id = ? AND user_id = ?),
			EXISTS (SELECT 1 FROM event_likes WHERE event_id = ? AND user_id = ?)`,
		eventID, userID, eventID, userID, eventID, userID)
	if err := row.Scan(&s.Going, &s.Interested, &s.Liked); err != nil {
		return s, fmt.Errorf("failed to read viewer state: %w", err)
	}
	return s, nil
}

// ListSavedEvents returns the events the user has marked interested,
// most recently saved first.
func (db *DB) ListSavedEvents(ctx context.Context, userID string) ([]models.EventSummary, error) {
	defer db.observe("ListSavedEvents", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT e.id, e.title, e.status, e.start_time, e.end_time, e.place_name, e.lat, e.lng
		 FROM event_saves s
		 JOIN events e ON e.id = s.event_id
		 WHERE s.user_id = ?
		 ORDER BY s.created_at DESC, e.id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved events: %w", err)
	}
	defer rows.Close()

	var items []models.EventSummary
	for rows.Next() {
		var (
			it     models.EventSummary
			status string
		)
		if err := rows.Scan(&it.ID, &it.Title, &status, &it.StartTime, &it.EndTime, &it.PlaceName, &it.Lat, &it.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan saved event: %w", err)
		}
		it.Status = models.EventStatus(status)
		items = append(items, it)
	}
	return items, rows.Err()
}
