// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pingcampus/ping/internal/models"
)

const eventColumns = `id, creator_id, title, description, category, place_name, lat, lng, max_participants, start_time, end_time, status, created_at, updated_at`

// EventUpdate carries the mutable event fields for the edit endpoint.
// Nil pointers mean "leave unchanged".
type EventUpdate struct {
	Title           *string
	Description     *string
	Category        *models.EventCategory
	PlaceName       *string
	Lat             *float64
	Lng             *float64
	MaxParticipants *int
}

// CreateEvent inserts a new event. The caller fills every field, including
// the id and the derived end_time.
func (db *DB) CreateEvent(ctx context.Context, ev *models.Event) error {
	defer db.observe("CreateEvent", time.Now())

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.CreatorID, ev.Title, ev.Description, string(ev.Category), ev.PlaceName,
		ev.Lat, ev.Lng, ev.MaxParticipants, ev.StartTime, ev.EndTime, string(ev.Status),
		ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent returns an event by id, or ErrNotFound.
func (db *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	defer db.observe("GetEvent", time.Now())

	row := db.conn.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// GetEventDetail returns the full event payload: the event itself, live
// interaction counts, and the viewer's own relations. viewerID may be empty
// for anonymous reads, in which case the viewer state is all false.
func (db *DB) GetEventDetail(ctx context.Context, id, viewerID string) (*models.EventDetail, error) {
	defer db.observe("GetEventDetail", time.Now())

	ev, err := db.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := db.GetCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.EventDetail{Event: *ev, Counts: counts}
	if viewerID != "" {
		state, err := db.GetViewerState(ctx, id, viewerID)
		if err != nil {
			return nil, err
		}
		detail.ViewerState = state
	}
	return detail, nil
}

// UpdateEvent applies the non-nil fields of upd to an event owned by
// callerID. Returns ErrNotFound if the event does not exist and ErrForbidden
// if it belongs to someone else; existence is checked before ownership so
// the two cases stay distinguishable.
func (db *DB) UpdateEvent(ctx context.Context, id, callerID string, upd EventUpdate, now time.Time) (*models.Event, error) {
	defer db.observe("UpdateEvent", time.Now())

	ev, err := db.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.CreatorID != callerID {
		return nil, ErrForbidden
	}

	if upd.Title != nil {
		ev.Title = *upd.Title
	}
	if upd.Description != nil {
		ev.Description = *upd.Description
	}
	if upd.Category != nil {
		ev.Category = *upd.Category
	}
	if upd.PlaceName != nil {
		ev.PlaceName = *upd.PlaceName
	}
	if upd.Lat != nil {
		ev.Lat = *upd.Lat
	}
	if upd.Lng != nil {
		ev.Lng = *upd.Lng
	}
	if upd.MaxParticipants != nil {
		ev.MaxParticipants = upd.MaxParticipants
	}
	ev.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, category = ?, place_name = ?, lat = ?, lng = ?, max_participants = ?, updated_at = ?
		 WHERE id = ?`,
		ev.Title, ev.Description, string(ev.Category), ev.PlaceName, ev.Lat, ev.Lng, ev.MaxParticipants, ev.UpdatedAt, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return ev, nil
}

// SetEventStatus activates or deactivates an event owned by callerID.
// Activation pushes end_time out by the standard event duration from now;
// deactivation ends the event immediately.
func (db *DB) SetEventStatus(ctx context.Context, id, callerID string, status models.EventStatus, now time.Time) (*models.Event, error) {
	defer db.observe("SetEventStatus", time.Now())

	ev, err := db.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.CreatorID != callerID {
		return nil, ErrForbidden
	}

	ev.Status = status
	if status == models.StatusActive {
		ev.EndTime = now.Add(models.EventDuration)
	} else {
		ev.EndTime = now
	}
	ev.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`UPDATE events SET status = ?, end_time = ?, updated_at = ? WHERE id = ?`,
		string(ev.Status), ev.EndTime, ev.UpdatedAt, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to set event status: %w", err)
	}
	return ev, nil
}

// DeleteEvent removes an event owned by callerID together with all of its
// joins, saves, likes, comments, and queued notifications in one
// transaction. Counts computed afterward are zero because the records are
// gone, not because a counter was reset.
func (db *DB) DeleteEvent(ctx context.Context, id, callerID string) error {
	defer db.observe("DeleteEvent", time.Now())

	ev, err := db.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if ev.CreatorID != callerID {
		return ErrForbidden
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM comment_notifications WHERE event_id = ?`,
		`DELETE FROM event_comments WHERE event_id = ?`,
		`DELETE FROM event_joins WHERE event_id = ?`,
		`DELETE FROM event_saves WHERE event_id = ?`,
		`DELETE FROM event_likes WHERE event_id = ?`,
		`DELETE FROM events WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to cascade delete event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event delete: %w", err)
	}
	return nil
}

// ListUserEvents returns all events created by the user, newest first.
func (db *DB) ListUserEvents(ctx context.Context, creatorID string) ([]models.Event, error) {
	defer db.observe("ListUserEvents", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE creator_id = ? ORDER BY start_time DESC, id ASC`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		ev       models.Event
		category string
		status   string
		maxPart  sql.NullInt64
	)
	err := row.Scan(&ev.ID, &ev.CreatorID, &ev.Title, &ev.Description, &category, &ev.PlaceName,
		&ev.Lat, &ev.Lng, &maxPart, &ev.StartTime, &ev.EndTime, &status, &ev.CreatedAt, &ev.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	ev.Category = models.EventCategory(category)
	ev.Status = models.EventStatus(status)
	if maxPart.Valid {
		v := int(maxPart.Int64)
		ev.MaxParticipants = &v
	}
	return &ev, nil
}
