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

// EnqueueCommentNotification schedules a deferred notification for a new
// comment. notifyAfter is the end of the comment's retraction window; a
// comment deleted before then takes its queue row with it.
func (db *DB) EnqueueCommentNotification(ctx context.Context, commentID, eventID string, notifyAfter time.Time) error {
	defer db.observe("EnqueueCommentNotification", time.Now())

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comment_notifications (comment_id, event_id, notify_after) VALUES (?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		commentID, eventID, notifyAfter)
	if err != nil {
		return fmt.Errorf("failed to enqueue comment notification: %w", err)
	}
	return nil
}

// ClaimDueNotifications atomically removes and returns up to limit queue
// rows whose notify_after has passed. Because claiming deletes the row,
// each notification is delivered at most once; a dispatcher crash after the
// claim loses the notification rather than duplicating it.
func (db *DB) ClaimDueNotifications(ctx context.Context, now time.Time, limit int) ([]string, error) {
	defer db.observe("ClaimDueNotifications", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`DELETE FROM comment_notifications
		 WHERE comment_id IN (
			SELECT comment_id FROM comment_notifications
			WHERE notify_after <= ?
			ORDER BY notify_after ASC
			LIMIT ?
		 )
		 RETURNING comment_id`,
		now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due notifications: %w", err)
	}
	defer rows.Close()

	var commentIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan claimed notification: %w", err)
		}
		commentIDs = append(commentIDs, id)
	}
	return commentIDs, rows.Err()
}

// GetCommentNotificationDetails resolves everything needed to deliver a
// notification for the comment: the event, its creator, and the commenter.
// Returns ErrNotFound when the comment or its event no longer exists, which
// the dispatcher treats as a retraction.
func (db *DB) GetCommentNotificationDetails(ctx context.Context, commentID string) (*models.CommentNotification, error) {
	defer db.observe("GetCommentNotificationDetails", time.Now())

	var n models.CommentNotification
	row := db.conn.QueryRowContext(ctx,
		`SELECT c.id, e.id, e.title, c.body, author.username,
			creator.id, creator.username, creator.email, NOT creator.receive_comment_emails
		 FROM event_comments c
		 JOIN events e ON e.id = c.event_id
		 JOIN users creator ON creator.id = e.creator_id
		 JOIN users author ON author.id = c.author_id
		 WHERE c.id = ?`, commentID)
	err := row.Scan(&n.CommentID, &n.EventID, &n.EventTitle, &n.Body, &n.CommenterUsername,
		&n.CreatorID, &n.CreatorUsername, &n.CreatorEmail, &n.CreatorOptedOut)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve notification details: %w", err)
	}
	return &n, nil
}

// PendingNotificationCount reports the queue depth, used by the health
// endpoint and metrics.
func (db *DB) PendingNotificationCount(ctx context.Context) (int, error) {
	defer db.observe("PendingNotificationCount", time.Now())

	var n int
	row := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM comment_notifications`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending notifications: %w", err)
	}
	return n, nil
}
