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

// CreateComment inserts a comment on an event. Replies must target an
// existing top-level comment on the same event; deeper nesting is rejected
// at write time so read paths never have to flatten.
func (db *DB) CreateComment(ctx context.Context, c *models.Comment) error {
	defer db.observe("CreateComment", time.Now())

	if _, err := db.GetEvent(ctx, c.EventID); err != nil {
		return err
	}

	if c.ParentID != nil {
		var (
			parentEventID string
			parentParent  sql.NullString
		)
		row := db.conn.QueryRowContext(ctx,
			`SELECT event_id, parent_id FROM event_comments WHERE id = ?`, *c.ParentID)
		err := row.Scan(&parentEventID, &parentParent)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrParentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up parent comment: %w", err)
		}
		if parentEventID != c.EventID {
			return ErrParentNotFound
		}
		if parentParent.Valid {
			return ErrParentNotTopLevel
		}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO event_comments (id, event_id, author_id, parent_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.EventID, c.AuthorID, c.ParentID, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetComment returns a single comment by id, or ErrNotFound.
func (db *DB) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	defer db.observe("GetComment", time.Now())

	row := db.conn.QueryRowContext(ctx,
		`SELECT c.id, c.event_id, c.author_id, c.parent_id, c.body, c.created_at, u.username
		 FROM event_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.id = ?`, id)
	c, err := scanComment(row)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCommentThreads returns up to limit top-level comments for an event,
// newest first, each with its full reply list oldest first. Usernames are
// resolved in the same query.
func (db *DB) ListCommentThreads(ctx context.Context, eventID string, limit int) ([]models.CommentThread, error) {
	defer db.observe("ListCommentThreads", time.Now())

	if _, err := db.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.event_id, c.author_id, c.parent_id, c.body, c.created_at, u.username
		 FROM event_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.event_id = ? AND c.parent_id IS NULL
		 ORDER BY c.created_at DESC, c.id ASC
		 LIMIT ?`,
		eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	threads := make([]models.CommentThread, 0, limit)
	index := make(map[string]int)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		index[c.ID] = len(threads)
		threads = append(threads, models.CommentThread{Comment: *c, Replies: []models.Comment{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	replyRows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.event_id, c.author_id, c.parent_id, c.body, c.created_at, u.username
		 FROM event_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.event_id = ? AND c.parent_id IS NOT NULL
		 ORDER BY c.created_at ASC, c.id ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer replyRows.Close()

	for replyRows.Next() {
		c, err := scanComment(replyRows)
		if err != nil {
			return nil, err
		}
		// Replies to top-level comments outside the page are dropped with
		// their parents.
		if i, ok := index[*c.ParentID]; ok {
			threads[i].Replies = append(threads[i].Replies, *c)
		}
	}
	return threads, replyRows.Err()
}

// ListReplies returns the replies of a top-level comment, oldest first. The
// parent must exist and belong to eventID, else ErrNotFound.
func (db *DB) ListReplies(ctx context.Context, eventID, parentID string) ([]models.Comment, error) {
	defer db.observe("ListReplies", time.Now())

	parent, err := db.GetComment(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.EventID != eventID {
		return nil, ErrNotFound
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.event_id, c.author_id, c.parent_id, c.body, c.created_at, u.username
		 FROM event_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.parent_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	replies := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, *c)
	}
	return replies, rows.Err()
}

// DeleteComment removes a top-level comment authored by callerID, together
// with its replies and any queued notifications. The comment must belong to
// eventID; replies and cross-event ids read as missing. Deletion is allowed
// up to and including the retraction window boundary; past it the comment is
// permanent.
func (db *DB) DeleteComment(ctx context.Context, eventID, commentID, callerID string, now time.Time) error {
	defer db.observe("DeleteComment", time.Now())

	var (
		authorID  string
		createdAt time.Time
	)
	row := db.conn.QueryRowContext(ctx,
		`SELECT author_id, created_at FROM event_comments
		 WHERE id = ? AND event_id = ? AND parent_id IS NULL`, commentID, eventID)
	err := row.Scan(&authorID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up comment: %w", err)
	}

	if authorID != callerID {
		return ErrForbidden
	}
	if now.Sub(createdAt) > models.CommentDeleteWindow {
		return ErrWindowExpired
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comment_notifications
		 WHERE comment_id = ? OR comment_id IN (SELECT id FROM event_comments WHERE parent_id = ?)`,
		commentID, commentID); err != nil {
		return fmt.Errorf("failed to delete queued notifications: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_comments WHERE parent_id = ?`, commentID); err != nil {
		return fmt.Errorf("failed to delete replies: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_comments WHERE id = ?`, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment delete: %w", err)
	}
	return nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		c      models.Comment
		parent sql.NullString
	)
	err := row.Scan(&c.ID, &c.EventID, &c.AuthorID, &parent, &c.Body, &c.CreatedAt, &c.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	if parent.Valid {
		c.ParentID = &parent.String
	}
	return &c, nil
}
