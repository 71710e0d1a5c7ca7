// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"fmt"
)

// createTableStatements defines the full schema. All columns live in the
// initial CREATE TABLE statements; incremental changes go through the
// versioned migrations in migrations.go once real deployments exist.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		age INTEGER,
		school TEXT NOT NULL DEFAULT '',
		program TEXT NOT NULL DEFAULT '',
		major TEXT NOT NULL DEFAULT '',
		interest_tags TEXT NOT NULL DEFAULT '[]',
		receive_comment_emails BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		creator_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		place_name TEXT NOT NULL,
		lat DOUBLE NOT NULL,
		lng DOUBLE NOT NULL,
		max_participants INTEGER,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	// One row per (event, user) pair per relation. The primary key makes
	// repeated toggles idempotent via ON CONFLICT DO NOTHING.
	`CREATE TABLE IF NOT EXISTS event_joins (
		event_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS event_saves (
		event_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS event_likes (
		event_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS event_comments (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		parent_id TEXT,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	// Deferred comment notification queue. A row becomes due once
	// notify_after has passed; claiming deletes the row, so delivery is
	// at-most-once.
	`CREATE TABLE IF NOT EXISTS comment_notifications (
		comment_id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		notify_after TIMESTAMP NOT NULL
	)`,
}

var createIndexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_events_status_start ON events(status, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_events_creator ON events(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_event_created ON event_comments(event_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_parent ON event_comments(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_due ON comment_notifications(notify_after)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range createTableStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, stmt := range createIndexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
