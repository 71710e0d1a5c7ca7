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

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/pingcampus/ping/internal/models"
)

const userColumns = `id, email, username, verified, age, school, program, major, interest_tags, receive_comment_emails, created_at, updated_at`

// GetUser returns a user by id, or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	defer db.observe("GetUser", time.Now())

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns a user by email, or ErrNotFound.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer db.observe("GetUserByEmail", time.Now())

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// EnsureUser returns the user with the given email, creating a verified
// account with the given username if none exists. This backs the development
// login flow that stands in for the external identity provider.
func (db *DB) EnsureUser(ctx context.Context, email, username string, now time.Time) (*models.User, error) {
	defer db.observe("EnsureUser", time.Now())

	existing, err := db.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := &models.User{
		ID:                   uuid.NewString(),
		Email:                email,
		Username:             username,
		Verified:             true,
		ReceiveCommentEmails: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, username, verified, interest_tags, receive_comment_emails, created_at, updated_at)
		 VALUES (?, ?, ?, ?, '[]', TRUE, ?, ?)`,
		u.ID, u.Email, u.Username, u.Verified, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd to the user's profile and
// returns the updated user. Interest tag bounds are validated at the API
// layer; an empty slice here means "leave unchanged".
func (db *DB) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate, now time.Time) (*models.User, error) {
	defer db.observe("UpdateProfile", time.Now())

	u, err := db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Age != nil {
		u.Age = upd.Age
	}
	if upd.School != nil {
		u.School = *upd.School
	}
	if upd.Program != nil {
		u.Program = *upd.Program
	}
	if upd.Major != nil {
		u.Major = *upd.Major
	}
	if upd.InterestTags != nil {
		u.InterestTags = upd.InterestTags
	}
	u.UpdatedAt = now

	tags, err := json.Marshal(u.InterestTags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode interest tags: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, age = ?, school = ?, program = ?, major = ?, interest_tags = ?, updated_at = ?
		 WHERE id = ?`,
		u.Username, u.Age, u.School, u.Program, u.Major, string(tags), u.UpdatedAt, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// SetCommentEmailOptIn updates the receive_comment_emails preference.
func (db *DB) SetCommentEmailOptIn(ctx context.Context, userID string, optIn bool, now time.Time) error {
	defer db.observe("SetCommentEmailOptIn", time.Now())

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET receive_comment_emails = ?, updated_at = ? WHERE id = ?`, optIn, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update comment email preference: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		age  sql.NullInt64
		tags string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Verified, &age, &u.School, &u.Program, &u.Major,
		&tags, &u.ReceiveCommentEmails, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &u.InterestTags); err != nil {
			return nil, fmt.Errorf("failed to decode interest tags: %w", err)
		}
	}
	return &u, nil
}
