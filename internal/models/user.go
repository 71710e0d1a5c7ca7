// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import "time"

// User is an authenticated account. Verification gates event creation and
// all interaction writes.
type User struct {
	ID                   string    `json:"uid"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	Age                  *int      `json:"age,omitempty"`
	School               string    `json:"school,omitempty"`
	Program              string    `json:"program,omitempty"`
	Major                string    `json:"major,omitempty"`
	Verified             bool      `json:"is_verified"`
	InterestTags         []string  `json:"interest_tags,omitempty"`
	ReceiveCommentEmails bool      `json:"-"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
}

// InterestTags are bounded when set: a user picks between MinInterestTags
// and MaxInterestTags entries.
const (
	MinInterestTags = 1
	MaxInterestTags = 4
)

// ProfileUpdate carries the mutable profile fields for PUT /users/me.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Username     *string
	Age          *int
	School       *string
	Program      *string
	Major        *string
	InterestTags []string
}
