// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import "time"

// InteractionKind identifies one of the three toggleable relations between
// a user and an event. Comments are the fourth interaction but are not a
// toggle and have their own type.
type InteractionKind string

// Toggleable interaction kinds.
const (
	InteractionGoing      InteractionKind = "going"
	InteractionInterested InteractionKind = "interested"
	InteractionLiked      InteractionKind = "like"
)

// Interaction is a single (event, user) relation record. At most one exists
// per pair per kind, enforced by a storage-level uniqueness constraint.
type Interaction struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a message attached to an event, optionally a reply to a
// top-level comment. Nesting is limited to one level.
type Comment struct {
	ID        string    `json:"comment_id"`
	EventID   string    `json:"event_id"`
	AuthorID  string    `json:"uid"`
	ParentID  *string   `json:"parent_comment_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Username is the author's username, resolved on read paths.
	Username string `json:"username,omitempty"`
}

// CommentThread is a top-level comment with its replies. Top-level comments
// list newest first; replies within a thread list oldest first.
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

// CommentDeleteWindow is how long after creation a comment's author may
// retract it. Past the window deletion is forbidden for everyone.
const CommentDeleteWindow = 3 * time.Minute

// CommentNotification carries everything the dispatcher needs to deliver a
// "new comment on your event" email once the delete window has elapsed.
type CommentNotification struct {
	CommentID         string
	EventID           string
	EventTitle        string
	Body              string
	CommenterUsername string
	CreatorID         string
	CreatorUsername   string
	CreatorEmail      string
	CreatorOptedOut   bool
}
