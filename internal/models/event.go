// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package models defines the domain types shared across the Ping backend.
package models

import "time"

// EventCategory classifies an event.
type EventCategory string

// Valid event categories.
const (
	CategorySport  EventCategory = "sport"
	CategoryArt    EventCategory = "art"
	CategorySocial EventCategory = "social"
	CategoryStudy  EventCategory = "study"
)

// ValidCategory reports whether s is one of the four event categories.
func ValidCategory(s string) bool {
	switch EventCategory(s) {
	case CategorySport, CategoryArt, CategorySocial, CategoryStudy:
		return true
	}
	return false
}

// EventStatus is the lifecycle state of an event.
type EventStatus string

// Event lifecycle states. The only transitions are active->ended
// (deactivate) and ended->active (activate).
const (
	StatusActive EventStatus = "active"
	StatusEnded  EventStatus = "ended"
)

// EventDuration is how far end_time is pushed past start_time on creation
// and on re-activation. Events are effectively non-expiring until growth
// requires a stricter TTL.
const EventDuration = 100 * 365 * 24 * time.Hour

// Event is a time-bounded, geolocated activity created by a user.
type Event struct {
	ID              string        `json:"event_id"`
	CreatorID       string        `json:"creator_uid"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	Category        EventCategory `json:"category"`
	PlaceName       string        `json:"place_name"`
	Lat             float64       `json:"lat"`
	Lng             float64       `json:"lng"`
	MaxParticipants *int          `json:"max_participants,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          EventStatus   `json:"status"`
	CreatedAt       time.Time     `json:"-"`
	UpdatedAt       time.Time     `json:"-"`
}

// TTLMinutes returns the whole minutes until the event's end time,
// clamped at zero for already-ended events.
func (e *Event) TTLMinutes(now time.Time) int {
	remaining := e.EndTime.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Minute)
}

// EventCounts are the live per-event interaction aggregates, always computed
// by counting current records, never read from a stored counter.
type EventCounts struct {
	Going      int `json:"going"`
	Interested int `json:"interested"`
	Likes      int `json:"likes"`
	Comments   int `json:"comments"`
}

// ViewerState reports whether the requesting user currently holds each
// interaction relation to an event. All false for anonymous viewers.
type ViewerState struct {
	Going      bool `json:"going"`
	Interested bool `json:"interested"`
	Liked      bool `json:"liked"`
}

// EventDetail is the full event payload returned by the detail endpoint.
type EventDetail struct {
	Event
	Counts      EventCounts `json:"counts"`
	ViewerState ViewerState `json:"viewer_state"`
}

// EventSummary is the trimmed event shape used by the saved-events listing.
type EventSummary struct {
	ID        string      `json:"event_id"`
	Title     string      `json:"title"`
	Status    EventStatus `json:"status"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	PlaceName string      `json:"place_name"`
	Lat       float64     `json:"lat"`
	Lng       float64     `json:"lng"`
}

// EventDraft is a per-user, not-yet-submitted event form. It replaces the
// browser-local draft storage with a server-side store so drafts follow the
// user across devices.
type EventDraft struct {
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	PlaceName       string    `json:"place_name,omitempty"`
	Lat             *float64  `json:"lat,omitempty"`
	Lng             *float64  `json:"lng,omitempty"`
	MaxParticipants *int      `json:"max_participants,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
