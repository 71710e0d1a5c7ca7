// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// Request structs validated with go-playground/validator. Pointer fields in
// update requests mean "leave unchanged" when absent.

// DevLoginRequest backs POST /auth/dev-login.
type DevLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"omitempty,min=2,max=30"`
}

// CreateEventRequest backs POST /events.
type CreateEventRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=120"`
	Description     string   `json:"description" validate:"max=2000"`
	Category        string   `json:"category" validate:"required,eventcategory"`
	PlaceName       string   `json:"place_name" validate:"required,min=1,max=200"`
	Lat             *float64 `json:"lat" validate:"required,latitude"`
	Lng             *float64 `json:"lng" validate:"required,longitude"`
	MaxParticipants *int     `json:"max_participants" validate:"omitempty,gt=0,lte=10000"`
	StartTime       string   `json:"start_time" validate:"omitempty"`
}

// UpdateEventRequest backs PUT /events/{id}.
type UpdateEventRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=120"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	Category        *string  `json:"category" validate:"omitempty,eventcategory"`
	PlaceName       *string  `json:"place_name" validate:"omitempty,min=1,max=200"`
	Lat             *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng             *float64 `json:"lng" validate:"omitempty,longitude"`
	MaxParticipants *int     `json:"max_participants" validate:"omitempty,gt=0,lte=10000"`
}

// CreateCommentRequest backs POST /events/{id}/comments.
type CreateCommentRequest struct {
	Body     string  `json:"body" validate:"required,min=1,max=1000"`
	ParentID *string `json:"parent_comment_id" validate:"omitempty,min=1"`
}

// UpdateProfileRequest backs PUT /users/me.
type UpdateProfileRequest struct {
	Username             *string  `json:"username" validate:"omitempty,min=2,max=30"`
	Age                  *int     `json:"age" validate:"omitempty,gte=16,lte=120"`
	School               *string  `json:"school" validate:"omitempty,max=120"`
	Program              *string  `json:"program" validate:"omitempty,max=120"`
	Major                *string  `json:"major" validate:"omitempty,max=120"`
	InterestTags         []string `json:"interest_tags" validate:"omitempty,min=1,max=4,dive,min=1,max=40"`
	ReceiveCommentEmails *bool    `json:"receive_comment_emails"`
}

// PutDraftRequest backs PUT /users/me/draft. Drafts are half-finished by
// definition, so no field is required.
type PutDraftRequest struct {
	Title           string   `json:"title" validate:"max=120"`
	Description     string   `json:"description" validate:"max=2000"`
	Category        string   `json:"category" validate:"omitempty,eventcategory"`
	PlaceName       string   `json:"place_name" validate:"max=200"`
	Lat             *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng             *float64 `json:"lng" validate:"omitempty,longitude"`
	MaxParticipants *int     `json:"max_participants" validate:"omitempty,gt=0,lte=10000"`
}

// discoveryRequest is assembled from query parameters, then validated. The
// radius is unbounded; bad values default before validation runs.
type discoveryRequest struct {
	Lat     float64 `validate:"latitude"`
	Lng     float64 `validate:"longitude"`
	RadiusM float64
	Limit   int     `validate:"gte=1,lte=50"`
}

// mapRequest is assembled from query parameters, then validated.
type mapRequest struct {
	South     float64 `validate:"latitude"`
	West      float64 `validate:"longitude"`
	North     float64 `validate:"latitude"`
	East      float64 `validate:"longitude"`
	MaxPoints int     `validate:"gte=1,lte=200"`
}
