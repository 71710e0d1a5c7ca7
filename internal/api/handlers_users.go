// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/models"
)

// profilePayload wraps the user with settings that are not part of the
// public user shape.
type profilePayload struct {
	User                 *models.User `json:"user"`
	ReceiveCommentEmails bool         `json:"receive_comment_emails"`
}

// GetProfile handles GET /users/me.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	respondSuccess(w, http.StatusOK, &profilePayload{User: u, ReceiveCommentEmails: u.ReceiveCommentEmails}, start)
}

// UpdateProfile handles PUT /users/me. Profile fields and the comment-email
// opt-in travel in the same request but are stored by separate writes.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	var req UpdateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}
	// A nil slice means interest_tags was absent and stays unchanged. An
	// explicit empty array would clear the tags, which the 1-4 bound forbids.
	if req.InterestTags != nil && len(req.InterestTags) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "interest_tags must contain between 1 and 4 tags", nil)
		return
	}

	if req.ReceiveCommentEmails != nil {
		if err := h.db.SetCommentEmailOptIn(r.Context(), u.ID, *req.ReceiveCommentEmails, start.UTC()); err != nil {
			respondStoreError(w, err)
			return
		}
	}

	updated, err := h.db.UpdateProfile(r.Context(), u.ID, models.ProfileUpdate{
		Username:     req.Username,
		Age:          req.Age,
		School:       req.School,
		Program:      req.Program,
		Major:        req.Major,
		InterestTags: req.InterestTags,
	}, start.UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, &profilePayload{User: updated, ReceiveCommentEmails: updated.ReceiveCommentEmails}, start)
}

// InterestedEvents handles GET /users/me/interested: the caller's saved
// events, most recently saved first.
func (h *Handler) InterestedEvents(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	events, err := h.db.ListSavedEvents(r.Context(), u.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if events == nil {
		events = []models.EventSummary{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"items": events}, start)
}

// GetDraft handles GET /users/me/draft.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	draft, err := h.drafts.Get(r.Context(), u.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, draft, start)
}

// PutDraft handles PUT /users/me/draft, replacing the caller's draft
// wholesale.
func (h *Handler) PutDraft(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	var req PutDraftRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	draft := &models.EventDraft{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		PlaceName:       req.PlaceName,
		Lat:             req.Lat,
		Lng:             req.Lng,
		MaxParticipants: req.MaxParticipants,
		UpdatedAt:       start.UTC(),
	}
	if err := h.drafts.Put(r.Context(), u.ID, draft); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, draft, start)
}

// DeleteDraft handles DELETE /users/me/draft. Deleting a nonexistent draft
// succeeds.
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	if err := h.drafts.Delete(r.Context(), u.ID); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true}, start)
}
