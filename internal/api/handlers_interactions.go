// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/models"
)

// interactionPayload is the response body for every toggle endpoint: the
// toggled state plus live counts, so the client can redraw counts and
// buttons from a single round trip.
type interactionPayload struct {
	EventID     string             `json:"event_id"`
	Counts      models.EventCounts `json:"counts"`
	ViewerState models.ViewerState `json:"viewer_state"`
}

// SetGoing handles POST /events/{id}/going.
func (h *Handler) SetGoing(w http.ResponseWriter, r *http.Request) {
	h.setInteraction(w, r, models.InteractionGoing)
}

// UnsetGoing handles DELETE /events/{id}/going.
func (h *Handler) UnsetGoing(w http.ResponseWriter, r *http.Request) {
	h.unsetInteraction(w, r, models.InteractionGoing)
}

// SetInterested handles POST /events/{id}/interested. The same handler backs
// POST /users/me/interested/{id}; both toggle the save relation.
func (h *Handler) SetInterested(w http.ResponseWriter, r *http.Request) {
	h.setInteraction(w, r, models.InteractionInterested)
}

// UnsetInterested handles DELETE /events/{id}/interested.
func (h *Handler) UnsetInterested(w http.ResponseWriter, r *http.Request) {
	h.unsetInteraction(w, r, models.InteractionInterested)
}

// SetLiked handles POST /events/{id}/like.
func (h *Handler) SetLiked(w http.ResponseWriter, r *http.Request) {
	h.setInteraction(w, r, models.InteractionLiked)
}

// UnsetLiked handles DELETE /events/{id}/like.
func (h *Handler) UnsetLiked(w http.ResponseWriter, r *http.Request) {
	h.unsetInteraction(w, r, models.InteractionLiked)
}

func (h *Handler) setInteraction(w http.ResponseWriter, r *http.Request, kind models.InteractionKind) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	if err := h.db.SetInteraction(r.Context(), kind, eventID, u.ID, start.UTC()); err != nil {
		respondStoreError(w, err)
		return
	}
	h.respondInteractionState(w, r, eventID, u.ID, start)
}

func (h *Handler) unsetInteraction(w http.ResponseWriter, r *http.Request, kind models.InteractionKind) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	if err := h.db.UnsetInteraction(r.Context(), kind, eventID, u.ID); err != nil {
		respondStoreError(w, err)
		return
	}
	h.respondInteractionState(w, r, eventID, u.ID, start)
}

// respondInteractionState recomputes live counts and the caller's relations
// after a toggle. Counts are always counted fresh, never cached.
func (h *Handler) respondInteractionState(w http.ResponseWriter, r *http.Request, eventID, userID string, start time.Time) {
	counts, err := h.db.GetCounts(r.Context(), eventID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	state, err := h.db.GetViewerState(r.Context(), eventID, userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, &interactionPayload{EventID: eventID, Counts: counts, ViewerState: state}, start)
}
