// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/models"
)

// eventDetailPayload is the detail endpoint response shape: the full event
// with live counts, the viewer's relations, and the remaining lifetime.
type eventDetailPayload struct {
	models.EventDetail
	TTLMinutes int `json:"ttl_minutes"`
}

// CreateEvent handles POST /events. The event goes live immediately unless
// a start_time is supplied, and its end_time sits the standard duration
// past the start.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	var req CreateEventRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	startTime := start.UTC()
	if req.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "start_time must be RFC 3339", nil)
			return
		}
		startTime = parsed.UTC()
	}

	ev := &models.Event{
		ID:              uuid.NewString(),
		CreatorID:       u.ID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        models.EventCategory(req.Category),
		PlaceName:       req.PlaceName,
		Lat:             *req.Lat,
		Lng:             *req.Lng,
		MaxParticipants: req.MaxParticipants,
		StartTime:       startTime,
		EndTime:         startTime.Add(models.EventDuration),
		Status:          models.StatusActive,
		CreatedAt:       start.UTC(),
		UpdatedAt:       start.UTC(),
	}

	if err := h.db.CreateEvent(r.Context(), ev); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, ev, start)
}

// GetEvent handles GET /events/{id}. Anonymous viewers get counts with an
// all-false viewer state.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	eventID := chi.URLParam(r, "id")

	viewerID := ""
	if u := auth.UserFromContext(r.Context()); u != nil {
		viewerID = u.ID
	}

	detail, err := h.db.GetEventDetail(r.Context(), eventID, viewerID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, &eventDetailPayload{
		EventDetail: *detail,
		TTLMinutes:  detail.TTLMinutes(start.UTC()),
	}, start)
}

// UpdateEvent handles PUT /events/{id}. Only the creator may edit; a
// missing event reads as NOT_FOUND, someone else's as FORBIDDEN.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	var req UpdateEventRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	upd := database.EventUpdate{
		Title:           req.Title,
		Description:     req.Description,
		PlaceName:       req.PlaceName,
		Lat:             req.Lat,
		Lng:             req.Lng,
		MaxParticipants: req.MaxParticipants,
	}
	if req.Category != nil {
		cat := models.EventCategory(*req.Category)
		upd.Category = &cat
	}

	ev, err := h.db.UpdateEvent(r.Context(), eventID, u.ID, upd, start.UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, ev, start)
}

// ActivateEvent handles POST /events/{id}/activate: it flips the event back
// to active and restarts its lifetime from now.
func (h *Handler) ActivateEvent(w http.ResponseWriter, r *http.Request) {
	h.setEventStatus(w, r, models.StatusActive)
}

// DeactivateEvent handles POST /events/{id}/deactivate: it ends the event
// immediately.
func (h *Handler) DeactivateEvent(w http.ResponseWriter, r *http.Request) {
	h.setEventStatus(w, r, models.StatusEnded)
}

func (h *Handler) setEventStatus(w http.ResponseWriter, r *http.Request, status models.EventStatus) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	ev, err := h.db.SetEventStatus(r.Context(), eventID, u.ID, status, start.UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, ev, start)
}

// DeleteEvent handles DELETE /events/{id}: full cascade, creator only.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	if err := h.db.DeleteEvent(r.Context(), eventID, u.ID); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true}, start)
}

// MyEvents handles GET /users/me/events.
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())

	events, err := h.db.ListUserEvents(r.Context(), u.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"items": events}, start)
}
