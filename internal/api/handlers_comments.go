// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/models"
)

// commentPageLimit caps the number of top-level threads per listing. Replies
// within a returned thread are not capped.
const commentPageLimit = 50

// ListComments handles GET /events/{id}/comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	eventID := chi.URLParam(r, "id")

	// 404 for a missing event rather than an empty listing.
	if _, err := h.db.GetEvent(r.Context(), eventID); err != nil {
		respondStoreError(w, err)
		return
	}

	threads, err := h.db.ListCommentThreads(r.Context(), eventID, commentPageLimit)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if threads == nil {
		threads = []models.CommentThread{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"items": threads}, start)
}

// CreateComment handles POST /events/{id}/comments. A successful write also
// schedules the creator's notification email for after the retraction window,
// unless the commenter is the creator.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	var req CreateCommentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	ev, err := h.db.GetEvent(r.Context(), eventID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	c := &models.Comment{
		ID:        uuid.NewString(),
		EventID:   eventID,
		AuthorID:  u.ID,
		ParentID:  req.ParentID,
		Body:      req.Body,
		CreatedAt: start.UTC(),
		Username:  u.Username,
	}
	if err := h.db.CreateComment(r.Context(), c); err != nil {
		respondStoreError(w, err)
		return
	}

	// Self-comments never notify, so they never enter the queue.
	if h.cfg.Notify.Enabled && ev.CreatorID != u.ID {
		notifyAfter := start.UTC().Add(models.CommentDeleteWindow)
		if err := h.db.EnqueueCommentNotification(r.Context(), c.ID, eventID, notifyAfter); err != nil {
			// The comment itself succeeded; losing one email is acceptable.
			logging.Error().Err(err).Str("comment_id", c.ID).Msg("Failed to enqueue comment notification")
		}
	}

	respondSuccess(w, http.StatusCreated, c, start)
}

// ListReplies handles GET /events/{id}/comments/{cid}/replies, oldest first.
func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	eventID := chi.URLParam(r, "id")
	parentID := chi.URLParam(r, "cid")

	replies, err := h.db.ListReplies(r.Context(), eventID, parentID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"items": replies}, start)
}

// DeleteComment handles DELETE /events/{id}/comments/{cid}. Only the author
// may delete, only a top-level comment addressed through its own event, and
// only inside the retraction window; the queued notification (if any) goes
// with it.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	eventID := chi.URLParam(r, "id")
	commentID := chi.URLParam(r, "cid")

	if err := h.db.DeleteComment(r.Context(), eventID, commentID, u.ID, start.UTC()); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"deleted": true}, start)
}
