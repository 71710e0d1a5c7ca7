// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/logging"
)

// DevLogin handles POST /auth/dev-login. It stands in for the campus
// identity provider during development: any email gets a verified account
// and a session token. Returns 404 unless dev auth is enabled, so the
// route is invisible in production.
func (h *Handler) DevLogin(w http.ResponseWriter, r *http.Request) {
	start := h.now()

	if !h.cfg.Auth.DevAuthEnabled {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
		return
	}

	var req DevLoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	username := req.Username
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}

	u, err := h.db.EnsureUser(r.Context(), req.Email, username, start.UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	// Token time claims are validated against the wall clock, so the token
	// is minted against it too, independent of the handler clock.
	token, err := h.jwt.GenerateToken(u, time.Now().UTC())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to issue session token", err)
		return
	}

	logging.Info().Str("user_id", u.ID).Msg("Development login")
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	}, start)
}

// Session handles GET /auth/session: it returns the authenticated user,
// letting clients restore state from a stored token.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	u := auth.UserFromContext(r.Context())
	respondSuccess(w, http.StatusOK, map[string]interface{}{"user": u}, start)
}

// Logout handles POST /auth/logout. Session tokens are stateless, so the
// server has nothing to revoke; the endpoint exists so clients have a
// uniform logout call.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	respondSuccess(w, http.StatusOK, map[string]interface{}{"logged_out": true}, start)
}
