// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/pingcampus/ping/internal/database"
)

// Discovery query defaults and caps. The radius accepted from the client is
// echoed back in applied.radius_m so the UI can label the result set.
const (
	defaultDiscoveryRadiusM = 20000.0
	defaultDiscoveryLimit   = 10
	maxDiscoveryLimit       = 50
)

// discoveryApplied echoes the effective query parameters back to the client.
type discoveryApplied struct {
	RadiusM float64 `json:"radius_m"`
}

type discoveryPayload struct {
	Items      interface{}      `json:"items"`
	NextCursor *string          `json:"next_cursor"`
	Applied    discoveryApplied `json:"applied"`
}

// Discover handles GET /discover: active events within a radius of the
// caller's position, newest first. Cursor pagination is reserved in the
// response shape but not yet implemented; next_cursor is always null.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	start := h.now()

	lat, ok := getFloatParam(r, "lat")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "lat is required", nil)
		return
	}
	lng, ok := getFloatParam(r, "lng")
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "lng is required", nil)
		return
	}

	// An omitted, unparseable, non-finite, or zero radius falls back to the
	// default rather than failing the request.
	radiusM := defaultDiscoveryRadiusM
	if raw := r.URL.Query().Get("radius_m"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) && parsed != 0 {
			radiusM = parsed
		}
	}

	limit := getIntParam(r, "limit", defaultDiscoveryLimit)
	if limit > maxDiscoveryLimit {
		limit = maxDiscoveryLimit
	}

	req := discoveryRequest{Lat: lat, Lng: lng, RadiusM: radiusM, Limit: limit}
	if !validateRequest(w, &req) {
		return
	}

	items, err := h.db.Discover(r.Context(), database.DiscoveryParams{
		Lat:     lat,
		Lng:     lng,
		RadiusM: radiusM,
		Limit:   limit,
		Now:     start.UTC(),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, &discoveryPayload{
		Items:      items,
		NextCursor: nil,
		Applied:    discoveryApplied{RadiusM: radiusM},
	}, start)
}
