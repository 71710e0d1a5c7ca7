// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/geo"
	"github.com/pingcampus/ping/internal/metrics"
	"github.com/pingcampus/ping/internal/models"
)

// Viewport point budget. Above max_points the response degrades to grid
// clusters instead of being truncated arbitrarily.
const (
	defaultMaxPoints = 120
	maxMaxPoints     = 200
)

type mapPayload struct {
	Points          []models.MapPoint      `json:"points"`
	OverloadControl models.OverloadControl `json:"overload_control"`
}

// MapPoints handles GET /map/points: events inside a bounding box,
// clustered into grid cells when the raw point count exceeds the budget.
func (h *Handler) MapPoints(w http.ResponseWriter, r *http.Request) {
	start := h.now()

	var b database.Bounds
	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"south", &b.MinLat},
		{"west", &b.MinLng},
		{"north", &b.MaxLat},
		{"east", &b.MaxLng},
	} {
		v, ok := getFloatParam(r, p.key)
		if !ok {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", p.key+" is required", nil)
			return
		}
		*p.dst = v
	}

	maxPoints := getIntParam(r, "max_points", defaultMaxPoints)
	if maxPoints > maxMaxPoints {
		maxPoints = maxMaxPoints
	}

	req := mapRequest{
		South:     b.MinLat,
		West:      b.MinLng,
		North:     b.MaxLat,
		East:      b.MaxLng,
		MaxPoints: maxPoints,
	}
	if !validateRequest(w, &req) {
		return
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "viewport bounds are inverted", nil)
		return
	}

	points, err := h.db.ViewportEvents(r.Context(), b, start.UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if points == nil {
		points = []models.MapPoint{}
	}

	overload := models.OverloadControl{Clustered: false}
	if len(points) > maxPoints {
		points = geo.ClusterPoints(points, geo.DefaultGridSize, maxPoints)
		overload = models.OverloadControl{Clustered: true, GridSize: geo.DefaultGridSize}
		metrics.MapViewportsClustered.Inc()
	}

	respondSuccess(w, http.StatusOK, &mapPayload{Points: points, OverloadControl: overload}, start)
}
