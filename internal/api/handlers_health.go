// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/pingcampus/ping/internal/metrics"
)

type healthPayload struct {
	Status               string `json:"status"`
	Database             string `json:"database"`
	PendingNotifications int    `json:"pending_notifications"`
}

// Health handles GET /health. Degraded means the process is up but the
// store is not answering.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := h.now()

	payload := healthPayload{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		payload.Status = "degraded"
		payload.Database = "unreachable"
		status = http.StatusServiceUnavailable
	} else if pending, err := h.db.PendingNotificationCount(r.Context()); err == nil {
		payload.PendingNotifications = pending
		metrics.NotificationQueueDepth.Set(float64(pending))
	}

	respondSuccess(w, status, payload, start)
}
