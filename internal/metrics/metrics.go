// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics provides Prometheus instrumentation for the API surface,
// the DuckDB store, and the comment notification dispatcher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ping_store_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ping_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ping_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ping_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Discovery and map metrics
	MapViewportsClustered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ping_map_viewports_clustered_total",
			Help: "Total number of map viewport responses that were grid-clustered",
		},
	)

	// Notification dispatcher metrics
	NotificationsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ping_notifications_claimed_total",
			Help: "Total number of comment notifications claimed from the queue",
		},
	)

	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ping_notifications_delivered_total",
			Help: "Total number of comment notification delivery outcomes",
		},
		[]string{"outcome"}, // "sent", "retracted", "suppressed", "failed"
	)

	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ping_notification_queue_depth",
			Help: "Current number of pending comment notifications",
		},
	)
)

// ObserveStoreQuery records one store query duration.
func ObserveStoreQuery(operation string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordNotificationOutcome records one notification delivery outcome.
func RecordNotificationOutcome(outcome string) {
	NotificationsDelivered.WithLabelValues(outcome).Inc()
}
