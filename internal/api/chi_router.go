// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP surface: handlers, request decoding and
// validation, and Chi routing.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/config"
	"github.com/pingcampus/ping/internal/middleware"
)

// NewRouter wires every route. Read endpoints take optional auth so
// anonymous browsing works; all writes require a verified account except
// profile and draft management, which only require login.
func NewRouter(h *Handler, authn *auth.Authenticator, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rateLimit := httprate.LimitByIP(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)

	// Public reads. Optional auth so viewer_state reflects a logged-in
	// caller without requiring one.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.PrometheusMetrics)

		r.Group(func(r chi.Router) {
			r.Use(authn.OptionalAuth)

			r.Get("/discover", h.Discover)
			r.Get("/map/points", h.MapPoints)
			r.Get("/events/{id}", h.GetEvent)
			r.Get("/events/{id}/comments", h.ListComments)
			r.Get("/events/{id}/comments/{cid}/replies", h.ListReplies)
		})

		// Dev login mints a session without an identity provider. The
		// handler 404s unless dev auth is enabled in config.
		r.Post("/auth/dev-login", h.DevLogin)

		// Logged-in surface: session introspection, profile, drafts,
		// personal listings.
		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAuth)

			r.Get("/auth/session", h.Session)
			r.Post("/auth/logout", h.Logout)

			r.Get("/users/me", h.GetProfile)
			r.Put("/users/me", h.UpdateProfile)
			r.Get("/users/me/events", h.MyEvents)
			r.Get("/users/me/interested", h.InterestedEvents)
			r.Get("/users/me/draft", h.GetDraft)
			r.Put("/users/me/draft", h.PutDraft)
			r.Delete("/users/me/draft", h.DeleteDraft)
		})

		// Verified-only writes: creating and mutating events, toggles,
		// comments.
		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAuth)
			r.Use(auth.RequireVerified)

			r.Post("/events", h.CreateEvent)
			r.Put("/events/{id}", h.UpdateEvent)
			r.Delete("/events/{id}", h.DeleteEvent)
			r.Post("/events/{id}/activate", h.ActivateEvent)
			r.Post("/events/{id}/deactivate", h.DeactivateEvent)

			r.Post("/events/{id}/going", h.SetGoing)
			r.Delete("/events/{id}/going", h.UnsetGoing)
			r.Post("/events/{id}/interested", h.SetInterested)
			r.Delete("/events/{id}/interested", h.UnsetInterested)
			r.Post("/events/{id}/like", h.SetLiked)
			r.Delete("/events/{id}/like", h.UnsetLiked)

			// The interested listing's write twins; same save relation.
			r.Post("/users/me/interested/{id}", h.SetInterested)
			r.Delete("/users/me/interested/{id}", h.UnsetInterested)

			r.Post("/events/{id}/comments", h.CreateComment)
			r.Delete("/events/{id}/comments/{cid}", h.DeleteComment)
		})
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
