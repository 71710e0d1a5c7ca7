// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP surface: discovery, map viewports, event
// CRUD, interactions, comments, profiles, drafts, and the development login.
package api

import (
	"time"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/config"
	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/drafts"
)

// Handler holds the dependencies shared by all endpoint methods.
type Handler struct {
	db     *database.DB
	drafts drafts.Store
	jwt    *auth.JWTManager
	cfg    *config.Config

	// now is swappable in tests.
	now func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(db *database.DB, draftStore drafts.Store, jwt *auth.JWTManager, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		drafts: draftStore,
		jwt:    jwt,
		cfg:    cfg,
		now:    time.Now,
	}
}
