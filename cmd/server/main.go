// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main is the entry point for the Ping server.
//
// Ping is a campus event discovery backend: geolocated events, radius
// discovery sorted by recency, grid-clustered map viewports, join/save/like
// toggles with live counts, threaded comments with a short retraction
// window, and deferred comment notification emails.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layering defaults, an optional YAML file,
//     and PING_* environment variables
//  2. Logging: zerolog, configured from the logging section
//  3. Database: DuckDB with the event, interaction, and notification schema
//  4. Draft store: BadgerDB for per-user event drafts
//  5. Supervisor tree: the notification dispatcher and the HTTP server
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (PING_SERVER_PORT, PING_AUTH_JWT_SECRET, ...)
//   - Config file (ping.yaml / config.yaml, or PING_CONFIG_PATH)
//   - Built-in defaults
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the dispatcher finishes its current batch, and the
// database checkpoints on close.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pingcampus/ping/internal/api"
	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/config"
	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/drafts"
	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/notify"
	"github.com/pingcampus/ping/internal/supervisor"
	"github.com/pingcampus/ping/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("dev_auth", cfg.Auth.DevAuthEnabled).
		Bool("notifications", cfg.Notify.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if cfg.Server.SeedDemoData {
		if err := db.Seed(context.Background(), time.Now().UTC()); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		logging.Info().Msg("Demo data seeded")
	}

	draftStore, err := drafts.Open(cfg.Drafts.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open draft store")
	}
	defer func() {
		if err := draftStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing draft store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session tokens")
	}
	authenticator := auth.NewAuthenticator(db, jwtManager)

	handler := api.NewHandler(db, draftStore, jwtManager, cfg)
	router := api.NewRouter(handler, authenticator, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if cfg.Notify.Enabled {
		mailer := notify.NewMailer(&cfg.Notify)
		dispatcher := notify.NewDispatcher(db, mailer, &cfg.Notify)
		tree.AddJobService(dispatcher)
		logging.Info().
			Bool("smtp", cfg.Notify.SMTPConfigured()).
			Dur("poll_interval", cfg.Notify.PollInterval).
			Msg("Notification dispatcher added to supervisor tree")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
