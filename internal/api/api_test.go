// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pingcampus/ping/internal/auth"
	"github.com/pingcampus/ping/internal/config"
	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/drafts"
	"github.com/pingcampus/ping/internal/models"
)

// testBase matches the fixed clock used by the store tests.
var testBase = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	handler *Handler
	router  http.Handler
	db      *database.DB
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := drafts.Open(t.TempDir())
	if err != nil {
		t.Fatalf("drafts.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{}
	cfg.Server.CORSOrigins = []string{"http://localhost:5173"}
	cfg.Server.RateLimit = 10000
	cfg.Server.RateLimitWindow = time.Minute
	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Auth.SessionTTL = time.Hour
	cfg.Auth.DevAuthEnabled = true
	cfg.Notify.Enabled = true
	cfg.Notify.FrontendURL = "http://localhost:5173"

	jwtMgr, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	h := NewHandler(db, store, jwtMgr, cfg)
	h.now = func() time.Time { return testBase }

	return &testEnv{
		handler: h,
		router:  NewRouter(h, auth.NewAuthenticator(db, jwtMgr), cfg),
		db:      db,
	}
}

// do performs a request against the router and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("failed to decode response envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec.Code, env
}

// decodeData unmarshals the envelope data into v.
func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode response data: %v (data %q)", err, string(env.Data))
	}
}

// login creates (or fetches) a verified user and mints a session token.
func (e *testEnv) login(t *testing.T, email, username string) (*models.User, string) {
	t.Helper()

	u, err := e.db.EnsureUser(context.Background(), email, username, testBase)
	if err != nil {
		t.Fatalf("EnsureUser() error = %v", err)
	}
	token, err := e.handler.jwt.GenerateToken(u, time.Now())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return u, token
}

// loginUnverified creates an unverified user and mints a token for it.
func (e *testEnv) loginUnverified(t *testing.T, email, username string) (*models.User, string) {
	t.Helper()

	u := &models.User{
		ID:       fmt.Sprintf("unverified-%s", username),
		Email:    email,
		Username: username,
	}
	_, err := e.db.Conn().ExecContext(context.Background(),
		`INSERT INTO users (id, email, username, verified, interest_tags, receive_comment_emails, created_at, updated_at)
		 VALUES (?, ?, ?, FALSE, '[]', TRUE, ?, ?)`,
		u.ID, u.Email, u.Username, testBase, testBase)
	if err != nil {
		t.Fatalf("failed to insert unverified user: %v", err)
	}
	token, err := e.handler.jwt.GenerateToken(u, time.Now())
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return u, token
}

// seedEvent inserts an event directly through the store.
func (e *testEnv) seedEvent(t *testing.T, creatorID, title string, lat, lng float64, start time.Time) *models.Event {
	t.Helper()

	ev := &models.Event{
		ID:        fmt.Sprintf("evt-%s", title),
		CreatorID: creatorID,
		Title:     title,
		Category:  models.CategorySocial,
		PlaceName: "Somewhere",
		Lat:       lat,
		Lng:       lng,
		StartTime: start,
		EndTime:   start.Add(models.EventDuration),
		Status:    models.StatusActive,
		CreatedAt: start,
		UpdatedAt: start,
	}
	if err := e.db.CreateEvent(context.Background(), ev); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	return ev
}

func wantErrorCode(t *testing.T, status, wantStatus int, env envelope, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status = %d, want %d (error %+v)", status, wantStatus, env.Error)
	}
	if env.Error == nil || env.Error.Code != wantCode {
		t.Fatalf("error = %+v, want code %q", env.Error, wantCode)
	}
}
