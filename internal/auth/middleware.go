// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/models"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// Authenticator resolves bearer tokens to users. The store lookup on every
// request means revoked or changed accounts are reflected without waiting
// for the token to expire.
type Authenticator struct {
	db  *database.DB
	jwt *JWTManager
}

// NewAuthenticator creates the request authenticator.
func NewAuthenticator(db *database.DB, jwt *JWTManager) *Authenticator {
	return &Authenticator{db: db, jwt: jwt}
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}

// ContextWithUser attaches a user to the context. Exported for tests.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the resolved user to the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := a.resolve(r)
		if err != nil {
			respondUnauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
	})
}

// OptionalAuth attaches the user when a valid bearer token is present and
// passes the request through anonymously otherwise. Read endpoints use this
// to annotate viewer state without requiring login.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := a.resolve(r); err == nil {
			r = r.WithContext(ContextWithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireVerified rejects authenticated-but-unverified users. It must run
// after RequireAuth. Verification gates every write: event creation and
// edits, interactions, and comments.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if u == nil {
			respondUnauthorized(w, "authentication required")
			return
		}
		if !u.Verified {
			respondAuthError(w, http.StatusForbidden, "VERIFICATION_REQUIRED", "account verification required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) resolve(r *http.Request) (*models.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.New("missing authorization header")
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return nil, errors.New("malformed authorization header")
	}

	claims, err := a.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := a.db.GetUser(r.Context(), claims.Subject)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logging.Error().Err(err).Msg("Failed to resolve session user")
		}
		return nil, err
	}
	return u, nil
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// respondAuthError writes the standard error envelope without importing the
// api package, which sits above this one.
func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
