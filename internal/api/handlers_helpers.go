// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/drafts"
	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/models"
	"github.com/pingcampus/ping/internal/validation"
)

// maxRequestBodyBytes bounds request bodies; the largest legitimate payload
// is an event description.
const maxRequestBodyBytes = 64 << 10

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the standard envelope. start is when the
// handler began; it feeds the query-time metadata.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response in the standard envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondValidationError sends a 400 carrying the field details.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: apiErr,
	})
}

// respondStoreError maps store sentinel errors to API error codes. Anything
// unrecognized is a DATABASE_ERROR.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, drafts.ErrDraftNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	case errors.Is(err, database.ErrForbidden):
		respondError(w, http.StatusForbidden, "FORBIDDEN", "you do not own this resource", nil)
	case errors.Is(err, database.ErrWindowExpired):
		respondError(w, http.StatusForbidden, "WINDOW_EXPIRED", "the deletion window for this comment has closed", nil)
	case errors.Is(err, database.ErrParentNotFound):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "parent comment does not exist on this event", nil)
	case errors.Is(err, database.ErrParentNotTopLevel):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "replies can only target top-level comments", nil)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "internal storage error", err)
	}
}

// decodeJSONBody reads and decodes a bounded JSON request body.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return false
	}
	return true
}

// validateRequest validates a request struct and writes the 400 itself.
// Returns true when the request is valid.
func validateRequest(w http.ResponseWriter, v interface{}) bool {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return true
	}
	respondValidationError(w, validationErr.ToAPIError())
	return false
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getFloatParam extracts a float query parameter. ok is false when the
// parameter is absent or unparseable.
func getFloatParam(r *http.Request, key string) (value float64, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
