// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package drafts stores per-user event drafts server-side, so an unfinished
// event form follows the user across devices instead of living in one
// browser's local storage. Each user holds at most one draft.
package drafts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/models"
)

// ErrDraftNotFound is returned when the user has no saved draft.
var ErrDraftNotFound = errors.New("draft not found")

const draftKeyPrefix = "draft:"

// Store is the draft persistence interface.
type Store interface {
	Get(ctx context.Context, userID string) (*models.EventDraft, error)
	Put(ctx context.Context, userID string, draft *models.EventDraft) error
	Delete(ctx context.Context, userID string) error
	Close() error
}

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// Open opens or creates a BadgerDB-backed draft store at path.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already-open BadgerDB. Used by tests that share
// an in-memory instance.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get returns the user's draft, or ErrDraftNotFound.
func (s *BadgerStore) Get(_ context.Context, userID string) (*models.EventDraft, error) {
	var draft models.EventDraft
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(draftKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("get draft: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &draft)
		})
	})
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Put stores the user's draft, replacing any previous one.
func (s *BadgerStore) Put(_ context.Context, userID string, draft *models.EventDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(draftKey(userID), data)
	})
}

// Delete removes the user's draft. Deleting an absent draft is a no-op.
func (s *BadgerStore) Delete(_ context.Context, userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(draftKey(userID))
	})
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		logging.Error().Err(err).Msg("Failed to close draft store")
		return err
	}
	return nil
}

func draftKey(userID string) []byte {
	return []byte(draftKeyPrefix + userID)
}
