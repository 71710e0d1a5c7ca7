// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"testing"
	"time"

	"github.com/pingcampus/ping/internal/models"
)

func TestCreateAndGetEvent(t *testing.T) {
	db := newTestDB(t)
	u := mustUser(t, db, "alice@campus.example.edu", "alice")
	ev := mustEvent(t, db, u.ID, 49.26, -123.25, testBase)

	got, err := db.GetEvent(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if got.Title != ev.Title || got.CreatorID != u.ID || got.Status != models.StatusActive {
		t.Errorf("GetEvent() = %+v, want %+v", got, ev)
	}
	if got.EndTime.Sub(got.StartTime) != models.EventDuration {
		t.Errorf("EndTime - StartTime = %v, want %v", got.EndTime.Sub(got.StartTime), models.EventDuration)
	}

	if _, err := db.GetEvent(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("GetEvent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateEvent_OwnershipSplit(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice@campus.example.edu", "alice")
	bob := mustUser(t, db, "bob@campus.example.edu", "bob")
	ev := mustEvent(t, db, alice.ID, 49.26, -123.25, testBase)

	title := "renamed"
	if _, err := db.UpdateEvent(context.Background(), "missing", alice.ID, EventUpdate{Title: &title}, testBase); err != ErrNotFound {
		t.Errorf("UpdateEvent(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := db.UpdateEvent(context.Background(), ev.ID, bob.ID, EventUpdate{Title: &title}, testBase); err != ErrForbidden {
		t.Errorf("UpdateEvent(wrong owner) error = %v, want ErrForbidden", err)
	}

	got, err := db.UpdateEvent(context.Background(), ev.ID, alice.ID, EventUpdate{Title: &title}, testBase.Add(time.Minute))
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("Title = %q, want renamed", got.Title)
	}
	// Untouched fields survive a partial update.
	if got.PlaceName != ev.PlaceName || got.Lat != ev.Lat {
		t.Errorf("partial update clobbered fields: %+v", got)
	}
}

func TestSetEventStatus_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice@campus.example.edu", "alice")
	bob := mustUser(t, db, "bob@campus.example.edu", "bob")
	ev := mustEvent(t, db, alice.ID, 49.26, -123.25, testBase)

	later := testBase.Add(2 * time.Hour)
	ended, err := db.SetEventStatus(context.Background(), ev.ID, alice.ID, models.StatusEnded, later)
	if err != nil {
		t.Fatalf("SetEventStatus(ended) error = %v", err)
	}
	if ended.Status != models.StatusEnded || !ended.EndTime.Equal(later) {
		t.Errorf("deactivate: status = %s, end_time = %v, want ended at %v", ended.Status, ended.EndTime, later)
	}
	if ended.TTLMinutes(later) != 0 {
		t.Errorf("TTLMinutes after deactivate = %d, want 0", ended.TTLMinutes(later))
	}

	reLater := later.Add(time.Hour)
	active, err := db.SetEventStatus(context.Background(), ev.ID, alice.ID, models.StatusActive, reLater)
	if err != nil {
		t.Fatalf("SetEventStatus(active) error = %v", err)
	}
	if active.Status != models.StatusActive {
		t.Errorf("reactivate: status = %s, want active", active.Status)
	}
	if active.EndTime.Sub(reLater) != models.EventDuration {
		t.Errorf("reactivate end_time = %v, want now + duration", active.EndTime)
	}

	if _, err := db.SetEventStatus(context.Background(), ev.ID, bob.ID, models.StatusEnded, reLater); err != ErrForbidden {
		t.Errorf("SetEventStatus(wrong owner) error = %v, want ErrForbidden", err)
	}
}

func TestDeleteEvent_CascadesToZeroCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice@campus.example.edu", "alice")
	bob := mustUser(t, db, "bob@campus.example.edu", "bob")
	ev := mustEvent(t, db, alice.ID, 49.26, -123.25, testBase)

	if err := db.SetInteraction(ctx, models.InteractionGoing, ev.ID, bob.ID, testBase); err != nil {
		t.Fatalf("SetInteraction() error = %v", err)
	}
	if err := db.SetInteraction(ctx, models.InteractionLiked, ev.ID, bob.ID, testBase); err != nil {
		t.Fatalf("SetInteraction() error = %v", err)
	}
	c := &models.Comment{ID: "c1", EventID: ev.ID, AuthorID: bob.ID, Body: "hi", CreatedAt: testBase}
	if err := db.CreateComment(ctx, c); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if err := db.EnqueueCommentNotification(ctx, c.ID, ev.ID, testBase.Add(3*time.Minute)); err != nil {
		t.Fatalf("EnqueueCommentNotification() error = %v", err)
	}

	if err := db.DeleteEvent(ctx, ev.ID, bob.ID); err != ErrForbidden {
		t.Errorf("DeleteEvent(wrong owner) error = %v, want ErrForbidden", err)
	}
	if err := db.DeleteEvent(ctx, ev.ID, alice.ID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}

	if _, err := db.GetEvent(ctx, ev.ID); err != ErrNotFound {
		t.Errorf("GetEvent() after delete error = %v, want ErrNotFound", err)
	}
	counts, err := db.GetCounts(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetCounts() error = %v", err)
	}
	if counts != (models.EventCounts{}) {
		t.Errorf("counts after cascade = %+v, want all zero", counts)
	}
	pending, err := db.PendingNotificationCount(ctx)
	if err != nil {
		t.Fatalf("PendingNotificationCount() error = %v", err)
	}
	if pending != 0 {
		t.Errorf("pending notifications after cascade = %d, want 0", pending)
	}

	if err := db.DeleteEvent(ctx, ev.ID, alice.ID); err != ErrNotFound {
		t.Errorf("DeleteEvent() repeated error = %v, want ErrNotFound", err)
	}
}

func TestGetEventDetail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice@campus.example.edu", "alice")
	bob := mustUser(t, db, "bob@campus.example.edu", "bob")
	ev := mustEvent(t, db, alice.ID, 49.26, -123.25, testBase)

	if err := db.SetInteraction(ctx, models.InteractionGoing, ev.ID, bob.ID, testBase); err != nil {
		t.Fatalf("SetInteraction() error = %v", err)
	}

	// Anonymous viewer: counts populated, viewer state all false.
	anon, err := db.GetEventDetail(ctx, ev.ID, "")
	if err != nil {
		t.Fatalf("GetEventDetail() error = %v", err)
	}
	if anon.Counts.Going != 1 {
		t.Errorf("Counts.Going = %d, want 1", anon.Counts.Going)
	}
	if anon.ViewerState != (models.ViewerState{}) {
		t.Errorf("anonymous ViewerState = %+v, want all false", anon.ViewerState)
	}

	asBob, err := db.GetEventDetail(ctx, ev.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetEventDetail() error = %v", err)
	}
	if !asBob.ViewerState.Going || asBob.ViewerState.Liked {
		t.Errorf("bob ViewerState = %+v, want going only", asBob.ViewerState)
	}
}

func TestListUserEvents(t *testing.T) {
	db := newTestDB(t)
	alice := mustUser(t, db, "alice@campus.example.edu", "alice")
	bob := mustUser(t, db, "bob@campus.example.edu", "bob")
	older := mustEvent(t, db, alice.ID, 49.26, -123.25, testBase)
	newer := mustEvent(t, db, alice.ID, 49.27, -123.26, testBase.Add(time.Hour))
	mustEvent(t, db, bob.ID, 49.28, -123.27, testBase)

	events, err := db.ListUserEvents(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListUserEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ListUserEvents() returned %d events, want 2", len(events))
	}
	if events[0].ID != newer.ID || events[1].ID != older.ID {
		t.Errorf("ListUserEvents() order = [%s, %s], want newest first", events[0].ID, events[1].ID)
	}
}
