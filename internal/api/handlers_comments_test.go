// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pingcampus/ping/internal/models"
)

func TestComments_ThreadedListing(t *testing.T) {
	env := newTestEnv(t)
	creator, creatorToken := env.login(t, "alice@campus.edu", "alice")
	_, bobToken := env.login(t, "bob@campus.edu", "bob")
	ev := env.seedEvent(t, creator.ID, "discussed", 49.26, -123.24, testBase)

	postComment := func(token, body string, parentID *string, at time.Time) models.Comment {
		t.Helper()
		env.handler.now = func() time.Time { return at }
		payload := map[string]interface{}{"body": body}
		if parentID != nil {
			payload["parent_comment_id"] = *parentID
		}
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", token, payload)
		if status != http.StatusCreated {
			t.Fatalf("comment %q status = %d (error %+v)", body, status, resp.Error)
		}
		var c models.Comment
		decodeData(t, resp, &c)
		return c
	}

	first := postComment(bobToken, "first", nil, testBase)
	second := postComment(creatorToken, "second", nil, testBase.Add(time.Minute))
	replyOld := postComment(creatorToken, "reply-old", &first.ID, testBase.Add(2*time.Minute))
	replyNew := postComment(bobToken, "reply-new", &first.ID, testBase.Add(3*time.Minute))

	status, resp := env.do(t, http.MethodGet, "/api/v1/events/"+ev.ID+"/comments", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d (error %+v)", status, resp.Error)
	}
	var data struct {
		Items []models.CommentThread `json:"items"`
	}
	decodeData(t, resp, &data)
	if len(data.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2 top-level threads", len(data.Items))
	}

	// Top-level newest first; replies oldest first.
	if data.Items[0].ID != second.ID || data.Items[1].ID != first.ID {
		t.Fatalf("thread order = [%q, %q], want newest first", data.Items[0].Body, data.Items[1].Body)
	}
	replies := data.Items[1].Replies
	if len(replies) != 2 || replies[0].ID != replyOld.ID || replies[1].ID != replyNew.ID {
		t.Fatalf("replies = %+v, want oldest first", replies)
	}
	if data.Items[0].Username != "alice" || replies[1].Username != "bob" {
		t.Fatal("comments should carry the author's username")
	}
}

func TestListReplies(t *testing.T) {
	env := newTestEnv(t)
	creator, token := env.login(t, "alice@campus.edu", "alice")
	ev := env.seedEvent(t, creator.ID, "replied", 49.26, -123.24, testBase)

	post := func(body string, parentID *string, at time.Time) models.Comment {
		t.Helper()
		env.handler.now = func() time.Time { return at }
		payload := map[string]interface{}{"body": body}
		if parentID != nil {
			payload["parent_comment_id"] = *parentID
		}
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", token, payload)
		if status != http.StatusCreated {
			t.Fatalf("comment %q status = %d (error %+v)", body, status, resp.Error)
		}
		var c models.Comment
		decodeData(t, resp, &c)
		return c
	}

	top := post("top", nil, testBase)
	older := post("older", &top.ID, testBase.Add(time.Minute))
	newer := post("newer", &top.ID, testBase.Add(2*time.Minute))

	status, resp := env.do(t, http.MethodGet,
		"/api/v1/events/"+ev.ID+"/comments/"+top.ID+"/replies", "", nil)
	if status != http.StatusOK {
		t.Fatalf("replies status = %d (error %+v)", status, resp.Error)
	}
	var data struct {
		Items []models.Comment `json:"items"`
	}
	decodeData(t, resp, &data)
	if len(data.Items) != 2 || data.Items[0].ID != older.ID || data.Items[1].ID != newer.ID {
		t.Fatalf("replies = %+v, want oldest first", data.Items)
	}

	t.Run("missing parent", func(t *testing.T) {
		status, resp := env.do(t, http.MethodGet,
			"/api/v1/events/"+ev.ID+"/comments/nope/replies", "", nil)
		wantErrorCode(t, status, http.StatusNotFound, resp, "NOT_FOUND")
	})

	t.Run("parent on another event", func(t *testing.T) {
		other := env.seedEvent(t, creator.ID, "unrelated", 49.27, -123.25, testBase)
		status, resp := env.do(t, http.MethodGet,
			"/api/v1/events/"+other.ID+"/comments/"+top.ID+"/replies", "", nil)
		wantErrorCode(t, status, http.StatusNotFound, resp, "NOT_FOUND")
	})
}

func TestCreateComment_ParentValidation(t *testing.T) {
	env := newTestEnv(t)
	creator, token := env.login(t, "alice@campus.edu", "alice")
	ev := env.seedEvent(t, creator.ID, "threaded", 49.26, -123.24, testBase)
	other := env.seedEvent(t, creator.ID, "elsewhere", 49.27, -123.25, testBase)

	status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", token,
		map[string]string{"body": "top"})
	if status != http.StatusCreated {
		t.Fatalf("top-level status = %d (error %+v)", status, resp.Error)
	}
	var top models.Comment
	decodeData(t, resp, &top)

	status, resp = env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", token,
		map[string]string{"body": "reply", "parent_comment_id": top.ID})
	if status != http.StatusCreated {
		t.Fatalf("reply status = %d (error %+v)", status, resp.Error)
	}
	var reply models.Comment
	decodeData(t, resp, &reply)

	t.Run("missing parent", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", token,
			map[string]string{"body": "orphan", "parent_comment_id": "nope"})
		wantErrorCode(t, status, http.StatusBadRequest, resp, "VALIDATION_ERROR")
	})

	t.Run("parent on another event", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+other.ID+"/comments", token,
			map[string]string{"body": "cross", "parent_comment_id": top.ID})
		wantErrorCode(t, status, http.StatusBadRequest, resp, "VALIDATION_ERROR")
	})

	t.Run("reply to a reply", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", token,
			map[string]string{"body": "nested", "parent_comment_id": reply.ID})
		wantErrorCode(t, status, http.StatusBadRequest, resp, "VALIDATION_ERROR")
	})

	t.Run("missing event", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/nope/comments", token,
			map[string]string{"body": "void"})
		wantErrorCode(t, status, http.StatusNotFound, resp, "NOT_FOUND")
	})
}

func TestDeleteComment_Window(t *testing.T) {
	env := newTestEnv(t)
	creator, _ := env.login(t, "alice@campus.edu", "alice")
	_, bobToken := env.login(t, "bob@campus.edu", "bob")
	_, carolToken := env.login(t, "carol@campus.edu", "carol")
	ev := env.seedEvent(t, creator.ID, "retractable", 49.26, -123.24, testBase)

	post := func() models.Comment {
		t.Helper()
		env.handler.now = func() time.Time { return testBase }
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", bobToken,
			map[string]string{"body": "regret"})
		if status != http.StatusCreated {
			t.Fatalf("comment status = %d (error %+v)", status, resp.Error)
		}
		var c models.Comment
		decodeData(t, resp, &c)
		return c
	}

	t.Run("inside window", func(t *testing.T) {
		c := post()
		env.handler.now = func() time.Time { return testBase.Add(2*time.Minute + 59*time.Second) }
		status, resp := env.do(t, http.MethodDelete, "/api/v1/events/"+ev.ID+"/comments/"+c.ID, bobToken, nil)
		if status != http.StatusOK {
			t.Fatalf("delete status = %d (error %+v)", status, resp.Error)
		}
	})

	t.Run("exactly at the boundary", func(t *testing.T) {
		c := post()
		env.handler.now = func() time.Time { return testBase.Add(models.CommentDeleteWindow) }
		status, resp := env.do(t, http.MethodDelete, "/api/v1/events/"+ev.ID+"/comments/"+c.ID, bobToken, nil)
		if status != http.StatusOK {
			t.Fatalf("delete status = %d, want 200 at exactly T+window (error %+v)", status, resp.Error)
		}
	})

	t.Run("one second past the window", func(t *testing.T) {
		c := post()
		env.handler.now = func() time.Time { return testBase.Add(models.CommentDeleteWindow + time.Second) }
		status, resp := env.do(t, http.MethodDelete, "/api/v1/events/"+ev.ID+"/comments/"+c.ID, bobToken, nil)
		wantErrorCode(t, status, http.StatusForbidden, resp, "WINDOW_EXPIRED")
	})

	t.Run("non-author inside window", func(t *testing.T) {
		c := post()
		env.handler.now = func() time.Time { return testBase.Add(time.Minute) }
		status, resp := env.do(t, http.MethodDelete, "/api/v1/events/"+ev.ID+"/comments/"+c.ID, carolToken, nil)
		wantErrorCode(t, status, http.StatusForbidden, resp, "FORBIDDEN")
	})

	t.Run("missing comment", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, "/api/v1/events/"+ev.ID+"/comments/nope", bobToken, nil)
		wantErrorCode(t, status, http.StatusNotFound, resp, "NOT_FOUND")
	})

	t.Run("wrong event in the path", func(t *testing.T) {
		c := post()
		other := env.seedEvent(t, creator.ID, "unrelated", 49.27, -123.25, testBase)
		env.handler.now = func() time.Time { return testBase.Add(time.Minute) }
		status, resp := env.do(t, http.MethodDelete, "/api/v1/events/"+other.ID+"/comments/"+c.ID, bobToken, nil)
		wantErrorCode(t, status, http.StatusNotFound, resp, "NOT_FOUND")
	})

	t.Run("reply is not deletable", func(t *testing.T) {
		c := post()
		env.handler.now = func() time.Time { return testBase }
		status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", bobToken,
			map[string]interface{}{"body": "reply", "parent_comment_id": c.ID})
		if status != http.StatusCreated {
			t.Fatalf("reply status = %d (error %+v)", status, resp.Error)
		}
		var reply models.Comment
		decodeData(t, resp, &reply)

		env.handler.now = func() time.Time { return testBase.Add(time.Minute) }
		status, resp = env.do(t, http.MethodDelete, "/api/v1/events/"+ev.ID+"/comments/"+reply.ID, bobToken, nil)
		wantErrorCode(t, status, http.StatusNotFound, resp, "NOT_FOUND")
	})
}

func TestCreateComment_NotificationEnqueue(t *testing.T) {
	env := newTestEnv(t)
	creator, creatorToken := env.login(t, "alice@campus.edu", "alice")
	_, bobToken := env.login(t, "bob@campus.edu", "bob")
	ev := env.seedEvent(t, creator.ID, "notified", 49.26, -123.24, testBase)
	ctx := context.Background()

	// A stranger's comment schedules an email for the creator.
	status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", bobToken,
		map[string]string{"body": "hello"})
	if status != http.StatusCreated {
		t.Fatalf("comment status = %d (error %+v)", status, resp.Error)
	}
	pending, err := env.db.PendingNotificationCount(ctx)
	if err != nil {
		t.Fatalf("PendingNotificationCount() error = %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending notifications = %d, want 1", pending)
	}

	// The creator commenting on their own event does not.
	status, resp = env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", creatorToken,
		map[string]string{"body": "self"})
	if status != http.StatusCreated {
		t.Fatalf("self comment status = %d (error %+v)", status, resp.Error)
	}
	pending, err = env.db.PendingNotificationCount(ctx)
	if err != nil {
		t.Fatalf("PendingNotificationCount() error = %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending notifications = %d, want still 1 after self-comment", pending)
	}
}

func TestCreateComment_NotificationsDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.Notify.Enabled = false
	creator, _ := env.login(t, "alice@campus.edu", "alice")
	_, bobToken := env.login(t, "bob@campus.edu", "bob")
	ev := env.seedEvent(t, creator.ID, "quiet", 49.26, -123.24, testBase)

	status, resp := env.do(t, http.MethodPost, "/api/v1/events/"+ev.ID+"/comments", bobToken,
		map[string]string{"body": "hello"})
	if status != http.StatusCreated {
		t.Fatalf("comment status = %d (error %+v)", status, resp.Error)
	}
	pending, err := env.db.PendingNotificationCount(context.Background())
	if err != nil {
		t.Fatalf("PendingNotificationCount() error = %v", err)
	}
	if pending != 0 {
		t.Fatalf("pending notifications = %d, want 0 when disabled", pending)
	}
}
