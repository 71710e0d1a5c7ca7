// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pingcampus/ping/internal/config"
	"github.com/pingcampus/ping/internal/database"
	"github.com/pingcampus/ping/internal/logging"
	"github.com/pingcampus/ping/internal/metrics"
	"github.com/pingcampus/ping/internal/models"
)

// claimBatchSize bounds how many notifications one tick processes.
const claimBatchSize = 50

// Dispatcher polls the notification queue and delivers due notifications.
// Delivery is at-most-once and best-effort: failures are logged and counted,
// never retried, and never surface to the commenting flow.
type Dispatcher struct {
	db     *database.DB
	mailer Mailer
	cfg    *config.NotifyConfig

	// now is swappable in tests.
	now func() time.Time
}

// NewDispatcher creates the notification dispatcher.
func NewDispatcher(db *database.DB, mailer Mailer, cfg *config.NotifyConfig) *Dispatcher {
	return &Dispatcher{
		db:     db,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Serve runs the poll loop until the context is canceled. It implements
// suture.Service.
func (d *Dispatcher) Serve(ctx context.Context) error {
	logging.Info().Dur("poll_interval", d.cfg.PollInterval).Msg("Notification dispatcher started")

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				logging.Error().Err(err).Msg("Notification dispatch tick failed")
			}
		case <-ctx.Done():
			logging.Info().Msg("Notification dispatcher stopped")
			return ctx.Err()
		}
	}
}

// RunOnce claims and processes one batch of due notifications.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	now := d.now().UTC()

	commentIDs, err := d.db.ClaimDueNotifications(ctx, now, claimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim notifications: %w", err)
	}
	metrics.NotificationsClaimed.Add(float64(len(commentIDs)))

	for _, commentID := range commentIDs {
		d.deliver(ctx, commentID)
	}

	if depth, err := d.db.PendingNotificationCount(ctx); err == nil {
		metrics.NotificationQueueDepth.Set(float64(depth))
	}
	return nil
}

// deliver resolves and sends one claimed notification. Every outcome is a
// metric; none is an error for the caller.
func (d *Dispatcher) deliver(ctx context.Context, commentID string) {
	n, err := d.db.GetCommentNotificationDetails(ctx, commentID)
	if errors.Is(err, database.ErrNotFound) {
		// Comment or event retracted while the notification waited out the
		// window. Silence is the correct behavior.
		metrics.RecordNotificationOutcome("retracted")
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("comment_id", commentID).Msg("Failed to resolve notification")
		metrics.RecordNotificationOutcome("failed")
		return
	}

	if n.CreatorOptedOut {
		metrics.RecordNotificationOutcome("suppressed")
		return
	}

	subject, body := d.composeEmail(n)
	if err := d.mailer.Send(ctx, n.CreatorEmail, subject, body); err != nil {
		logging.Error().Err(err).
			Str("comment_id", n.CommentID).
			Str("event_id", n.EventID).
			Msg("Failed to send comment notification")
		metrics.RecordNotificationOutcome("failed")
		return
	}

	logging.Debug().Str("comment_id", n.CommentID).Str("event_id", n.EventID).Msg("Comment notification sent")
	metrics.RecordNotificationOutcome("sent")
}

// String identifies the service in supervisor logs.
func (d *Dispatcher) String() string {
	return "notification-dispatcher"
}

func (d *Dispatcher) composeEmail(n *models.CommentNotification) (subject, body string) {
	subject = fmt.Sprintf("New comment on %q", n.EventTitle)
	body = fmt.Sprintf(
		"Hi %s,\n\n%s commented on your event %q:\n\n%s\n\nView the event: %s/events/%s\n",
		n.CreatorUsername, n.CommenterUsername, n.EventTitle, n.Body, d.cfg.FrontendURL, n.EventID)
	return subject, body
}
