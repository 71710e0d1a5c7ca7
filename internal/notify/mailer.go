// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify delivers deferred comment notifications. A queue row
// becomes due once the comment's retraction window has closed; the
// dispatcher claims due rows and emails event creators best-effort.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pingcampus/ping/internal/config"
	"github.com/pingcampus/ping/internal/logging"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewMailer returns an SMTP mailer when SMTP is configured and a
// log-only mailer otherwise, so local development works without a mail
// server.
func NewMailer(cfg *config.NotifyConfig) Mailer {
	if cfg.SMTPConfigured() {
		return NewSMTPMailer(cfg)
	}
	logging.Info().Msg("SMTP not configured, comment notifications will be logged instead of sent")
	return &LogMailer{}
}

// LogMailer records deliveries in the log instead of sending them.
type LogMailer struct{}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	logging.Info().Str("to", to).Str("subject", subject).Msg("Would send notification email")
	return nil
}

// SMTPMailer sends email over SMTP behind a circuit breaker, so a dead mail
// server fails fast instead of stalling every dispatch tick.
type SMTPMailer struct {
	cfg     *config.NotifyConfig
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
}

// NewSMTPMailer creates the SMTP mailer.
func NewSMTPMailer(cfg *config.NotifyConfig) *SMTPMailer {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("SMTP circuit breaker state change")
		},
	})

	return &SMTPMailer{
		cfg:     cfg,
		timeout: 30 * time.Second,
		cb:      cb,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := m.buildMessage(to, subject, body)
	_, err := m.cb.Execute(func() (any, error) {
		return nil, m.sendSMTP(ctx, to, msg)
	})
	return err
}

func (m *SMTPMailer) buildMessage(to, subject, body string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: Ping <%s>\r\n", m.cfg.SMTPFrom))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")
	return msg.String()
}

func (m *SMTPMailer) sendSMTP(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: m.cfg.SMTPHost,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.cfg.SMTPUser != "" && m.cfg.SMTPPass != "" {
		auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	return client.Quit()
}
