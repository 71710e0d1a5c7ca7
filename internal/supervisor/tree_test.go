// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package supervisor

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

// blockingService runs until its context is canceled and records that it
// was started.
type blockingService struct {
	started chan struct{}
}

func (s *blockingService) Serve(ctx context.Context) error {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking-service" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTree_AppliesDefaults(t *testing.T) {
	tree := NewTree(discardLogger(), TreeConfig{})

	want := DefaultTreeConfig()
	if tree.config != want {
		t.Fatalf("config = %+v, want defaults %+v", tree.config, want)
	}
}

func TestTree_RunsAndStopsServices(t *testing.T) {
	tree := NewTree(discardLogger(), DefaultTreeConfig())

	jobSvc := &blockingService{started: make(chan struct{}, 1)}
	apiSvc := &blockingService{started: make(chan struct{}, 1)}
	tree.AddJobService(jobSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	for _, svc := range []*blockingService{jobSvc, apiSvc} {
		select {
		case <-svc.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s did not start", svc)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor tree did not stop after cancellation")
	}
}
