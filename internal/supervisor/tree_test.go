// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package supervisor

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService is a minimal suture.Service test double, following the
// teacher's pattern of exposing plain settable fields instead of a
// mocking framework.
type stubService struct {
	starts  int32
	done    chan struct{}
	failErr error
}

func newStubService() *stubService {
	return &stubService{done: make(chan struct{})}
}

func (s *stubService) Serve(ctx context.Context) error {
	atomic.AddInt32(&s.starts, 1)
	select {
	case <-ctx.Done():
		return nil
	case <-s.done:
		return s.failErr
	}
}

func (s *stubService) String() string { return "stub-service" }

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	assert.Equal(t, 5.0, cfg.FailureThreshold)
	assert.Equal(t, 30.0, cfg.FailureDecay)
	assert.Equal(t, 15*time.Second, cfg.FailureBackoff)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestTree_AddAndServe_StopsOnContextCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tree := NewTree(logger, DefaultTreeConfig())

	svc := newStubService()
	tree.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&svc.starts) >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("tree did not stop after context cancellation")
	}
}

func TestTree_ZeroConfigGetsDefaults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tree := NewTree(logger, TreeConfig{})
	assert.Equal(t, 5.0, tree.config.FailureThreshold)
	assert.Equal(t, 10*time.Second, tree.config.ShutdownTimeout)
}

func TestTree_RemoveAndWait(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tree := NewTree(logger, DefaultTreeConfig())

	svc := newStubService()
	token := tree.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = tree.Serve(ctx) }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&svc.starts) >= 1
	}, time.Second, 5*time.Millisecond)

	close(svc.done)
	require.NoError(t, tree.RemoveAndWait(token, time.Second))
}
