// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogHandler(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler()
	require.NotNil(t, h)
	assert.Nil(t, h.attrs)
	assert.Nil(t, h.groups)
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     string
		slogLevel slog.Level
		want      bool
	}{
		{"debug logger enables debug", "debug", slog.LevelDebug, true},
		{"info logger disables debug", "info", slog.LevelDebug, false},
		{"info logger enables warn", "info", slog.LevelWarn, true},
		{"error logger disables warn", "error", slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(Config{Level: tt.level, Format: "json"})
			t.Cleanup(func() { Init(DefaultConfig()) })

			h := NewSlogHandler()
			assert.Equal(t, tt.want, h.Enabled(context.Background(), tt.slogLevel))
		})
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := slog.New(NewSlogHandler())
	logger.Info("poll loop starting", "component", "supervisor", "tick", 1)

	out := buf.String()
	assert.Contains(t, out, "poll loop starting")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "supervisor")
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	h := NewSlogHandler().WithAttrs([]slog.Attr{slog.String("service", "poll-loop")})
	slog.New(h).Warn("restarted")

	out := buf.String()
	assert.Contains(t, out, "poll-loop")
	assert.Contains(t, out, "restarted")
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	h := NewSlogHandler().WithGroup("supervisor")
	slog.New(h).Info("event", "name", "poll-loop")

	assert.Contains(t, buf.String(), "supervisor.name")
}

func TestSlogHandler_WithGroup_EmptyNameNoop(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler()
	assert.Same(t, h, h.WithGroup(""))
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slogLevel slog.Level
		want      string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slogToZerologLevel(tt.slogLevel).String())
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := NewSlogLogger()
	require.NotNil(t, logger)

	logger.Info("supervisor tree started")
	assert.Contains(t, buf.String(), "supervisor tree started")
}
