// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingPushAddr(t *testing.T) {
	t.Setenv("PUSH_ADDR", "")
	t.Setenv("AUDIENCE_SESSION_CLOSE_TIME", "22:00:00")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUSH_ADDR")
}

func TestLoad_MissingCloseTime(t *testing.T) {
	t.Setenv("PUSH_ADDR", "/run/meter-events.sock")
	t.Setenv("AUDIENCE_SESSION_CLOSE_TIME", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIENCE_SESSION_CLOSE_TIME")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PUSH_ADDR", "/run/meter-events.sock")
	t.Setenv("AUDIENCE_SESSION_CLOSE_TIME", "22:00:00")
	t.Setenv("VERBOSE", "")
	t.Setenv("INSTALLATION_MODE_FILE", "")
	t.Setenv("REMOTE_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/run/meter-events.sock", cfg.PushAddr)
	assert.Equal(t, DefaultInstallationModeFile, cfg.InstallationModeFile)
	assert.False(t, cfg.Verbose)
}

func TestLoad_Verbose(t *testing.T) {
	t.Setenv("PUSH_ADDR", "/run/meter-events.sock")
	t.Setenv("AUDIENCE_SESSION_CLOSE_TIME", "22:00:00")
	t.Setenv("VERBOSE", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestSessionCloseOffset_ShiftsUTCToLocal(t *testing.T) {
	cfg := &Config{AudienceSessionCloseTime: "22:00:00"}
	offset, err := cfg.SessionCloseOffset()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour+30*time.Minute, offset)
}

func TestSessionCloseOffset_WrapsPastMidnight(t *testing.T) {
	cfg := &Config{AudienceSessionCloseTime: "19:00:00"}
	offset, err := cfg.SessionCloseOffset()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, offset)
}

func TestSessionCloseOffset_InvalidFormat(t *testing.T) {
	cfg := &Config{AudienceSessionCloseTime: "not-a-time"}
	_, err := cfg.SessionCloseOffset()
	require.Error(t, err)
}
