// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBM3_Boundaries(t *testing.T) {
	assert.False(t, IsBM3(29_999_999))
	assert.True(t, IsBM3(30_000_000))
	assert.True(t, IsBM3(39_999_999))
	assert.False(t, IsBM3(40_000_000))
}

func TestIsPaired_InstallationMode(t *testing.T) {
	assert.True(t, IsPaired(true, "with-display-remote", "", 0))
	assert.False(t, IsPaired(true, "", "", 0))
	assert.False(t, IsPaired(true, "some-other-remote", "12345", 30_000_001))
}

func TestIsPaired_Normal(t *testing.T) {
	assert.True(t, IsPaired(false, "", "30000001", 30_000_001))
	assert.False(t, IsPaired(false, "", "", 30_000_001))
	assert.False(t, IsPaired(false, "", "30000001", 0))
	assert.False(t, IsPaired(false, "", "wrong", 30_000_001))
}

func TestExec_SentinelPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installation_mode")

	e := NewExec(path)
	present, content := e.SentinelPresent()
	assert.False(t, present)
	assert.Empty(t, content)

	require.NoError(t, os.WriteFile(path, []byte("with-display-remote\n"), 0o644))
	present, content = e.SentinelPresent()
	assert.True(t, present)
	assert.Equal(t, "with-display-remote", content)
}

func TestExec_UploaderConnected_AbsentByDefault(t *testing.T) {
	e := NewExec("/nonexistent/installation_mode")
	// /run/uploader_connected should not exist in the test sandbox.
	assert.False(t, e.UploaderConnected())
}

func TestDefaultRegisteredMembers(t *testing.T) {
	t.Parallel()

	got := defaultRegisteredMembers()
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}, got)
}

func TestFake_ImplementsPlatform(t *testing.T) {
	f := &Fake{TV: true, Meter: 30_000_001, Remote: "30000001", Roster: []string{"A", "B"}}
	assert.True(t, f.TVStatus())
	assert.Equal(t, int64(30_000_001), f.MeterID())
	assert.Equal(t, "30000001", f.RemoteID())
	assert.Equal(t, []string{"A", "B"}, f.RegisteredMembers())

	f.Buzz()
	f.Buzz()
	assert.Equal(t, 2, f.BuzzCount)

	assert.NoError(t, f.Notify())
	assert.Equal(t, 1, f.NotifyCount)
}

func TestSentinelWatcher_WaitOrReappear_DetectsCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installation_mode")

	w, err := NewSentinelWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	done := make(chan bool, 1)
	go func() {
		done <- w.WaitOrReappear(context.Background(), 2*time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("with-display-remote"), 0o644))

	select {
	case reappeared := <-done:
		assert.True(t, reappeared)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for sentinel reappearance notification")
	}
}

func TestSentinelWatcher_WaitOrReappear_TimesOutWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installation_mode")

	w, err := NewSentinelWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	reappeared := w.WaitOrReappear(context.Background(), 100*time.Millisecond)
	assert.False(t, reappeared)
}
