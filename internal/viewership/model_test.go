// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewership

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/events"
	"github.com/tomtom215/audience-controller/internal/rc5"
	"github.com/tomtom215/audience-controller/internal/store"
)

// fixedNow is a fixed instant used across tests instead of time.Now(), so
// debounce/timeout assertions are deterministic.
var fixedNow = time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

// fakeNotifier counts calls and can be made to fail, for asserting
// post-save D-Bus notification behavior (spec §4.6).
type fakeNotifier struct {
	count int
	err   error
}

func (f *fakeNotifier) Notify() error {
	f.count++
	return f.err
}

// newTestFixture builds a Model over an in-memory store, a real Unix
// datagram emitter pointed at a listening socket, and a FakePort-backed
// renderer.
func newTestFixture(t *testing.T, registered []string, isBM3 bool) (*Model, *display.FakePort, *fakeNotifier, *net.UnixConn) {
	t.Helper()

	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	addr := filepath.Join(t.TempDir(), "events.sock")
	listener, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: addr, Net: "unixgram"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	emitter := events.NewEmitter(addr)

	port := &display.FakePort{}
	renderer := display.NewRenderer(port)
	notifier := &fakeNotifier{}

	m := New(st, emitter, renderer, notifier, registered, isBM3)
	require.NoError(t, m.Load())
	return m, port, notifier, listener
}

func TestModel_Load_FreshInstallDefaults(t *testing.T) {
	m, _, _, _ := newTestFixture(t, []string{"A", "B"}, false)
	assert.Empty(t, m.Declared())
	assert.False(t, m.TV())
	assert.False(t, m.Absent())
	assert.Equal(t, display.MaxBrightness, m.Brightness())
	assert.False(t, m.InInstallationMode())
}

func TestModel_SaveThenLoad_RoundTrips(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	addr := filepath.Join(t.TempDir(), "events.sock")
	listener, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: addr, Net: "unixgram"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	emitter := events.NewEmitter(addr)

	port := &display.FakePort{}
	notifier := &fakeNotifier{}

	m1 := New(st, emitter, display.NewRenderer(port), notifier, []string{"A"}, false)
	require.NoError(t, m1.Load())
	m1.HandleKey(rc5.KeyA, fixedNow)
	m1.CheckEventGen(fixedNow, true)
	assert.Equal(t, 1, notifier.count)

	m2 := New(st, emitter, display.NewRenderer(port), notifier, []string{"A"}, false)
	require.NoError(t, m2.Load())
	assert.Equal(t, []string{"A"}, m2.Declared())
}

func TestModel_IsValidKey_RestrictedWhenTVOff(t *testing.T) {
	m, _, _, _ := newTestFixture(t, []string{"A"}, false)
	assert.False(t, m.TV())

	assert.True(t, m.IsValidKey(rc5.KeyINFO))
	assert.True(t, m.IsValidKey(rc5.KeyABS))
	assert.True(t, m.IsValidKey(rc5.KeyINCB))
	assert.True(t, m.IsValidKey(rc5.KeyDECB))
	assert.True(t, m.IsValidKey(rc5.KeyCANCEL))
	assert.False(t, m.IsValidKey(rc5.KeyA))
	assert.False(t, m.IsValidKey(rc5.KeyOK))
}

func TestModel_IsValidKey_AllKeysWhenTVOn(t *testing.T) {
	m, _, _, _ := newTestFixture(t, []string{"A"}, false)
	m.MoveToTVOn(fixedNow)
	assert.True(t, m.TV())
	assert.True(t, m.IsValidKey(rc5.KeyA))
	assert.True(t, m.IsValidKey(rc5.KeyOK))
}
