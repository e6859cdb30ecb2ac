// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package supervisor

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/events"
	"github.com/tomtom215/audience-controller/internal/platform"
	"github.com/tomtom215/audience-controller/internal/store"
	"github.com/tomtom215/audience-controller/internal/viewership"
)

// rc5Word builds a 16-bit RC5-Plus frame: 1 1 T A4..A0 C5..C0 1 1.
func rc5Word(toggle, cmd uint8) uint16 {
	w := uint16(0xC003)
	w |= uint16(toggle&0x1) << 13
	w |= uint16(cmd&0x3F) << 2
	return w
}

const cmdKeyA = 18

func newTestModel(t *testing.T, isBM3 bool, registered []string) (*viewership.Model, *display.FakePort) {
	t.Helper()

	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	addr := filepath.Join(t.TempDir(), "events.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: addr, Net: "unixgram"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	emitter := events.NewEmitter(addr)

	port := &display.FakePort{}
	renderer := display.NewRenderer(port)

	model := viewership.New(st, emitter, renderer, nil, registered, isBM3)
	require.NoError(t, model.Load())
	return model, port
}

func newTestConnector(port display.Port) *display.Connector {
	return display.NewConnector(func() (display.Port, error) {
		return port, nil
	}, display.USBID{})
}

func TestPollLoop_Serve_StopsOnContextCancel(t *testing.T) {
	model, port := newTestModel(t, true, nil)
	fake := &platform.Fake{}
	pl := NewPollLoop(model, fake, newTestConnector(port), nil, port, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- pl.Serve(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop on cancelled context")
	}
}

func TestPollLoop_Serve_DispatchesRemoteKeyPress(t *testing.T) {
	model, port := newTestModel(t, true, []string{"A"})
	port.PendingWords = []uint16{rc5Word(0, cmdKeyA)}

	fake := &platform.Fake{TV: true, Meter: 123, Remote: "123"}
	pl := NewPollLoop(model, fake, newTestConnector(port), nil, port, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_ = pl.Serve(ctx)

	assert.Contains(t, model.Declared(), "A")
	assert.True(t, model.TV())
}

func TestPollLoop_Serve_EntersInstallationModeNonBM3ClosesPort(t *testing.T) {
	model, port := newTestModel(t, false, nil)
	fake := &platform.Fake{Sentinel: true, SentinelContent: "with-display-remote"}
	pl := NewPollLoop(model, fake, newTestConnector(port), nil, port, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_ = pl.Serve(ctx)

	assert.True(t, model.InInstallationMode())
	assert.Equal(t, 1, port.ClosedCount)
	assert.Nil(t, pl.port)
}

func TestPollLoop_Serve_ExitsInstallationModeBM3WithoutClosingPort(t *testing.T) {
	model, port := newTestModel(t, true, nil)
	closeDisplay := model.EnterInstallationMode(time.Now())
	require.False(t, closeDisplay, "bm3 devices keep the display open on installation-mode entry")
	require.True(t, model.InInstallationMode())

	fake := &platform.Fake{Sentinel: false}
	pl := NewPollLoop(model, fake, newTestConnector(port), nil, port, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_ = pl.Serve(ctx)

	assert.False(t, model.InInstallationMode())
	assert.Equal(t, 0, port.ClosedCount)
}

func TestPollLoop_String(t *testing.T) {
	model, port := newTestModel(t, true, nil)
	pl := NewPollLoop(model, &platform.Fake{}, newTestConnector(port), nil, port, time.Hour)
	assert.Equal(t, "poll-loop", pl.String())
}
