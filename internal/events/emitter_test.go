// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func listenUnixgram(t *testing.T) (*net.UnixConn, string) {
	t.Helper()
	addr := filepath.Join(t.TempDir(), "events.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: addr, Net: "unixgram"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, addr
}

func TestEmitter_Send_DeliversBytes(t *testing.T) {
	listener, addr := listenUnixgram(t)
	emitter := NewEmitter(addr)

	payload, err := EncodeRemoteActivity(RemoteActivityPayload{AbsentKeyPress: true})
	require.NoError(t, err)

	require.NoError(t, emitter.Send(payload))

	buf := make([]byte, 256)
	require.NoError(t, listener.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := listener.Read(buf)
	require.NoError(t, err)
	require.Equal(t, payload, buf[:n])
}

func TestEmitter_Send_NoListenerReturnsError(t *testing.T) {
	emitter := NewEmitter(filepath.Join(t.TempDir(), "no-such.sock"))
	err := emitter.Send([]byte{0x01})
	require.Error(t, err)
}
