// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"fmt"
	"net"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/audience-controller/internal/logging"
)

// Emitter transmits encoded events over a Unix datagram socket (spec §4.3,
// §6 PUSH_ADDR). It opens a connection per send and closes it immediately;
// there is no connection pool (spec §5).
//
// A sony/gobreaker circuit breaker guards the socket path: a dead or
// perpetually-refusing uploader should not make every 100ms loop iteration
// pay a fresh dial timeout (spec §7 "Unix-socket I/O: logged; last_comm_state
// not updated"). The breaker only shapes latency; Send still returns the
// underlying error so the caller's dedup state is left untouched on failure.
type Emitter struct {
	addr    string
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewEmitter returns an Emitter that sends to the given Unix datagram
// socket path (config.Config.PushAddr).
func NewEmitter(addr string) *Emitter {
	settings := gobreaker.Settings{
		Name:        "event-emitter",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("event emitter circuit breaker state change")
		},
	}
	return &Emitter{
		addr:    addr,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Send transmits the already-encoded event bytes. Failures are logged and
// returned; callers must not advance their dedup shadow state on error so
// that the next state change re-emits (spec §7: "no retry queue is
// maintained for events").
func (e *Emitter) Send(payload []byte) error {
	_, err := e.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, e.send(payload)
	})
	if err != nil {
		logging.Error().Err(err).Str("addr", e.addr).Msg("event emit failed")
		return fmt.Errorf("events: send: %w", err)
	}
	return nil
}

func (e *Emitter) send(payload []byte) error {
	conn, err := net.Dial("unixgram", e.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", e.addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
