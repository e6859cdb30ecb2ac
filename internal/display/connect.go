// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package display

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/audience-controller/internal/logging"
)

// USBID identifies a display by vendor/product pair (spec §6).
type USBID struct {
	Vendor, Product uint16
}

// KnownSettleUSBID is the display USB ID that requires a 15s post-connect
// settle loop (spec §6: "Display USB ID (0x2047, 0xf003) triggers a 15 s
// post-connect settle loop").
var KnownSettleUSBID = USBID{Vendor: 0x2047, Product: 0xf003}

// SettleDelay is the post-connect settle wait for KnownSettleUSBID.
const SettleDelay = 15 * time.Second

// backoffSchedule is the reconnect backoff of spec §7 ("Display I/O ...
// supervisor reconnects via connect() with 5/10s backoff").
var backoffSchedule = []time.Duration{5 * time.Second, 10 * time.Second}

// OpenFunc opens (or reopens) the physical display port.
type OpenFunc func() (Port, error)

// Connector reconnects a display Port behind a circuit breaker, following
// the teacher's circuitbreaker.go settings shape (consecutive-failure
// trip, logged state transitions).
type Connector struct {
	open    OpenFunc
	usbID   USBID
	breaker *gobreaker.CircuitBreaker[Port]
	backoff []time.Duration
}

// NewConnector builds a Connector that opens displays via open. usbID
// gates the 15s settle wait of spec §6.
func NewConnector(open OpenFunc, usbID USBID) *Connector {
	settings := gobreaker.Settings{
		Name:        "display-connect",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("display connect circuit breaker state change")
		},
	}
	return &Connector{
		open:    open,
		usbID:   usbID,
		breaker: gobreaker.NewCircuitBreaker[Port](settings),
		backoff: backoffSchedule,
	}
}

// Connect retries open() on the backoffSchedule cadence (5s, then 10s,
// repeating) until it succeeds or ctx is cancelled, gated by the circuit
// breaker, and applies the USB-ID settle wait on success.
func (c *Connector) Connect(ctx context.Context) (Port, error) {
	for attempt := 0; ; attempt++ {
		port, err := c.breaker.Execute(func() (Port, error) {
			return c.open()
		})
		if err == nil {
			c.settle(ctx)
			return port, nil
		}
		logging.Warn().Err(err).Int("attempt", attempt).Msg("display connect failed")

		delay := c.backoff[attempt%len(c.backoff)]
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Connector) settle(ctx context.Context) {
	if c.usbID != KnownSettleUSBID {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(SettleDelay):
	}
}
