// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package supervisor

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/logging"
	"github.com/tomtom215/audience-controller/internal/platform"
	"github.com/tomtom215/audience-controller/internal/rc5"
	"github.com/tomtom215/audience-controller/internal/viewership"
)

// pollInterval is the loop cadence of spec §4.7.
const pollInterval = 100 * time.Millisecond

// nonBM3InstallWait is the guard period a non-bm3 device waits before
// re-checking and reconnecting on installation-mode exit (spec §4.5, §5).
const nonBM3InstallWait = 60 * time.Second

// installModeIdleSleep is the sleep applied while waiting out installation
// mode on a non-bm3 device, matching the original implementation's slower
// idle cadence for the period the display is known to be closed.
const installModeIdleSleep = 5 * time.Second

// buzzPromptInterval throttles the "prompt user" buzz of spec §4.7 step 8
// so it fires at most once per interval rather than on every 100ms tick
// while the no-viewers-declared condition holds.
const buzzPromptInterval = 20 * time.Second

// PollLoop implements the spec §4.7 supervisor loop as a suture.Service.
// It owns the live display Port (swapped on installation-mode close/
// reopen and on reconnect) and the RC5-Plus decoder; all viewership-model
// mutation is delegated to viewership.Model.
type PollLoop struct {
	model     *viewership.Model
	plat      platform.Platform
	connector *display.Connector
	sentinel  *platform.SentinelWatcher
	decoder   *rc5.Decoder

	sessionCloseOffset time.Duration
	buzzLimiter        *rate.Limiter

	port display.Port
}

// NewPollLoop constructs a PollLoop. initialPort is the already-connected
// display port at startup; sentinel may be nil if sentinel-change
// notification is unavailable, in which case the non-bm3 exit guard
// always waits the full nonBM3InstallWait.
func NewPollLoop(model *viewership.Model, plat platform.Platform, connector *display.Connector, sentinel *platform.SentinelWatcher, initialPort display.Port, sessionCloseOffset time.Duration) *PollLoop {
	return &PollLoop{
		model:               model,
		plat:                plat,
		connector:           connector,
		sentinel:            sentinel,
		decoder:             rc5.NewDecoder(),
		sessionCloseOffset:  sessionCloseOffset,
		buzzLimiter:         rate.NewLimiter(rate.Every(buzzPromptInterval), 1),
		port:                initialPort,
	}
}

// String identifies this service in suture's logs.
func (p *PollLoop) String() string { return "poll-loop" }

// Serve runs the loop until ctx is cancelled (spec §4.7).
func (p *PollLoop) Serve(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		now := time.Now()

		// Step 1.
		p.model.CheckEventGen(now, false)
		p.model.CheckGuestFlowTimeout(now)

		// Step 2. Pairing is evaluated against the model's current
		// installation-mode flag, not this tick's raw sentinel presence
		// (the sentinel-presence edge is handled separately in step 3).
		tvStatus := p.plat.TVStatus()
		present, content := p.plat.SentinelPresent()
		pairedStatus := platform.IsPaired(p.model.InInstallationMode(), content, p.plat.RemoteID(), p.plat.MeterID())

		// Step 3.
		p.handleInstallationModeEdge(ctx, now, present)

		if p.model.InInstallationMode() && !p.model.IsBM3() {
			if !p.sleep(ctx, installModeIdleSleep) {
				return nil
			}
			continue
		}

		// Step 4.
		if err := p.model.ApplyIdleTimeout(now, false); err != nil {
			logging.Warn().Err(err).Msg("poll loop: display idle-timeout render failed")
			p.reconnectDisplay(ctx)
		}

		// Step 5.
		if p.model.InfoRefreshDue(now) {
			if err := p.model.RefreshInfo(p.plat.WatermarkOK(), p.plat.SIMOK(), p.plat.UploaderConnected(), now, true); err != nil {
				logging.Warn().Err(err).Msg("poll loop: info auto-refresh failed")
				p.reconnectDisplay(ctx)
			}
		}

		// Step 6.
		if p.model.TV() && !(pairedStatus && tvStatus) {
			p.model.MoveToTVOff(now)
		}
		if !p.model.TV() && pairedStatus && tvStatus {
			p.model.MoveToTVOn(now)
		}
		p.model.UpdatePairing(pairedStatus)

		// Step 7.
		if p.model.InNewAud(now, p.sessionCloseOffset) {
			p.model.OnNewAud(now, p.sessionCloseOffset)
		}

		// Step 8.
		if p.model.TV() && p.model.RemotePaired() && p.model.HasRegisteredMembers() &&
			len(p.model.Declared()) == 0 && p.model.DisplayIdle() {
			if err := p.model.Refresh(now); err != nil {
				logging.Warn().Err(err).Msg("poll loop: prompt render failed")
				p.reconnectDisplay(ctx)
			} else if p.buzzLimiter.Allow() {
				p.plat.Buzz()
			}
		}

		// Step 9.
		p.pollRemote(now)

		// Step 10.
		if !p.sleep(ctx, pollInterval) {
			return nil
		}
	}
}

// pollRemote implements step 9: read one RC5 word, decode it, and dispatch
// a valid key through the model.
func (p *PollLoop) pollRemote(now time.Time) {
	if p.port == nil {
		return
	}
	word, ok, err := p.port.ReadRemoteCmd()
	if err != nil {
		logging.Warn().Err(err).Msg("poll loop: remote read failed")
		return
	}
	if !ok {
		return
	}

	key, valid, err := p.decoder.Detect(word)
	if err != nil {
		if flushErr := p.port.Flush(); flushErr != nil {
			logging.Warn().Err(flushErr).Msg("poll loop: remote flush failed")
		}
		logging.Warn().Err(err).Msg("invalid RC5 frame received")
		return
	}
	if !valid {
		return
	}
	if p.model.IsValidKey(key) {
		logging.Debug().Str("key", string(key)).Msg("poll loop: dispatching key press")
		p.model.HandleKey(key, now)
	}
}

// handleInstallationModeEdge implements step 3.
func (p *PollLoop) handleInstallationModeEdge(ctx context.Context, now time.Time, sentinelPresent bool) {
	switch {
	case p.model.InInstallationMode() && !sentinelPresent:
		p.moveOutInstallationMode(ctx, now)
		p.model.SetRegisteredMembers(p.plat.RegisteredMembers())
		if p.model.RemotePaired() {
			if err := p.model.Refresh(now); err != nil {
				logging.Warn().Err(err).Msg("poll loop: post-exit render failed")
			}
		}

	case !p.model.InInstallationMode() && sentinelPresent:
		p.moveToInstallationMode(now)
		if p.model.IsBM3() {
			p.model.SetRegisteredMembers(p.plat.RegisteredMembers())
			if p.model.RemotePaired() {
				if err := p.model.Refresh(now); err != nil {
					logging.Warn().Err(err).Msg("poll loop: post-entry render failed")
				}
			}
		}
	}
}

// moveToInstallationMode enters installation mode, closing the display
// port for non-bm3 devices (spec §4.5).
func (p *PollLoop) moveToInstallationMode(now time.Time) {
	closeDisplay := p.model.EnterInstallationMode(now)
	if !closeDisplay {
		return
	}
	if p.port != nil {
		if err := p.port.Close(); err != nil {
			logging.Warn().Err(err).Msg("poll loop: display close failed")
		}
	}
	p.port = nil
	p.model.SetDisplayPort(nil)
}

// moveOutInstallationMode exits installation mode. For non-bm3 devices it
// waits nonBM3InstallWait, aborting early (and staying in installation
// mode — "sticky") if the sentinel reappears first, then reconnects the
// display (spec §4.5, §5).
func (p *PollLoop) moveOutInstallationMode(ctx context.Context, now time.Time) {
	if !p.model.IsBM3() {
		var reappeared bool
		if p.sentinel != nil {
			reappeared = p.sentinel.WaitOrReappear(ctx, nonBM3InstallWait)
		} else if !p.sleep(ctx, nonBM3InstallWait) {
			return
		}
		if reappeared {
			return
		}
		if ctx.Err() != nil {
			return
		}

		port, err := p.connector.Connect(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("poll loop: display reconnect aborted")
			return
		}
		p.port = port
		p.model.SetDisplayPort(port)
	}
	p.model.ExitInstallationMode()
}

// reconnectDisplay closes the current port (if any) and blocks until the
// circuit-breaker-guarded Connector reopens the display (spec §7).
func (p *PollLoop) reconnectDisplay(ctx context.Context) {
	if p.port != nil {
		_ = p.port.Close()
	}
	p.port = nil
	port, err := p.connector.Connect(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("poll loop: display reconnect aborted")
		return
	}
	p.port = port
	p.model.SetDisplayPort(port)
}

// sleep blocks for d or until ctx is cancelled, reporting false on
// cancellation.
func (p *PollLoop) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
