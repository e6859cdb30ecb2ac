// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewership

import (
	"time"

	"github.com/tomtom215/audience-controller/internal/logging"
	"github.com/tomtom215/audience-controller/internal/store"
)

// clearViewership clears the declaration set and force-persists (spec
// §4.5 "clear viewership" used by TV transitions and installation mode).
func (m *Model) clearViewership() {
	m.viewersDeclared = nil
	if err := m.save(); err != nil {
		logging.Error().Err(err).Msg("viewership: save during clearViewership failed")
	}
}

// clearUserPresence clears absence and any guest registrations in memory
// (spec §4.5, used on installation-mode exit and on paired→unpaired).
func (m *Model) clearUserPresence() {
	if m.absent {
		m.absent = false
	}
	m.guestsRegistered = nil
}

// MoveToTVOn implements the "TV off → on" row of spec §4.5.
func (m *Model) MoveToTVOn(now time.Time) {
	m.tv = true
	m.CheckEventGen(now, true)
	m.clearViewership()
	_ = m.render(now)
}

// MoveToTVOff implements the "TV on → off" row of spec §4.5.
func (m *Model) MoveToTVOff(now time.Time) {
	m.tv = false
	m.CheckEventGen(now, true)
	m.clearViewership()
	_ = m.render(now)
}

// EnterInstallationMode implements spec §4.5's installation-mode entry.
// It reports whether the caller (the supervisor, which owns the display
// connection) should close the display port — true for non-bm3 devices.
func (m *Model) EnterInstallationMode(now time.Time) (closeDisplay bool) {
	m.inInstallationMode = true
	// Flush any pending debounced change before the sentinel edge, then
	// force an immediate acknowledgement (grounded on the original's two
	// checkEventGen(True) calls around clearViewership).
	m.CheckEventGen(now, true)
	m.clearViewership()
	m.CheckEventGen(now, true)
	return !m.isBM3
}

// ExitInstallationMode implements spec §4.5's installation-mode exit,
// called once the non-bm3 60s re-check/reconnect guard (owned by the
// supervisor) has passed.
func (m *Model) ExitInstallationMode() {
	m.inInstallationMode = false
	m.clearViewership()
	m.clearUserPresence()
}

// IsBM3 reports the device-class flag determined at startup.
func (m *Model) IsBM3() bool { return m.isBM3 }

// UpdatePairing applies a pairing-status edge transition (spec §4.5
// "Remote pairing"): on paired → unpaired, clear absence and guest
// registrations.
func (m *Model) UpdatePairing(paired bool) {
	if m.remotePaired && !paired {
		m.remotePaired = false
		m.clearUserPresence()
		return
	}
	if !m.remotePaired && paired {
		m.remotePaired = true
	}
}

// InNewAud reports whether the audience-session boundary has been
// crossed since cleared_aud was last recorded (spec §4.5).
// closeOffset is the local time-of-day (since local midnight) at which
// the daily session closes (config.Config.SessionCloseOffset).
func (m *Model) InNewAud(now time.Time, closeOffset time.Duration) bool {
	boundary := todayBoundary(now, closeOffset)
	if m.clearedAud == "" {
		return true
	}
	boundaryStr := boundary.Format(clearedAudLayout)
	if m.clearedAud == boundaryStr {
		return false
	}
	return now.After(boundary)
}

// OnNewAud implements spec §4.5's audience-session rollover: if the TV
// is off, clear guest registrations (emitting per-guest de-reg events)
// and record the new cleared_aud boundary.
func (m *Model) OnNewAud(now time.Time, closeOffset time.Duration) {
	if m.tv {
		return
	}
	m.CheckEventGen(now, true)
	m.clearGuestRegistrations()
	m.clearedAud = todayBoundary(now, closeOffset).Format(clearedAudLayout)
	if err := m.save(); err != nil {
		logging.Error().Err(err).Msg("viewership: save after audience rollover failed")
	}
}

// clearGuestRegistrations removes every registered guest's declaration
// token, emits the resulting declaration diff, emits one de-registration
// event per guest, and persists (spec §4.5, grounded on the original's
// clearGuestRegistration).
func (m *Model) clearGuestRegistrations() {
	cleared := append([]store.GuestEntry(nil), m.guestsRegistered...)
	for _, g := range m.guestsRegistered {
		m.viewersDeclared = removeToken(m.viewersDeclared, "G"+g.Position)
	}
	m.emitStateChangeEvents()
	for _, g := range cleared {
		m.emitGuestRegistration(g, false)
	}
	m.guestsRegistered = nil
	if err := m.save(); err != nil {
		logging.Error().Err(err).Msg("viewership: save during clearGuestRegistrations failed")
	}
}

const clearedAudLayout = "2006-01-02 15:04:05"

func todayBoundary(now time.Time, offset time.Duration) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.Add(offset)
}
