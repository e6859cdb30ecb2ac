// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewership

import (
	"sort"
	"time"

	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/logging"
	"github.com/tomtom215/audience-controller/internal/rc5"
	"github.com/tomtom215/audience-controller/internal/store"
)

// HandleKey implements the handleKey transition table of spec §4.5. The
// caller (internal/supervisor) is responsible for gating on IsValidKey
// first (spec §4.7 step 9).
func (m *Model) HandleKey(key rc5.Key, now time.Time) {
	if m.guestFlowState != GuestFlowNone {
		m.handleGuestFlowKey(key, now)
		return
	}

	switch {
	case rc5.IsMember(key):
		m.handleDeclarationKey(key, now)
	case rc5.IsGuest(key):
		m.handleGuestKeyOutsideFlow(key, now)
	case key == rc5.KeyGUEST:
		m.enterGuestFlow(now)
	case key == rc5.KeyINFO:
		_ = m.RefreshInfo(false, false, false, now, false)
	case key == rc5.KeyABS:
		m.markChanged(now)
		m.absent = !m.absent
		_ = m.render(now)
	case key == rc5.KeyOK:
		m.CheckEventGen(now, true)
		_ = m.render(now)
	case key == rc5.KeyINCB:
		m.adjustBrightness(display.Step, now)
	case key == rc5.KeyDECB:
		m.adjustBrightness(-display.Step, now)
	case key == rc5.KeyCANCEL:
		_ = m.ApplyIdleTimeout(now, true)
	}
	m.lastKnownKeyPress = key
}

// handleDeclarationKey toggles a registered member's declaration (spec
// §4.5 row "Member A..L").
func (m *Model) handleDeclarationKey(key rc5.Key, now time.Time) {
	token := string(key)
	if !containsToken(m.viewersRegistered, token) {
		return
	}
	m.viewersDeclared = toggleToken(m.viewersDeclared, token)
	_ = m.render(now)
	m.markChanged(now)
}

// handleGuestKeyOutsideFlow implements the two guest-key rows of spec
// §4.5: a declared guest toggles like a member key; an undeclared guest
// opens the sub-flow pre-filled at the chosen position (grounded on the
// original implementation's handleRegistration, which advances straight
// to the identity screen since the position is already known from the
// key itself).
func (m *Model) handleGuestKeyOutsideFlow(key rc5.Key, now time.Time) {
	position, _ := rc5.GuestPosition(key)
	if g := m.guestByPosition(position); g != nil {
		m.viewersDeclared = toggleToken(m.viewersDeclared, "G"+position)
		_ = m.render(now)
		m.markChanged(now)
		return
	}
	m.toBeRegisteredGuest = &store.GuestEntry{Position: position}
	m.guestFlowState = GuestFlowState3
	t := now
	m.grKeyPressTime = &t
	_ = m.render(now)
}

// enterGuestFlow opens the guest-registration sub-flow at the
// choose-position screen (spec §4.5 row "GUEST").
func (m *Model) enterGuestFlow(now time.Time) {
	m.guestFlowState = GuestFlowState2
	m.toBeRegisteredGuest = nil
	t := now
	m.grKeyPressTime = &t
	_ = m.render(now)
}

// handleGuestFlowKey dispatches a key press while the sub-flow is active.
func (m *Model) handleGuestFlowKey(key rc5.Key, now time.Time) {
	if key == rc5.KeyCANCEL {
		m.clearGuestFlow(now)
		return
	}

	switch m.guestFlowState {
	case GuestFlowState2:
		position, ok := rc5.GuestPosition(key)
		if !ok {
			return
		}
		if g := m.guestByPosition(position); g != nil {
			dup := *g
			m.toBeRegisteredGuest = &dup
		} else {
			m.toBeRegisteredGuest = &store.GuestEntry{Position: position}
		}
		m.guestFlowState = GuestFlowState3
		t := now
		m.grKeyPressTime = &t
		_ = m.render(now)

	case GuestFlowState3:
		switch {
		case key == rc5.KeyOK:
			m.commitGuestRegistration(now)
		case rc5.IsAgeSex(key):
			m.toBeRegisteredGuest.Identity = string(key)
			t := now
			m.grKeyPressTime = &t
			_ = m.render(now)
		}
	}
}

// commitGuestRegistration implements the "OK within sub-flow" row of
// spec §4.5, with the ordering guarantee of spec §5: guest-reg event,
// then declaration event, then persistence.
func (m *Model) commitGuestRegistration(now time.Time) {
	g := *m.toBeRegisteredGuest

	if existing := m.guestByPosition(g.Position); existing == nil {
		m.guestsRegistered = append(m.guestsRegistered, g)
	} else {
		existing.Identity = g.Identity
	}
	token := "G" + g.Position
	if !containsToken(m.viewersDeclared, token) {
		m.viewersDeclared = append(m.viewersDeclared, token)
		sort.Strings(m.viewersDeclared)
	}

	m.emitGuestRegistration(g, true)
	m.emitStateChangeEvents()
	if err := m.save(); err != nil {
		logging.Error().Err(err).Msg("viewership: save after guest registration commit failed")
	}
	m.clearGuestFlow(now)
}

// clearGuestFlow aborts the sub-flow with no state change and no event
// (spec §4.5 row "CANCEL in sub-flow"), or tidies up after a commit.
func (m *Model) clearGuestFlow(now time.Time) {
	m.toBeRegisteredGuest = nil
	m.grKeyPressTime = nil
	m.guestFlowState = GuestFlowNone
	_ = m.render(now)
}

// CheckGuestFlowTimeout aborts a stale sub-flow after GuestRegTimeout of
// keypress inactivity (spec §4.5 I6).
func (m *Model) CheckGuestFlowTimeout(now time.Time) {
	if m.guestFlowState == GuestFlowNone || m.grKeyPressTime == nil {
		return
	}
	if now.Sub(*m.grKeyPressTime) > GuestRegTimeout {
		m.clearGuestFlow(now)
	}
}

// adjustBrightness applies the INCB/DECB step, clamped (spec §4.5 row
// "INCB/DECB", I4).
func (m *Model) adjustBrightness(delta int, now time.Time) {
	m.brightness = display.ClampBrightness(m.brightness + delta)
	_ = m.renderer.SetBrightness(m.brightness)
}
