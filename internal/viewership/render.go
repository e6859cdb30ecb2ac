// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewership

import (
	"time"

	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/rc5"
)

// render composes and sends the current screen (declaration, or one of
// the guest-registration sub-screens), per spec §4.4. A non-info render
// clears last_known_key_press if it was INFO, ending info auto-refresh
// (spec §4.4: "To disable the refreshInfo routine").
func (m *Model) render(now time.Time) error {
	var top, bottom string
	switch m.guestFlowState {
	case GuestFlowState2:
		top, bottom = display.RenderGuestRegState2(m.guestPositionsOccupied())
	case GuestFlowState3:
		top, bottom = display.RenderGuestRegState3(m.toBeRegisteredPosition(), m.toBeRegisteredAgeGroup(), m.toBeRegisteredSex())
	default:
		top, bottom = display.RenderDeclaration(m.declarationView())
	}
	if err := m.renderer.Render(top, bottom, m.brightness, now); err != nil {
		return err
	}
	if m.lastKnownKeyPress == rc5.KeyINFO {
		m.lastKnownKeyPress = ""
	}
	return nil
}

// Refresh re-renders the currently active screen, for use by the
// supervisor after a screen-affecting transition that happened outside
// Model (spec §4.5: re-render on installation-mode exit when paired).
func (m *Model) Refresh(now time.Time) error {
	return m.render(now)
}

// RefreshInfo composes and sends the info-mode screen (spec §4.4(c)),
// using the already-probed environment status the supervisor passes in
// (Environment Probes, C4). auto distinguishes the 5s auto-refresh
// cadence from an explicit INFO keypress.
func (m *Model) RefreshInfo(watermarkOK, simOK, uploaderConnected bool, now time.Time, auto bool) error {
	top, bottom := display.RenderInfo(watermarkOK, simOK, uploaderConnected, m.tv)
	if auto {
		return m.renderer.RenderInfoAutoRefresh(top, bottom, m.brightness, now)
	}
	if err := m.renderer.Render(top, bottom, m.brightness, now); err != nil {
		return err
	}
	m.lastKnownKeyPress = rc5.KeyINFO
	return nil
}

// InfoRefreshDue reports whether the info auto-refresh is both active
// (last key press was INFO) and due (spec §4.4 INFO_REFRESH_TIMEOUT).
func (m *Model) InfoRefreshDue(now time.Time) bool {
	return m.lastKnownKeyPress == rc5.KeyINFO && m.renderer.InfoRefreshDue(now)
}

// ApplyIdleTimeout applies the display idle timeout (spec §4.4) and
// clears last_known_key_press if a reset occurred.
func (m *Model) ApplyIdleTimeout(now time.Time, force bool) error {
	reset, err := m.renderer.CheckIdleTimeout(now, m.tv, force)
	if err != nil {
		return err
	}
	if reset {
		m.lastKnownKeyPress = ""
	}
	return nil
}

func (m *Model) declarationView() display.DeclarationView {
	var v display.DeclarationView
	for i, key := range rc5.MemberKeys {
		registered := containsToken(m.viewersRegistered, string(key))
		v.Registered[i] = registered
		v.Declared[i] = registered && containsToken(m.viewersDeclared, string(key))
	}
	for i := 1; i <= 5; i++ {
		pos := positionString(i)
		g := m.guestByPosition(pos)
		v.GuestRegistered[i-1] = g != nil
		v.GuestDeclared[i-1] = g != nil && containsToken(m.viewersDeclared, "G"+pos)
	}
	v.Absent = m.absent
	return v
}

func (m *Model) guestPositionsOccupied() [5]bool {
	var occupied [5]bool
	for i := 1; i <= 5; i++ {
		occupied[i-1] = m.guestByPosition(positionString(i)) != nil
	}
	return occupied
}

func (m *Model) toBeRegisteredPosition() string {
	if m.toBeRegisteredGuest == nil {
		return ""
	}
	return m.toBeRegisteredGuest.Position
}

func (m *Model) toBeRegisteredAgeGroup() string {
	if m.toBeRegisteredGuest == nil || len(m.toBeRegisteredGuest.Identity) != 2 {
		return ""
	}
	return m.toBeRegisteredGuest.Identity[1:]
}

func (m *Model) toBeRegisteredSex() string {
	if m.toBeRegisteredGuest == nil || len(m.toBeRegisteredGuest.Identity) != 2 {
		return ""
	}
	return m.toBeRegisteredGuest.Identity[:1]
}

func positionString(i int) string {
	return string(rune('0' + i))
}
