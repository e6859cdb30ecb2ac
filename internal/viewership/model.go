// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewership

import (
	"sort"
	"time"

	"github.com/tomtom215/audience-controller/internal/display"
	"github.com/tomtom215/audience-controller/internal/events"
	"github.com/tomtom215/audience-controller/internal/logging"
	"github.com/tomtom215/audience-controller/internal/rc5"
	"github.com/tomtom215/audience-controller/internal/store"
)

// GuestFlowState identifies which screen of the guest-registration
// sub-flow is active, or that no sub-flow is running (spec §4.4(b),
// §4.5 I6).
type GuestFlowState int

const (
	GuestFlowNone GuestFlowState = iota
	// GuestFlowState2 is the choose-position screen.
	GuestFlowState2
	// GuestFlowState3 is the choose-identity screen.
	GuestFlowState3
)

// GuestRegTimeout is the sub-flow inactivity timeout (spec §4.5 I6).
const GuestRegTimeout = 20 * time.Second

// DebounceWindow is the debounced-commit window (spec §4.5).
const DebounceWindow = 20 * time.Second

// Notifier sends the post-save D-Bus notification (spec §4.6). It is
// satisfied by platform.Platform; Model only needs this one method.
type Notifier interface {
	Notify() error
}

// Model is the owning record of the viewership state machine: persisted
// fields (spec §3 ViewershipState) plus the transients the supervisor
// loop and key handlers need, composed with the persistence, emission,
// and render handles it mutates through.
type Model struct {
	store    *store.Store
	emitter  *events.Emitter
	renderer *display.Renderer
	notifier Notifier

	// Persisted fields (spec §3).
	viewersDeclared     []string
	viewersRegistered   []string
	guestsRegistered    []store.GuestEntry
	absent              bool
	clearedAud          string
	tv                  bool
	brightness          int
	inInstallationMode  bool
	remotePaired        bool

	// Transients (spec §3).
	toBeRegisteredGuest *store.GuestEntry
	grKeyPressTime      *time.Time
	guestFlowState      GuestFlowState
	stateChangedAt      *time.Time
	lastKnownKeyPress   rc5.Key

	// Dedup shadow (spec §3 last_comm_state).
	lastCommDeclared []string
	lastCommAbsent   bool

	isBM3 bool
}

// New constructs a Model from its dependencies. Call Load to populate
// state from the persistent store before use.
func New(st *store.Store, em *events.Emitter, r *display.Renderer, notifier Notifier, registeredMembers []string, isBM3 bool) *Model {
	m := &Model{
		store:             st,
		emitter:           em,
		renderer:          r,
		notifier:          notifier,
		viewersRegistered: append([]string(nil), registeredMembers...),
		brightness:        display.MaxBrightness,
		isBM3:             isBM3,
	}
	return m
}

// Load populates Model from the persistent store (spec §4.6).
func (m *Model) Load() error {
	row, err := m.store.Load()
	if err != nil {
		return err
	}
	m.viewersDeclared = append([]string(nil), row.DeclaredViewers...)
	m.tv = row.LastKnownTVState
	m.guestsRegistered = append([]store.GuestEntry(nil), row.GuestsRegistered...)
	m.clearedAud = row.ClearedForAud
	m.absent = row.Absent
	if row.BrightnessLevel > 0 {
		m.brightness = display.ClampBrightness(row.BrightnessLevel)
	}
	m.inInstallationMode = row.InInstallationMode
	sort.Strings(m.viewersDeclared)
	return nil
}

// save persists all seven rows atomically (spec §4.6) and triggers the
// D-Bus notification, then clears state_changed_at.
func (m *Model) save() error {
	row := &store.Row{
		DeclaredViewers:    append([]string(nil), m.viewersDeclared...),
		LastKnownTVState:   m.tv,
		GuestsRegistered:   append([]store.GuestEntry(nil), m.guestsRegistered...),
		ClearedForAud:      m.clearedAud,
		Absent:             m.absent,
		BrightnessLevel:    m.brightness,
		InInstallationMode: m.inInstallationMode,
	}
	if err := m.store.Save(row); err != nil {
		logging.Error().Err(err).Msg("viewership: save failed")
		return err
	}
	m.stateChangedAt = nil
	if m.notifier != nil {
		if err := m.notifier.Notify(); err != nil {
			logging.Warn().Err(err).Msg("viewership: post-save notify failed")
		}
	}
	return nil
}

// IsValidKey reports whether key produces handler effects in the current
// TV power state (spec §4.5 I7).
func (m *Model) IsValidKey(key rc5.Key) bool {
	if m.tv {
		return true
	}
	switch key {
	case rc5.KeyINFO, rc5.KeyABS, rc5.KeyINCB, rc5.KeyDECB, rc5.KeyCANCEL:
		return true
	default:
		return false
	}
}

// Declared reports the current declaration set, sorted (spec I1).
func (m *Model) Declared() []string { return append([]string(nil), m.viewersDeclared...) }

// Absent reports the current absence flag.
func (m *Model) Absent() bool { return m.absent }

// TV reports the last-known TV power state.
func (m *Model) TV() bool { return m.tv }

// Brightness reports the current brightness level.
func (m *Model) Brightness() int { return m.brightness }

// InInstallationMode reports installation-mode state.
func (m *Model) InInstallationMode() bool { return m.inInstallationMode }

// RemotePaired reports remote-pairing state.
func (m *Model) RemotePaired() bool { return m.remotePaired }

// HasRegisteredMembers reports whether any members are registered (spec
// §4.7 step 8).
func (m *Model) HasRegisteredMembers() bool { return len(m.viewersRegistered) > 0 }

// DisplayIdle reports whether the display currently has no recorded
// display_on_time (spec §4.7 step 8: "display is idle").
func (m *Model) DisplayIdle() bool { return m.renderer.DisplayOnTime() == nil }

// SetDisplayPort swaps the underlying display Port, for installation-mode
// close/reopen cycles owned by the supervisor.
func (m *Model) SetDisplayPort(port display.Port) {
	m.renderer.SetPort(port)
}

// SetRegisteredMembers replaces the registered-member roster (spec §4.5:
// re-read from get_config on installation-mode exit).
func (m *Model) SetRegisteredMembers(members []string) {
	m.viewersRegistered = append([]string(nil), members...)
}

// LastKnownKeyPress reports the most recently dispatched key.
func (m *Model) LastKnownKeyPress() rc5.Key { return m.lastKnownKeyPress }

// GuestFlowActive reports whether a guest-registration sub-flow is running.
func (m *Model) GuestFlowActive() bool { return m.guestFlowState != GuestFlowNone }

func (m *Model) guestByPosition(position string) *store.GuestEntry {
	for i := range m.guestsRegistered {
		if m.guestsRegistered[i].Position == position {
			return &m.guestsRegistered[i]
		}
	}
	return nil
}

func (m *Model) markChanged(now time.Time) {
	if m.stateChangedAt == nil {
		t := now
		m.stateChangedAt = &t
	}
}

func toggleToken(tokens []string, token string) []string {
	for i, t := range tokens {
		if t == token {
			return append(append([]string(nil), tokens[:i]...), tokens[i+1:]...)
		}
	}
	out := append(append([]string(nil), tokens...), token)
	sort.Strings(out)
	return out
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

func removeToken(tokens []string, token string) []string {
	for i, t := range tokens {
		if t == token {
			return append(append([]string(nil), tokens[:i]...), tokens[i+1:]...)
		}
	}
	return tokens
}
