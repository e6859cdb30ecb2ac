// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewership

import (
	"strconv"
	"time"

	"github.com/tomtom215/audience-controller/internal/events"
	"github.com/tomtom215/audience-controller/internal/logging"
	"github.com/tomtom215/audience-controller/internal/store"
)

// emitGuestRegistration sends a guest-registration (or de-registration)
// event unconditionally — it is never deduplicated against last_comm_state
// (spec §4.3).
func (m *Model) emitGuestRegistration(g store.GuestEntry, registering bool) {
	age, male := decodeIdentity(g.Identity)
	pos, err := strconv.Atoi(g.Position)
	if err != nil {
		logging.Error().Err(err).Str("position", g.Position).Msg("viewership: invalid guest position")
		return
	}
	payload, err := events.EncodeGuestRegistration(events.GuestRegistrationPayload{
		GuestID:     pos - 1,
		Registering: registering,
		GuestAge:    age,
		GuestMale:   male,
	})
	if err != nil {
		logging.Error().Err(err).Msg("viewership: encode guest registration event failed")
		return
	}
	if err := m.emitter.Send(payload); err != nil {
		logging.Warn().Err(err).Msg("viewership: send guest registration event failed")
	}
}

// decodeIdentity splits a two-character identity token ([M|F][1-5]) into
// an age-group index and a sex flag.
func decodeIdentity(identity string) (age int, male bool) {
	if len(identity) != 2 {
		return 0, false
	}
	male = identity[0] == 'M'
	age, _ = strconv.Atoi(identity[1:])
	return age, male
}

// emitStateChangeEvents emits the declaration and remote-activity events
// when, and only when, they differ from last_comm_state (spec §3, §8 P5).
// last_comm_state is updated only after a successful send, so a failed
// send is retried on the next change (spec §5, §7).
func (m *Model) emitStateChangeEvents() {
	if !stringSlicesEqual(m.viewersDeclared, m.lastCommDeclared) {
		var memberKeys [12]bool
		var guestKeys [5]bool
		for _, tok := range m.viewersDeclared {
			if len(tok) == 1 {
				memberKeys[tok[0]-'A'] = true
			} else if len(tok) == 2 {
				if n, err := strconv.Atoi(tok[1:]); err == nil && n >= 1 && n <= 5 {
					guestKeys[n-1] = true
				}
			}
		}
		payload, err := events.EncodeDeclaration(events.DeclarationPayload{
			MemberKeys: memberKeys,
			Guests:     guestKeys,
			Confidence: 100,
		})
		if err != nil {
			logging.Error().Err(err).Msg("viewership: encode declaration event failed")
		} else if err := m.emitter.Send(payload); err != nil {
			logging.Warn().Err(err).Msg("viewership: send declaration event failed")
		} else {
			m.lastCommDeclared = append([]string(nil), m.viewersDeclared...)
		}
	}

	if m.absent != m.lastCommAbsent {
		payload, err := events.EncodeRemoteActivity(events.RemoteActivityPayload{
			Lock:           false,
			ORR:            false,
			AbsentKeyPress: m.absent,
			Drop:           false,
		})
		if err != nil {
			logging.Error().Err(err).Msg("viewership: encode remote activity event failed")
		} else if err := m.emitter.Send(payload); err != nil {
			logging.Warn().Err(err).Msg("viewership: send remote activity event failed")
		} else {
			m.lastCommAbsent = m.absent
		}
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CheckEventGen implements the debounced-commit rule (spec §4.5): when
// force is set, or state_changed_at is set and has aged past
// DebounceWindow, persist and then emit.
func (m *Model) CheckEventGen(now time.Time, force bool) {
	due := force || (m.stateChangedAt != nil && now.Sub(*m.stateChangedAt) > DebounceWindow)
	if !due {
		return
	}
	if err := m.save(); err != nil {
		return
	}
	m.emitStateChangeEvents()
}
