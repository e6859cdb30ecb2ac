// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Type is the event-type integer of spec §4.3.
type Type int

const (
	// TypeGuestRegistration is a guest registration or de-registration
	// event, emitted immediately on guest confirmation and once per guest
	// on clearGuestRegistration.
	TypeGuestRegistration Type = 2

	// TypeDeclaration is a member/guest declaration snapshot, emitted only
	// when it differs from the last-sent snapshot.
	TypeDeclaration Type = 3

	// TypeRemoteActivity reports remote/absence activity, emitted only
	// when it differs from the last-sent snapshot.
	TypeRemoteActivity Type = 25
)

// Version is the wire version prefixed to every event (spec §4.3).
const Version = 1

// GuestRegistrationPayload is the type-2 payload (spec §4.3 table).
type GuestRegistrationPayload struct {
	GuestID     int  `cbor:"1,keyasint"`
	Registering bool `cbor:"2,keyasint"`
	GuestAge    int  `cbor:"3,keyasint"`
	GuestMale   bool `cbor:"4,keyasint"`
}

// DeclarationPayload is the type-3 payload (spec §4.3 table).
type DeclarationPayload struct {
	MemberKeys [12]bool `cbor:"1,keyasint"`
	Guests     [5]bool  `cbor:"2,keyasint"`
	Confidence int      `cbor:"3,keyasint"`
}

// RemoteActivityPayload is the type-25 payload (spec §4.3 table).
type RemoteActivityPayload struct {
	Lock           bool `cbor:"1,keyasint"`
	ORR            bool `cbor:"2,keyasint"`
	AbsentKeyPress bool `cbor:"3,keyasint"`
	Drop           bool `cbor:"4,keyasint"`
}

// encode concatenates the three self-delimiting CBOR values: version,
// event type, and payload.
func encode(eventType Type, payload interface{}) ([]byte, error) {
	versionBytes, err := cbor.Marshal(Version)
	if err != nil {
		return nil, fmt.Errorf("events: encode version: %w", err)
	}
	typeBytes, err := cbor.Marshal(int(eventType))
	if err != nil {
		return nil, fmt.Errorf("events: encode type: %w", err)
	}
	payloadBytes, err := cbor.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode payload: %w", err)
	}

	out := make([]byte, 0, len(versionBytes)+len(typeBytes)+len(payloadBytes))
	out = append(out, versionBytes...)
	out = append(out, typeBytes...)
	out = append(out, payloadBytes...)
	return out, nil
}

// EncodeGuestRegistration encodes a type-2 event.
func EncodeGuestRegistration(p GuestRegistrationPayload) ([]byte, error) {
	return encode(TypeGuestRegistration, p)
}

// EncodeDeclaration encodes a type-3 event.
func EncodeDeclaration(p DeclarationPayload) ([]byte, error) {
	return encode(TypeDeclaration, p)
}

// EncodeRemoteActivity encodes a type-25 event.
func EncodeRemoteActivity(p RemoteActivityPayload) ([]byte, error) {
	return encode(TypeRemoteActivity, p)
}
