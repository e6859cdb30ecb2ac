// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events encodes and transmits the measurement events of spec §4.3
// over a Unix datagram socket to the upstream uploader.
//
// Each event on the wire is the concatenation of three independently
// CBOR-encoded values (github.com/fxamacker/cbor/v2): a version integer
// (always 1), an event-type integer, and a payload map keyed by small
// integers. CBOR was picked over JSON because it is self-delimiting by
// construction — exactly the "three concatenated self-delimiting compact
// binary values" the wire format calls for — so a reader can decode the
// three values off the same byte stream with three successive Unmarshal
// calls and no length prefixes.
//
// Emitter opens a fresh connection per send and closes it immediately
// (spec §4.3, §5: "no pooling"); a send failure is returned to the caller,
// who is responsible for not advancing any "last sent" shadow state so the
// next state change re-emits (spec §7).
package events
