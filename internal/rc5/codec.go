// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package rc5

import (
	"errors"
	"fmt"
)

// ErrInvalidFrame names the InvalidRC5 condition of spec §7: the framing
// bits of a 16-bit word did not match the fixed RC5-Plus pattern.
var ErrInvalidFrame = errors.New("rc5: invalid frame")

// frameMask isolates the four fixed framing bits: two leading "1 1" bits
// and the two trailing "1 1" bits of the 16-bit word.
const frameMask = 0xC003

// Parse validates the framing bits of a 16-bit RC5-Plus word and extracts
// the 6-bit command and the toggle bit (spec §4.1). Address bits are
// ignored by policy.
func Parse(word uint16) (cmd uint8, toggle uint8, err error) {
	if word&frameMask != frameMask {
		return 0, 0, fmt.Errorf("%w: word %#04x", ErrInvalidFrame, word)
	}
	cmd = uint8((word >> 2) & 0x3F)
	toggle = uint8((word >> 13) & 0x1)
	return cmd, toggle, nil
}

// Decoder turns RC5-Plus words into debounced symbolic keys (spec §4.1).
//
// It is not safe for concurrent use; the supervisor loop that owns it is
// single-threaded (spec §5).
type Decoder struct {
	hasLast    bool
	lastToggle uint8
	lastCmd    uint8
}

// NewDecoder returns a Decoder with no prior accepted press.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Detect parses word and applies the toggle/command debounce rule: a new
// symbolic key is emitted only when either the toggle bit changed or the
// command changed versus the last accepted (toggle, cmd) pair. Holding a
// key down therefore emits exactly one press; tapping the same key twice
// requires the remote to flip the toggle bit.
//
// Detect returns (key, true, nil) on a fresh accepted press, (zero, false,
// nil) on a debounced repeat or an unmapped-but-valid command, and
// (zero, false, err) when the frame fails validation — callers must flush
// the device's input buffer on that error (spec §7).
func (d *Decoder) Detect(word uint16) (Key, bool, error) {
	cmd, toggle, err := Parse(word)
	if err != nil {
		return "", false, err
	}

	if d.hasLast && d.lastToggle == toggle && d.lastCmd == cmd {
		return "", false, nil
	}
	d.hasLast = true
	d.lastToggle = toggle
	d.lastCmd = cmd

	key, known := NumToKey[cmd]
	if !known {
		return "", false, nil
	}
	return key, true, nil
}
