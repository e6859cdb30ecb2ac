// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rc5 implements the RC5-Plus 16-bit infrared frame codec and the
// closed symbolic keymap of spec §3 and §4.1.
//
// A word is laid out as:
//
//	1 1 T A4 A3 A2 A1 A0 C5 C4 C3 C2 C1 C0 1 1
//
// Parse validates the framing bits and extracts the 6-bit command and the
// toggle bit; address bits are ignored by policy (spec §4.1). Decoder wraps
// Parse with the toggle/command debounce rule: holding a key emits exactly
// one press, and a repeated tap of the same key requires the toggle bit to
// flip.
package rc5
