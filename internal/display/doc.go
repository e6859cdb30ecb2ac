// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package display composes the Controller's two 12-character display rows
// (spec §4.4) from view models handed to it by the state core, and drives
// the physical display through the Port interface. The LCD driver
// primitives themselves (Send, Clear, SetBrightness, ReadRemoteCmd, Flush,
// per-character highlight) are deliberately out of scope (spec §1) and
// therefore live behind Port as external collaborators, following the
// teacher pack's hd44780.LCD interface shape (periph.io device package):
// a small method set the renderer calls, with no display-specific
// behavior tangled into the composition logic.
//
// Connect wraps physical (re)connection in a gobreaker circuit breaker
// with the 5s/10s backoff of spec §7, and gives USB ID (0x2047, 0xf003)
// displays the 15s post-connect settle window spec §6 calls for.
package display
