// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewership holds and mutates the Controller's viewership state
// machine (spec §3, §4.5): member declaration, guest registration, absence,
// audience-session rollover, installation mode, the TV on/off machine, and
// remote pairing. Model is the single owning record DESIGN NOTES §9 calls
// for in place of the original's Guest → State → Remote → DisplayHandler
// inheritance chain: one struct composed of a persistence handle (internal/
// store), an emission handle (internal/events), and a renderer handle
// (internal/display), plus the mutable state itself.
//
// Model is not safe for concurrent use — the single-threaded supervisor
// loop (internal/supervisor) is its only caller, exactly as spec §5
// describes ("single-threaded, cooperative, poll-driven. No concurrent
// mutators exist; no locks are required on State").
package viewership
