// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the Controller's zerolog-based structured
// logging, plus an slog.Handler adapter for sutureslog.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("key", "A").Msg("member declared")
//	logging.Error().Err(err).Msg("display write failed")
//
// # Configuration
//
// cmd/controller sets Level from VERBOSE as read by config.Load(): "1"
// maps to debug, anything else to info. Format is always console — the
// meter is normally observed over a serial console, not harvested as
// JSON, so there is no JSON-vs-console decision to make at runtime.
//
// # slog Adapter
//
// supervisor.NewTree takes an *slog.Logger for sutureslog's event hook;
// NewSlogLogger backs it with the same global zerolog logger everything
// else logs through:
//
//	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
package logging
