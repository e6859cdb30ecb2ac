// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the Controller's environment-variable configuration
// with Koanf v2 (github.com/knadh/koanf/v2 + providers/env), the same
// layered-config library the rest of the audience-measurement stack uses,
// here in its simplest single-source (env-only) form: the Controller has no
// config file and no signal-triggered reload (spec §1 Non-goals).
//
// # Quick Start
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("config load failed")
//	}
//
// # Required Environment Variables
//
//	PUSH_ADDR                   - unix datagram socket path for event emission
//	AUDIENCE_SESSION_CLOSE_TIME - "HH:MM:SS" UTC daily audience-session boundary
//
// # Optional
//
//	VERBOSE                - "0" or "1" (default "0")
//	INSTALLATION_MODE_FILE  - sentinel file path (default /run/installation_mode)
//	DISPLAY_DEVICE          - LCD/remote-receiver serial device (default /dev/ttyACM0)
//	STORE_PATH              - BadgerDB state directory (default /var/lib/audience-controller/state)
package config
