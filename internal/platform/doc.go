// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package platform abstracts the OS-side probes and side effects of spec §6
// behind a small capability interface, following DESIGN NOTES §9
// ("Subprocess-based OS probes ... Abstract behind a Platform capability
// interface"). This makes the Controller's state machine deterministically
// testable by substituting Fake for Exec.
//
// Exec shells out to the meter's OS helpers (meter_id, get_config,
// tv_status/derived_tv_status, buzz, dbus-send, and file probes under
// /run) exactly as spec §6 lists them; every probe failure is caught and
// answered with the documented default rather than propagated, per spec §7
// ("Subprocess failure: exception-local").
package platform
