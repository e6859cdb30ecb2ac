// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package platform

import "strconv"

// Platform is the OS/device capability surface of spec §6 and DESIGN
// NOTES §9. All probe methods are infallible from the caller's point of
// view: implementations absorb subprocess/file-probe failures and answer
// with the last-known-good or a documented default (spec §7). Notify is
// the one method that returns its error.
type Platform interface {
	// TVStatus reports the TV's current power state. Prefers
	// derived_tv_status if present on PATH, else tv_status (spec §6).
	TVStatus() bool

	// MeterID returns this meter's numeric identifier (meter_id).
	MeterID() int64

	// RemoteID returns the REMOTE_ID configured for this meter.
	RemoteID() string

	// RegisteredMembers returns the registered member-key subset (A..L),
	// sourced from get_config.
	RegisteredMembers() []string

	// SentinelPresent reports whether the installation-mode sentinel file
	// exists, and its content if so (spec §6 /run/installation_mode).
	SentinelPresent() (present bool, content string)

	// UploaderConnected reports liveness of the uploader process via the
	// /run/uploader_connected file test.
	UploaderConnected() bool

	// WatermarkOK reports whether watermark scores (/run/wm_scores)
	// indicate a healthy signal.
	WatermarkOK() bool

	// SIMOK reports current-SIM status health.
	SIMOK() bool

	// Buzz fires a short audible prompt ("buzz 4 &").
	Buzz()

	// Notify sends the post-save D-Bus notification.
	Notify() error
}

// IsBM3 reports whether meterID falls in the bm3 device-class range
// (spec §4.5, §9: 30_000_000 <= meter_id < 40_000_000).
func IsBM3(meterID int64) bool {
	return meterID >= 30_000_000 && meterID < 40_000_000
}

// IsPaired reports remote-pairing per spec §4.5: in installation mode the
// sentinel content of "with-display-remote" pairs the device; otherwise
// pairing requires remoteID == meterID (as a decimal string) and nonzero.
func IsPaired(inInstallationMode bool, sentinelContent string, remoteID string, meterID int64) bool {
	if inInstallationMode {
		return sentinelContent == "with-display-remote"
	}
	if meterID == 0 {
		return false
	}
	return remoteID != "" && remoteIDMatchesMeter(remoteID, meterID)
}

func remoteIDMatchesMeter(remoteID string, meterID int64) bool {
	return remoteID == strconv.FormatInt(meterID, 10)
}
