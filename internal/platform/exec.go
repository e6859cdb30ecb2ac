// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package platform

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/tomtom215/audience-controller/internal/logging"
)

// Exec is the real Platform implementation, shelling out to the OS helpers
// of spec §6. Every probe absorbs its own failure and falls back to the
// last-known-good value (spec §7: "Subprocess failure ... status defaults
// to the last good value").
type Exec struct {
	sentinelPath string

	mu           sync.Mutex
	lastTV       bool
	lastMeterID  int64
	lastRoster   []string
	lastRemoteID string
	lastWM       bool
	lastSIM      bool
}

// NewExec returns an Exec probing the given installation-mode sentinel path.
func NewExec(sentinelPath string) *Exec {
	return &Exec{sentinelPath: sentinelPath}
}

// TVStatus prefers derived_tv_status if present on PATH, else tv_status.
func (e *Exec) TVStatus() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd := "tv_status"
	if _, err := exec.LookPath("derived_tv_status"); err == nil {
		cmd = "derived_tv_status"
	}
	out, err := exec.Command(cmd).Output()
	if err != nil {
		logging.Warn().Err(err).Str("cmd", cmd).Msg("tv status probe failed, using last known")
		return e.lastTV
	}
	e.lastTV = strings.TrimSpace(string(out)) == "1"
	return e.lastTV
}

// MeterID runs meter_id and parses its numeric output.
func (e *Exec) MeterID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := exec.Command("meter_id").Output()
	if err != nil {
		logging.Warn().Err(err).Msg("meter_id probe failed, using last known")
		return e.lastMeterID
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		logging.Warn().Err(err).Msg("meter_id output unparseable, using last known")
		return e.lastMeterID
	}
	e.lastMeterID = id
	return id
}

// RemoteID runs get_config REMOTE_ID, the same OS-helper family
// RegisteredMembers uses (spec §6 get_config KEY; the original's
// is_remote_associated() shells out the same way rather than reading an
// environment variable).
func (e *Exec) RemoteID() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := exec.Command("get_config", "REMOTE_ID").Output()
	if err != nil {
		logging.Warn().Err(err).Msg("get_config REMOTE_ID probe failed, using last known")
		return e.lastRemoteID
	}
	e.lastRemoteID = strings.TrimSpace(string(out))
	return e.lastRemoteID
}

// RegisteredMembers runs get_config REGISTERED_MEMBERS and splits its
// comma-separated output. An empty result while the installation-mode
// sentinel is present falls back to the full A..L roster, matching the
// original's defaultRegMembers(): a freshly-installed meter has no
// configured roster yet, and the installer needs every member key live
// to exercise the declaration grid.
func (e *Exec) RegisteredMembers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := exec.Command("get_config", "REGISTERED_MEMBERS").Output()
	if err != nil {
		logging.Warn().Err(err).Msg("get_config probe failed, using last known roster")
		return e.lastRoster
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		if present, _ := e.SentinelPresent(); present {
			e.lastRoster = defaultRegisteredMembers()
			return e.lastRoster
		}
		e.lastRoster = nil
		return nil
	}

	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ' '
	})
	e.lastRoster = fields
	return fields
}

// defaultRegisteredMembers returns the full A..L roster.
func defaultRegisteredMembers() []string {
	members := make([]string, 12)
	for i := range members {
		members[i] = string(rune('A' + i))
	}
	return members
}

// SentinelPresent stats and reads the installation-mode sentinel file.
func (e *Exec) SentinelPresent() (bool, string) {
	data, err := os.ReadFile(e.sentinelPath)
	if err != nil {
		return false, ""
	}
	return true, strings.TrimSpace(string(data))
}

// UploaderConnected tests for /run/uploader_connected.
func (e *Exec) UploaderConnected() bool {
	_, err := os.Stat("/run/uploader_connected")
	return err == nil
}

// WatermarkOK reads /run/wm_scores.
func (e *Exec) WatermarkOK() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := os.ReadFile("/run/wm_scores")
	if err != nil {
		return e.lastWM
	}
	e.lastWM = strings.TrimSpace(string(data)) != "0"
	return e.lastWM
}

// SIMOK reads the current SIM slot's status file.
func (e *Exec) SIMOK() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, err := os.ReadFile("/run/current-sim")
	if err != nil {
		return e.lastSIM
	}
	data, err := os.ReadFile("/run/SIM_" + strings.TrimSpace(string(slot)) + "_status")
	if err != nil {
		return e.lastSIM
	}
	e.lastSIM = strings.TrimSpace(string(data)) == "1"
	return e.lastSIM
}

// Buzz fires a short audible prompt, backgrounded like the shell's
// "buzz 4 &" so it never blocks the supervisor loop.
func (e *Exec) Buzz() {
	cmd := exec.Command("buzz", "4")
	if err := cmd.Start(); err != nil {
		logging.Warn().Err(err).Msg("buzz probe failed")
		return
	}
	go func() { _ = cmd.Wait() }()
}

// Notify sends the post-save D-Bus notification.
func (e *Exec) Notify() error {
	return exec.Command("dbus-send", "--system", "--type=signal",
		"/com/meter/Controller", "com.meter.Controller.StateSaved").Run()
}
