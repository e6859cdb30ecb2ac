// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// localShift is the fixed offset applied to AUDIENCE_SESSION_CLOSE_TIME
// (read as UTC) to obtain the local audience-session boundary. The meter
// fleet this Controller runs on is deployed in a single timezone, so the
// shift is a constant rather than a zone lookup.
const localShift = 5*time.Hour + 30*time.Minute

// DefaultInstallationModeFile is the sentinel path checked for installation
// mode (spec §6).
const DefaultInstallationModeFile = "/run/installation_mode"

// DefaultDisplayDevice is the display/remote serial device path opened at
// startup when DISPLAY_DEVICE is unset.
const DefaultDisplayDevice = "/dev/ttyACM0"

// DefaultStorePath is the BadgerDB directory used when STORE_PATH is unset.
const DefaultStorePath = "/var/lib/audience-controller/state"

// Config holds the Controller's environment-derived configuration.
//
// Thread Safety: Config is immutable after Load() and safe for concurrent
// read access.
type Config struct {
	// PushAddr is the filesystem path of the event datagram socket.
	// Required; missing PUSH_ADDR is a fatal startup error (spec §6).
	PushAddr string `koanf:"push_addr"`

	// AudienceSessionCloseTime is "HH:MM:SS" UTC (spec §6).
	AudienceSessionCloseTime string `koanf:"audience_session_close_time"`

	// Verbose gates textual logging (spec §6). VERBOSE=1 enables debug logs.
	Verbose bool `koanf:"verbose"`

	// InstallationModeFile is the sentinel file path (spec §6).
	InstallationModeFile string `koanf:"installation_mode_file"`

	// DisplayDevice is the serial device path for the LCD/remote-receiver
	// unit (spec §1, §6: the wire protocol itself is out of scope).
	DisplayDevice string `koanf:"display_device"`

	// StorePath is the BadgerDB directory for persisted viewership state
	// (spec §4.2).
	StorePath string `koanf:"store_path"`
}

func defaultConfig() *Config {
	return &Config{
		InstallationModeFile: DefaultInstallationModeFile,
		DisplayDevice:        DefaultDisplayDevice,
		StorePath:            DefaultStorePath,
	}
}

// Load reads configuration from the process environment using Koanf's env
// provider. Environment variable names map directly to koanf keys by
// lowercasing (PUSH_ADDR -> push_addr); there is no nesting and no config
// file (spec §1 Non-goals: no configuration reload on signal).
func Load() (*Config, error) {
	k := koanf.New(".")

	cfg := defaultConfig()

	envProvider := env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	// A variable that is set but empty counts as unset.
	if cfg.InstallationModeFile == "" {
		cfg.InstallationModeFile = DefaultInstallationModeFile
	}
	if cfg.DisplayDevice == "" {
		cfg.DisplayDevice = DefaultDisplayDevice
	}
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultStorePath
	}

	// koanf's env provider does not know bool/string distinctions for a
	// plain "0"/"1" value, so VERBOSE is read and coerced explicitly.
	if v := k.String("verbose"); v != "" {
		cfg.Verbose = v == "1"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PushAddr == "" {
		return fmt.Errorf("config: PUSH_ADDR is required")
	}
	if c.AudienceSessionCloseTime == "" {
		return fmt.Errorf("config: AUDIENCE_SESSION_CLOSE_TIME is required")
	}
	if _, err := c.SessionCloseOffset(); err != nil {
		return fmt.Errorf("config: AUDIENCE_SESSION_CLOSE_TIME: %w", err)
	}
	return nil
}

// SessionCloseOffset parses AudienceSessionCloseTime ("HH:MM:SS", UTC) and
// shifts it by +5:30 to obtain the local audience-session boundary, expressed
// as an offset from local midnight (spec §4.5, §6).
func (c *Config) SessionCloseOffset() (time.Duration, error) {
	parts := strings.Split(c.AudienceSessionCloseTime, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", c.AudienceSessionCloseTime)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}
	s, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid second: %w", err)
	}
	utcOffset := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
	local := (utcOffset + localShift) % (24 * time.Hour)
	return local, nil
}
