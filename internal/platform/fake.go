// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package platform

// Fake is a deterministic, in-memory Platform for tests, following the
// teacher's mock-service pattern of exposing plain settable fields instead
// of a mocking framework.
type Fake struct {
	TV              bool
	Meter           int64
	Remote          string
	Roster          []string
	Sentinel        bool
	SentinelContent string
	Uploader        bool
	Watermark       bool
	SIM             bool
	BuzzCount       int
	NotifyErr       error
	NotifyCount     int
}

var _ Platform = (*Fake)(nil)

func (f *Fake) TVStatus() bool                  { return f.TV }
func (f *Fake) MeterID() int64                  { return f.Meter }
func (f *Fake) RemoteID() string                { return f.Remote }
func (f *Fake) RegisteredMembers() []string     { return f.Roster }
func (f *Fake) SentinelPresent() (bool, string) { return f.Sentinel, f.SentinelContent }
func (f *Fake) UploaderConnected() bool         { return f.Uploader }
func (f *Fake) WatermarkOK() bool               { return f.Watermark }
func (f *Fake) SIMOK() bool                     { return f.SIM }
func (f *Fake) Buzz()                           { f.BuzzCount++ }
func (f *Fake) Notify() error                   { f.NotifyCount++; return f.NotifyErr }
