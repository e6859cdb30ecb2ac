// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package display

// Port is the physical-display collaborator (spec §1, §6): the LCD driver
// primitives themselves are out of scope, so the renderer only needs this
// much of a seam to be testable.
//
// The same physical unit also relays the IR remote's RC5-Plus words (spec
// §5: "the display/serial port is owned exclusively by the process"), so
// Port additionally exposes that read side rather than splitting it into a
// second device handle.
type Port interface {
	// Send writes the top and bottom rows. Rows may be shorter than 12
	// characters; callers do not pad them.
	Send(top, bottom string) error

	// Clear blanks the display (idle timeout, spec §4.4).
	Clear() error

	// SetBrightness sets the backlight level, already clamped to [1,255].
	SetBrightness(level int) error

	// ReadRemoteCmd polls for one pending RC5-Plus word. ok is false when
	// nothing was pending within the device's own bounded timeout (spec
	// §5: reads "must be bounded by the device driver's internal
	// timeout").
	ReadRemoteCmd() (word uint16, ok bool, err error)

	// Flush discards any buffered remote input, called after an
	// InvalidRC5 frame (spec §7).
	Flush() error

	// Close releases the underlying device (installation-mode entry on
	// non-bm3 devices, spec §4.5).
	Close() error
}

// FakePort is an in-memory Port recording the last render for tests.
type FakePort struct {
	Top, Bottom string
	Brightness  int
	Cleared     bool
	SendErr     error
	ClearErr    error

	PendingWords []uint16
	ReadErr      error
	FlushCount   int
	ClosedCount  int
}

var _ Port = (*FakePort)(nil)

func (f *FakePort) Close() error {
	f.ClosedCount++
	return nil
}

func (f *FakePort) ReadRemoteCmd() (uint16, bool, error) {
	if f.ReadErr != nil {
		return 0, false, f.ReadErr
	}
	if len(f.PendingWords) == 0 {
		return 0, false, nil
	}
	word := f.PendingWords[0]
	f.PendingWords = f.PendingWords[1:]
	return word, true, nil
}

func (f *FakePort) Flush() error {
	f.FlushCount++
	f.PendingWords = nil
	return nil
}

func (f *FakePort) Send(top, bottom string) error {
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Top, f.Bottom = top, bottom
	f.Cleared = false
	return nil
}

func (f *FakePort) Clear() error {
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.Top, f.Bottom = "", ""
	f.Cleared = true
	return nil
}

func (f *FakePort) SetBrightness(level int) error {
	f.Brightness = level
	return nil
}
