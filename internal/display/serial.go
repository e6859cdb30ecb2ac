// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package display

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// rowWidth is the LCD's character width (spec §4.4: two 12-character rows).
const rowWidth = 12

// SerialPort is the production Port, a raw read/write handle to the
// display/remote-receiver serial device (spec §1, §6). The device's wire
// protocol — row framing, brightness encoding, RC5-Plus word delivery —
// is the vendor's, not this Controller's, concern (spec §1 Non-goals: "LCD
// driver primitives ... out of scope"), so this is the minimal adapter
// satisfying Port rather than a reimplementation of a vendor SDK: each
// row is newline-terminated ASCII, brightness is a single control byte,
// and a pending RC5-Plus word is two little-endian bytes.
type SerialPort struct {
	f *os.File
	r *bufio.Reader
}

var _ Port = (*SerialPort)(nil)

// OpenSerial opens the device at path for read/write access.
func OpenSerial(path string) (*SerialPort, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("display: open %s: %w", path, err)
	}
	return &SerialPort{f: f, r: bufio.NewReader(f)}, nil
}

// Send writes the top and bottom rows, each newline-terminated.
func (s *SerialPort) Send(top, bottom string) error {
	if _, err := fmt.Fprintf(s.f, "%-*s\n%-*s\n", rowWidth, top, rowWidth, bottom); err != nil {
		return fmt.Errorf("display: send: %w", err)
	}
	return nil
}

// Clear blanks both rows.
func (s *SerialPort) Clear() error {
	return s.Send("", "")
}

// SetBrightness writes a single control byte: 0x01 followed by the clamped
// brightness level.
func (s *SerialPort) SetBrightness(level int) error {
	if _, err := s.f.Write([]byte{0x01, byte(ClampBrightness(level))}); err != nil {
		return fmt.Errorf("display: set brightness: %w", err)
	}
	return nil
}

// ReadRemoteCmd reads one pending RC5-Plus word, little-endian. The device
// driver bounds this read internally (spec §5); a read that returns 0
// bytes with io.EOF is treated as "nothing pending" rather than an error.
func (s *SerialPort) ReadRemoteCmd() (uint16, bool, error) {
	var buf [2]byte
	if _, err := io.ReadFull(s.r, buf[:]); err != nil {
		if err == io.EOF {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("display: read remote: %w", err)
	}
	return binary.LittleEndian.Uint16(buf[:]), true, nil
}

// Flush discards any buffered remote input.
func (s *SerialPort) Flush() error {
	s.r.Reset(s.f)
	return nil
}

// Close releases the device handle.
func (s *SerialPort) Close() error {
	return s.f.Close()
}
