// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package display

import (
	"strings"
	"time"
)

// Brightness bounds and step (spec §4.5, §9 I4).
const (
	MinBrightness = 1
	MaxBrightness = 255
	Step          = 20
)

// Idle/refresh timers (spec §4.4).
const (
	IdleTimeout       = 20 * time.Second
	InfoRefreshPeriod = 5 * time.Second
)

// ageGroupLabels maps an age-group digit (or " " for the blank
// guestRegState2 placeholder) to its fixed-width label (spec §4.4).
var ageGroupLabels = map[string]string{
	"1": " 4-14",
	"2": "15-24",
	"3": "25-34",
	"4": "35-44",
	"5": "45+  ",
	" ": "     ",
}

// ClampBrightness clamps level to [MinBrightness, MaxBrightness].
func ClampBrightness(level int) int {
	if level < MinBrightness {
		return MinBrightness
	}
	if level > MaxBrightness {
		return MaxBrightness
	}
	return level
}

// DeclarationView is the input to RenderDeclaration (spec §4.4(a)).
type DeclarationView struct {
	// Registered/Declared are indexed 0..11 for members A..L.
	Registered [12]bool
	Declared   [12]bool
	// GuestRegistered/GuestDeclared are indexed 0..4 for guest positions 1..5.
	GuestRegistered [5]bool
	GuestDeclared   [5]bool
	Absent          bool
}

// RenderDeclaration composes the default declaration-grid rows.
func RenderDeclaration(v DeclarationView) (top, bottom string) {
	var topB, botB strings.Builder
	for i := 0; i < 12; i++ {
		letter := byte('A' + i)
		switch {
		case v.Registered[i] && v.Declared[i]:
			topB.WriteByte(letter)
		case v.Registered[i]:
			topB.WriteByte('_')
		default:
			topB.WriteByte('.')
		}
	}
	for i := 0; i < 5; i++ {
		digit := byte('1' + i)
		switch {
		case v.GuestRegistered[i] && v.GuestDeclared[i]:
			botB.WriteByte(digit)
		case v.GuestRegistered[i]:
			botB.WriteByte('_')
		default:
			botB.WriteByte('.')
		}
	}
	if v.Absent {
		botB.WriteByte('1')
	} else {
		botB.WriteByte('0')
	}
	return topB.String(), botB.String()
}

// RenderGuestRegState2 composes the choose-position sub-screen (spec
// §4.4(b)): digits 1..5, replaced by "*" where a guest is already
// registered at that position.
func RenderGuestRegState2(registered [5]bool) (top, bottom string) {
	var botB strings.Builder
	for i := 0; i < 5; i++ {
		if registered[i] {
			botB.WriteByte('*')
		} else {
			botB.WriteByte(byte('1' + i))
		}
	}
	botB.WriteByte(';')
	return "REG GUEST   ", botB.String()
}

// RenderGuestRegState3 composes the choose-identity sub-screen (spec
// §4.4(b)). sex is "M", "F", or "" if unset; ageGroup is "1".."5" or ""
// if unset; position is the chosen guest's position digit "1".."5".
func RenderGuestRegState3(position, ageGroup, sex string) (top, bottom string) {
	label, ok := ageGroupLabels[ageGroup]
	if !ok {
		label = ageGroupLabels[" "]
	}
	if sex == "" {
		sex = " "
	}
	top = "A: " + label + "   " + sex

	var botB strings.Builder
	for i := 1; i <= 5; i++ {
		if position != "" && position[0] == byte('0'+i) {
			botB.WriteByte(byte('0' + i))
		} else {
			botB.WriteByte(' ')
		}
	}
	botB.WriteByte(';')
	return top, botB.String()
}

// RenderInfo composes the info-mode rows (spec §4.4(c)).
func RenderInfo(watermarkOK, simOK, uploaderConnected, tvOn bool) (top, bottom string) {
	top = "WMK:" + boolDigit(watermarkOK) + "  GSM:" + boolDigit(simOK)
	bottom = "L:" + boolDigit(uploaderConnected) + "  "
	if tvOn {
		bottom += "o"
	} else {
		bottom += "f"
	}
	return top, bottom
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
