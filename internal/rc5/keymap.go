// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later

package rc5

// Key is a symbolic key from the closed alphabet of spec §3: 12 member
// keys, 5 guest keys, 5 male and 5 female age keys, and 7 control keys.
type Key string

// Member keys A..L.
const (
	KeyA Key = "A"
	KeyB Key = "B"
	KeyC Key = "C"
	KeyD Key = "D"
	KeyE Key = "E"
	KeyF Key = "F"
	KeyG Key = "G"
	KeyH Key = "H"
	KeyI Key = "I"
	KeyJ Key = "J"
	KeyK Key = "K"
	KeyL Key = "L"
)

// Guest keys G1..G5.
const (
	KeyG1 Key = "G1"
	KeyG2 Key = "G2"
	KeyG3 Key = "G3"
	KeyG4 Key = "G4"
	KeyG5 Key = "G5"
)

// Male age keys M1..M5.
const (
	KeyM1 Key = "M1"
	KeyM2 Key = "M2"
	KeyM3 Key = "M3"
	KeyM4 Key = "M4"
	KeyM5 Key = "M5"
)

// Female age keys F1..F5.
const (
	KeyF1 Key = "F1"
	KeyF2 Key = "F2"
	KeyF3 Key = "F3"
	KeyF4 Key = "F4"
	KeyF5 Key = "F5"
)

// Control keys.
const (
	KeyABS    Key = "ABS"
	KeyGUEST  Key = "GUEST"
	KeyOK     Key = "OK"
	KeyCANCEL Key = "CANCEL"
	KeyINFO   Key = "INFO"
	KeyINCB   Key = "INCB"
	KeyDECB   Key = "DECB"
)

// MemberKeys is the fixed, ordered A..L alphabet (spec §3, §4.4).
var MemberKeys = []Key{KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL}

// GuestKeys is the fixed, ordered G1..G5 alphabet.
var GuestKeys = []Key{KeyG1, KeyG2, KeyG3, KeyG4, KeyG5}

// NumToKey maps a 6-bit RC5 command to its symbolic key. It is static and
// closed (spec §3): command codes outside this table decode to "no key",
// not an error (spec §4.1).
//
// Command layout: control keys occupy 0-6, member keys A..L occupy 18-29
// (so cmd 18 is A and cmd 19 is B, matching spec §8 scenario 1), guest keys
// G1..G5 occupy 30-34, male age keys M1..M5 occupy 35-39, and female age
// keys F1..F5 occupy 40-44.
var NumToKey = map[uint8]Key{
	0: KeyABS,
	1: KeyGUEST,
	2: KeyOK,
	3: KeyCANCEL,
	4: KeyINFO,
	5: KeyINCB,
	6: KeyDECB,

	18: KeyA,
	19: KeyB,
	20: KeyC,
	21: KeyD,
	22: KeyE,
	23: KeyF,
	24: KeyG,
	25: KeyH,
	26: KeyI,
	27: KeyJ,
	28: KeyK,
	29: KeyL,

	30: KeyG1,
	31: KeyG2,
	32: KeyG3,
	33: KeyG4,
	34: KeyG5,

	35: KeyM1,
	36: KeyM2,
	37: KeyM3,
	38: KeyM4,
	39: KeyM5,

	40: KeyF1,
	41: KeyF2,
	42: KeyF3,
	43: KeyF4,
	44: KeyF5,
}

// KeyToNum is the reverse of NumToKey, built once at init.
var KeyToNum = func() map[Key]uint8 {
	m := make(map[Key]uint8, len(NumToKey))
	for num, key := range NumToKey {
		m[key] = num
	}
	return m
}()

// IsMember reports whether key is one of the 12 member keys A..L.
func IsMember(key Key) bool {
	switch key {
	case KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL:
		return true
	default:
		return false
	}
}

// IsGuest reports whether key is one of the 5 guest keys G1..G5.
func IsGuest(key Key) bool {
	switch key {
	case KeyG1, KeyG2, KeyG3, KeyG4, KeyG5:
		return true
	default:
		return false
	}
}

// IsAgeSex reports whether key is one of the 10 age/sex keys
// M1..M5, F1..F5.
func IsAgeSex(key Key) bool {
	switch key {
	case KeyM1, KeyM2, KeyM3, KeyM4, KeyM5, KeyF1, KeyF2, KeyF3, KeyF4, KeyF5:
		return true
	default:
		return false
	}
}

// GuestPosition returns the position digit ("1".."5") of a guest key, and
// false if key is not a guest key.
func GuestPosition(key Key) (string, bool) {
	if !IsGuest(key) {
		return "", false
	}
	return string(key[1]), true
}
