// Package keymap maps host keyboard keys to the 16 keys of the hex keypad.
package keymap

import "unicode"

// Layout is the QWERTY layout of the keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the keypad key for a host key, ignoring case.
func Lookup(r rune) (uint8, bool) {
	key, ok := layout[unicode.ToLower(r)]
	return key, ok
}

// Rune returns the host key of a keypad key.
func Rune(key uint8) (rune, bool) {
	for r, k := range layout {
		if k == key {
			return r, true
		}
	}
	return 0, false
}
