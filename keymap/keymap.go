// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package keymap translates PC keyboard scancodes (set 1) into characters.
package keymap

const (
	KEY_RELEASE = 0x80 // Scancode bit marking a key release.
	KEY_MASK    = 0x7F // Scancode bits indexing the keymap.

	KEY_BACKSPACE = '\b' // Indicator produced by the backspace key.
	KEY_ENTER     = '\n' // Indicator produced by the enter key.
)

// Status classifies a scancode.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	KEY_MAPPED   = Status(0) // mapped
	KEY_RELEASED = Status(1) // released
	KEY_BLANK    = Status(2) // blank
	KEY_UNMAPPED = Status(3) // unmapped
)

// US QWERTY, unshifted. Zero entries are blank keys.
var table = [...]rune{
	0, 0, '1', '2', '3', '4', '5', '6', // 0x00: -, esc
	'7', '8', '9', '0', '-', '=', '\b', '\t', // 0x08
	'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', // 0x10
	'o', 'p', '[', ']', '\n', 0, 'a', 's', // 0x18: ctrl at 0x1d
	'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', // 0x20
	'\'', '`', 0, '\\', 'z', 'x', 'c', 'v', // 0x28: lshift at 0x2a
	'b', 'n', 'm', ',', '.', '/', 0, '*', // 0x30: rshift at 0x36
	0, ' ', 0, // 0x38: alt, space, capslock
}

// Size is the number of scancodes covered by the keymap.
const Size = len(table)

// Lookup classifies a scancode and returns its character, if any.
func Lookup(code uint8) (r rune, status Status) {
	if code&KEY_RELEASE != 0 {
		status = KEY_RELEASED
		return
	}

	index := int(code & KEY_MASK)
	if index >= len(table) {
		status = KEY_UNMAPPED
		return
	}

	r = table[index]
	if r == 0 {
		status = KEY_BLANK
		return
	}

	status = KEY_MAPPED
	return
}

// Translate returns the character for a scancode, or 0 when nothing should
// be rendered: releases, blank keys and unknown codes all yield 0.
func Translate(code uint8) (r rune) {
	r, _ = Lookup(code)
	return
}

// Scancode returns the make code that produces r.
func Scancode(r rune) (code uint8, ok bool) {
	if r == 0 {
		return
	}

	for index, key := range table {
		if key == r {
			return uint8(index), true
		}
	}

	return
}
