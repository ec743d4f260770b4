package io

import (
	"io"
	"iter"
	"maps"
)

const (
	KEYBOARD_BASE = 24576 // Keyboard word.
	KEYBOARD_SIZE = 1
)

// Key codes of the non-printing keys.
const (
	KEY_NONE      = 0
	KEY_NEWLINE   = 128
	KEY_BACKSPACE = 129
	KEY_LEFT      = 130
	KEY_UP        = 131
	KEY_RIGHT     = 132
	KEY_DOWN      = 133
	KEY_HOME      = 134
	KEY_END       = 135
	KEY_PAGE_UP   = 136
	KEY_PAGE_DOWN = 137
	KEY_INSERT    = 138
	KEY_DELETE    = 139
	KEY_ESC       = 140
	KEY_F1        = 141 // F1 through F12 are 141 to 152.
)

// KeyCode returns the key code of an input byte.
func KeyCode(b byte) uint16 {
	switch b {
	case '\n', '\r':
		return KEY_NEWLINE
	case '\b', 0x7f:
		return KEY_BACKSPACE
	case 0x1b:
		return KEY_ESC
	}

	return uint16(b)
}

// Keyboard is the memory mapped keyboard. Its single word holds the code
// of the key currently pressed, or zero.
//
// If Input is set, every Update reads one byte from it: a byte presses its
// key, and a failed or empty read releases the key.
type Keyboard struct {
	Input io.Reader

	key uint16
}

var _ Device = (*Keyboard)(nil)

func (kb *Keyboard) Base() uint16 {
	return KEYBOARD_BASE
}

func (kb *Keyboard) Size() int {
	return KEYBOARD_SIZE
}

// Rewind releases any pressed key.
func (kb *Keyboard) Rewind() {
	kb.key = KEY_NONE
}

// Defines returns an iter of defines for the keyboard.
func (kb *Keyboard) Defines() iter.Seq2[string, uint16] {
	return maps.All(map[string]uint16{
		"KBD":           KEYBOARD_BASE,
		"KEY_NEWLINE":   KEY_NEWLINE,
		"KEY_BACKSPACE": KEY_BACKSPACE,
		"KEY_LEFT":      KEY_LEFT,
		"KEY_UP":        KEY_UP,
		"KEY_RIGHT":     KEY_RIGHT,
		"KEY_DOWN":      KEY_DOWN,
		"KEY_ESC":       KEY_ESC,
	})
}

// Press holds down a key.
func (kb *Keyboard) Press(key uint16) {
	kb.key = key
}

// Release releases the key.
func (kb *Keyboard) Release() {
	kb.key = KEY_NONE
}

// Key returns the code of the key held down.
func (kb *Keyboard) Key() uint16 {
	return kb.key
}

// Update polls Input, if any, and stores the key into the keyboard word.
func (kb *Keyboard) Update(mem []uint16) {
	if kb.Input != nil {
		var one [1]byte
		n, _ := kb.Input.Read(one[:])
		if n == 1 {
			kb.Press(KeyCode(one[0]))
		} else {
			kb.Release()
		}
	}

	if len(mem) > 0 {
		mem[0] = kb.key
	}
}
