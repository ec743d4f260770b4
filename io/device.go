// Package io provides the memory mapped devices of the Hack computer: the
// 512x256 monochrome Screen and the Keyboard.
package io

import (
	"iter"
)

// Device defines the interface for all memory mapped devices. A device owns
// the Size words of data memory starting at Base.
type Device interface {
	// Base returns the first data memory address of the device.
	Base() uint16
	// Size returns the number of data memory words of the device.
	Size() int
	// Rewind resets the device to its initial state.
	Rewind()
	// Defines returns an iterator of assembler symbols for the device.
	Defines() iter.Seq2[string, uint16]
}

// Window returns the words of ram mapped to the device, clipped to ram.
func Window(dev Device, ram []uint16) []uint16 {
	base := min(int(dev.Base()), len(ram))
	limit := min(base+dev.Size(), len(ram))
	return ram[base:limit:limit]
}
