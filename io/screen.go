package io

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"iter"
	"maps"

	"golang.org/x/image/draw"
)

const (
	SCREEN_BASE   = 16384 // First word of screen memory.
	SCREEN_WIDTH  = 512   // Pixels per row.
	SCREEN_HEIGHT = 256   // Rows.
	SCREEN_ROW    = SCREEN_WIDTH / 16
	SCREEN_SIZE   = SCREEN_ROW * SCREEN_HEIGHT
)

// Palette of the screen; a set bit is a black pixel.
var Palette = color.Palette{
	color.White,
	color.Black,
}

// Screen is the memory mapped display. Row r occupies the SCREEN_ROW words
// from SCREEN_BASE + r*SCREEN_ROW, and the least significant bit of each
// word is its leftmost pixel.
type Screen struct{}

var _ Device = (*Screen)(nil)

func (sc *Screen) Base() uint16 {
	return SCREEN_BASE
}

func (sc *Screen) Size() int {
	return SCREEN_SIZE
}

// Rewind does nothing; the screen state is entirely in data memory.
func (sc *Screen) Rewind() {
}

// Defines returns an iter of defines for the screen.
func (sc *Screen) Defines() iter.Seq2[string, uint16] {
	return maps.All(map[string]uint16{
		"SCREEN":        SCREEN_BASE,
		"SCREEN_WIDTH":  SCREEN_WIDTH,
		"SCREEN_HEIGHT": SCREEN_HEIGHT,
		"SCREEN_ROW":    SCREEN_ROW,
	})
}

// Pixel returns true if the pixel at x, y of the screen words is black.
func (sc *Screen) Pixel(mem []uint16, x, y int) bool {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		return false
	}

	index := y*SCREEN_ROW + x/16
	if index >= len(mem) {
		return false
	}

	return (mem[index]>>(x%16))&1 != 0
}

// Image renders the screen words, as returned by Window, as an image.
func (sc *Screen) Image(mem []uint16) (img *image.Paletted) {
	img = image.NewPaletted(image.Rect(0, 0, SCREEN_WIDTH, SCREEN_HEIGHT), Palette)

	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			if sc.Pixel(mem, x, y) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	return
}

// WritePNG writes the screen words as a PNG image, each pixel scaled to a
// scale x scale square.
func (sc *Screen) WritePNG(w io.Writer, mem []uint16, scale int) (err error) {
	if scale < 1 {
		err = ErrScale
		return
	}

	img := sc.Image(mem)
	if scale > 1 {
		dst := image.NewPaletted(image.Rect(0, 0, SCREEN_WIDTH*scale, SCREEN_HEIGHT*scale), Palette)
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	err = png.Encode(w, img)

	return
}
