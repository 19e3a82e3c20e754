package cpu

// Display buffer dimensions in pixels.
const (
	DISPLAY_W = 64
	DISPLAY_H = 32
)

// Display is the 64x32 monochrome frame buffer. It is mutated only by
// the clear-display and draw-sprite opcodes and persists across steps
// until explicitly cleared. The core assumes a single writer; if a
// presentation layer reads it from another goroutine, synchronization
// is up to the integration layer.
type Display struct {
	Pixels [DISPLAY_H][DISPLAY_W]uint8
}

// Clear zeroes the whole frame buffer.
func (d *Display) Clear() {
	for y := range d.Pixels {
		clear(d.Pixels[y][:])
	}
}

// Flip XORs a single pixel, wrapping coordinates modulo the screen
// size. It reports whether the pixel was unset by the flip, which is
// the sprite collision condition.
func (d *Display) Flip(x, y int) (collision bool) {
	px := &d.Pixels[y%DISPLAY_H][x%DISPLAY_W]
	*px ^= 1
	collision = *px == 0
	return
}

// Pixel reports whether the pixel at (x, y) is lit, wrapping
// coordinates modulo the screen size.
func (d *Display) Pixel(x, y int) bool {
	return d.Pixels[y%DISPLAY_H][x%DISPLAY_W] != 0
}

// Snapshot returns a copy of the frame buffer for the presentation
// layer to render.
func (d *Display) Snapshot() [DISPLAY_H][DISPLAY_W]uint8 {
	return d.Pixels
}
