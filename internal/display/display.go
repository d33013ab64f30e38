// Package display provides the monochrome frame buffer that sprites are drawn to.
package display

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32

	spriteWidth = 8
)

// Buffer is a grid of binary pixels. Only Clear and Draw mutate it.
type Buffer struct {
	pixels [Height][Width]bool
}

// New returns a new cleared buffer.
func New() *Buffer {
	return &Buffer{}
}

// Clear turns all pixels off.
func (b *Buffer) Clear() {
	b.pixels = [Height][Width]bool{}
}

// Draw composites the sprite rows at the given coordinates by XOR. Each byte of
// the sprite is one row of 8 pixels, most significant bit first. Every pixel
// coordinate wraps around the buffer dimensions independently.
// It returns whether any lit pixel was turned off.
func (b *Buffer) Draw(x, y uint8, sprite []byte) bool {
	collision := false

	for row, bits := range sprite {
		py := (int(y) + row) % Height

		for col := range spriteWidth {
			if bits&(0x80>>col) == 0 {
				continue
			}

			px := (int(x) + col) % Width
			if b.pixels[py][px] {
				collision = true
			}
			b.pixels[py][px] = !b.pixels[py][px]
		}
	}

	return collision
}

// Pixel returns whether the pixel at the given coordinates is lit.
// Coordinates outside of the buffer wrap around.
func (b *Buffer) Pixel(x, y int) bool {
	return b.pixels[mod(y, Height)][mod(x, Width)]
}

// Snapshot returns a copy of all pixels, indexed by row then column.
func (b *Buffer) Snapshot() [Height][Width]bool {
	return b.pixels
}

// Lit returns the number of lit pixels.
func (b *Buffer) Lit() int {
	lit := 0
	for y := range Height {
		for x := range Width {
			if b.pixels[y][x] {
				lit++
			}
		}
	}
	return lit
}

func mod(value, n int) int {
	value %= n
	if value < 0 {
		value += n
	}
	return value
}
