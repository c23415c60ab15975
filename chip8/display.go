package chip8

const (
	/// Width of the display in pixels.
	///
	Width = 64

	/// Height of the display in pixels.
	///
	Height = 32
)

/// Surface is anything the display can be presented on (an SDL texture,
/// a terminal, ...).
///
type Surface interface {
	SetPixel(x, y int, on bool)
	Flush() error
}

/// Display is the 64x32 monochrome video memory of the CHIP-8.
///
type Display struct {
	/// Pixels are indexed [y][x].
	///
	Pixels [Height][Width]bool

	/// Wrap sprite rows that fall off the bottom back to the top.
	///
	Wrap bool

	// set whenever a pixel changes, cleared by Present
	dirty bool
}

/// Clear turns every pixel off.
///
func (d *Display) Clear() {
	d.Pixels = [Height][Width]bool{}
	d.dirty = true
}

/// Pixel returns whether the pixel at x, y is on. Coordinates outside
/// the display are always off.
///
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}

	return d.Pixels[y][x]
}

/// Draw XORs a sprite onto the display with its top-left corner at x, y.
/// Each byte is one 8-pixel row, MSB first. Returns true if any pixel
/// that was on was turned off.
///
func (d *Display) Draw(x, y byte, sprite []byte) bool {
	collision := false

	// the origin always wraps
	col := int(x) % Width
	row := int(y) % Height

	for _, b := range sprite {
		if row >= Height {
			if !d.Wrap {
				break
			}

			row -= Height
		}

		// each bit is a column, wrapping horizontally
		for i := 0; i < 8; i++ {
			if b&(0x80>>uint(i)) == 0 {
				continue
			}

			p := &d.Pixels[row][(col+i)%Width]

			// turning a pixel off is a collision
			if *p {
				collision = true
			}

			*p = !*p
		}

		// next scan line
		row++
	}

	if len(sprite) > 0 {
		d.dirty = true
	}

	return collision
}

/// Dirty is true if the display changed since it was last presented.
///
func (d *Display) Dirty() bool {
	return d.dirty
}

/// Present copies every pixel to a surface and flushes it.
///
func (d *Display) Present(s Surface) error {
	for y := range d.Pixels {
		for x, on := range d.Pixels[y] {
			s.SetPixel(x, y, on)
		}
	}

	d.dirty = false

	return s.Flush()
}
