package machine

// Display is a 64x32 monochrome pixel grid stored row-major,
// the pixel at (x, y) is at index x + Width*y.
type Display [Width * Height]bool

// Pixel returns whether the pixel at the given coordinates is lit.
// Coordinates outside of the display are reported as unlit.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d[x+Width*y]
}

// Lit returns the number of lit pixels.
func (d *Display) Lit() int {
	var count int
	for _, pixel := range d {
		if pixel {
			count++
		}
	}
	return count
}
