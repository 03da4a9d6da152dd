// Package screen converts the machine display into presentable output:
// text for terminals and RGBA pixel data for windowed hosts.
package screen

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	fatihcolor "github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/machine"
)

// Default colors of lit and unlit pixels.
var (
	Foreground = color.RGBA{R: 0x33, G: 0xFF, B: 0x66, A: 0xFF}
	Background = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
)

// Renderer writes the display as text, using two characters per pixel to
// keep the aspect ratio in terminals.
type Renderer struct {
	lit    *fatihcolor.Color
	border *fatihcolor.Color
	colors bool
}

// NewRenderer returns a text renderer. Without colors lit pixels are drawn
// as '#' characters.
func NewRenderer(colorize bool) *Renderer {
	r := &Renderer{
		lit:    fatihcolor.New(fatihcolor.FgGreen),
		border: fatihcolor.New(fatihcolor.FgHiBlack),
		colors: colorize,
	}
	if colorize {
		r.lit.EnableColor()
		r.border.EnableColor()
	} else {
		r.lit.DisableColor()
		r.border.DisableColor()
	}
	return r
}

// Render writes the display framed by a border.
func (r *Renderer) Render(writer io.Writer, display *machine.Display) error {
	pixel := "##"
	if r.colors {
		pixel = "██"
	}
	edge := r.border.Sprint("+" + strings.Repeat("-", 2*machine.Width) + "+")

	var buf strings.Builder
	buf.WriteString(edge)
	buf.WriteByte('\n')

	for y := range machine.Height {
		buf.WriteString(r.border.Sprint("|"))
		for x := range machine.Width {
			if display.Pixel(x, y) {
				buf.WriteString(r.lit.Sprint(pixel))
			} else {
				buf.WriteString("  ")
			}
		}
		buf.WriteString(r.border.Sprint("|"))
		buf.WriteByte('\n')
	}

	buf.WriteString(edge)
	buf.WriteByte('\n')

	if _, err := io.WriteString(writer, buf.String()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return nil
}

// RGBA writes the display as RGBA pixel data into dst, which has to hold
// 4 bytes for every display pixel.
func RGBA(dst []byte, display *machine.Display, foreground, background color.RGBA) error {
	if len(dst) != 4*len(display) {
		return fmt.Errorf("pixel buffer size %d does not match display size %d", len(dst), 4*len(display))
	}

	for i, lit := range display {
		c := background
		if lit {
			c = foreground
		}
		offset := 4 * i
		dst[offset] = c.R
		dst[offset+1] = c.G
		dst[offset+2] = c.B
		dst[offset+3] = c.A
	}
	return nil
}
