package disasm

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Listing writes a linear sweep disassembly of a program image.
type Listing struct {
	address  *color.Color
	bytes    *color.Color
	mnemonic *color.Color
	data     *color.Color
}

// NewListing returns a listing writer. Colored output is only used if
// colorize is set, output to files should not be colored.
func NewListing(colorize bool) *Listing {
	l := &Listing{
		address:  color.New(color.FgYellow),
		bytes:    color.New(color.FgHiBlack),
		mnemonic: color.New(color.FgCyan),
		data:     color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{l.address, l.bytes, l.mnemonic, l.data} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return l
}

// Write disassembles the image as loaded at base address, one line per
// 2 byte word. A trailing odd byte is written as data.
func (l *Listing) Write(writer io.Writer, image []byte, base uint16) error {
	for offset := 0; offset < len(image); offset += 2 {
		address := base + uint16(offset)

		if offset+1 >= len(image) {
			line := fmt.Sprintf("%s  %s     %s\n",
				l.address.Sprintf("$%04X", address),
				l.bytes.Sprintf("%02X", image[offset]),
				l.data.Sprintf(".byte $%02X", image[offset]))
			if _, err := io.WriteString(writer, line); err != nil {
				return fmt.Errorf("writing data at $%04X: %w", address, err)
			}
			break
		}

		word := uint16(image[offset])<<8 | uint16(image[offset+1])
		code := Instruction(word)
		if _, ok := Lookup(word); ok || word == 0 {
			code = l.mnemonic.Sprint(code)
		} else {
			code = l.data.Sprint(code)
		}

		line := fmt.Sprintf("%s  %s  %s\n",
			l.address.Sprintf("$%04X", address),
			l.bytes.Sprintf("%02X %02X", image[offset], image[offset+1]),
			code)
		if _, err := io.WriteString(writer, line); err != nil {
			return fmt.Errorf("writing instruction at $%04X: %w", address, err)
		}
	}
	return nil
}
