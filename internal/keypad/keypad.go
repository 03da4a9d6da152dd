// Package keypad describes the hexadecimal keypad and the keyboard keys it
// is mapped onto.
package keypad

import (
	"fmt"
	"unicode"
)

// Size is the number of keypad keys.
const Size = 16

// Layout is the COSMAC VIP keypad, row by row.
var Layout = [4][4]uint8{
	{0x1, 0x2, 0x3, 0xC},
	{0x4, 0x5, 0x6, 0xD},
	{0x7, 0x8, 0x9, 0xE},
	{0xA, 0x0, 0xB, 0xF},
}

// KeyboardRows is the block of keyboard keys that replaces the keypad, in
// the same row order as Layout.
var KeyboardRows = [4]string{"1234", "QWER", "ASDF", "ZXCV"}

// KeyNames returns the keyboard key name for every keypad key, indexed by
// the keypad key. Digits are named "Digit1" to distinguish them from the
// numpad.
func KeyNames() [Size]string {
	var names [Size]string
	for row, keys := range Layout {
		for column, key := range keys {
			char := rune(KeyboardRows[row][column])
			if unicode.IsDigit(char) {
				names[key] = fmt.Sprintf("Digit%c", char)
			} else {
				names[key] = string(char)
			}
		}
	}
	return names
}
