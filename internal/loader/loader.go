// Package loader handles program image loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyImage is returned for program files without content.
var ErrEmptyImage = errors.New("empty program image")

// extensions lists the file extensions that CHIP-8 programs are usually
// distributed with.
var extensions = []string{".ch8", ".c8", ".rom"}

// Loader handles loading program images from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new program image loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a program image from the file system and verifies that it fits
// into the program area of the machine memory. The image is returned
// unmodified, it has no header.
func (l *Loader) Load(path string) ([]byte, error) {
	if !HasProgramExtension(path) {
		l.logger.Warn("Unexpected file extension for a CHIP-8 program",
			log.String("file", path))
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	if len(image) == 0 {
		return nil, fmt.Errorf("loading file %s: %w", path, ErrEmptyImage)
	}
	if len(image) > machine.MaxProgramSize {
		return nil, fmt.Errorf("loading file %s of %d bytes, maximum is %d: %w",
			path, len(image), machine.MaxProgramSize, machine.ErrProgramTooLarge)
	}

	l.logger.Debug("Loaded program image",
		log.String("file", path),
		log.Int("size", len(image)))
	return image, nil
}

// HasProgramExtension returns whether the file name has an extension that
// CHIP-8 programs are usually distributed with.
func HasProgramExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}
