// Package lcd provides character display surfaces: a cursor-addressable text
// grid with eight custom glyph slots, in the style of an HD44780 module.
package lcd

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrNotSupported      = errors.New("display not supported on this platform")
	ErrScreenNotCompiled = errors.New("framebuffer display not compiled in (build with -tags screen)")
	ErrUnknownDisplay    = errors.New("unknown display type")
	ErrBadGlyphSlot      = errors.New("glyph slot out of range")
)

// Display is a character display surface.
type Display interface {
	// Clear blanks the screen and homes the cursor.
	Clear()

	// Enable turns the display on (cursor and blink off).
	Enable()

	// SetCursor moves the cursor. Out-of-range positions are clipped.
	SetCursor(row, col int)

	// WriteString writes text at the cursor and advances it.
	WriteString(s string)

	// WriteByte writes one raw character code. Codes 0-7 show custom glyphs.
	WriteByte(c byte) error

	// CreateGlyph stores a bitmap in a custom glyph slot (0-7).
	CreateGlyph(slot byte, g Glyph) error

	// Width returns the number of columns.
	Width() int

	// Height returns the number of rows.
	Height() int

	// Release releases any hardware resources.
	Release() error
}

// Config holds configuration for display implementations.
type Config struct {
	Type string `yaml:"type"` // "console", "hd44780", "framebuffer", "none"
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`

	// hd44780 wiring (GPIO character device line offsets)
	Chip string `yaml:"chip"`
	RS   int    `yaml:"rs"`
	E    int    `yaml:"e"`
	D4   int    `yaml:"d4"`
	D5   int    `yaml:"d5"`
	D6   int    `yaml:"d6"`
	D7   int    `yaml:"d7"`

	// framebuffer
	Device string `yaml:"device"` // default /dev/fb0
	Scale  int    `yaml:"scale"`  // screen pixels per glyph dot
}

// Default geometry of a 16x2 module.
const (
	DefaultRows = 2
	DefaultCols = 16
)

// New creates a Display based on the provided configuration.
func New(cfg Config) (Display, error) {
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = DefaultCols
	}

	switch cfg.Type {
	case "", "console":
		return NewConsole(os.Stdout, cfg.Rows, cfg.Cols), nil
	case "none":
		return NewBuffer(cfg.Rows, cfg.Cols), nil
	case "hd44780":
		d, err := NewHD44780(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "framebuffer":
		if !ScreenSupported() {
			return nil, ErrScreenNotCompiled
		}
		d, err := NewFramebuffer(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisplay, cfg.Type)
	}
}
