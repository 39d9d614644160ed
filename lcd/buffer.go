package lcd

import (
	"fmt"
	"strings"
)

// Buffer is an in-memory character display. It holds the same state an
// HD44780 does (text grid, cursor, custom glyphs) and is the model the other
// displays render from. Writes past the last column are dropped.
type Buffer struct {
	rows, cols int
	cells      [][]byte
	glyphs     [glyphSlots]Glyph
	row, col   int
	enabled    bool
}

// NewBuffer creates a blank rows x cols buffer.
func NewBuffer(rows, cols int) *Buffer {
	b := &Buffer{rows: rows, cols: cols}
	b.cells = make([][]byte, rows)
	for i := range b.cells {
		b.cells[i] = make([]byte, cols)
	}
	b.Clear()
	return b
}

// Clear implements Display.Clear.
func (b *Buffer) Clear() {
	for _, r := range b.cells {
		for i := range r {
			r[i] = ' '
		}
	}
	b.row, b.col = 0, 0
}

// Enable implements Display.Enable.
func (b *Buffer) Enable() {
	b.enabled = true
}

// SetCursor implements Display.SetCursor.
func (b *Buffer) SetCursor(row, col int) {
	b.row = clip(row, b.rows-1)
	b.col = clip(col, b.cols)
}

// WriteString implements Display.WriteString.
func (b *Buffer) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		b.put(s[i])
	}
}

// WriteByte implements Display.WriteByte.
func (b *Buffer) WriteByte(c byte) error {
	b.put(c)
	return nil
}

// CreateGlyph implements Display.CreateGlyph.
func (b *Buffer) CreateGlyph(slot byte, g Glyph) error {
	if int(slot) >= glyphSlots {
		return fmt.Errorf("%w: %d", ErrBadGlyphSlot, slot)
	}
	b.glyphs[slot] = g
	return nil
}

// Width implements Display.Width.
func (b *Buffer) Width() int { return b.cols }

// Height implements Display.Height.
func (b *Buffer) Height() int { return b.rows }

// Release implements Display.Release.
func (b *Buffer) Release() error { return nil }

// Enabled reports whether Enable has been called.
func (b *Buffer) Enabled() bool { return b.enabled }

// Cursor returns the cursor position.
func (b *Buffer) Cursor() (row, col int) { return b.row, b.col }

// Cell returns the raw character code at (row, col).
func (b *Buffer) Cell(row, col int) byte { return b.cells[row][col] }

// Glyph returns the bitmap stored in a slot.
func (b *Buffer) Glyph(slot byte) Glyph { return b.glyphs[slot&(glyphSlots-1)] }

// Row returns the raw contents of a row.
func (b *Buffer) Row(i int) string { return string(b.cells[i]) }

// Text returns the rows with trailing blanks trimmed and glyph codes shown
// as printable runes.
func (b *Buffer) Text() []string {
	out := make([]string, b.rows)
	for i, r := range b.cells {
		var sb strings.Builder
		for _, c := range r {
			if c < glyphSlots {
				sb.WriteRune(glyphRune(b.glyphs[c]))
				continue
			}
			sb.WriteByte(c)
		}
		out[i] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

func (b *Buffer) put(c byte) {
	if b.col >= b.cols {
		return
	}
	b.cells[b.row][b.col] = c
	b.col++
}

func glyphRune(g Glyph) rune {
	switch g {
	case Heart:
		return '♥'
	case UpArrow:
		return '↑'
	case DownArrow:
		return '↓'
	case LeftArrow:
		return '←'
	case RightArrow:
		return '→'
	default:
		return '▒'
	}
}

func clip(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
