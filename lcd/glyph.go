package lcd

// Glyph is a 5x8 custom character bitmap, one byte per row, low five bits used.
type Glyph [8]byte

// Custom glyph slots.
const (
	SlotUpArrow    byte = 0x00
	SlotDownArrow  byte = 0x01
	SlotLeftArrow  byte = 0x02
	SlotRightArrow byte = 0x03
	SlotHeart      byte = 0x04

	glyphSlots = 8
)

var (
	UpArrow    = Glyph{0x00, 0x04, 0x0E, 0x15, 0x04, 0x04, 0x04, 0x04}
	DownArrow  = Glyph{0x04, 0x04, 0x04, 0x04, 0x04, 0x15, 0x0E, 0x04}
	LeftArrow  = Glyph{0x00, 0x04, 0x08, 0x1F, 0x08, 0x04, 0x00, 0x00}
	RightArrow = Glyph{0x00, 0x04, 0x02, 0x1F, 0x02, 0x04, 0x00, 0x00}
	Heart      = Glyph{0x00, 0x00, 0x0A, 0x1F, 0x1F, 0x0E, 0x04, 0x00}
)

// Dot reports whether the pixel at (x, y) is lit; x counts from the left.
func (g Glyph) Dot(x, y int) bool {
	if x < 0 || x > 4 || y < 0 || y > 7 {
		return false
	}
	return g[y]&(0x10>>uint(x)) != 0
}
