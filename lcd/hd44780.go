package lcd

import (
	"log/slog"
	"time"
)

// HD44780 instruction set.
const (
	cmdClear          = 0x01
	cmdHome           = 0x02
	cmdEntryMode      = 0x04
	cmdDisplayControl = 0x08
	cmdFunctionSet    = 0x20
	cmdSetCGRAM       = 0x40
	cmdSetDDRAM       = 0x80

	entryIncrement = 0x02
	displayOn      = 0x04
	twoLines       = 0x08
)

// Line order handed to the pin writer.
const (
	lineRS = iota
	lineE
	lineD4
	lineD5
	lineD6
	lineD7
	lineCount
)

type pinWriter interface {
	SetValues(values []int) error
	Close() error
}

// HD44780 drives a character module over a 4-bit parallel interface. The
// embedded Buffer mirrors what has been written so the cursor can be clipped
// and the contents inspected.
type HD44780 struct {
	*Buffer
	pins  pinWriter
	vals  []int
	sleep func(time.Duration)
	err   error
}

func newHD44780(pins pinWriter, rows, cols int, sleep func(time.Duration)) *HD44780 {
	return &HD44780{
		Buffer: NewBuffer(rows, cols),
		pins:   pins,
		vals:   make([]int, lineCount),
		sleep:  sleep,
	}
}

// init runs the power-on sequence that forces 4-bit mode.
func (d *HD44780) init() {
	d.sleep(50 * time.Millisecond)
	d.nibble(0, 0x3)
	d.sleep(5 * time.Millisecond)
	d.nibble(0, 0x3)
	d.sleep(150 * time.Microsecond)
	d.nibble(0, 0x3)
	d.nibble(0, 0x2)

	d.command(cmdFunctionSet | twoLines)
	d.command(cmdDisplayControl | displayOn)
	d.command(cmdClear)
	d.command(cmdEntryMode | entryIncrement)
}

// Err returns the first pin write error, if any.
func (d *HD44780) Err() error { return d.err }

// Clear implements Display.Clear.
func (d *HD44780) Clear() {
	d.command(cmdClear)
	d.Buffer.Clear()
}

// Enable implements Display.Enable.
func (d *HD44780) Enable() {
	d.command(cmdDisplayControl | displayOn)
	d.Buffer.Enable()
}

// SetCursor implements Display.SetCursor.
func (d *HD44780) SetCursor(row, col int) {
	d.Buffer.SetCursor(row, col)
	d.command(cmdSetDDRAM | d.address())
}

// WriteString implements Display.WriteString.
func (d *HD44780) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		d.WriteByte(s[i])
	}
}

// WriteByte implements Display.WriteByte.
func (d *HD44780) WriteByte(c byte) error {
	if d.col >= d.cols {
		return nil
	}
	d.data(c)
	d.Buffer.WriteByte(c)
	return d.err
}

// CreateGlyph implements Display.CreateGlyph. The DDRAM address is restored
// afterwards so the next write lands at the cursor.
func (d *HD44780) CreateGlyph(slot byte, g Glyph) error {
	if err := d.Buffer.CreateGlyph(slot, g); err != nil {
		return err
	}
	d.command(cmdSetCGRAM | slot<<3)
	for _, row := range g {
		d.data(row & 0x1F)
	}
	d.command(cmdSetDDRAM | d.address())
	return d.err
}

// Release implements Display.Release.
func (d *HD44780) Release() error {
	return d.pins.Close()
}

func (d *HD44780) address() byte {
	offsets := [4]int{0x00, 0x40, d.cols, 0x40 + d.cols}
	return byte(offsets[d.row&3] + d.col)
}

func (d *HD44780) command(c byte) {
	d.send(0, c)
	if c == cmdClear || c == cmdHome {
		d.sleep(2 * time.Millisecond)
	}
}

func (d *HD44780) data(c byte) {
	d.send(1, c)
}

func (d *HD44780) send(rs int, b byte) {
	d.nibble(rs, b>>4)
	d.nibble(rs, b&0x0F)
}

// nibble presents four data bits and pulses E.
func (d *HD44780) nibble(rs int, n byte) {
	d.vals[lineRS] = rs
	for i := 0; i < 4; i++ {
		d.vals[lineD4+i] = int(n>>uint(i)) & 1
	}
	d.vals[lineE] = 0
	d.set()
	d.vals[lineE] = 1
	d.set()
	d.sleep(time.Microsecond)
	d.vals[lineE] = 0
	d.set()
	d.sleep(50 * time.Microsecond)
}

func (d *HD44780) set() {
	if err := d.pins.SetValues(d.vals); err != nil && d.err == nil {
		d.err = err
		slog.Error("hd44780 pin write failed", "error", err)
	}
}
