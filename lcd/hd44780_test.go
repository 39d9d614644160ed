package lcd

import (
	"testing"
	"time"
)

// recorder captures the nibble latched on each falling edge of E.
type recorder struct {
	prevE   int
	nibbles []latched
	closed  bool
}

type latched struct {
	rs  int
	val byte
}

func (r *recorder) SetValues(v []int) error {
	if r.prevE == 1 && v[lineE] == 0 {
		var n byte
		for i := 0; i < 4; i++ {
			n |= byte(v[lineD4+i]) << uint(i)
		}
		r.nibbles = append(r.nibbles, latched{rs: v[lineRS], val: n})
	}
	r.prevE = v[lineE]
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

// bytes pairs recorded nibbles into bytes, high nibble first.
func (r *recorder) bytes(t *testing.T) []latched {
	t.Helper()
	if len(r.nibbles)%2 != 0 {
		t.Fatalf("odd nibble count %d", len(r.nibbles))
	}
	var out []latched
	for i := 0; i < len(r.nibbles); i += 2 {
		hi, lo := r.nibbles[i], r.nibbles[i+1]
		if hi.rs != lo.rs {
			t.Fatalf("rs changed mid-byte at %d", i)
		}
		out = append(out, latched{rs: hi.rs, val: hi.val<<4 | lo.val})
	}
	r.nibbles = nil
	return out
}

func noSleep(time.Duration) {}

func TestHD44780Init(t *testing.T) {
	rec := &recorder{}
	d := newHD44780(rec, 2, 16, noSleep)
	d.init()

	want := []byte{0x3, 0x3, 0x3, 0x2}
	for i, n := range want {
		if rec.nibbles[i].val != n || rec.nibbles[i].rs != 0 {
			t.Fatalf("nibble %d = %+v, want %#x", i, rec.nibbles[i], n)
		}
	}
	rec.nibbles = rec.nibbles[len(want):]

	cmds := []byte{0x28, 0x0C, 0x01, 0x06}
	got := rec.bytes(t)
	if len(got) != len(cmds) {
		t.Fatalf("got %d commands, want %d", len(got), len(cmds))
	}
	for i, c := range cmds {
		if got[i].val != c || got[i].rs != 0 {
			t.Errorf("command %d = %#x, want %#x", i, got[i].val, c)
		}
	}
}

func TestHD44780WriteAndCursor(t *testing.T) {
	rec := &recorder{}
	d := newHD44780(rec, 2, 16, noSleep)

	d.SetCursor(1, 2)
	d.WriteString("HI")
	got := rec.bytes(t)
	want := []latched{{0, 0xC2}, {1, 'H'}, {1, 'I'}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if d.Text()[1] != "  HI" {
		t.Errorf("mirror row 1 = %q", d.Text()[1])
	}

	// Writes past the last column never reach the module.
	d.SetCursor(0, 16)
	rec.bytes(t)
	d.WriteString("XY")
	if len(rec.nibbles) != 0 {
		t.Errorf("clipped write sent %d nibbles", len(rec.nibbles))
	}
}

func TestHD44780CreateGlyph(t *testing.T) {
	rec := &recorder{}
	d := newHD44780(rec, 2, 16, noSleep)
	d.SetCursor(0, 5)
	rec.bytes(t)

	if err := d.CreateGlyph(SlotHeart, Heart); err != nil {
		t.Fatal(err)
	}
	got := rec.bytes(t)
	if len(got) != 10 {
		t.Fatalf("got %d bytes, want 10", len(got))
	}
	if got[0] != (latched{0, 0x40 | 4<<3}) {
		t.Errorf("cgram address = %+v", got[0])
	}
	for i, row := range Heart {
		if got[1+i] != (latched{1, row}) {
			t.Errorf("row %d = %+v, want %#x", i, got[1+i], row)
		}
	}
	if got[9] != (latched{0, 0x85}) {
		t.Errorf("ddram restore = %+v, want 0x85", got[9])
	}
}

func TestHD44780ClearAndEnable(t *testing.T) {
	rec := &recorder{}
	d := newHD44780(rec, 2, 16, noSleep)
	d.Enable()
	d.Clear()
	got := rec.bytes(t)
	if len(got) != 2 || got[0].val != 0x0C || got[1].val != 0x01 {
		t.Errorf("got %+v", got)
	}
	if !d.Enabled() {
		t.Error("mirror not enabled")
	}
	d.Release()
	if !rec.closed {
		t.Error("pins not closed")
	}
}

func TestHD44780RowAddresses(t *testing.T) {
	d := newHD44780(&recorder{}, 4, 20, noSleep)
	want := []byte{0x00, 0x40, 0x14, 0x54}
	for row, addr := range want {
		d.SetCursor(row, 0)
		if got := d.address(); got != addr {
			t.Errorf("row %d address = %#x, want %#x", row, got, addr)
		}
	}
}
