package encoder

import "testing"

func TestRotation(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur Sample
		want      int
	}{
		{"A rises with B low", 0b00, 0b01, CCW},
		{"A rises with B high", 0b00, 0b11, CW},
		{"A falls", 0b01, 0b00, Idle},
		{"A held high", 0b01, 0b01, Idle},
		{"A held low, B rises", 0b00, 0b10, Idle},
		{"A rises while B was already high", 0b10, 0b11, CW},
		{"A falls with B high", 0b11, 0b10, Idle},
		{"button does not rotate", 0b00, 0b0100, Idle},
		{"A rises with button held", 0b0100, 0b0111, CW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rotation(tt.cur, tt.prev); got != tt.want {
				t.Errorf("Rotation(%v, %v) = %d, want %d", tt.cur, tt.prev, got, tt.want)
			}
		})
	}
}

// Every (prev, cur) pair over the full nibble.
func TestRotation_Exhaustive(t *testing.T) {
	for p := Sample(0); p <= MaskAll; p++ {
		for c := Sample(0); c <= MaskAll; c++ {
			want := Idle
			if c.A() && !p.A() {
				want = CCW
				if c.B() {
					want = CW
				}
			}
			if got := Rotation(c, p); got != want {
				t.Errorf("Rotation(%v, %v) = %d, want %d", c, p, got, want)
			}
		}
	}
}

func TestPressed(t *testing.T) {
	if !Pressed(MaskButton, 0) {
		t.Error("expected press on rising edge")
	}
	if Pressed(MaskButton, MaskButton) {
		t.Error("held button must not re-trigger")
	}
	if Pressed(0, MaskButton) {
		t.Error("release is not a press")
	}
	if Pressed(MaskSwitch|MaskA, 0) {
		t.Error("other lines are not a press")
	}
}

func TestPackAndLevels(t *testing.T) {
	s := Pack(true, false, true, true)
	if s != MaskA|MaskButton|MaskSwitch {
		t.Fatalf("Pack = %v", s)
	}
	if !s.A() || s.B() || !s.Button() || !s.Switch() {
		t.Errorf("levels wrong for %v", s)
	}
	if got := s.String(); got != "1101" {
		t.Errorf("String() = %q", got)
	}
}

func TestNew_UnknownType(t *testing.T) {
	if _, err := New(Config{Type: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown bus type")
	}
}

func TestNew_DefaultIsSim(t *testing.T) {
	b, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := b.(*Sim); !ok {
		t.Fatalf("expected *Sim, got %T", b)
	}
}
