package encoder

import (
	"errors"
	"fmt"
)

// Sample is one read of the encoder lines packed into the low nibble:
// bit 0 = channel A, bit 1 = channel B, bit 2 = button, bit 3 = switch.
type Sample uint8

const (
	MaskA      Sample = 0x01
	MaskB      Sample = 0x02
	MaskButton Sample = 0x04
	MaskSwitch Sample = 0x08
	MaskAll    Sample = 0x0F
)

// Rotation deltas.
const (
	CW   = 1
	CCW  = -1
	Idle = 0
)

var (
	ErrNotSupported = errors.New("encoder bus not supported on this platform")
	ErrUnknownBus   = errors.New("unknown encoder bus type")
)

// Pack builds a Sample from individual line levels.
func Pack(a, b, button, sw bool) Sample {
	var s Sample
	if a {
		s |= MaskA
	}
	if b {
		s |= MaskB
	}
	if button {
		s |= MaskButton
	}
	if sw {
		s |= MaskSwitch
	}
	return s
}

func (s Sample) A() bool      { return s&MaskA != 0 }
func (s Sample) B() bool      { return s&MaskB != 0 }
func (s Sample) Button() bool { return s&MaskButton != 0 }
func (s Sample) Switch() bool { return s&MaskSwitch != 0 }

func (s Sample) String() string {
	return fmt.Sprintf("%04b", uint8(s&MaskAll))
}

// Rotation decodes one detent from a pair of samples. Only the rising edge
// of channel A counts; the level of B at that edge gives the direction.
func Rotation(cur, prev Sample) int {
	if cur.A() && !prev.A() {
		if cur.B() {
			return CW
		}
		return CCW
	}
	return Idle
}

// Pressed reports a 0->1 transition of the button line.
func Pressed(cur, prev Sample) bool {
	return cur.Button() && !prev.Button()
}

// Bus is a source of encoder samples.
type Bus interface {
	// Read returns the current level of the four lines. It must not block.
	Read() (Sample, error)

	// Release releases any hardware resources.
	Release() error
}

// Config holds configuration for the encoder input bus.
type Config struct {
	Type      string `yaml:"type"` // "gpiocdev", "gpiomem", "serial", "evdev", "sim"
	Chip      string `yaml:"chip"`
	PinA      int    `yaml:"pin_a"`
	PinB      int    `yaml:"pin_b"`
	ButtonPin int    `yaml:"button_pin"`
	SwitchPin *int   `yaml:"switch_pin"` // nil = switch not wired
	PullUp    bool   `yaml:"pull_up"`
	ActiveLow bool   `yaml:"active_low"`

	// serial and evdev backends
	Device     string `yaml:"device"`
	Baud       int    `yaml:"baud"`
	ButtonCode int    `yaml:"button_code"` // evdev key code treated as the push button
	Invert     bool   `yaml:"invert"`      // evdev: swap turn direction
}

// New creates a Bus based on the provided configuration.
// An empty type selects the simulated bus.
func New(cfg Config) (Bus, error) {
	switch cfg.Type {
	case "", "sim":
		return NewSim(), nil
	case "gpiocdev":
		b, err := NewGPIO(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "gpiomem":
		b, err := NewMem(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "serial":
		b, err := NewSerial(cfg.Device, cfg.Baud)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "evdev":
		b, err := NewEvdev(cfg.Device, cfg.ButtonCode, cfg.Invert)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBus, cfg.Type)
	}
}
