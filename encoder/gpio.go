//go:build linux

package encoder

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOBus reads the encoder lines through the GPIO character device.
// All lines are requested together so one Read is one atomic snapshot.
type GPIOBus struct {
	lines *gpiocdev.Lines
	vals  []int
}

// NewGPIO requests the encoder lines as inputs.
func NewGPIO(cfg Config) (*GPIOBus, error) {
	if cfg.Chip == "" {
		cfg.Chip = "gpiochip0"
	}

	offsets := []int{cfg.PinA, cfg.PinB, cfg.ButtonPin}
	if cfg.SwitchPin != nil {
		offsets = append(offsets, *cfg.SwitchPin)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	if cfg.PullUp {
		opts = append(opts, gpiocdev.WithPullUp)
	}
	if cfg.ActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	lines, err := gpiocdev.RequestLines(cfg.Chip, offsets, opts...)
	if err != nil {
		return nil, fmt.Errorf("request encoder lines on %s: %w", cfg.Chip, err)
	}

	return &GPIOBus{
		lines: lines,
		vals:  make([]int, len(offsets)),
	}, nil
}

// Read implements Bus.Read.
func (g *GPIOBus) Read() (Sample, error) {
	if err := g.lines.Values(g.vals); err != nil {
		return 0, err
	}
	sw := len(g.vals) > 3 && g.vals[3] != 0
	return Pack(g.vals[0] != 0, g.vals[1] != 0, g.vals[2] != 0, sw), nil
}

// Release implements Bus.Release.
func (g *GPIOBus) Release() error {
	if g.lines == nil {
		return nil
	}
	return g.lines.Close()
}
