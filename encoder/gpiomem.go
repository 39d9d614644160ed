//go:build linux

package encoder

import (
	"fmt"

	"github.com/warthog618/gpio"
)

// MemBus reads the encoder lines through memory-mapped GPIO registers
// (/dev/gpiomem). Pin numbers are BCM numbers.
type MemBus struct {
	pins      []*gpio.Pin
	activeLow bool
}

// NewMem maps the GPIO block and configures the encoder pins as inputs.
func NewMem(cfg Config) (*MemBus, error) {
	if err := gpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpiomem: %w", err)
	}

	nums := []int{cfg.PinA, cfg.PinB, cfg.ButtonPin}
	if cfg.SwitchPin != nil {
		nums = append(nums, *cfg.SwitchPin)
	}

	m := &MemBus{activeLow: cfg.ActiveLow}
	for _, n := range nums {
		pin := gpio.NewPin(n)
		pin.Input()
		if cfg.PullUp {
			pin.PullUp()
		}
		m.pins = append(m.pins, pin)
	}
	return m, nil
}

// Read implements Bus.Read.
func (m *MemBus) Read() (Sample, error) {
	var lv [4]bool
	for i, pin := range m.pins {
		lv[i] = (pin.Read() == gpio.High) != m.activeLow
	}
	return Pack(lv[0], lv[1], lv[2], lv[3]), nil
}

// Release implements Bus.Release.
func (m *MemBus) Release() error {
	return gpio.Close()
}
