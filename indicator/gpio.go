package indicator

import (
	"fmt"

	"github.com/hjkoskel/govattu"
)

// GPIO implements Indicator using discrete GPIO LED pins.
type GPIO struct {
	hw        govattu.Vattu
	pins      []uint8
	activeLow bool
}

// NewGPIO creates a new GPIO-based indicator. All pins start off.
func NewGPIO(pins []uint8, activeLow bool) (*GPIO, error) {
	hw, err := govattu.Open()
	if err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	g := &GPIO{
		hw:        hw,
		pins:      pins,
		activeLow: activeLow,
	}
	for _, p := range pins {
		hw.PinMode(p, govattu.ALToutput)
	}
	g.Off()
	return g, nil
}

// On implements Indicator.On.
func (g *GPIO) On() {
	g.drive(!g.activeLow)
}

// Off implements Indicator.Off.
func (g *GPIO) Off() {
	g.drive(g.activeLow)
}

// Release implements Indicator.Release.
func (g *GPIO) Release() error {
	g.Off()
	return g.hw.Close()
}

func (g *GPIO) drive(high bool) {
	for _, p := range g.pins {
		if high {
			g.hw.PinSet(p)
		} else {
			g.hw.PinClear(p)
		}
	}
}
