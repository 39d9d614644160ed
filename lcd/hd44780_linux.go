//go:build linux

package lcd

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// NewHD44780 requests the six module lines as outputs and initialises the
// controller.
func NewHD44780(cfg Config) (*HD44780, error) {
	chip := cfg.Chip
	if chip == "" {
		chip = "gpiochip0"
	}
	offsets := []int{cfg.RS, cfg.E, cfg.D4, cfg.D5, cfg.D6, cfg.D7}
	lines, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.AsOutput(0, 0, 0, 0, 0, 0),
		gpiocdev.WithConsumer("lcdmenu"))
	if err != nil {
		return nil, fmt.Errorf("request hd44780 lines on %s: %w", chip, err)
	}

	d := newHD44780(lines, cfg.Rows, cfg.Cols, time.Sleep)
	d.init()
	if d.err != nil {
		lines.Close()
		return nil, fmt.Errorf("init hd44780: %w", d.err)
	}
	return d, nil
}
