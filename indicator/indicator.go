// Package indicator drives the bank of LEDs the menu actions switch.
package indicator

// Indicator is the interface for LED bank implementations (GPIO pins,
// neopixels, etc). The whole bank is switched together.
type Indicator interface {
	// On lights every LED in the bank.
	On()

	// Off turns every LED in the bank off.
	Off()

	// Release turns the bank off and releases any hardware resources.
	Release() error
}

// Config holds configuration for indicator implementations.
type Config struct {
	// BCM pin numbers of discrete LEDs (empty = not configured)
	Pins []uint8 `yaml:"pins"`

	// Drive the pins low to light the LEDs
	ActiveLow bool `yaml:"active_low"`

	// Neopixel pipe path (empty = not configured)
	NeopixelPipe string `yaml:"neopixel_pipe"`

	// Colour written to the neopixel strip when lit, as hex RGB
	NeopixelColor string `yaml:"neopixel_color"`
}

// New creates an Indicator based on the provided configuration.
// Returns a Multi indicator if both GPIO and Neopixel are configured.
func New(cfg Config) (Indicator, error) {
	var indicators []Indicator

	if len(cfg.Pins) > 0 {
		gpio, err := NewGPIO(cfg.Pins, cfg.ActiveLow)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, gpio)
	}

	if cfg.NeopixelPipe != "" {
		neo, err := NewNeopixel(cfg.NeopixelPipe, cfg.NeopixelColor)
		if err != nil {
			for _, ind := range indicators {
				ind.Release()
			}
			return nil, err
		}
		indicators = append(indicators, neo)
	}

	if len(indicators) == 0 {
		return &Noop{}, nil
	}
	if len(indicators) == 1 {
		return indicators[0], nil
	}
	return NewMulti(indicators...), nil
}
