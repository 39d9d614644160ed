package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"lcdmenu/encoder"
	"lcdmenu/eventpipe"
	"lcdmenu/indicator"
	"lcdmenu/lcd"
	"lcdmenu/menu"
	"lcdmenu/mqtt"
)

const defaultConfigFile = "lcdmenu.cfg"

// Config is the main configuration structure for lcdmenu.
type Config struct {
	// Encoder input bus
	Encoder encoder.Config `yaml:"encoder"`

	// Character display
	Display lcd.Config `yaml:"display"`

	// LED bank
	Indicator indicator.Config `yaml:"indicator"`

	// Menu info text and action timings
	Menu menu.Config `yaml:"menu"`

	Sampler SamplerConfig `yaml:"sampler"`
	Loop    LoopConfig    `yaml:"loop"`

	// Bench-test command pipe
	EventPipe eventpipe.Config `yaml:"event_pipe"`

	// MQTT connection settings
	MQTT mqtt.Config `yaml:"mqtt"`

	// General settings
	ClientID string        `yaml:"client_id"`
	PingSecs int           `yaml:"ping_secs"`
	Logging  LoggingConfig `yaml:"logging"`
}

// SamplerConfig sets the encoder sampling period.
type SamplerConfig struct {
	PeriodMs int `yaml:"period_ms"`
}

// LoopConfig sets the menu loop cadence.
type LoopConfig struct {
	CadenceMs int `yaml:"cadence_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// loadConfig reads and validates the YAML config at path. A missing default
// config file yields the built-in defaults (simulated encoder, console display).
func loadConfig(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == defaultConfigFile:
	default:
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sampler.PeriodMs == 0 {
		c.Sampler.PeriodMs = 1
	}
	if c.Loop.CadenceMs == 0 {
		c.Loop.CadenceMs = 100
	}
	if c.Display.Rows == 0 {
		c.Display.Rows = lcd.DefaultRows
	}
	if c.Display.Cols == 0 {
		c.Display.Cols = lcd.DefaultCols
	}
	if c.ClientID == "" {
		c.ClientID = "lcdmenu"
	}
	if c.PingSecs == 0 {
		c.PingSecs = 120
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Menu.ApplyDefaults()
}

func (c *Config) validate() error {
	if c.Sampler.PeriodMs < 0 {
		return fmt.Errorf("sampler.period_ms must be positive, got %d", c.Sampler.PeriodMs)
	}
	if c.Loop.CadenceMs < 0 {
		return fmt.Errorf("loop.cadence_ms must be positive, got %d", c.Loop.CadenceMs)
	}
	if c.PingSecs < 0 {
		return fmt.Errorf("ping_secs must be positive, got %d", c.PingSecs)
	}
	if c.Display.Rows < 1 || c.Display.Cols < 1 {
		return fmt.Errorf("display geometry %dx%d is invalid", c.Display.Cols, c.Display.Rows)
	}
	switch c.Encoder.Type {
	case "", "sim", "gpiocdev", "gpiomem", "serial", "evdev":
	default:
		return fmt.Errorf("%w: %q", encoder.ErrUnknownBus, c.Encoder.Type)
	}
	switch c.Display.Type {
	case "", "console", "none", "hd44780", "framebuffer":
	default:
		return fmt.Errorf("%w: %q", lcd.ErrUnknownDisplay, c.Display.Type)
	}
	if (c.Encoder.Type == "serial" || c.Encoder.Type == "evdev") && c.Encoder.Device == "" {
		return fmt.Errorf("encoder type %s requires device", c.Encoder.Type)
	}
	m := c.Menu
	if m.FlashCount < 0 || m.FlashPeriodMs < 0 || m.HeartCount < 0 || m.HeartDwellMs < 0 || m.InfoDwellMs < 0 {
		return errors.New("menu counts and durations must not be negative")
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
