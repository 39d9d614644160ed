package menu

import "time"

// DefaultCadence is the main loop period.
const DefaultCadence = 100 * time.Millisecond

// Config holds the info text and action timings. Durations are in
// milliseconds. A zero or empty field selects its default, so a count of 0
// cannot disable an action.
type Config struct {
	InfoText      string `yaml:"info_text"`
	InfoDwellMs   int    `yaml:"info_dwell_ms"`
	FlashCount    int    `yaml:"flash_count"`
	FlashPeriodMs int    `yaml:"flash_period_ms"`
	HeartCount    int    `yaml:"heart_count"`
	HeartDwellMs  int    `yaml:"heart_dwell_ms"`
}

// Defaults for the action table.
const (
	DefaultInfoText      = "ECE 425 Microprocessor"
	DefaultInfoDwellMs   = 3000
	DefaultFlashCount    = 5
	DefaultFlashPeriodMs = 500
	DefaultHeartCount    = 3
	DefaultHeartDwellMs  = 3000
)

// ApplyDefaults fills zero fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.InfoText == "" {
		c.InfoText = DefaultInfoText
	}
	if c.InfoDwellMs == 0 {
		c.InfoDwellMs = DefaultInfoDwellMs
	}
	if c.FlashCount == 0 {
		c.FlashCount = DefaultFlashCount
	}
	if c.FlashPeriodMs == 0 {
		c.FlashPeriodMs = DefaultFlashPeriodMs
	}
	if c.HeartCount == 0 {
		c.HeartCount = DefaultHeartCount
	}
	if c.HeartDwellMs == 0 {
		c.HeartDwellMs = DefaultHeartDwellMs
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
