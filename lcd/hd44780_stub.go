//go:build !linux

package lcd

// NewHD44780 returns ErrNotSupported on non-Linux platforms.
func NewHD44780(cfg Config) (*HD44780, error) {
	return nil, ErrNotSupported
}
