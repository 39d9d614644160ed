//go:build !linux

package encoder

// GPIOBus is a stub for non-linux platforms.
type GPIOBus struct{}

// NewGPIO returns an error on non-linux platforms.
func NewGPIO(cfg Config) (*GPIOBus, error) { return nil, ErrNotSupported }

func (g *GPIOBus) Read() (Sample, error) { return 0, ErrNotSupported }
func (g *GPIOBus) Release() error        { return nil }

// MemBus is a stub for non-linux platforms.
type MemBus struct{}

// NewMem returns an error on non-linux platforms.
func NewMem(cfg Config) (*MemBus, error) { return nil, ErrNotSupported }

func (m *MemBus) Read() (Sample, error) { return 0, ErrNotSupported }
func (m *MemBus) Release() error        { return nil }

// EvdevBus is a stub for non-linux platforms.
type EvdevBus struct{}

// NewEvdev returns an error on non-linux platforms.
func NewEvdev(device string, buttonCode int, invert bool) (*EvdevBus, error) {
	return nil, ErrNotSupported
}

func (e *EvdevBus) Read() (Sample, error) { return 0, ErrNotSupported }
func (e *EvdevBus) Release() error        { return nil }
