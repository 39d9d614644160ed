package encoder

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tarm/serial"
)

// Bridge frame: a microcontroller samples the encoder pins and sends one
// byte per change, high nibble 0xA0 as a marker and the sample in the low
// nibble. Anything else on the line is noise and is dropped.
const (
	frameMarker = 0xA0
	frameMask   = 0xF0
)

// SerialBus reads encoder samples streamed over a serial bridge. A reader
// goroutine keeps the latest sample; Read never waits on the port.
type SerialBus struct {
	port   io.ReadCloser
	device string
	state  atomic.Uint32
	failed atomic.Bool

	mu  sync.Mutex
	err error
}

// NewSerial opens the serial device and starts the reader.
func NewSerial(device string, baud int) (*SerialBus, error) {
	if baud == 0 {
		baud = 115200
	}
	c := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Second,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}

	s := &SerialBus{port: port, device: device}
	go s.pump(port)
	return s, nil
}

// decodeFrame extracts a sample from one bridge byte.
func decodeFrame(b byte) (Sample, bool) {
	if b&frameMask != frameMarker {
		return 0, false
	}
	return Sample(b) & MaskAll, true
}

func (s *SerialBus) pump(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if sample, ok := decodeFrame(b); ok {
				s.state.Store(uint32(sample))
			}
		}
		if err == io.EOF {
			// tarm/serial reports a read timeout as a zero-length read
			continue
		}
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			s.failed.Store(true)
			slog.Warn("serial encoder reader stopped", "device", s.device, "err", err)
			return
		}
	}
}

// Read implements Bus.Read.
func (s *SerialBus) Read() (Sample, error) {
	if s.failed.Load() {
		s.mu.Lock()
		defer s.mu.Unlock()
		return 0, s.err
	}
	return Sample(s.state.Load()), nil
}

// Release implements Bus.Release.
func (s *SerialBus) Release() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}
