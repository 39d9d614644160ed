//go:build linux

package encoder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kenshaw/evdev"
)

// Relative axis codes a USB knob reports turns on (<linux/input.h>).
const (
	relDial  = 0x07
	relWheel = 0x08
)

// defaultButtonCode is BTN_0.
const defaultButtonCode = 0x100

// EvdevBus adapts a USB knob (input event device) to the sampled bus.
// Relative turns are replayed as quadrature cycles on an internal Sim so the
// sampler sees the same edges a PmodENC would produce.
type EvdevBus struct {
	*Sim
	device     *evdev.Evdev
	buttonCode uint16
	invert     bool
	cancel     context.CancelFunc
}

// NewEvdev opens the input device and starts translating its events.
func NewEvdev(device string, buttonCode int, invert bool) (*EvdevBus, error) {
	dev, err := evdev.OpenFile(device)
	if err != nil {
		return nil, fmt.Errorf("open evdev %s: %w", device, err)
	}
	if buttonCode == 0 {
		buttonCode = defaultButtonCode
	}

	slog.Info("opened knob device", "name", dev.Name(),
		"vendor", fmt.Sprintf("0x%04x", dev.ID().Vendor),
		"product", fmt.Sprintf("0x%04x", dev.ID().Product))

	ctx, cancel := context.WithCancel(context.Background())
	e := &EvdevBus{
		Sim:        NewSim(),
		device:     dev,
		buttonCode: uint16(buttonCode),
		invert:     invert,
		cancel:     cancel,
	}
	go e.pump(ctx)
	return e, nil
}

func (e *EvdevBus) pump(ctx context.Context) {
	ch := e.device.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			if event == nil {
				slog.Warn("knob device closed")
				return
			}
			switch event.Type.(type) {
			case evdev.RelativeType:
				if event.Code != relDial && event.Code != relWheel {
					continue
				}
				n := int(event.Value)
				if e.invert {
					n = -n
				}
				e.Turn(n)
			case evdev.KeyType:
				if event.Code != e.buttonCode {
					continue
				}
				// 2 is autorepeat
				switch event.Value {
				case 1:
					e.SetButton(true)
				case 0:
					e.SetButton(false)
				}
			}
		}
	}
}

// Release implements Bus.Release.
func (e *EvdevBus) Release() error {
	e.cancel()
	if e.device == nil {
		return nil
	}
	return e.device.Close()
}
