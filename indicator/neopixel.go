package indicator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Neopixel command strings for the external neopixel tool.
const (
	neoDefaultColor = "ffffff"
	neoOff          = "@0 000000"
)

// Neopixel implements Indicator using an external neopixel tool via named pipe.
type Neopixel struct {
	pipe     io.WriteCloser
	onString string
}

// NewNeopixel creates a new Neopixel indicator lighting the strip in color.
func NewNeopixel(pipePath, color string) (*Neopixel, error) {
	f, err := os.OpenFile(pipePath, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open neopixel pipe %s: %w", pipePath, err)
	}
	return newNeopixel(f, color), nil
}

func newNeopixel(w io.WriteCloser, color string) *Neopixel {
	if color == "" {
		color = neoDefaultColor
	}
	return &Neopixel{pipe: w, onString: "@0 " + color}
}

// On implements Indicator.On.
func (n *Neopixel) On() {
	n.write(n.onString)
}

// Off implements Indicator.Off.
func (n *Neopixel) Off() {
	n.write(neoOff)
}

// Release implements Indicator.Release.
func (n *Neopixel) Release() error {
	if n.pipe == nil {
		return nil
	}
	n.Off()
	return n.pipe.Close()
}

func (n *Neopixel) write(s string) {
	if n.pipe == nil {
		return
	}
	if _, err := n.pipe.Write([]byte(s + "\n")); err != nil {
		slog.Warn("neopixel write failed", "error", err)
	}
}
