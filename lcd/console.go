package lcd

import (
	"fmt"
	"io"
	"strings"
)

// Console draws the display as a framed text box on a writer each time the
// visible contents change. Used when no panel is attached.
type Console struct {
	*Buffer
	w    io.Writer
	last string
}

// NewConsole creates a console display writing frames to w.
func NewConsole(w io.Writer, rows, cols int) *Console {
	return &Console{Buffer: NewBuffer(rows, cols), w: w}
}

// Clear implements Display.Clear.
func (c *Console) Clear() {
	c.Buffer.Clear()
	c.flush()
}

// WriteString implements Display.WriteString.
func (c *Console) WriteString(s string) {
	c.Buffer.WriteString(s)
	c.flush()
}

// WriteByte implements Display.WriteByte.
func (c *Console) WriteByte(b byte) error {
	if err := c.Buffer.WriteByte(b); err != nil {
		return err
	}
	c.flush()
	return nil
}

func (c *Console) flush() {
	frame := c.frame()
	if frame == c.last {
		return
	}
	c.last = frame
	fmt.Fprint(c.w, frame)
}

func (c *Console) frame() string {
	border := "+" + strings.Repeat("-", c.cols) + "+\n"
	var sb strings.Builder
	sb.WriteString(border)
	for _, line := range c.Text() {
		n := len([]rune(line))
		sb.WriteString("|" + line + strings.Repeat(" ", c.cols-n) + "|\n")
	}
	sb.WriteString(border)
	return sb.String()
}
