//go:build screen

package lcd

import (
	"encoding/binary"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/d21d3q/framebuffer"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// ScreenSupported returns whether framebuffer support is compiled in.
func ScreenSupported() bool {
	return true
}

// Framebuffer renders the character grid onto a Linux framebuffer, drawing
// each cell as an LCD-style 5x8 block.
type Framebuffer struct {
	*Buffer
	dc              *gg.Context
	pixBuffer       []byte
	backBuffer      []byte
	rgbaImage       *image.RGBA
	width           int
	height          int
	lineLengthBytes int
	scale           int
}

// NewFramebuffer opens the framebuffer device and draws a blank panel.
func NewFramebuffer(cfg Config) (*Framebuffer, error) {
	device := cfg.Device
	if device == "" {
		device = "/dev/fb0"
	}
	fb, err := framebuffer.OpenFrameBuffer(device, os.O_RDWR)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}
	varInfo, err := fb.VarScreenInfo()
	if err != nil {
		return nil, fmt.Errorf("get variable screen info: %w", err)
	}
	fixedInfo, err := fb.FixScreenInfo()
	if err != nil {
		return nil, fmt.Errorf("get fixed screen info: %w", err)
	}

	f := &Framebuffer{Buffer: NewBuffer(cfg.Rows, cfg.Cols)}
	f.pixBuffer, err = fb.Pixels()
	if err != nil {
		return nil, fmt.Errorf("get pixel data: %w", err)
	}
	f.width = int(varInfo.XRes)
	f.height = int(varInfo.YRes)
	f.lineLengthBytes = int(fixedInfo.LineLength)
	f.backBuffer = make([]byte, f.height*f.lineLengthBytes)

	// Each cell is 6x9 dots including the gap.
	f.scale = cfg.Scale
	if f.scale <= 0 {
		f.scale = min(f.width/(cfg.Cols*6), f.height/(cfg.Rows*9))
		if f.scale < 1 {
			f.scale = 1
		}
	}
	slog.Info("framebuffer display", "device", device, "width", f.width, "height", f.height,
		"bpp", varInfo.BitsPerPixel, "scale", f.scale)

	f.rgbaImage = image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	f.dc = gg.NewContextForRGBA(f.rgbaImage)
	f.dc.SetFontFace(basicfont.Face7x13)
	f.draw()
	return f, nil
}

// Clear implements Display.Clear.
func (f *Framebuffer) Clear() {
	f.Buffer.Clear()
	f.draw()
}

// WriteString implements Display.WriteString.
func (f *Framebuffer) WriteString(s string) {
	f.Buffer.WriteString(s)
	f.draw()
}

// WriteByte implements Display.WriteByte.
func (f *Framebuffer) WriteByte(c byte) error {
	f.Buffer.WriteByte(c)
	f.draw()
	return nil
}

// Release blanks the screen.
func (f *Framebuffer) Release() error {
	for i := range f.pixBuffer {
		f.pixBuffer[i] = 0
	}
	return nil
}

func (f *Framebuffer) draw() {
	f.dc.SetRGB(0.1, 0.1, 0.6)
	f.dc.Clear()

	s := float64(f.scale)
	cellW, cellH := 6*s, 9*s
	x0 := (float64(f.width) - cellW*float64(f.cols)) / 2
	y0 := (float64(f.height) - cellH*float64(f.rows)) / 2

	for r := 0; r < f.rows; r++ {
		for c := 0; c < f.cols; c++ {
			x, y := x0+float64(c)*cellW, y0+float64(r)*cellH
			f.dc.SetRGB(0.15, 0.15, 0.75)
			f.dc.DrawRectangle(x, y, 5*s, 8*s)
			f.dc.Fill()

			code := f.Cell(r, c)
			f.dc.SetRGB(0.9, 0.9, 1)
			if code < glyphSlots {
				g := f.Glyph(code)
				for gy := 0; gy < 8; gy++ {
					for gx := 0; gx < 5; gx++ {
						if g.Dot(gx, gy) {
							f.dc.DrawRectangle(x+float64(gx)*s, y+float64(gy)*s, s, s)
						}
					}
				}
				f.dc.Fill()
				continue
			}
			if code != ' ' {
				f.dc.Push()
				f.dc.ScaleAbout(s*5/7, s*8/13, x, y)
				f.dc.DrawStringAnchored(string(rune(code)), x+3.5, y+6.5, 0.5, 0.5)
				f.dc.Pop()
			}
		}
	}
	f.update()
}

func (f *Framebuffer) update() {
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			r, g, b, _ := f.rgbaImage.At(x, y).RGBA()
			r5 := uint16(r >> (16 - 5))
			g6 := uint16(g >> (16 - 6))
			b5 := uint16(b >> (16 - 5))
			pixel16 := (r5 << 11) | (g6 << 5) | b5
			fbIdx := (y * f.lineLengthBytes) + (x * 2)
			if fbIdx+1 < len(f.backBuffer) {
				binary.LittleEndian.PutUint16(f.backBuffer[fbIdx:], pixel16)
			}
		}
	}
	copy(f.pixBuffer, f.backBuffer)
}
