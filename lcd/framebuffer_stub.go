//go:build !screen

package lcd

// ScreenSupported returns whether framebuffer support is compiled in.
func ScreenSupported() bool {
	return false
}

// Framebuffer is a placeholder when built without the screen tag.
type Framebuffer struct {
	*Buffer
}

// NewFramebuffer returns ErrScreenNotCompiled.
func NewFramebuffer(cfg Config) (*Framebuffer, error) {
	return nil, ErrScreenNotCompiled
}
