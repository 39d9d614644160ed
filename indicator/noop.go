package indicator

// Noop implements Indicator but does nothing.
// Used when no LEDs are configured.
type Noop struct{}

// On implements Indicator.On.
func (n *Noop) On() {}

// Off implements Indicator.Off.
func (n *Noop) Off() {}

// Release implements Indicator.Release.
func (n *Noop) Release() error {
	return nil
}
