package indicator

// Multi combines multiple Indicator implementations.
type Multi struct {
	indicators []Indicator
}

// NewMulti returns an Indicator fanning out to each of inds.
func NewMulti(inds ...Indicator) *Multi {
	return &Multi{indicators: inds}
}

// On implements Indicator.On.
func (m *Multi) On() {
	for _, ind := range m.indicators {
		ind.On()
	}
}

// Off implements Indicator.Off.
func (m *Multi) Off() {
	for _, ind := range m.indicators {
		ind.Off()
	}
}

// Release implements Indicator.Release.
func (m *Multi) Release() error {
	var lastErr error
	for _, ind := range m.indicators {
		if err := ind.Release(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
