// Package sampler polls the encoder bus on a fixed period and maintains the
// state shared with the menu loop: the bounded selection counter and the
// one-shot button latch.
//
// The sampler goroutine is the only writer of the selection and the only
// goroutine that sets the latch. The menu loop reads the selection and clears
// the latch. Each field is its own atomic cell; no reader needs a consistent
// snapshot of more than one field.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"lcdmenu/encoder"
)

// DefaultPeriod is the sampling interval.
const DefaultPeriod = time.Millisecond

// errorLogEvery limits bus error logging to one line per this many failures.
const errorLogEvery = 1000

// Bus is the part of encoder.Bus the sampler needs.
type Bus interface {
	Read() (encoder.Sample, error)
}

// Sampler decodes encoder samples into selection changes and button presses.
type Sampler struct {
	bus    Bus
	hi     int32
	logger *slog.Logger

	selection atomic.Int32
	pressed   atomic.Bool
	last      atomic.Uint32

	ticks      atomic.Uint64
	readErrors atomic.Uint64
}

// Stats holds sampler counters.
type Stats struct {
	Ticks      uint64
	ReadErrors uint64
}

// New creates a sampler whose selection ranges over [0, maxSlot].
func New(bus Bus, maxSlot int, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		bus:    bus,
		hi:     int32(maxSlot),
		logger: logger,
	}
}

// Prime records the current bus level as the previous sample so that lines
// already high at startup are not mistaken for edges.
func (s *Sampler) Prime() error {
	cur, err := s.bus.Read()
	if err != nil {
		return fmt.Errorf("prime encoder state: %w", err)
	}
	s.last.Store(uint32(cur))
	return nil
}

// Tick runs one sampling step. It never blocks beyond the bus read.
func (s *Sampler) Tick() {
	cur, err := s.bus.Read()
	if err != nil {
		if n := s.readErrors.Add(1); n == 1 || n%errorLogEvery == 0 {
			s.logger.Warn("encoder read failed", "err", err, "count", n)
		}
		return
	}
	prev := encoder.Sample(s.last.Load())

	if encoder.Pressed(cur, prev) {
		s.pressed.Store(true)
	}

	// Clamp first. A delta is applied only when the counter is in range and
	// the result stays in range, so readers never see a value outside it.
	sel := s.selection.Load()
	switch {
	case sel < 0:
		s.selection.Store(0)
	case sel > s.hi:
		s.selection.Store(s.hi)
	default:
		if d := int32(encoder.Rotation(cur, prev)); d != 0 {
			if next := sel + d; next >= 0 && next <= s.hi {
				s.selection.Store(next)
			}
		}
	}

	s.last.Store(uint32(cur))
	s.ticks.Add(1)
}

// Run calls Tick every period until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context, period time.Duration) {
	Every(ctx, period, s.Tick)
}

// Selection returns the current menu slot.
func (s *Sampler) Selection() int {
	return int(s.selection.Load())
}

// PressPending reports whether a press is latched.
func (s *Sampler) PressPending() bool {
	return s.pressed.Load()
}

// TakePress clears the latch and reports whether a press was pending.
// Presses that arrived while the latch was already set are coalesced.
func (s *Sampler) TakePress() bool {
	return s.pressed.CompareAndSwap(true, false)
}

// Switch returns the switch level from the most recent sample.
func (s *Sampler) Switch() bool {
	return encoder.Sample(s.last.Load()).Switch()
}

// Last returns the most recent sample.
func (s *Sampler) Last() encoder.Sample {
	return encoder.Sample(s.last.Load())
}

// Stats returns the sampler counters.
func (s *Sampler) Stats() Stats {
	return Stats{
		Ticks:      s.ticks.Load(),
		ReadErrors: s.readErrors.Load(),
	}
}
