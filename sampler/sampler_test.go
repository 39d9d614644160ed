package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"lcdmenu/encoder"
)

const maxSlot = 7

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tickUntilIdle runs the sampler until the simulated bus queue is drained.
func tickUntilIdle(s *Sampler, sim *encoder.Sim) {
	for sim.Pending() > 0 {
		s.Tick()
	}
}

func newSim(t *testing.T) (*Sampler, *encoder.Sim) {
	t.Helper()
	sim := encoder.NewSim()
	s := New(sim, maxSlot, quietLogger())
	if err := s.Prime(); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	return s, sim
}

func TestTick_ClockwiseAndCounterClockwise(t *testing.T) {
	s, sim := newSim(t)

	sim.Turn(3)
	tickUntilIdle(s, sim)
	if got := s.Selection(); got != 3 {
		t.Fatalf("after 3 CW: selection=%d, want 3", got)
	}

	sim.Turn(-2)
	tickUntilIdle(s, sim)
	if got := s.Selection(); got != 1 {
		t.Fatalf("after 2 CCW: selection=%d, want 1", got)
	}
}

func TestTick_UpperBoundDropsDelta(t *testing.T) {
	s, sim := newSim(t)

	sim.Turn(20)
	for sim.Pending() > 0 {
		s.Tick()
		if sel := s.Selection(); sel < 0 || sel > maxSlot {
			t.Fatalf("selection %d observed outside [0,%d]", sel, maxSlot)
		}
	}
	if got := s.Selection(); got != maxSlot {
		t.Fatalf("after 20 CW: selection=%d, want %d", got, maxSlot)
	}
}

func TestTick_LowerBoundDropsDelta(t *testing.T) {
	s, sim := newSim(t)

	sim.Turn(-5)
	for sim.Pending() > 0 {
		s.Tick()
		if sel := s.Selection(); sel < 0 {
			t.Fatalf("selection went negative: %d", sel)
		}
	}
	if got := s.Selection(); got != 0 {
		t.Fatalf("selection=%d, want 0", got)
	}

	// one step back up is honoured immediately
	sim.Turn(1)
	tickUntilIdle(s, sim)
	if got := s.Selection(); got != 1 {
		t.Fatalf("selection=%d, want 1", got)
	}
}

func TestTick_ClampsOutOfRangeBeforeApplyingDelta(t *testing.T) {
	s, sim := newSim(t)

	s.selection.Store(maxSlot + 3)
	sim.Turn(-1)
	s.Tick() // first sample of the CCW cycle carries the A edge
	if got := s.Selection(); got != maxSlot {
		t.Fatalf("selection=%d, want clamp to %d with delta dropped", got, maxSlot)
	}

	s.selection.Store(-4)
	s.Tick()
	if got := s.Selection(); got != 0 {
		t.Fatalf("selection=%d, want clamp to 0", got)
	}
}

func TestLatch_SetOnRisingEdgeOnly(t *testing.T) {
	s, sim := newSim(t)

	sim.SetButton(true)
	tickUntilIdle(s, sim)
	if !s.PressPending() {
		t.Fatal("press not latched")
	}
	if !s.TakePress() {
		t.Fatal("TakePress returned false with a latched press")
	}

	// held button: more ticks must not re-latch
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.PressPending() {
		t.Fatal("held button re-triggered the latch")
	}
}

func TestLatch_PersistsUntilTaken(t *testing.T) {
	s, sim := newSim(t)

	sim.Press()
	tickUntilIdle(s, sim)
	for i := 0; i < 50; i++ {
		s.Tick()
	}
	if !s.PressPending() {
		t.Fatal("latch cleared without consumer")
	}
	if !s.TakePress() {
		t.Fatal("expected pending press")
	}
	if s.TakePress() {
		t.Fatal("latch must be one-shot")
	}
}

func TestLatch_SecondPressCoalesced(t *testing.T) {
	s, sim := newSim(t)

	sim.Press()
	sim.Press()
	tickUntilIdle(s, sim)

	if !s.TakePress() {
		t.Fatal("expected one pending press")
	}
	if s.TakePress() {
		t.Fatal("second press while latched must be coalesced")
	}
}

func TestPrime_ButtonHeldAtStartupIsNotAPress(t *testing.T) {
	sim := encoder.NewSim()
	sim.SetButton(true)
	s := New(sim, maxSlot, quietLogger())
	if err := s.Prime(); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	s.Tick()
	if s.PressPending() {
		t.Fatal("button held at startup latched a press")
	}
}

func TestSwitchLevel(t *testing.T) {
	s, sim := newSim(t)
	sim.SetSwitch(true)
	s.Tick()
	if !s.Switch() {
		t.Fatal("switch level not reported")
	}
}

type failingBus struct{ calls atomic.Int32 }

func (f *failingBus) Read() (encoder.Sample, error) {
	f.calls.Add(1)
	return 0, errors.New("bus glitch")
}

func TestTick_ReadErrorKeepsState(t *testing.T) {
	bus := &failingBus{}
	s := New(bus, maxSlot, quietLogger())
	s.selection.Store(4)
	s.pressed.Store(true)

	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if got := s.Selection(); got != 4 {
		t.Errorf("selection changed on failed read: %d", got)
	}
	if !s.PressPending() {
		t.Error("latch lost on failed read")
	}
	st := s.Stats()
	if st.ReadErrors != 5 || st.Ticks != 0 {
		t.Errorf("stats = %+v, want 5 errors and 0 ticks", st)
	}
}

func TestRun_SamplesUntilCancelled(t *testing.T) {
	s, sim := newSim(t)
	sim.Turn(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.Selection() != 2 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("selection=%d after 2s, want 2", s.Selection())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestEvery_DefaultPeriod(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	go Every(ctx, 0, func() {
		if n.Add(1) == 3 {
			cancel()
		}
	})
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		cancel()
		t.Fatal("callback not invoked with default period")
	}
}
