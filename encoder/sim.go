package encoder

import "sync"

// Sim is a software encoder. Turns and presses are queued as the exact
// sample sequences a mechanical quadrature encoder produces, and each Read
// consumes one queued sample. With an empty queue the last level is held.
type Sim struct {
	mu    sync.Mutex
	queue []Sample
	cur   Sample
}

// MaxQueue bounds the samples a Sim holds. Input that does not fit is
// dropped so a Read never waits behind a long append.
const MaxQueue = 1024

// NewSim creates a Sim resting with all lines low.
func NewSim() *Sim {
	return &Sim{}
}

// Gray-code cycles for one detent, starting and ending at rest (A=0, B=0).
// Channel A rises exactly once per cycle.
var (
	cycleCW  = [...]Sample{MaskB, MaskA | MaskB, MaskA, 0}
	cycleCCW = [...]Sample{MaskA, MaskA | MaskB, MaskB, 0}
)

// Read implements Bus.Read.
func (s *Sim) Read() (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) > 0 {
		s.cur = s.queue[0]
		s.queue = s.queue[1:]
	}
	return s.cur, nil
}

// Release implements Bus.Release.
func (s *Sim) Release() error {
	return nil
}

// Turn queues n detents; positive is clockwise. It returns the number of
// detents queued, fewer than |n| when the queue is full.
func (s *Sim) Turn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle := cycleCW[:]
	if n < 0 {
		cycle = cycleCCW[:]
		n = -n
	}
	if room := (MaxQueue - len(s.queue)) / len(cycle); n > room {
		n = room
	}
	for i := 0; i < n; i++ {
		keep := s.tail() &^ (MaskA | MaskB)
		for _, q := range cycle {
			s.queue = append(s.queue, keep|q)
		}
	}
	return n
}

// Press queues a full press and release of the button.
func (s *Sim) Press() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue)+2 > MaxQueue {
		return
	}
	t := s.tail()
	s.queue = append(s.queue, t|MaskButton, t&^MaskButton)
}

// SetButton queues a button level change.
func (s *Sim) SetButton(down bool) {
	s.set(MaskButton, down)
}

// SetSwitch queues a switch level change.
func (s *Sim) SetSwitch(on bool) {
	s.set(MaskSwitch, on)
}

// Pending returns the number of queued samples not yet read.
func (s *Sim) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Sim) set(mask Sample, level bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tail()
	if level {
		t |= mask
	} else {
		t &^= mask
	}
	// A full queue folds the change into its last sample so a release is
	// never lost.
	if n := len(s.queue); n >= MaxQueue {
		s.queue[n-1] = t
		return
	}
	s.queue = append(s.queue, t)
}

// tail is the level the lines will hold once the queue drains.
// Caller holds mu.
func (s *Sim) tail() Sample {
	if n := len(s.queue); n > 0 {
		return s.queue[n-1]
	}
	return s.cur
}
