// Package testutil provides synthetic time and a stepping driver so machines
// can be exercised deterministically in tests and replays.
package testutil

import (
	"sync"

	"github.com/comalice/tickfsm"
)

// ManualClock is a tickfsm.Clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now tickfsm.Millis
}

// NewManualClock creates a clock reading start.
func NewManualClock(start tickfsm.Millis) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Millis() tickfsm.Millis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t tickfsm.Millis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d milliseconds.
func (c *ManualClock) Advance(d tickfsm.Millis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// Stepper drives a machine tick by tick on a ManualClock.
type Stepper struct {
	Machine *tickfsm.Machine
	Clock   *ManualClock
}

// NewStepper attaches a fresh ManualClock at time 0 to the builder's machine.
func NewStepper(b *tickfsm.MachineBuilder, opts ...tickfsm.Option) (*Stepper, error) {
	clock := NewManualClock(0)
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	for _, opt := range append([]tickfsm.Option{tickfsm.WithClock(clock)}, opts...) {
		opt(m)
	}
	return &Stepper{Machine: m, Clock: clock}, nil
}

// TickAt sets the clock to t and ticks once.
func (s *Stepper) TickAt(t tickfsm.Millis) (tickfsm.Step, error) {
	s.Clock.Set(t)
	return s.Machine.Tick()
}

// Run ticks n times, advancing the clock by every milliseconds before each
// tick, and returns the state index after each tick.
func (s *Stepper) Run(n int, every tickfsm.Millis) ([]tickfsm.StateIndex, error) {
	trace := make([]tickfsm.StateIndex, 0, n)
	for i := 0; i < n; i++ {
		s.Clock.Advance(every)
		step, err := s.Machine.Tick()
		if err != nil {
			return trace, err
		}
		trace = append(trace, step.To)
	}
	return trace, nil
}
