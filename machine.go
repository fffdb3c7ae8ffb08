package tickfsm

import (
	"github.com/rs/zerolog"
)

// Step describes one tick of a Machine.
type Step struct {
	Tick       uint64
	From       StateIndex
	To         StateIndex
	StartDelay bool
	Changed    bool
	At         Millis
}

// Machine owns every State it creates and drives the active one, one tick at
// a time. It is not safe for concurrent use; the realtime package serializes
// access for callers that need it.
type Machine struct {
	states    []*State
	clock     Clock
	logger    zerolog.Logger
	observers []func(Step)

	initial StateIndex
	current StateIndex
	entered bool
	ticks   uint64
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the time source for timed transitions.
func WithClock(c Clock) Option {
	return func(m *Machine) {
		m.clock = c
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// WithObserver registers fn to receive every completed Step.
func WithObserver(fn func(Step)) Option {
	return func(m *Machine) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		clock:   NewMonotonicClock(),
		logger:  zerolog.Nop(),
		entered: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewState allocates a state in the machine and assigns it the next index.
// A nil action does nothing.
func (m *Machine) NewState(action Action) *State {
	s := &State{
		index:  StateIndex(len(m.states)),
		action: action,
		owner:  m,
	}
	m.states = append(m.states, s)
	return s
}

func (m *Machine) Len() int {
	return len(m.states)
}

func (m *Machine) State(i StateIndex) (*State, bool) {
	if i < 0 || int(i) >= len(m.states) {
		return nil, false
	}
	return m.states[i], true
}

// States returns all states ordered by index.
func (m *Machine) States() []*State {
	out := make([]*State, len(m.states))
	copy(out, m.states)
	return out
}

// SetInitial selects the state entered by the next Reset. If the machine has
// not ticked yet it becomes the current state immediately.
func (m *Machine) SetInitial(i StateIndex) error {
	if _, ok := m.State(i); !ok {
		return ErrUnknownState
	}
	m.initial = i
	if m.ticks == 0 {
		m.current = i
		m.entered = true
	}
	return nil
}

func (m *Machine) Initial() StateIndex {
	return m.initial
}

func (m *Machine) Current() StateIndex {
	return m.current
}

// Ticks returns how many ticks completed without error.
func (m *Machine) Ticks() uint64 {
	return m.ticks
}

// Reset returns to the initial state. The next tick re-enters it and arms its
// timed transitions.
func (m *Machine) Reset() {
	m.current = m.initial
	m.entered = true
}

// Tick executes the current state once and moves to the state it selects.
// startDelay is passed as true on the first tick in a state and false on
// every following tick, so timed transitions measure from entry.
func (m *Machine) Tick() (Step, error) {
	if len(m.states) == 0 {
		return Step{}, ErrEmptyMachine
	}
	s, ok := m.State(m.current)
	if !ok {
		return Step{}, ErrUnknownState
	}

	step := Step{
		Tick:       m.ticks + 1,
		From:       m.current,
		StartDelay: m.entered,
	}
	if m.clock != nil {
		step.At = m.clock.Millis()
	}

	next, err := s.Execute(m.clock, m.entered)
	if err != nil {
		m.logger.Error().Err(err).Int("state", int(m.current)).Msg("tick failed")
		return step, err
	}
	if _, ok := m.State(next); !ok {
		return step, ErrUnknownState
	}

	step.To = next
	step.Changed = next != m.current
	m.ticks = step.Tick
	m.entered = step.Changed
	m.current = next

	if step.Changed {
		m.logger.Debug().
			Int("from", int(step.From)).
			Int("to", int(step.To)).
			Uint64("tick", step.Tick).
			Msg("transition")
	}
	for _, fn := range m.observers {
		fn(step)
	}
	return step, nil
}
