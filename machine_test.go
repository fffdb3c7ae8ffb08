package tickfsm_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/testutil"
)

func TestNewStateAssignsSequentialIndices(t *testing.T) {
	m := NewMachine()
	for i := 0; i < 4; i++ {
		s := m.NewState(nil)
		assert.Equal(t, StateIndex(i), s.Index())
	}
	assert.Equal(t, 4, m.Len())

	s, ok := m.State(2)
	require.True(t, ok)
	assert.Equal(t, StateIndex(2), s.Index())

	_, ok = m.State(4)
	assert.False(t, ok)
	_, ok = m.State(-1)
	assert.False(t, ok)
}

func TestTickOnEmptyMachine(t *testing.T) {
	_, err := NewMachine().Tick()
	assert.ErrorIs(t, err, ErrEmptyMachine)
}

func TestSetInitialUnknown(t *testing.T) {
	m := NewMachine()
	m.NewState(nil)
	assert.ErrorIs(t, m.SetInitial(3), ErrUnknownState)
}

func TestTickPassesStartDelayOnEntry(t *testing.T) {
	clock := testutil.NewManualClock(0)
	m := NewMachine(WithClock(clock))
	idle := m.NewState(nil)
	busy := m.NewState(nil)

	go2busy := false
	require.NoError(t, idle.AddTransition(func() bool { return go2busy }, busy))
	require.NoError(t, busy.AddTransitionDelay(100*time.Millisecond, idle))

	step, err := m.Tick()
	require.NoError(t, err)
	assert.True(t, step.StartDelay, "first tick enters the initial state")
	assert.False(t, step.Changed)

	step, err = m.Tick()
	require.NoError(t, err)
	assert.False(t, step.StartDelay, "self-loop does not re-enter")

	go2busy = true
	step, err = m.Tick()
	require.NoError(t, err)
	assert.True(t, step.Changed)
	assert.Equal(t, busy.Index(), m.Current())

	// Entry tick arms the busy timer at t=10.
	clock.Set(10)
	step, err = m.Tick()
	require.NoError(t, err)
	assert.True(t, step.StartDelay)
	assert.Equal(t, Millis(10), busy.Transitions()[0].ArmedAt())

	clock.Set(110)
	step, err = m.Tick()
	require.NoError(t, err)
	assert.False(t, step.Changed)

	clock.Set(111)
	step, err = m.Tick()
	require.NoError(t, err)
	assert.True(t, step.Changed)
	assert.Equal(t, idle.Index(), step.To)
	assert.Equal(t, uint64(6), m.Ticks())
}

func TestTickErrorKeepsState(t *testing.T) {
	m := NewMachine(WithClock(testutil.NewManualClock(0)))
	s0 := m.NewState(nil)
	s1 := m.NewState(nil)
	require.NoError(t, s0.AddTransition(func() bool { panic("stuck") }, s1))

	_, err := m.Tick()
	require.ErrorIs(t, err, ErrCallbackPanic)
	assert.Equal(t, s0.Index(), m.Current())
	assert.Zero(t, m.Ticks())
}

func TestTickWithoutClock(t *testing.T) {
	m := NewMachine(WithClock(nil))
	m.NewState(nil)
	_, err := m.Tick()
	assert.ErrorIs(t, err, ErrNoClock)
}

func TestObserversAndLogging(t *testing.T) {
	var buf bytes.Buffer
	var steps []Step

	m := NewMachine(
		WithClock(testutil.NewManualClock(42)),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
		WithObserver(func(s Step) { steps = append(steps, s) }),
		WithObserver(nil),
	)
	s0 := m.NewState(nil)
	s1 := m.NewState(nil)
	require.NoError(t, s0.AddTransition(always(true), s1))

	_, err := m.Tick()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, Step{Tick: 1, From: 0, To: 1, StartDelay: true, Changed: true, At: 42}, steps[0])
	assert.Contains(t, buf.String(), `"message":"transition"`)
}

func TestResetReentersInitial(t *testing.T) {
	m := NewMachine(WithClock(testutil.NewManualClock(0)))
	s0 := m.NewState(nil)
	s1 := m.NewState(nil)
	require.NoError(t, s0.AddTransition(always(true), s1))

	_, err := m.Tick()
	require.NoError(t, err)
	assert.Equal(t, s1.Index(), m.Current())

	m.Reset()
	assert.Equal(t, s0.Index(), m.Current())
	step, err := m.Tick()
	require.NoError(t, err)
	assert.True(t, step.StartDelay)
}

func TestMonotonicClockAdvances(t *testing.T) {
	c := NewMonotonicClock()
	first := c.Millis()
	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, c.Millis(), first)
}
