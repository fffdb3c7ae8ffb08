package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm"
)

// DefaultTickRate is used when Config.TickRate is zero.
const DefaultTickRate = 10 * time.Millisecond

var ErrAlreadyStarted = errors.New("runtime already started")

// Config configures the real-time runtime
type Config struct {
	TickRate time.Duration   // Fixed tick period
	Logger   *zerolog.Logger // nil logs nothing
	OnError  func(error)     // Called with the error that stopped the loop
}

// Runtime executes one machine tick per period on its own goroutine.
type Runtime struct {
	machine  *tickfsm.Machine
	tickRate time.Duration
	logger   zerolog.Logger
	onError  func(error)

	mu      sync.Mutex
	tickNum uint64
	current tickfsm.StateIndex
	err     error

	tickCancel context.CancelFunc
	stopped    chan struct{}
}

// NewRuntime creates a runtime for m. The machine must not be ticked by
// anyone else while the runtime is running.
func NewRuntime(m *tickfsm.Machine, cfg Config) *Runtime {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Runtime{
		machine:  m,
		tickRate: cfg.TickRate,
		logger:   logger,
		onError:  cfg.OnError,
		current:  m.Current(),
	}
}

// Start begins tick-based execution. The loop ends when ctx is cancelled,
// Stop is called, or a tick fails.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.stopped != nil {
		return ErrAlreadyStarted
	}
	if rt.machine.Len() == 0 {
		return tickfsm.ErrEmptyMachine
	}

	var tickCtx context.Context
	tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.stopped = make(chan struct{})

	rt.logger.Info().Dur("tick_rate", rt.tickRate).Int("state", int(rt.current)).Msg("runtime started")
	go rt.tickLoop(tickCtx)
	return nil
}

// Stop cancels the loop, waits for it to exit and returns the tick error
// that ended it, if any.
func (rt *Runtime) Stop() error {
	rt.mu.Lock()
	cancel, stopped := rt.tickCancel, rt.stopped
	rt.mu.Unlock()
	if stopped == nil {
		return nil
	}
	cancel()
	<-stopped
	return rt.Err()
}

// Wait blocks until the loop exits and returns the tick error that ended it.
// Cancellation is not an error.
func (rt *Runtime) Wait() error {
	rt.mu.Lock()
	stopped := rt.stopped
	rt.mu.Unlock()
	if stopped == nil {
		return nil
	}
	<-stopped
	return rt.Err()
}

// Done is closed when the loop exits. Nil before Start.
func (rt *Runtime) Done() <-chan struct{} {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.stopped
}

// Err returns the tick error that stopped the loop, if any.
func (rt *Runtime) Err() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.err
}

// tickLoop is the main tick execution loop
func (rt *Runtime) tickLoop(ctx context.Context) {
	defer close(rt.stopped)

	ticker := time.NewTicker(rt.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rt.logger.Info().Uint64("tick", rt.GetTickNumber()).Msg("runtime stopped")
			return
		case <-ticker.C:
			if err := rt.processTick(); err != nil {
				rt.fail(err)
				return
			}
		}
	}
}

// GetTickNumber returns the number of completed ticks.
func (rt *Runtime) GetTickNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tickNum
}

// GetCurrentState returns the active state as of the last completed tick.
func (rt *Runtime) GetCurrentState() tickfsm.StateIndex {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.current
}
