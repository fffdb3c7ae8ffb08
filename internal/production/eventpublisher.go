package production

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/tickfsm"
)

// PublishedStep bundles a tick result with its machine metadata.
type PublishedStep struct {
	MachineID string       `json:"machine"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Step      tickfsm.Step `json:"step"`
	Timestamp time.Time    `json:"timestamp"`
}

// ChannelPublisher forwards steps to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	mu      sync.RWMutex
	ch      chan<- PublishedStep
	closed  bool
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedStep) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish delivers s unless the channel is full, in which case s is dropped.
// Publishing after Close is a no-op.
func (p *ChannelPublisher) Publish(ctx context.Context, s PublishedStep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil
	}
	select {
	case p.ch <- s:
	default:
		p.dropped.Add(1)
	}
	return nil
}

// Observer returns a callback for tickfsm.WithObserver that publishes state
// changes only. names maps indices to state names and may be nil.
func (p *ChannelPublisher) Observer(machineID string, names func(tickfsm.StateIndex) string) func(tickfsm.Step) {
	return func(step tickfsm.Step) {
		if !step.Changed {
			return
		}
		s := PublishedStep{MachineID: machineID, Step: step, Timestamp: time.Now()}
		if names != nil {
			s.From, s.To = names(step.From), names(step.To)
		}
		_ = p.Publish(context.Background(), s)
	}
}

// Dropped returns the number of steps dropped on backpressure.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
