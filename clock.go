package tickfsm

import "time"

// Millis is a monotonic millisecond timestamp. Differences are taken with
// unsigned subtraction, so a wrapping counter still yields correct elapsed
// times.
type Millis uint64

// Clock is the time source queried when timed transitions are evaluated.
type Clock interface {
	Millis() Millis
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() Millis

func (f ClockFunc) Millis() Millis {
	return f()
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock counting milliseconds since its creation.
func NewMonotonicClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) Millis() Millis {
	return Millis(time.Since(c.start).Milliseconds())
}

// toMillis truncates d to whole milliseconds.
func toMillis(d time.Duration) Millis {
	return Millis(d / time.Millisecond)
}
