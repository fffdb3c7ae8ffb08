package tickfsm

// TransitionKind tells which guard of a Transition is active.
type TransitionKind int

const (
	// Conditional transitions fire when their predicate returns true.
	Conditional TransitionKind = iota
	// Timed transitions fire once their delay has elapsed since they were armed.
	Timed
)

func (k TransitionKind) String() string {
	switch k {
	case Conditional:
		return "conditional"
	case Timed:
		return "timed"
	default:
		return "unknown"
	}
}

// Transition is one outgoing edge of a State. Records are created by
// AddTransition and AddTransitionDelay and never change afterwards, apart from
// the arm timestamp of timed records.
type Transition struct {
	kind        TransitionKind
	destination StateIndex
	predicate   Predicate
	delay       Millis
	armedAt     Millis
}

func (t *Transition) Kind() TransitionKind {
	return t.kind
}

func (t *Transition) Destination() StateIndex {
	return t.destination
}

// Delay is the countdown of a timed transition. Zero for conditional ones.
func (t *Transition) Delay() Millis {
	return t.delay
}

// ArmedAt is the time the countdown last (re)started. It stays 0 until the
// first arming pass.
func (t *Transition) ArmedAt() Millis {
	return t.armedAt
}

// holds reports whether the transition is satisfied on this pass. Timed
// records are re-armed instead when startDelay is set.
func (t *Transition) holds(clock Clock, startDelay bool) bool {
	if t.kind == Conditional {
		return t.predicate()
	}

	now := clock.Millis()
	if startDelay {
		t.armedAt = now
		return false
	}
	// Strictly greater: at exact equality the delay has not expired yet.
	return now-t.armedAt > t.delay
}
