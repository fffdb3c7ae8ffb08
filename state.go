package tickfsm

import "time"

type StateIndex int

// Predicate guards a conditional transition. It is called on every
// evaluation pass that reaches it.
type Predicate func() bool

// Action is the per-tick logic of a state.
type Action func()

// State is a node of the machine: an action run once per tick and an ordered
// list of outgoing transitions. Declaration order is priority order.
type State struct {
	index       StateIndex
	name        string
	action      Action
	transitions []*Transition
	owner       *Machine
}

//
// Public API
//

func (s *State) Index() StateIndex {
	return s.index
}

// Name returns the label given by the builder, or "" for anonymous states.
func (s *State) Name() string {
	return s.name
}

// Len returns the number of outgoing transitions.
func (s *State) Len() int {
	return len(s.transitions)
}

// Transitions returns the outgoing transitions in evaluation order.
func (s *State) Transitions() []*Transition {
	out := make([]*Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// AddTransition appends a transition to target that fires when p returns true.
func (s *State) AddTransition(p Predicate, target *State) error {
	if p == nil {
		return ErrNilPredicate
	}
	if err := s.checkTarget(target); err != nil {
		return err
	}
	s.transitions = append(s.transitions, &Transition{
		kind:        Conditional,
		destination: target.index,
		predicate:   p,
	})
	return nil
}

// AddTransitionDelay appends a transition to target that fires once delay has
// elapsed since the state was entered. Sub-millisecond precision is dropped.
func (s *State) AddTransitionDelay(delay time.Duration, target *State) error {
	if delay < 0 {
		return ErrNegativeDelay
	}
	if err := s.checkTarget(target); err != nil {
		return err
	}
	s.transitions = append(s.transitions, &Transition{
		kind:        Timed,
		destination: target.index,
		delay:       toMillis(delay),
	})
	return nil
}

// EvalTransitions scans the transitions in declaration order and returns the
// destination of the first one that holds, or the state's own index when none
// does. With startDelay set, every timed transition reached by the scan is
// re-armed and cannot fire on this call.
func (s *State) EvalTransitions(clock Clock, startDelay bool) (next StateIndex, err error) {
	if clock == nil {
		return s.index, ErrNoClock
	}

	pos := 0
	defer func() {
		if r := recover(); r != nil {
			next, err = s.index, &CallbackError{State: s.index, Transition: pos, Value: r}
		}
	}()

	for i, t := range s.transitions {
		pos = i
		if t.holds(clock, startDelay) {
			return t.destination, nil
		}
	}
	return s.index, nil
}

// Execute runs the state action once and then evaluates the transitions.
func (s *State) Execute(clock Clock, startDelay bool) (StateIndex, error) {
	if clock == nil {
		return s.index, ErrNoClock
	}
	if err := s.runAction(); err != nil {
		return s.index, err
	}
	return s.EvalTransitions(clock, startDelay)
}

//
// Helper Functions (internal API)
//

func (s *State) runAction() (err error) {
	if s.action == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackError{State: s.index, Transition: -1, Value: r}
		}
	}()
	s.action()
	return nil
}

func (s *State) checkTarget(target *State) error {
	if s.owner == nil || target == nil || target.owner == nil {
		return ErrUnregisteredState
	}
	if target.owner != s.owner {
		return ErrForeignState
	}
	return nil
}
