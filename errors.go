package tickfsm

import (
	"errors"
	"fmt"
)

var (
	ErrUnregisteredState = errors.New("state not registered with a machine")
	ErrForeignState      = errors.New("state belongs to another machine")
	ErrNilPredicate      = errors.New("nil predicate")
	ErrNegativeDelay     = errors.New("negative delay")
	ErrNoClock           = errors.New("no clock available")
	ErrUnknownState      = errors.New("unknown state index")
	ErrEmptyMachine      = errors.New("machine has no states")
	ErrCallbackPanic     = errors.New("callback panicked")
)

// CallbackError reports a panic raised by a state action or a transition
// predicate. Transition is the position of the offending record, or -1 when
// the action panicked.
type CallbackError struct {
	State      StateIndex
	Transition int
	Value      any
}

func (e *CallbackError) Error() string {
	if e.Transition < 0 {
		return fmt.Sprintf("state %d: action panicked: %v", e.State, e.Value)
	}
	return fmt.Sprintf("state %d: predicate of transition %d panicked: %v", e.State, e.Transition, e.Value)
}

func (e *CallbackError) Unwrap() error {
	return ErrCallbackPanic
}
