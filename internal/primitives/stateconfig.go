package primitives

import (
	"fmt"
	"time"
)

// StateConfig defines a state: the action run every tick and the ordered
// transitions evaluated after it.
type StateConfig struct {
	ID          string             `json:"id" yaml:"id"`
	Action      ActionRef          `json:"action,omitempty" yaml:"action,omitempty"`
	Transitions []TransitionConfig `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// NewStateConfig creates a new StateConfig with ID.
func NewStateConfig(id string) *StateConfig {
	return &StateConfig{ID: id}
}

// WithAction sets the per-tick action.
func (s *StateConfig) WithAction(action ActionRef) *StateConfig {
	s.Action = action
	return s
}

// AddTransition appends a transition; order is priority.
func (s *StateConfig) AddTransition(trans TransitionConfig) *StateConfig {
	s.Transitions = append(s.Transitions, trans)
	return s
}

// When appends a guarded transition.
func (s *StateConfig) When(guard GuardRef, target string) *StateConfig {
	return s.AddTransition(When(guard, target))
}

// After appends a delayed transition.
func (s *StateConfig) After(d time.Duration, target string) *StateConfig {
	return s.AddTransition(After(d, target))
}

// Validate checks the state ID and each transition.
func (s *StateConfig) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("state ID is required")
	}
	if err := validateID(s.ID); err != nil {
		return err
	}
	for i := range s.Transitions {
		if err := s.Transitions[i].Validate(); err != nil {
			return fmt.Errorf("transition %d of %s: %w", i, s.ID, err)
		}
	}
	return nil
}
