package primitives

import (
	"errors"
	"fmt"
	"time"
)

// ActionRef names an action resolved by an ActionRunner, e.g. "log heating"
// or "set door_open=false".
type ActionRef string

// GuardRef names a guard resolved by a GuardEvaluator, e.g. "door_open" or
// "temp > 30".
type GuardRef string

// TransitionConfig defines a single outgoing transition. Exactly one of Guard
// or After must be set.
type TransitionConfig struct {
	Target string         `json:"target" yaml:"target"`
	Guard  GuardRef       `json:"guard,omitempty" yaml:"guard,omitempty"`
	After  *time.Duration `json:"after,omitempty" yaml:"after,omitempty"`
}

// When is a shorthand for a guarded TransitionConfig.
func When(guard GuardRef, target string) TransitionConfig {
	return TransitionConfig{Target: target, Guard: guard}
}

// After is a shorthand for a delayed TransitionConfig.
func After(d time.Duration, target string) TransitionConfig {
	return TransitionConfig{Target: target, After: &d}
}

// Timed reports whether the transition fires on a delay.
func (t TransitionConfig) Timed() bool {
	return t.After != nil
}

// Label is a short human readable description of the trigger.
func (t TransitionConfig) Label() string {
	if t.After != nil {
		return "after " + t.After.String()
	}
	return string(t.Guard)
}

// Validate checks TransitionConfig fields and target syntax.
func (t *TransitionConfig) Validate() error {
	if t.Target == "" {
		return errors.New("target is required")
	}
	if err := validateID(t.Target); err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}
	switch {
	case t.Guard == "" && t.After == nil:
		return errors.New("one of guard or after is required")
	case t.Guard != "" && t.After != nil:
		return errors.New("guard and after are mutually exclusive")
	case t.After != nil && *t.After < 0:
		return errors.New("after must be non-negative")
	}
	return nil
}

// validateID accepts non-empty alphanumeric IDs with underscores/hyphens.
func validateID(id string) error {
	if id == "" {
		return errors.New("empty ID")
	}
	for i, r := range id {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return fmt.Errorf("invalid character '%c' at index %d in %q", r, i, id)
		}
	}
	return nil
}
