package primitives

import "time"

// MachineBuilder builds a MachineConfig fluently, in declaration order.
type MachineBuilder struct {
	config *MachineConfig
}

// StateBuilder adds transitions to one state of a MachineBuilder.
type StateBuilder struct {
	state *StateConfig
	mb    *MachineBuilder
}

// NewMachineBuilder creates a new MachineBuilder.
func NewMachineBuilder(id, initial string) *MachineBuilder {
	return &MachineBuilder{
		config: &MachineConfig{ID: id, Initial: initial},
	}
}

// State appends a state, or returns the existing one with that ID.
func (b *MachineBuilder) State(id string) *StateBuilder {
	if s, err := b.config.FindState(id); err == nil {
		return &StateBuilder{state: s, mb: b}
	}
	s := NewStateConfig(id)
	b.config.States = append(b.config.States, s)
	return &StateBuilder{state: s, mb: b}
}

// Build returns the config (unvalidated).
func (b *MachineBuilder) Build() MachineConfig {
	return *b.config
}

// Action sets the per-tick action of the state.
func (sb *StateBuilder) Action(ref ActionRef) *StateBuilder {
	sb.state.WithAction(ref)
	return sb
}

// When adds a guarded transition.
func (sb *StateBuilder) When(guard GuardRef, target string) *StateBuilder {
	sb.state.When(guard, target)
	return sb
}

// After adds a delayed transition.
func (sb *StateBuilder) After(d time.Duration, target string) *StateBuilder {
	sb.state.After(d, target)
	return sb
}

// State switches to another state of the same machine.
func (sb *StateBuilder) State(id string) *StateBuilder {
	return sb.mb.State(id)
}

// Done returns the parent MachineBuilder.
func (sb *StateBuilder) Done() *MachineBuilder {
	return sb.mb
}
