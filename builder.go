package tickfsm

import (
	"fmt"
	"time"
)

// MachineBuilder provides a fluent API for constructing machines from state
// names instead of wiring State values by hand. Names may be referenced
// before they are declared.
type MachineBuilder struct {
	nextID   StateIndex
	nameToID map[string]StateIndex
	idToName map[StateIndex]string // For debugging/reverse lookup
	states   map[StateIndex]*StateBuilder
	initial  string
	opts     []Option
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b      *MachineBuilder
	id     StateIndex
	name   string
	action Action
	edges  []pendingEdge
}

type pendingEdge struct {
	kind      TransitionKind
	predicate Predicate
	delay     time.Duration
	target    StateIndex
}

// NewMachineBuilder creates a builder whose machine starts in the named state.
// opts are passed to NewMachine.
func NewMachineBuilder(initialStateName string, opts ...Option) *MachineBuilder {
	b := &MachineBuilder{
		nameToID: make(map[string]StateIndex),
		idToName: make(map[StateIndex]string),
		states:   make(map[StateIndex]*StateBuilder),
		initial:  initialStateName,
		opts:     opts,
	}
	return b
}

// State declares a state, or retrieves it when already declared. A non-nil
// action replaces the previous one.
func (b *MachineBuilder) State(name string, action Action) *StateBuilder {
	id := b.assignID(name)
	sb := b.states[id]
	if sb == nil {
		sb = &StateBuilder{b: b, id: id, name: name}
		b.states[id] = sb
	}
	if action != nil {
		sb.action = action
	}
	return sb
}

// Build validates the configuration and constructs the Machine.
func (b *MachineBuilder) Build() (*Machine, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	m := NewMachine(b.opts...)
	for id := StateIndex(0); id < b.nextID; id++ {
		sb := b.states[id]
		s := m.NewState(sb.action)
		s.name = sb.name
	}

	for id := StateIndex(0); id < b.nextID; id++ {
		s := m.states[id]
		for _, e := range b.states[id].edges {
			var err error
			switch e.kind {
			case Conditional:
				err = s.AddTransition(e.predicate, m.states[e.target])
			case Timed:
				err = s.AddTransitionDelay(e.delay, m.states[e.target])
			}
			if err != nil {
				return nil, fmt.Errorf("state %s -> %s: %w", b.idToName[id], b.idToName[e.target], err)
			}
		}
	}

	if err := m.SetInitial(b.nameToID[b.initial]); err != nil {
		return nil, err
	}
	return m, nil
}

// GetID returns the assigned index for a state name.
// Returns -1 if the name hasn't been referenced.
func (b *MachineBuilder) GetID(name string) StateIndex {
	if id, ok := b.nameToID[name]; ok {
		return id
	}
	return -1
}

// GetName returns the name for a given index.
// Returns empty string if the index doesn't exist.
func (b *MachineBuilder) GetName(id StateIndex) string {
	return b.idToName[id]
}

// assignID returns the existing index for a name, or creates the next
// sequential one. Indices therefore follow first-mention order.
func (b *MachineBuilder) assignID(name string) StateIndex {
	if id, exists := b.nameToID[name]; exists {
		return id
	}

	id := b.nextID
	b.nextID++
	b.nameToID[name] = id
	b.idToName[id] = name
	return id
}

// validate checks that every referenced state was declared and that every
// edge is well formed. States are checked in index order, so the same
// builder always reports the same error.
func (b *MachineBuilder) validate() error {
	if b.initial == "" {
		return fmt.Errorf("initial state name is required")
	}
	if id, ok := b.nameToID[b.initial]; !ok || b.states[id] == nil {
		return fmt.Errorf("initial state %q is never declared", b.initial)
	}
	for id := StateIndex(0); id < b.nextID; id++ {
		if _, ok := b.states[id]; !ok {
			return fmt.Errorf("state %q is referenced but never declared", b.idToName[id])
		}
	}
	for id := StateIndex(0); id < b.nextID; id++ {
		for _, e := range b.states[id].edges {
			if e.kind == Conditional && e.predicate == nil {
				return fmt.Errorf("state %s has a transition to %s without predicate", b.idToName[id], b.idToName[e.target])
			}
			if e.kind == Timed && e.delay < 0 {
				return fmt.Errorf("state %s has a negative delay to %s", b.idToName[id], b.idToName[e.target])
			}
		}
	}
	return nil
}

// StateBuilder fluent methods

// When adds a transition to targetName taken when p returns true.
func (sb *StateBuilder) When(p Predicate, targetName string) *StateBuilder {
	sb.edges = append(sb.edges, pendingEdge{
		kind:      Conditional,
		predicate: p,
		target:    sb.b.assignID(targetName),
	})
	return sb
}

// After adds a transition to targetName taken once d has elapsed since the
// state was entered.
func (sb *StateBuilder) After(d time.Duration, targetName string) *StateBuilder {
	sb.edges = append(sb.edges, pendingEdge{
		kind:   Timed,
		delay:  d,
		target: sb.b.assignID(targetName),
	})
	return sb
}

// ID returns the index this state will have in the built machine.
func (sb *StateBuilder) ID() StateIndex {
	return sb.id
}
