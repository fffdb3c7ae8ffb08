// Package core builds runnable tickfsm machines from declarative
// configurations, resolving named guards and actions on the way.
package core

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/extensibility"
	"github.com/comalice/tickfsm/internal/primitives"
)

// Machine is a tickfsm.Machine together with the configuration it was built
// from and the variable store its guards and actions share.
type Machine struct {
	*tickfsm.Machine
	config primitives.MachineConfig
	ctx    *primitives.Context
	names  []string
	ids    map[string]tickfsm.StateIndex
}

// Load validates cfg and builds the machine. State indices follow the order
// of cfg.States.
func Load(cfg primitives.MachineConfig, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &loadOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.ctx == nil {
		o.ctx = primitives.NewContext()
	}
	if o.guardEval == nil {
		o.guardEval = extensibility.NewExpressionGuardEvaluator(o.ctx, nil)
	}
	if o.actionRunner == nil {
		o.actionRunner = extensibility.NewNamedActions(o.ctx, o.logger)
	}

	machineOpts := append([]tickfsm.Option{tickfsm.WithLogger(o.logger)}, o.machineOpts...)
	b := tickfsm.NewMachineBuilder(cfg.Initial, machineOpts...)

	builders := make([]*tickfsm.StateBuilder, len(cfg.States))
	for i, sc := range cfg.States {
		action, err := o.actionRunner.Resolve(sc.Action)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", sc.ID, err)
		}
		builders[i] = b.State(sc.ID, action)
	}

	for i, sc := range cfg.States {
		for j, tc := range sc.Transitions {
			if tc.Timed() {
				builders[i].After(*tc.After, tc.Target)
				continue
			}
			p, err := o.guardEval.Resolve(tc.Guard)
			if err != nil {
				return nil, fmt.Errorf("state %q transition %d: %w", sc.ID, j, err)
			}
			builders[i].When(p, tc.Target)
		}
	}

	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.ID, err)
	}

	lm := &Machine{
		Machine: m,
		config:  cfg,
		ctx:     o.ctx,
		names:   make([]string, len(cfg.States)),
		ids:     make(map[string]tickfsm.StateIndex, len(cfg.States)),
	}
	for _, sc := range cfg.States {
		id := b.GetID(sc.ID)
		lm.names[id] = sc.ID
		lm.ids[sc.ID] = id
	}
	return lm, nil
}

// Config returns the configuration the machine was built from.
func (m *Machine) Config() primitives.MachineConfig {
	return m.config
}

// Ctx returns the shared variable store.
func (m *Machine) Ctx() *primitives.Context {
	return m.ctx
}

// NameOf returns the configured ID of a state index.
func (m *Machine) NameOf(i tickfsm.StateIndex) string {
	if i < 0 || int(i) >= len(m.names) {
		return ""
	}
	return m.names[i]
}

// IndexOf returns the index of a configured state ID.
func (m *Machine) IndexOf(name string) (tickfsm.StateIndex, bool) {
	i, ok := m.ids[name]
	return i, ok
}

// CurrentName returns the ID of the active state.
func (m *Machine) CurrentName() string {
	return m.NameOf(m.Current())
}
