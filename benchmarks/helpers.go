// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/core"
	"github.com/comalice/tickfsm/internal/extensibility"
	"github.com/comalice/tickfsm/internal/primitives"
)

// Guards resolves the two guards used by generated configs: "always" and
// "never".
func Guards() *extensibility.NamedGuards {
	return extensibility.NewNamedGuards().
		Register("always", func() bool { return true }).
		Register("never", func() bool { return false })
}

// GenFlatConfig creates a ring of n states, each moving to the next on every
// tick.
func GenFlatConfig(n int) primitives.MachineConfig {
	if n < 1 {
		n = 1
	}
	config := primitives.MachineConfig{
		ID:      fmt.Sprintf("flat_%d", n),
		Initial: "s0",
		States:  make([]*primitives.StateConfig, 0, n),
	}
	for i := 0; i < n; i++ {
		sc := primitives.NewStateConfig(fmt.Sprintf("s%d", i)).
			When("always", fmt.Sprintf("s%d", (i+1)%n))
		config.States = append(config.States, sc)
	}
	return config
}

// GenWideTransitions creates one main state whose first numTransitions
// transitions never hold, followed by a timed one that never elapses. Every
// tick therefore walks the whole list.
func GenWideTransitions(numTransitions int) primitives.MachineConfig {
	hub := primitives.NewStateConfig("main")
	for i := 0; i < numTransitions; i++ {
		hub.When("never", "other")
	}
	hub.After(1<<62, "other")
	return primitives.MachineConfig{
		ID:      fmt.Sprintf("wide_%d", numTransitions),
		Initial: "main",
		States: []*primitives.StateConfig{
			hub,
			primitives.NewStateConfig("other").When("always", "main"),
		},
	}
}

// GenYAML renders GenFlatConfig(numStates) as YAML.
func GenYAML(numStates int) []byte {
	config := GenFlatConfig(numStates)
	data, err := yaml.Marshal(&config)
	if err != nil {
		panic(err)
	}
	return data
}

// Load builds a generated config against Guards on a frozen clock.
func Load(config primitives.MachineConfig, opts ...tickfsm.Option) (*core.Machine, error) {
	clock := tickfsm.ClockFunc(func() tickfsm.Millis { return 0 })
	return core.Load(config,
		core.WithGuardEvaluator(Guards()),
		core.WithMachineOptions(append([]tickfsm.Option{tickfsm.WithClock(clock)}, opts...)...),
	)
}
