package primitives

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MachineConfig defines a complete machine. States are ordered; the position
// of a state in the list is its index in the built machine.
type MachineConfig struct {
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`
	ID      string         `json:"id" yaml:"id"`
	Initial string         `json:"initial" yaml:"initial"`
	States  []*StateConfig `json:"states" yaml:"states"`
}

// Validate validates the entire machine configuration:
// - Non-empty ID and Initial
// - Unique, valid state IDs; Initial among them
// - All transitions valid and targeting declared states
// - No orphaned states (all reachable from Initial)
func (m *MachineConfig) Validate() error {
	if m.ID == "" {
		return errors.New("machine ID is required")
	}
	if m.Initial == "" {
		return errors.New("initial state ID is required")
	}
	if len(m.States) == 0 {
		return errors.New("states list is required and cannot be empty")
	}

	seen := make(map[string]bool, len(m.States))
	for i, state := range m.States {
		if state == nil {
			return fmt.Errorf("state %d is empty", i)
		}
		if err := state.Validate(); err != nil {
			return fmt.Errorf("state %q validation failed: %w", state.ID, err)
		}
		if seen[state.ID] {
			return fmt.Errorf("duplicate state %q", state.ID)
		}
		seen[state.ID] = true
	}
	if !seen[m.Initial] {
		return fmt.Errorf("initial state %q not found in states", m.Initial)
	}

	for _, state := range m.States {
		for i, trans := range state.Transitions {
			if !seen[trans.Target] {
				return fmt.Errorf("invalid transition target %q (state %q, transition %d)", trans.Target, state.ID, i)
			}
		}
	}

	visited := make(map[string]bool)
	m.markReachable(m.Initial, visited)
	for _, state := range m.States {
		if !visited[state.ID] {
			return fmt.Errorf("orphaned state %q (not reachable from initial %q)", state.ID, m.Initial)
		}
	}

	return nil
}

// markReachable marks every state reachable from id via transition targets.
func (m *MachineConfig) markReachable(id string, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true
	state, err := m.FindState(id)
	if err != nil {
		return
	}
	for _, trans := range state.Transitions {
		m.markReachable(trans.Target, visited)
	}
}

// FindState returns the state with the given ID.
func (m *MachineConfig) FindState(id string) (*StateConfig, error) {
	if id == "" {
		return nil, errors.New("ID cannot be empty")
	}
	for _, s := range m.States {
		if s != nil && s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("state %q not found", id)
}

// Parse decodes and validates a YAML machine definition.
func Parse(data []byte) (MachineConfig, error) {
	var cfg MachineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MachineConfig{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return MachineConfig{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadFile reads and parses a YAML machine definition from path.
func LoadFile(path string) (MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MachineConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return MachineConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (m *MachineConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
