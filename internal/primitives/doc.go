// Package primitives provides the declarative description of a tickfsm
// machine: ordered states, their named actions and their guarded or delayed
// transitions, loaded from YAML.
//
// Core invariants:
// - State order is index order; the first state listed gets index 0
// - Transition order is priority order
// - Every transition carries exactly one of a guard or a delay
package primitives
