package core

import (
	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/extensibility"
	"github.com/comalice/tickfsm/internal/primitives"
)

// Option applies configuration to Load via functional options pattern.
type Option func(*loadOptions)

type loadOptions struct {
	guardEval    extensibility.GuardEvaluator
	actionRunner extensibility.ActionRunner
	ctx          *primitives.Context
	logger       zerolog.Logger
	machineOpts  []tickfsm.Option
}

// WithGuardEvaluator replaces the default expression evaluator.
func WithGuardEvaluator(e extensibility.GuardEvaluator) Option {
	return func(o *loadOptions) {
		o.guardEval = e
	}
}

// WithActionRunner replaces the default built-in action registry.
func WithActionRunner(r extensibility.ActionRunner) Option {
	return func(o *loadOptions) {
		o.actionRunner = r
	}
}

// WithContext shares an existing variable store with the machine.
func WithContext(ctx *primitives.Context) Option {
	return func(o *loadOptions) {
		o.ctx = ctx
	}
}

// WithLogger sets the logger for the engine and the built-in actions.
func WithLogger(l zerolog.Logger) Option {
	return func(o *loadOptions) {
		o.logger = l
	}
}

// WithMachineOptions forwards options to tickfsm.NewMachine.
func WithMachineOptions(opts ...tickfsm.Option) Option {
	return func(o *loadOptions) {
		o.machineOpts = append(o.machineOpts, opts...)
	}
}
