package extensibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/primitives"

	tlog "github.com/comalice/tickfsm/internal/log"
)

// ActionRunner turns an ActionRef into a state action.
type ActionRunner interface {
	Resolve(ref primitives.ActionRef) (tickfsm.Action, error)
}

// NamedActions resolves actions registered from Go code, plus the built-ins:
//
//	set key=value   store a literal in the context
//	incr key        add one to a numeric context value
//	log message     log message at info level
type NamedActions struct {
	actions map[primitives.ActionRef]tickfsm.Action
	ctx     *primitives.Context
	logger  zerolog.Logger
}

func NewNamedActions(ctx *primitives.Context, logger zerolog.Logger) *NamedActions {
	return &NamedActions{
		actions: make(map[primitives.ActionRef]tickfsm.Action),
		ctx:     ctx,
		logger:  logger,
	}
}

// Register adds or replaces an action.
func (r *NamedActions) Register(name string, a tickfsm.Action) *NamedActions {
	r.actions[primitives.ActionRef(name)] = a
	return r
}

// Resolve returns a nil action for an empty reference.
func (r *NamedActions) Resolve(ref primitives.ActionRef) (tickfsm.Action, error) {
	if ref == "" {
		return nil, nil
	}
	if a, ok := r.actions[ref]; ok {
		return a, nil
	}

	verb, arg, _ := strings.Cut(string(ref), " ")
	arg = strings.TrimSpace(arg)
	switch verb {
	case "set":
		key, lit, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("action %q: expected \"set key=value\"", ref)
		}
		val := ParseLiteral(strings.TrimSpace(lit))
		return func() { r.ctx.Set(key, val) }, nil
	case "incr":
		if arg == "" {
			return nil, fmt.Errorf("action %q: missing key", ref)
		}
		return func() {
			r.ctx.Update(arg, func(old any, _ bool) any {
				f, _ := toFloat(old)
				return f + 1
			})
		}, nil
	case "log":
		return func() { r.logger.Info().Msg(arg) }, nil
	}
	return nil, fmt.Errorf("action %q not registered", ref)
}

// LoggingActionRunner wraps an ActionRunner and logs every execution of the
// actions it resolves.
type LoggingActionRunner struct {
	inner  ActionRunner
	logger zerolog.Logger
}

// NewLoggingActionRunner creates a new LoggingActionRunner wrapping the given inner runner.
func NewLoggingActionRunner(inner ActionRunner, logger zerolog.Logger) *LoggingActionRunner {
	return &LoggingActionRunner{inner: inner, logger: logger}
}

func (r *LoggingActionRunner) Resolve(ref primitives.ActionRef) (tickfsm.Action, error) {
	a, err := r.inner.Resolve(ref)
	if err != nil || a == nil {
		return a, err
	}
	return func() {
		start := time.Now()
		a()
		r.logger.Debug().
			Str(tlog.FieldAction, string(ref)).
			Dur("took", time.Since(start)).
			Msg("action executed")
	}, nil
}
