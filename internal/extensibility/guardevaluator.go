// Package extensibility resolves the named guards and actions of a declarative
// machine into tickfsm predicates and actions.
package extensibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/primitives"
)

// GuardEvaluator turns a GuardRef into a predicate. Resolution happens once,
// when the machine is loaded; the predicate then runs on every tick.
type GuardEvaluator interface {
	Resolve(ref primitives.GuardRef) (tickfsm.Predicate, error)
}

// NamedGuards resolves guards registered from Go code.
type NamedGuards struct {
	guards map[primitives.GuardRef]tickfsm.Predicate
}

func NewNamedGuards() *NamedGuards {
	return &NamedGuards{guards: make(map[primitives.GuardRef]tickfsm.Predicate)}
}

// Register adds or replaces a guard.
func (g *NamedGuards) Register(name string, p tickfsm.Predicate) *NamedGuards {
	g.guards[primitives.GuardRef(name)] = p
	return g
}

// Resolve fails for unknown names.
func (g *NamedGuards) Resolve(ref primitives.GuardRef) (tickfsm.Predicate, error) {
	if p, ok := g.guards[ref]; ok && p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("guard %q not registered", ref)
}

// ExpressionGuardEvaluator compiles simple expressions like "temp > 30",
// "mode == auto" or a bare "door_open" against a Context. References it
// cannot parse are handed to the fallback evaluator, if any.
type ExpressionGuardEvaluator struct {
	ctx      *primitives.Context
	fallback GuardEvaluator
}

// NewExpressionGuardEvaluator creates an evaluator reading ctx.
func NewExpressionGuardEvaluator(ctx *primitives.Context, fallback GuardEvaluator) *ExpressionGuardEvaluator {
	return &ExpressionGuardEvaluator{ctx: ctx, fallback: fallback}
}

func (e *ExpressionGuardEvaluator) Resolve(ref primitives.GuardRef) (tickfsm.Predicate, error) {
	if e.fallback != nil {
		if p, err := e.fallback.Resolve(ref); err == nil {
			return p, nil
		}
	}

	parts := strings.Fields(string(ref))
	switch len(parts) {
	case 1:
		key, negate := strings.CutPrefix(parts[0], "!")
		if key == "" {
			return nil, fmt.Errorf("guard %q: empty key", ref)
		}
		return func() bool {
			v, ok := e.ctx.Get(key)
			return ok && (v == true) != negate
		}, nil
	case 3:
		return e.compare(ref, parts[0], parts[1], parts[2])
	default:
		return nil, fmt.Errorf("guard %q: expected \"key op value\"", ref)
	}
}

func (e *ExpressionGuardEvaluator) compare(ref primitives.GuardRef, key, op, lit string) (tickfsm.Predicate, error) {
	want := ParseLiteral(lit)

	switch op {
	case "==", "!=":
		negate := op == "!="
		return func() bool {
			v, ok := e.ctx.Get(key)
			if !ok {
				return false
			}
			return equal(v, want) != negate
		}, nil
	case ">", "<", ">=", "<=":
		bound, ok := want.(float64)
		if !ok {
			return nil, fmt.Errorf("guard %q: %s needs a number", ref, op)
		}
		return func() bool {
			v, ok := e.ctx.Get(key)
			if !ok {
				return false
			}
			f, ok := toFloat(v)
			if !ok {
				return false
			}
			switch op {
			case ">":
				return f > bound
			case "<":
				return f < bound
			case ">=":
				return f >= bound
			default:
				return f <= bound
			}
		}, nil
	default:
		return nil, fmt.Errorf("guard %q: unknown operator %q", ref, op)
	}
}

// ParseLiteral converts "true"/"false" to bool, numbers to float64 and keeps
// anything else as a string.
func ParseLiteral(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return strings.Trim(s, `"'`)
}

func equal(v, want any) bool {
	if w, ok := want.(float64); ok {
		f, ok := toFloat(v)
		return ok && f == w
	}
	return v == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
