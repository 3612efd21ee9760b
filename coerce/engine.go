package coerce

import (
	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
	"github.com/wippyai/interop/view"
)

// handler projects a value whose traits were probed once by the engine.
type handler func(e *Engine, v interop.Value, s shape.Shape, traits trait.Set) (any, error)

// dispatchTable is fixed at init; every shape category has exactly one entry.
var dispatchTable map[shape.Category]handler

func init() {
	dispatchTable = map[shape.Category]handler{
		shape.CategoryScalar:      projectScalar,
		shape.CategoryCollection:  projectCollection,
		shape.CategoryInterface:   projectInterface,
		shape.CategoryAny:         projectAny,
		shape.CategoryObject:      projectObject,
		shape.CategoryPassthrough: projectPassthrough,
	}
}

// Engine projects foreign values onto host shapes. It holds no mutable state
// and may be shared.
type Engine struct {
	log      *zap.Logger
	maxDepth int
}

var _ shape.Projector = (*Engine)(nil)

// New creates an engine with the default configuration.
func New() *Engine {
	return NewWithConfig(nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(cfg *Config) *Engine {
	e := &Engine{log: Logger(), maxDepth: DefaultMaxDepth}
	if cfg != nil {
		if cfg.Logger != nil {
			e.log = cfg.Logger
		}
		if cfg.MaxDepth > 0 {
			e.maxDepth = cfg.MaxDepth
		}
	}
	return e
}

// MaxDepth returns the recursion cap for nested values.
func (e *Engine) MaxDepth() int { return e.maxDepth }

// Probe returns the trait set of v.
func (e *Engine) Probe(v interop.Value) trait.Set { return trait.Probe(v) }

// Project converts v into the host form requested by s. A nil v is treated
// as a null value. Malformed shapes fail with illegal_state before v is
// touched.
func (e *Engine) Project(v interop.Value, s shape.Shape) (any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	traits := trait.Probe(v)
	out, err := dispatchTable[s.Kind.Category()](e, v, s, traits)
	if err != nil {
		e.log.Debug("projection failed",
			zap.Stringer("shape", s),
			zap.Stringer("traits", traits),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Materialize copies v into plain Go values down to the configured depth.
func (e *Engine) Materialize(v interop.Value) (any, error) {
	return view.Materialize(v, e.maxDepth)
}

// Format renders v for diagnostics down to the configured depth.
func (e *Engine) Format(v interop.Value) string {
	if v == nil {
		return "null"
	}
	return view.Format(v, e.maxDepth)
}

// As projects v onto s and asserts the result to T. A null projection
// yields the zero T.
func As[T any](e *Engine, v interop.Value, s shape.Shape) (T, error) {
	var zero T
	out, err := e.Project(v, s)
	if err != nil || out == nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, errors.New(errors.PhaseProject, errors.KindTypeMismatch).
			Shape(s.String()).
			Value(out).
			Detail("projection produced %T, not %T", out, zero).
			Build()
	}
	return t, nil
}

func mismatch(s shape.Shape, traits trait.Set) error {
	return errors.TypeMismatch(errors.PhaseProject, nil, s.String(), traits.String())
}
