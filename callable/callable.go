package callable

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
	"github.com/wippyai/interop/view"
)

// dispatch selects how a method call reaches the guest.
type dispatch uint8

const (
	dispatchNone        dispatch = iota // zero-method interface
	dispatchExecute                     // the value itself is executed
	dispatchInstantiate                 // the value itself is instantiated
	dispatchMember                      // a same-named member is executed
)

var dispatchNames = [...]string{
	dispatchNone:        "none",
	dispatchExecute:     "execute",
	dispatchInstantiate: "instantiate",
	dispatchMember:      "member",
}

func (d dispatch) String() string {
	if int(d) < len(dispatchNames) {
		return dispatchNames[d]
	}
	return "unknown"
}

// Adapter binds one foreign value to one interface shape. Method calls are
// forwarded to the guest and results projected through the method's return
// shape. Adapters hold no state beyond the binding.
type Adapter struct {
	v    interop.Value
	p    shape.Projector
	s    shape.Shape
	mode dispatch
}

// New adapts v to the interface shape s. traits must be the probed trait set
// of v. A null value yields a nil adapter and no error.
//
// A zero-method interface accepts any present value. A single-method
// interface executes the value when it is executable, instantiates it when it
// is instantiable, and otherwise dispatches to the same-named member. A
// constructor method instantiates an instantiable or executable value and
// otherwise constructs through the same-named member. A multi-method interface needs a value
// with members, or one that is executable or instantiable; members are
// resolved on each call.
func New(v interop.Value, s shape.Shape, traits trait.Set, p shape.Projector) (*Adapter, error) {
	if s.Kind != shape.KindInterface || s.Interface == nil {
		return nil, errors.IllegalState(errors.PhaseProject, fmt.Sprintf("%s is not an interface shape", s))
	}
	if traits.Has(trait.Null) {
		return nil, nil
	}

	a := &Adapter{v: v, s: s, p: p}
	methods := s.Interface.Methods
	switch len(methods) {
	case 0:
		a.mode = dispatchNone
	case 1:
		switch {
		case methods[0].Construct && traits.HasAny(trait.Instantiable, trait.Executable):
			// An executable value is still bound for construction; the call
			// then fails as unsupported instead of executing.
			a.mode = dispatchInstantiate
		case methods[0].Construct && traits.Has(trait.Members):
			a.mode = dispatchMember
		case methods[0].Construct:
			return nil, errors.TypeMismatch(errors.PhaseProject, nil, s.String(), traits.String())
		case traits.Has(trait.Executable):
			a.mode = dispatchExecute
		case traits.Has(trait.Instantiable):
			a.mode = dispatchInstantiate
		case traits.Has(trait.Members):
			a.mode = dispatchMember
		default:
			return nil, errors.TypeMismatch(errors.PhaseProject, nil, s.String(), traits.String())
		}
	default:
		if !traits.HasAny(trait.Members, trait.Executable, trait.Instantiable) {
			return nil, errors.TypeMismatch(errors.PhaseProject, nil, s.String(), traits.String())
		}
		a.mode = dispatchMember
	}
	return a, nil
}

// Foreign returns the adapted value.
func (a *Adapter) Foreign() interop.Value { return a.v }

// Shape returns the interface shape the adapter implements.
func (a *Adapter) Shape() shape.Shape { return a.s }

// Call invokes the named method with positional arguments.
func (a *Adapter) Call(name string, args ...any) (any, error) {
	m, ok := a.s.Interface.Method(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseInvoke, "method", name)
	}
	res, err := a.call(m, args)
	if err != nil {
		return nil, err
	}
	return a.p.Project(res, m.ReturnShape())
}

// Invoke calls the only method of a single-method interface.
func (a *Adapter) Invoke(args ...any) (any, error) {
	m, err := a.single()
	if err != nil {
		return nil, err
	}
	return a.Call(m.Name, args...)
}

// Func returns Invoke as a plain Go function value.
func (a *Adapter) Func() func(args ...any) (any, error) {
	return a.Invoke
}

func (a *Adapter) single() (shape.Method, error) {
	methods := a.s.Interface.Methods
	if len(methods) != 1 {
		return shape.Method{}, errors.InvalidInput(errors.PhaseInvoke,
			fmt.Sprintf("%s has %d methods; call one by name", a.s, len(methods)))
	}
	return methods[0], nil
}

// call forwards one method call to the guest and returns the raw result.
func (a *Adapter) call(m shape.Method, args []any) (interop.Value, error) {
	if !m.AcceptsArgs(len(args)) {
		return nil, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
			Path(m.Name).
			Shape(a.s.String()).
			Detail("expected %d arguments, got %d", m.Arity, len(args)).
			Build()
	}
	Logger().Debug("adapter call",
		zap.String("method", m.Name),
		zap.Stringer("dispatch", a.mode),
		zap.Int("args", len(args)))

	switch a.mode {
	case dispatchExecute:
		return a.v.Execute(args...)
	case dispatchInstantiate:
		if !a.v.CanInstantiate() {
			return nil, a.unsupported(m, "value is not instantiable")
		}
		return a.v.NewInstance(args...)
	case dispatchMember:
		if !a.v.HasMember(m.Name) {
			return nil, a.unsupported(m, "no such member")
		}
		member, err := a.v.GetMember(m.Name)
		if err != nil {
			return nil, err
		}
		if m.Construct {
			if member == nil || !member.CanInstantiate() {
				return nil, a.unsupported(m, "member is not instantiable")
			}
			return member.NewInstance(args...)
		}
		if member == nil || !member.CanExecute() {
			return nil, a.unsupported(m, "member is not executable")
		}
		return member.Execute(args...)
	}
	return nil, a.unsupported(m, "interface has no methods")
}

func (a *Adapter) unsupported(m shape.Method, detail string) error {
	return errors.New(errors.PhaseInvoke, errors.KindUnsupported).
		Path(m.Name).
		Shape(a.s.String()).
		Traits(trait.Probe(a.v).String()).
		Detail("%s", detail).
		Build()
}

// Equal reports whether other adapts the same foreign value to the same shape.
func (a *Adapter) Equal(other any) bool {
	o, ok := other.(*Adapter)
	if !ok || o == nil || a == nil {
		return false
	}
	return interop.Same(a.v, o.v) && shape.Equal(a.s, o.s)
}

// Hash is consistent with Equal.
func (a *Adapter) Hash() uint64 {
	return view.Hash([]any{a.v, a.s.String()})
}

func (a *Adapter) String() string {
	name := a.s.Interface.Name
	if name == "" {
		name = a.s.String()
	}
	return fmt.Sprintf("%s(%s)", name, a.v)
}

var _ interop.Wrapper = (*Adapter)(nil)
