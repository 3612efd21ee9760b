// Package convert assigns projected host values to Go types.
package convert

import (
	"reflect"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
)

var valueType = reflect.TypeOf((*interop.Value)(nil)).Elem()

// To converts x to a value of type t. Numeric, string and bool conversions
// are allowed within their class when they round-trip exactly; pointer
// targets are allocated. A nil x yields the zero t.
func To(x any, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(x)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case sameClass(v.Kind(), t.Kind()) && v.Type().ConvertibleTo(t):
		c := v.Convert(t)
		if c.Convert(v.Type()).Equal(v) {
			return c, nil
		}
	case t.Kind() == reflect.Pointer && v.Type().ConvertibleTo(t.Elem()):
		elem, err := To(x, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	}
	return reflect.Value{}, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
		HostType(t.String()).
		Value(x).
		Detail("cannot convert %T", x).
		Build()
}

// Foreign converts x to t, first projecting foreign values through p onto
// the shape of t. Views and adapters are projected only when t cannot hold
// them as they are. A nil p skips projection.
func Foreign(x any, t reflect.Type, p shape.Projector) (reflect.Value, error) {
	fv, foreign := interop.Unwrap(x)
	if foreign && t == valueType {
		return reflect.ValueOf(&fv).Elem(), nil
	}
	if foreign && fv.IsNull() && nilable(t.Kind()) {
		return reflect.Zero(t), nil
	}
	if foreign && p != nil {
		_, raw := x.(interop.Value)
		if raw || !reflect.TypeOf(x).AssignableTo(t) {
			projected, err := p.Project(fv, shape.FromType(t))
			if err != nil {
				return reflect.Value{}, err
			}
			x = projected
		}
	}
	return To(x, t)
}

// Args converts positional arguments for a call to fnType, spreading the
// tail over a variadic last parameter.
func Args(args []any, fnType reflect.Type, p shape.Projector) ([]reflect.Value, error) {
	n := fnType.NumIn()
	if fnType.IsVariadic() {
		if len(args) < n-1 {
			return nil, arity(fnType, len(args))
		}
	} else if len(args) != n {
		return nil, arity(fnType, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		t := paramType(fnType, i)
		v, err := Foreign(a, t, p)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

func paramType(fnType reflect.Type, i int) reflect.Type {
	last := fnType.NumIn() - 1
	if fnType.IsVariadic() && i >= last {
		return fnType.In(last).Elem()
	}
	return fnType.In(i)
}

func arity(fnType reflect.Type, got int) error {
	return errors.New(errors.PhaseGuest, errors.KindInvalidInput).
		HostType(fnType.String()).
		Detail("expected %d arguments, got %d", fnType.NumIn(), got).
		Build()
}

// sameClass reports whether a and b are both numeric, both strings or both bools.
func sameClass(a, b reflect.Kind) bool {
	numeric := func(k reflect.Kind) bool { return k >= reflect.Int && k <= reflect.Float64 }
	if numeric(a) || numeric(b) {
		return numeric(a) && numeric(b)
	}
	return a == b && (a == reflect.String || a == reflect.Bool)
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return true
	}
	return false
}
