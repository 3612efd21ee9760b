package coerce

import (
	"reflect"
	"unicode/utf8"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/callable"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/numeric"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
	"github.com/wippyai/interop/view"
)

func projectScalar(_ *Engine, v interop.Value, s shape.Shape, traits trait.Set) (any, error) {
	if traits.Has(trait.Null) {
		if s.Nullable {
			return nil, nil
		}
		return nil, errors.NullReference(errors.PhaseProject, nil, s.String())
	}

	switch s.Kind {
	case shape.KindBoolean:
		if !traits.Has(trait.Boolean) {
			return nil, mismatch(s, traits)
		}
		return v.AsBoolean()
	case shape.KindString:
		if !traits.Has(trait.String) {
			return nil, mismatch(s, traits)
		}
		return v.AsString()
	case shape.KindChar:
		return projectChar(v, s, traits)
	}

	if !traits.Has(trait.Number) {
		return nil, mismatch(s, traits)
	}
	n, err := number(v, s, traits)
	if err != nil {
		return nil, err
	}
	switch s.Kind {
	case shape.KindInt8:
		return n.AsByte()
	case shape.KindInt16:
		return n.AsShort()
	case shape.KindInt32:
		return n.AsInt()
	case shape.KindInt64:
		return n.AsLong()
	case shape.KindFloat32:
		return n.AsFloat()
	case shape.KindFloat64:
		return n.AsDouble()
	}
	return n.Canonical(), nil
}

func number(v interop.Value, s shape.Shape, traits trait.Set) (numeric.Number, error) {
	x, err := v.AsNumber()
	if err != nil {
		return numeric.Number{}, err
	}
	n, ok := numeric.Of(x)
	if !ok {
		return numeric.Number{}, errors.New(errors.PhaseProject, errors.KindTypeMismatch).
			Shape(s.String()).
			Traits(traits.String()).
			HostType(reflect.TypeOf(x).String()).
			Detail("guest number is not a Go numeric").
			Build()
	}
	return n, nil
}

// projectChar accepts a one-rune string in the basic multilingual plane or a
// number in [0, 65536).
func projectChar(v interop.Value, s shape.Shape, traits trait.Set) (any, error) {
	switch {
	case traits.Has(trait.String):
		str, err := v.AsString()
		if err != nil {
			return nil, err
		}
		r, size := utf8.DecodeRuneInString(str)
		if size == 0 || size != len(str) || r == utf8.RuneError || r > 0xFFFF {
			return nil, errors.New(errors.PhaseProject, errors.KindTypeMismatch).
				Shape(s.String()).
				Traits(traits.String()).
				Value(str).
				Detail("string is not a single character").
				Build()
		}
		return r, nil
	case traits.Has(trait.Number):
		n, err := number(v, s, traits)
		if err != nil {
			return nil, err
		}
		return n.AsChar()
	}
	return nil, mismatch(s, traits)
}

func projectCollection(e *Engine, v interop.Value, s shape.Shape, traits trait.Set) (any, error) {
	if traits.Has(trait.Null) {
		return nil, nil
	}
	if host, ok := hostContainer(v, s, traits); ok {
		return host, nil
	}

	if s.Kind == shape.KindList {
		if !traits.Has(trait.ArrayElements) {
			return nil, mismatch(s, traits)
		}
		return view.NewList(v, *s.Elem, e), nil
	}

	switch s.Key.Kind {
	case shape.KindInt32, shape.KindInt64, shape.KindNumber:
		if !traits.Has(trait.ArrayElements) {
			return nil, mismatch(s, traits)
		}
		return view.NewIndexMap(v, *s.Key, *s.Elem, e), nil
	case shape.KindString, shape.KindObject:
		if !traits.Has(trait.Members) {
			return nil, mismatch(s, traits)
		}
		return view.NewMembers(v, *s.Key, *s.Elem, e), nil
	}
	// int8, int16, float32 and float64 keys: no index or member key fits them.
	return nil, errors.New(errors.PhaseProject, errors.KindTypeMismatch).
		Shape(s.String()).
		Traits(traits.String()).
		Detail("%s cannot key a map view", s.Key.Kind).
		Build()
}

// hostContainer returns the host object of v when it already is a Go
// container of the requested kind.
func hostContainer(v interop.Value, s shape.Shape, traits trait.Set) (any, bool) {
	if !traits.Has(trait.HostObject) {
		return nil, false
	}
	host, err := v.AsHostObject()
	if err != nil || host == nil {
		return nil, false
	}
	switch reflect.TypeOf(host).Kind() {
	case reflect.Slice, reflect.Array:
		return host, s.Kind == shape.KindList
	case reflect.Map:
		return host, s.Kind == shape.KindMap
	}
	return nil, false
}

func projectInterface(e *Engine, v interop.Value, s shape.Shape, traits trait.Set) (any, error) {
	a, err := callable.New(v, s, traits, e)
	if err != nil || a == nil {
		return nil, err
	}
	return a, nil
}

func projectAny(_ *Engine, v interop.Value, _ shape.Shape, _ trait.Set) (any, error) {
	if v == nil {
		return nil, nil
	}
	return v, nil
}

var (
	objectMembers = shape.MapOf(shape.String, shape.Object)
	objectList    = shape.ListOf(shape.Object)
)

// projectObject applies the default host mapping.
func projectObject(e *Engine, v interop.Value, _ shape.Shape, traits trait.Set) (any, error) {
	switch {
	case traits.Has(trait.Null):
		return nil, nil
	case traits.Has(trait.HostObject):
		return v.AsHostObject()
	case traits.Has(trait.ProxyObject):
		return v.AsProxyObject()
	case traits.Has(trait.Boolean):
		return v.AsBoolean()
	case traits.Has(trait.String):
		return v.AsString()
	case traits.Has(trait.Number):
		n, err := number(v, shape.Number, traits)
		if err != nil {
			return nil, err
		}
		return n.Canonical(), nil
	case traits.Has(trait.Members):
		return view.NewMembers(v, *objectMembers.Key, *objectMembers.Elem, e), nil
	case traits.Has(trait.ArrayElements):
		return view.NewList(v, *objectList.Elem, e), nil
	case traits.HasAny(trait.Executable, trait.Instantiable):
		return callable.New(v, shape.Function, traits, e)
	case traits.Has(trait.Native):
		return v.AsNativePointer()
	}
	return v, nil
}

// projectPassthrough needs the identity trait itself; NULL never carries one,
// so a null value is a mismatch here rather than nil.
func projectPassthrough(_ *Engine, v interop.Value, s shape.Shape, traits trait.Set) (any, error) {
	switch s.Kind {
	case shape.KindHost:
		if traits.Has(trait.HostObject) {
			return v.AsHostObject()
		}
	case shape.KindProxy:
		if traits.Has(trait.ProxyObject) {
			return v.AsProxyObject()
		}
	case shape.KindNative:
		if traits.Has(trait.Native) {
			return v.AsNativePointer()
		}
	}
	return nil, mismatch(s, traits)
}
