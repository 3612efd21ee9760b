package starlarkguest

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
)

// Value is a Starlark value seen through the guest protocol.
type Value struct {
	env *Env
	v   starlark.Value
}

var _ interop.Value = (*Value)(nil)

// ValueOf wraps v. Foreign values that were handed to Starlark are returned
// as they were.
func (e *Env) ValueOf(v starlark.Value) interop.Value {
	if f, ok := v.(*foreign); ok {
		return f.fv
	}
	if v == nil {
		v = starlark.None
	}
	return &Value{env: e, v: v}
}

// Starlark returns the wrapped Starlark value.
func (v *Value) Starlark() starlark.Value { return v.v }

func (v *Value) IsNull() bool { return v.v == starlark.None }

func (v *Value) IsBoolean() bool {
	_, ok := v.v.(starlark.Bool)
	return ok
}

func (v *Value) IsString() bool {
	_, ok := v.v.(starlark.String)
	return ok
}

func (v *Value) IsNumber() bool {
	switch v.v.(type) {
	case starlark.Int, starlark.Float:
		return true
	}
	return false
}

// HasMembers holds for dicts, modules and attribute-bearing values other
// than the built-in sequences and strings, whose attributes are methods.
func (v *Value) HasMembers() bool {
	switch v.v.(type) {
	case *starlark.Dict, *starlarkstruct.Module, *starlarkstruct.Struct:
		return true
	case starlark.String, starlark.Bytes, *starlark.List, starlark.Tuple, *starlark.Set:
		return false
	}
	_, ok := v.v.(starlark.HasAttrs)
	return ok
}

func (v *Value) HasArrayElements() bool {
	switch v.v.(type) {
	case starlark.String, starlark.Bytes:
		return false
	}
	_, ok := v.v.(starlark.Indexable)
	return ok
}

func (v *Value) CanExecute() bool {
	_, ok := v.v.(starlark.Callable)
	return ok
}

func (v *Value) CanInstantiate() bool  { return false }
func (v *Value) IsHostObject() bool    { return false }
func (v *Value) IsProxyObject() bool   { return false }
func (v *Value) IsNativePointer() bool { return false }

func (v *Value) AsBoolean() (bool, error) {
	if b, ok := v.v.(starlark.Bool); ok {
		return bool(b), nil
	}
	return false, v.unsupported("not a boolean")
}

func (v *Value) AsString() (string, error) {
	if s, ok := v.v.(starlark.String); ok {
		return string(s), nil
	}
	return "", v.unsupported("not a string")
}

// AsNumber returns int64 when the integer fits, then uint64, then *big.Int;
// floats are float64.
func (v *Value) AsNumber() (any, error) {
	switch n := v.v.(type) {
	case starlark.Int:
		if i, ok := n.Int64(); ok {
			return i, nil
		}
		if u, ok := n.Uint64(); ok {
			return u, nil
		}
		return n.BigInt(), nil
	case starlark.Float:
		return float64(n), nil
	}
	return nil, v.unsupported("not a number")
}

func (v *Value) AsHostObject() (any, error)  { return nil, v.unsupported("not a host object") }
func (v *Value) AsProxyObject() (any, error) { return nil, v.unsupported("not a proxy object") }

func (v *Value) AsNativePointer() (uintptr, error) {
	return 0, v.unsupported("not a native pointer")
}

func (v *Value) GetMember(key string) (interop.Value, error) {
	switch x := v.v.(type) {
	case *starlark.Dict:
		m, found, err := x.Get(starlark.String(key))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.NotFound(errors.PhaseGuest, "member", key)
		}
		return v.env.ValueOf(m), nil
	case starlark.HasAttrs:
		if !v.HasMembers() {
			break
		}
		m, err := x.Attr(key)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.NotFound(errors.PhaseGuest, "member", key)
		}
		return v.env.ValueOf(m), nil
	}
	return nil, v.unsupported("get member " + key)
}

func (v *Value) PutMember(key string, x any) error {
	if !v.HasMembers() {
		return v.unsupported("put member " + key)
	}
	sv, err := v.env.ToStarlark(x)
	if err != nil {
		return err
	}
	switch t := v.v.(type) {
	case *starlark.Dict:
		return t.SetKey(starlark.String(key), sv)
	case *starlarkstruct.Module:
		t.Members[key] = sv
		return nil
	case starlark.HasSetField:
		return t.SetField(key, sv)
	}
	return v.unsupported("put member " + key + " on " + v.v.Type())
}

func (v *Value) RemoveMember(key string) (bool, error) {
	switch t := v.v.(type) {
	case *starlark.Dict:
		_, found, err := t.Delete(starlark.String(key))
		return found, err
	case *starlarkstruct.Module:
		_, found := t.Members[key]
		delete(t.Members, key)
		return found, nil
	}
	return false, v.unsupported("remove member " + key)
}

// MemberKeys lists string dict keys in insertion order, or attribute names.
func (v *Value) MemberKeys() ([]string, error) {
	switch t := v.v.(type) {
	case *starlark.Dict:
		var keys []string
		for _, k := range t.Keys() {
			if s, ok := k.(starlark.String); ok {
				keys = append(keys, string(s))
			}
		}
		return keys, nil
	case *starlarkstruct.Module:
		return t.Members.Keys(), nil
	case starlark.HasAttrs:
		if v.HasMembers() {
			return t.AttrNames(), nil
		}
	}
	return nil, nil
}

func (v *Value) HasMember(key string) bool {
	if !v.HasMembers() {
		return false
	}
	switch t := v.v.(type) {
	case *starlark.Dict:
		_, found, _ := t.Get(starlark.String(key))
		return found
	case starlark.HasAttrs:
		m, err := t.Attr(key)
		return err == nil && m != nil
	}
	return false
}

func (v *Value) indexable(index int64) (starlark.Indexable, error) {
	x, ok := v.v.(starlark.Indexable)
	if !ok || !v.HasArrayElements() {
		return nil, v.unsupported("array element access")
	}
	if n := int64(x.Len()); index < 0 || index >= n {
		return nil, errors.OutOfBounds(errors.PhaseGuest, nil, index, n)
	}
	return x, nil
}

func (v *Value) ArrayElement(index int64) (interop.Value, error) {
	x, err := v.indexable(index)
	if err != nil {
		return nil, err
	}
	return v.env.ValueOf(x.Index(int(index))), nil
}

func (v *Value) SetArrayElement(index int64, x any) error {
	idx, err := v.indexable(index)
	if err != nil {
		return err
	}
	w, ok := idx.(starlark.HasSetIndex)
	if !ok {
		return v.unsupported(v.v.Type() + " is immutable")
	}
	sv, err := v.env.ToStarlark(x)
	if err != nil {
		return err
	}
	return w.SetIndex(int(index), sv)
}

func (v *Value) ArraySize() (int64, error) {
	x, ok := v.v.(starlark.Indexable)
	if !ok || !v.HasArrayElements() {
		return 0, v.unsupported("array size")
	}
	return int64(x.Len()), nil
}

// Execute calls the value on the environment's thread. Starlark errors are
// returned as they are.
func (v *Value) Execute(args ...any) (interop.Value, error) {
	if !v.CanExecute() {
		return nil, v.unsupported("execute")
	}
	tuple := make(starlark.Tuple, len(args))
	for i, a := range args {
		sv, err := v.env.ToStarlark(a)
		if err != nil {
			return nil, err
		}
		tuple[i] = sv
	}
	res, err := starlark.Call(v.env.thread, v.v, tuple, nil)
	if err != nil {
		return nil, err
	}
	return v.env.ValueOf(res), nil
}

func (v *Value) NewInstance(...any) (interop.Value, error) {
	return nil, v.unsupported("instantiate")
}

func (v *Value) unsupported(what string) error {
	return errors.New(errors.PhaseGuest, errors.KindUnsupported).
		HostType("starlark." + v.v.Type()).
		Detail("%s", what).
		Build()
}

func (v *Value) String() string { return v.v.String() }
