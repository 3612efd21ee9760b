// Package testguest provides a scriptable in-memory foreign value. Any
// combination of traits can be assembled, which the real guest bindings
// cannot always produce.
package testguest

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
)

// Fn implements the call protocol of a scripted value.
type Fn func(args ...any) (any, error)

// Value is a scripted foreign value. The zero value has no traits.
type Value struct {
	Name string

	// Executes and Instantiations count protocol calls.
	Executes       int
	Instantiations int

	// ReadErr, when set, is returned by every element and member read.
	ReadErr error

	null    bool
	boolean *bool
	str     *string
	num     any

	hasMembers bool
	keys       []string
	members    map[string]interop.Value

	elems *[]interop.Value

	exec Fn
	ctor Fn

	isHost bool
	host   any

	isProxy bool
	proxy   any

	native *uintptr
}

var _ interop.Value = (*Value)(nil)

func Null() *Value { return &Value{null: true} }

func Bool(b bool) *Value { return &Value{boolean: &b} }

func String(s string) *Value { return &Value{str: &s} }

// Number wraps any Go numeric, including *big.Int.
func Number(n any) *Value { return &Value{num: n} }

// Array builds a value with ARRAY_ELEMENTS; elements go through Of.
func Array(elems ...any) *Value {
	return (&Value{}).WithArray(elems...)
}

// Object builds a value with MEMBERS from alternating key/value pairs.
func Object(kv ...any) *Value {
	return (&Value{}).WithMembers(kv...)
}

// Func builds an EXECUTABLE value.
func Func(fn Fn) *Value {
	return (&Value{}).WithFunc(fn)
}

// Class builds an INSTANTIABLE value.
func Class(fn Fn) *Value {
	return (&Value{}).WithClass(fn)
}

// Host builds a HOST_OBJECT value wrapping x.
func Host(x any) *Value {
	return (&Value{}).WithHost(x)
}

// Proxy builds a PROXY_OBJECT value wrapping p.
func Proxy(p any) *Value {
	return &Value{isProxy: true, proxy: p}
}

// Native builds a NATIVE value.
func Native(p uintptr) *Value {
	return &Value{native: &p}
}

func (v *Value) Named(name string) *Value {
	v.Name = name
	return v
}

func (v *Value) WithMembers(kv ...any) *Value {
	if len(kv)%2 != 0 {
		panic("testguest: odd member list")
	}
	v.hasMembers = true
	if v.members == nil {
		v.members = make(map[string]interop.Value)
	}
	for i := 0; i < len(kv); i += 2 {
		v.put(kv[i].(string), Of(kv[i+1]))
	}
	return v
}

func (v *Value) WithArray(elems ...any) *Value {
	arr := make([]interop.Value, len(elems))
	for i, e := range elems {
		arr[i] = Of(e)
	}
	v.elems = &arr
	return v
}

func (v *Value) WithFunc(fn Fn) *Value {
	v.exec = fn
	return v
}

func (v *Value) WithClass(fn Fn) *Value {
	v.ctor = fn
	return v
}

func (v *Value) WithHost(x any) *Value {
	v.isHost = true
	v.host = x
	return v
}

// Of converts a Go value into a scripted value. Foreign values and wrappers
// pass through unchanged.
func Of(x any) interop.Value {
	if fv, ok := interop.Unwrap(x); ok {
		return fv
	}
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, *big.Int:
		return Number(t)
	case []any:
		return Array(t...)
	case Fn:
		return Func(t)
	case func(args ...any) (any, error):
		return Func(t)
	}
	return Host(x)
}

func (v *Value) put(key string, fv interop.Value) {
	if _, ok := v.members[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.members[key] = fv
}

func (v *Value) IsNull() bool           { return v.null }
func (v *Value) IsBoolean() bool        { return v.boolean != nil }
func (v *Value) IsString() bool         { return v.str != nil }
func (v *Value) IsNumber() bool         { return v.num != nil }
func (v *Value) HasMembers() bool       { return v.hasMembers }
func (v *Value) HasArrayElements() bool { return v.elems != nil }
func (v *Value) CanExecute() bool       { return v.exec != nil }
func (v *Value) CanInstantiate() bool   { return v.ctor != nil }
func (v *Value) IsHostObject() bool     { return v.isHost }
func (v *Value) IsProxyObject() bool    { return v.isProxy }
func (v *Value) IsNativePointer() bool  { return v.native != nil }

func (v *Value) AsBoolean() (bool, error) {
	if v.boolean == nil {
		return false, errors.Unsupported(errors.PhaseGuest, "not a boolean")
	}
	return *v.boolean, nil
}

func (v *Value) AsString() (string, error) {
	if v.str == nil {
		return "", errors.Unsupported(errors.PhaseGuest, "not a string")
	}
	return *v.str, nil
}

func (v *Value) AsNumber() (any, error) {
	if v.num == nil {
		return nil, errors.Unsupported(errors.PhaseGuest, "not a number")
	}
	return v.num, nil
}

func (v *Value) AsHostObject() (any, error) {
	if !v.isHost {
		return nil, errors.Unsupported(errors.PhaseGuest, "not a host object")
	}
	return v.host, nil
}

func (v *Value) AsProxyObject() (any, error) {
	if !v.isProxy {
		return nil, errors.Unsupported(errors.PhaseGuest, "not a proxy object")
	}
	return v.proxy, nil
}

func (v *Value) AsNativePointer() (uintptr, error) {
	if v.native == nil {
		return 0, errors.Unsupported(errors.PhaseGuest, "not a native pointer")
	}
	return *v.native, nil
}

func (v *Value) GetMember(key string) (interop.Value, error) {
	if !v.hasMembers {
		return nil, errors.Unsupported(errors.PhaseGuest, "get member "+key)
	}
	if v.ReadErr != nil {
		return nil, v.ReadErr
	}
	m, ok := v.members[key]
	if !ok {
		return nil, errors.NotFound(errors.PhaseGuest, "member", key)
	}
	return m, nil
}

func (v *Value) PutMember(key string, x any) error {
	if !v.hasMembers {
		return errors.Unsupported(errors.PhaseGuest, "put member "+key)
	}
	v.put(key, Of(x))
	return nil
}

func (v *Value) RemoveMember(key string) (bool, error) {
	if !v.hasMembers {
		return false, errors.Unsupported(errors.PhaseGuest, "remove member "+key)
	}
	if _, ok := v.members[key]; !ok {
		return false, nil
	}
	delete(v.members, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true, nil
}

func (v *Value) MemberKeys() ([]string, error) {
	if !v.hasMembers {
		return nil, nil
	}
	return append([]string(nil), v.keys...), nil
}

func (v *Value) HasMember(key string) bool {
	_, ok := v.members[key]
	return ok
}

func (v *Value) ArrayElement(index int64) (interop.Value, error) {
	if v.elems == nil {
		return nil, errors.Unsupported(errors.PhaseGuest, "array element read")
	}
	if v.ReadErr != nil {
		return nil, v.ReadErr
	}
	arr := *v.elems
	if index < 0 || index >= int64(len(arr)) {
		return nil, errors.OutOfBounds(errors.PhaseGuest, nil, index, int64(len(arr)))
	}
	return arr[index], nil
}

func (v *Value) SetArrayElement(index int64, x any) error {
	if v.elems == nil {
		return errors.Unsupported(errors.PhaseGuest, "array element write")
	}
	arr := *v.elems
	if index < 0 || index >= int64(len(arr)) {
		return errors.OutOfBounds(errors.PhaseGuest, nil, index, int64(len(arr)))
	}
	arr[index] = Of(x)
	return nil
}

func (v *Value) ArraySize() (int64, error) {
	if v.elems == nil {
		return 0, errors.Unsupported(errors.PhaseGuest, "array size")
	}
	return int64(len(*v.elems)), nil
}

// Append grows the array outside of the protocol, simulating guest-side mutation.
func (v *Value) Append(elems ...any) {
	for _, e := range elems {
		*v.elems = append(*v.elems, Of(e))
	}
}

func (v *Value) Execute(args ...any) (interop.Value, error) {
	if v.exec == nil {
		return nil, errors.Unsupported(errors.PhaseGuest, "execute")
	}
	v.Executes++
	res, err := v.exec(args...)
	if err != nil {
		return nil, err
	}
	return Of(res), nil
}

func (v *Value) NewInstance(args ...any) (interop.Value, error) {
	if v.ctor == nil {
		return nil, errors.Unsupported(errors.PhaseGuest, "instantiate")
	}
	v.Instantiations++
	res, err := v.ctor(args...)
	if err != nil {
		return nil, err
	}
	return Of(res), nil
}

func (v *Value) String() string {
	if v.Name != "" {
		return v.Name
	}
	switch {
	case v.null:
		return "null"
	case v.boolean != nil:
		return fmt.Sprint(*v.boolean)
	case v.str != nil:
		return fmt.Sprintf("%q", *v.str)
	case v.num != nil:
		return fmt.Sprint(v.num)
	case v.elems != nil:
		return fmt.Sprintf("array(%d)", len(*v.elems))
	case v.hasMembers:
		return "{" + strings.Join(v.keys, ", ") + "}"
	case v.exec != nil:
		return "<function>"
	case v.ctor != nil:
		return "<class>"
	case v.isHost:
		return fmt.Sprintf("host(%v)", v.host)
	}
	return "<value>"
}
