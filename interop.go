package interop

import (
	"fmt"
	"reflect"

	"github.com/wippyai/interop/errors"
)

// Value is a handle to a guest-owned value, observed only through the
// capability predicates and protocol operations below.
type Value interface {
	Capabilities
	Scalars
	Members
	Elements
	Invoker
	fmt.Stringer
}

// Capabilities are the eleven independent trait predicates.
// Implementations must be side-effect free.
type Capabilities interface {
	IsNull() bool
	IsBoolean() bool
	IsString() bool
	IsNumber() bool
	HasMembers() bool
	HasArrayElements() bool
	CanExecute() bool
	CanInstantiate() bool
	IsHostObject() bool
	IsProxyObject() bool
	IsNativePointer() bool
}

// Scalars extracts scalar content for traits the value declares.
type Scalars interface {
	AsBoolean() (bool, error)
	AsString() (string, error)
	// AsNumber returns a Go numeric: any int/uint width, float32, float64 or *big.Int.
	AsNumber() (any, error)
	AsHostObject() (any, error)
	AsProxyObject() (any, error)
	AsNativePointer() (uintptr, error)
}

// Members is the keyed member protocol.
type Members interface {
	GetMember(key string) (Value, error)
	PutMember(key string, v any) error
	RemoveMember(key string) (bool, error)
	MemberKeys() ([]string, error)
	HasMember(key string) bool
}

// Elements is the indexed array protocol.
type Elements interface {
	ArrayElement(index int64) (Value, error)
	SetArrayElement(index int64, v any) error
	ArraySize() (int64, error)
}

// Invoker is the call protocol.
type Invoker interface {
	Execute(args ...any) (Value, error)
	NewInstance(args ...any) (Value, error)
}

// Wrapper is implemented by host-side projections (views, adapters) that are
// bound to a foreign value. Guests unwrap them when they are passed back in.
type Wrapper interface {
	Foreign() Value
}

// Unwrap returns the foreign value behind x, if x is one or wraps one.
func Unwrap(x any) (Value, bool) {
	switch v := x.(type) {
	case Value:
		return v, v != nil
	case Wrapper:
		f := v.Foreign()
		return f, f != nil
	}
	return nil, false
}

// Same reports whether a and b are the same foreign value handle.
// Handles of non-comparable dynamic types are compared by their backing pointer.
func Same(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Slice:
		return ra.Len() == rb.Len() && ra.Pointer() == rb.Pointer()
	case reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	}
	return false
}

// UnimplementedValue reports every capability as absent and fails every
// protocol operation with an unsupported error. Guest bindings embed it and
// override what they support.
type UnimplementedValue struct{}

func (UnimplementedValue) IsNull() bool           { return false }
func (UnimplementedValue) IsBoolean() bool        { return false }
func (UnimplementedValue) IsString() bool         { return false }
func (UnimplementedValue) IsNumber() bool         { return false }
func (UnimplementedValue) HasMembers() bool       { return false }
func (UnimplementedValue) HasArrayElements() bool { return false }
func (UnimplementedValue) CanExecute() bool       { return false }
func (UnimplementedValue) CanInstantiate() bool   { return false }
func (UnimplementedValue) IsHostObject() bool     { return false }
func (UnimplementedValue) IsProxyObject() bool    { return false }
func (UnimplementedValue) IsNativePointer() bool  { return false }

func (UnimplementedValue) AsBoolean() (bool, error) {
	return false, errors.Unsupported(errors.PhaseGuest, "value is not a boolean")
}

func (UnimplementedValue) AsString() (string, error) {
	return "", errors.Unsupported(errors.PhaseGuest, "value is not a string")
}

func (UnimplementedValue) AsNumber() (any, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "value is not a number")
}

func (UnimplementedValue) AsHostObject() (any, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "value is not a host object")
}

func (UnimplementedValue) AsProxyObject() (any, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "value is not a proxy object")
}

func (UnimplementedValue) AsNativePointer() (uintptr, error) {
	return 0, errors.Unsupported(errors.PhaseGuest, "value is not a native pointer")
}

func (UnimplementedValue) GetMember(key string) (Value, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "get member "+key)
}

func (UnimplementedValue) PutMember(key string, _ any) error {
	return errors.Unsupported(errors.PhaseGuest, "put member "+key)
}

func (UnimplementedValue) RemoveMember(key string) (bool, error) {
	return false, errors.Unsupported(errors.PhaseGuest, "remove member "+key)
}

func (UnimplementedValue) MemberKeys() ([]string, error) { return nil, nil }
func (UnimplementedValue) HasMember(string) bool         { return false }

func (UnimplementedValue) ArrayElement(int64) (Value, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "array element read")
}

func (UnimplementedValue) SetArrayElement(int64, any) error {
	return errors.Unsupported(errors.PhaseGuest, "array element write")
}

func (UnimplementedValue) ArraySize() (int64, error) {
	return 0, errors.Unsupported(errors.PhaseGuest, "array size")
}

func (UnimplementedValue) Execute(...any) (Value, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "execute")
}

func (UnimplementedValue) NewInstance(...any) (Value, error) {
	return nil, errors.Unsupported(errors.PhaseGuest, "instantiate")
}
