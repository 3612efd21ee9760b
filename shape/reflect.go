package shape

import (
	"reflect"

	"github.com/wippyai/interop"
)

var (
	valueType = reflect.TypeOf((*interop.Value)(nil)).Elem()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// FromType returns the shape a Go value of type t is projected through.
// Scalars map to their exact width, unsigned widths to the next signed one,
// interop.Value to Any, empty interfaces to Object, func types to Function,
// and every other type to Host. Pointers to scalars are nullable scalars.
func FromType(t reflect.Type) Shape {
	if t == valueType {
		return Any
	}
	switch t.Kind() {
	case reflect.Bool:
		return Boolean
	case reflect.Int8:
		return Int8
	case reflect.Int16, reflect.Uint8:
		return Int16
	case reflect.Int32, reflect.Uint16:
		return Int32
	case reflect.Int64, reflect.Int, reflect.Uint32:
		return Int64
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return Number
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	case reflect.String:
		return String
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Object
		}
	case reflect.Func:
		return Function
	case reflect.Pointer:
		if elem := FromType(t.Elem()); elem.Kind.IsScalar() {
			return elem.OrNull()
		}
	}
	return Host
}

// IsErrorType reports whether t is the built-in error interface.
func IsErrorType(t reflect.Type) bool {
	return t == errorType
}
