package host

import (
	"fmt"
	"math/big"
	"reflect"
	"sync"
	"unsafe"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/shape"
)

// Config controls how Go values are exposed.
type Config struct {
	// Naming maps Go field and method names to member names. Defaults to GoName.
	Naming Namer
	// Projector converts foreign arguments handed to Go functions and
	// written into Go storage. Defaults to coerce.New().
	Projector shape.Projector
}

// Binder exposes Go values as foreign values. It caches per-type member
// tables and is safe for concurrent use.
type Binder struct {
	naming    Namer
	projector shape.Projector
	members   map[reflect.Type][]member
	mu        sync.RWMutex
}

// New creates a binder with the default configuration.
func New() *Binder {
	return NewWithConfig(nil)
}

// NewWithConfig creates a binder with custom configuration.
func NewWithConfig(cfg *Config) *Binder {
	b := &Binder{
		naming:  GoName,
		members: make(map[reflect.Type][]member),
	}
	if cfg != nil {
		if cfg.Naming != nil {
			b.naming = cfg.Naming
		}
		b.projector = cfg.Projector
	}
	if b.projector == nil {
		b.projector = coerce.New()
	}
	return b
}

var defaultBinder = New()

// ValueOf exposes x with the default binder.
func ValueOf(x any) interop.Value {
	return defaultBinder.ValueOf(x)
}

// ValueOf exposes x as a foreign value:
//
//	nil, nil pointers        NULL
//	bool, string, numbers    BOOLEAN, STRING, NUMBER
//	slices, arrays           HOST_OBJECT, ARRAY_ELEMENTS
//	maps with string keys    HOST_OBJECT, MEMBERS
//	structs and pointers     HOST_OBJECT, MEMBERS (fields, then methods)
//	funcs                    HOST_OBJECT, EXECUTABLE
//	reflect.Type             HOST_OBJECT, INSTANTIABLE
//	unsafe.Pointer           NATIVE
//	Proxy* implementations   PROXY_OBJECT plus the implemented traits
//
// Foreign values and views over them are returned unwrapped.
func (b *Binder) ValueOf(x any) interop.Value {
	if x == nil {
		return null{}
	}
	if fv, ok := interop.Unwrap(x); ok {
		return fv
	}
	switch t := x.(type) {
	case unsafe.Pointer:
		return native{p: t}
	case *big.Int:
		if t == nil {
			return null{}
		}
		return scalar{x: t}
	case reflect.Type:
		return &object{b: b, x: x, class: t}
	}
	if p, ok := b.proxyOf(x); ok {
		return p
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Bool:
		return scalar{x: rv.Bool()}
	case reflect.String:
		return scalar{x: rv.String()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar{x: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar{x: rv.Uint()}
	case reflect.Float32:
		return scalar{x: float32(rv.Float())}
	case reflect.Float64:
		return scalar{x: rv.Float()}
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func:
		if rv.IsNil() {
			return null{}
		}
	}
	return b.object(x, rv)
}

// null is the NULL value.
type null struct{ interop.UnimplementedValue }

func (null) IsNull() bool   { return true }
func (null) String() string { return "nil" }

// scalar holds a bool, a string or a normalized number.
type scalar struct {
	interop.UnimplementedValue
	x any
}

func (s scalar) IsBoolean() bool {
	_, ok := s.x.(bool)
	return ok
}

func (s scalar) IsString() bool {
	_, ok := s.x.(string)
	return ok
}

func (s scalar) IsNumber() bool { return !s.IsBoolean() && !s.IsString() }

func (s scalar) AsBoolean() (bool, error) {
	if b, ok := s.x.(bool); ok {
		return b, nil
	}
	return s.UnimplementedValue.AsBoolean()
}

func (s scalar) AsString() (string, error) {
	if str, ok := s.x.(string); ok {
		return str, nil
	}
	return s.UnimplementedValue.AsString()
}

func (s scalar) AsNumber() (any, error) {
	if s.IsNumber() {
		return s.x, nil
	}
	return s.UnimplementedValue.AsNumber()
}

func (s scalar) String() string {
	if str, ok := s.x.(string); ok {
		return fmt.Sprintf("%q", str)
	}
	return fmt.Sprint(s.x)
}

// native is a raw pointer.
type native struct {
	interop.UnimplementedValue
	p unsafe.Pointer
}

func (native) IsNativePointer() bool { return true }

func (n native) AsNativePointer() (uintptr, error) { return uintptr(n.p), nil }

func (n native) String() string { return fmt.Sprintf("native(%p)", n.p) }
