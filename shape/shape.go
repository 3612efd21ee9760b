package shape

import (
	"fmt"
	"strings"

	"github.com/wippyai/interop/errors"
)

// Shape is a host-side request describing the form a foreign value should be
// projected into. The zero Shape is a non-nullable boolean.
type Shape struct {
	Elem      *Shape // list element or map value
	Key       *Shape // map key
	Interface *Interface
	Kind      Kind
	Nullable  bool
}

// Method describes one method of an interface shape.
type Method struct {
	Returns   *Shape // nil means Object
	Name      string
	Arity     int
	Variadic  bool
	Construct bool // dispatches to instantiation instead of execution
}

// Interface is a set of named methods. Name is informational and does not
// take part in shape identity.
type Interface struct {
	Name    string
	Methods []Method
}

var (
	Boolean = Shape{Kind: KindBoolean}
	Int8    = Shape{Kind: KindInt8}
	Int16   = Shape{Kind: KindInt16}
	Int32   = Shape{Kind: KindInt32}
	Int64   = Shape{Kind: KindInt64}
	Float32 = Shape{Kind: KindFloat32}
	Float64 = Shape{Kind: KindFloat64}
	Char    = Shape{Kind: KindChar}
	String  = Shape{Kind: KindString}
	Number  = Shape{Kind: KindNumber}
	Any     = Shape{Kind: KindAny}
	Object  = Shape{Kind: KindObject}
	Host    = Shape{Kind: KindHost}
	Proxy   = Shape{Kind: KindProxy}
	Native  = Shape{Kind: KindNative}

	// Function is the single-method interface used for plain callables.
	Function = Shape{Kind: KindInterface, Interface: &Interface{
		Name:    "Function",
		Methods: []Method{{Name: "apply", Arity: 1}},
	}}

	// Empty is the interface with no methods; every present value satisfies it.
	Empty = Shape{Kind: KindInterface, Interface: &Interface{Name: "Empty"}}
)

// OrNull returns a nullable copy of s.
func (s Shape) OrNull() Shape {
	s.Nullable = true
	return s
}

// ListOf returns a list shape with the given element shape.
func ListOf(elem Shape) Shape {
	return Shape{Kind: KindList, Elem: &elem}
}

// MapOf returns a map shape with the given key and value shapes.
func MapOf(key, value Shape) Shape {
	return Shape{Kind: KindMap, Key: &key, Elem: &value}
}

// InterfaceOf returns an interface shape. Duplicate method names are an
// illegal state.
func InterfaceOf(name string, methods ...Method) (Shape, error) {
	iface := &Interface{Name: name, Methods: methods}
	if err := iface.validate(); err != nil {
		return Shape{}, err
	}
	return Shape{Kind: KindInterface, Interface: iface}, nil
}

// MustInterface is InterfaceOf that panics on error, for package-level descriptors.
func MustInterface(name string, methods ...Method) Shape {
	s, err := InterfaceOf(name, methods...)
	if err != nil {
		panic(err)
	}
	return s
}

// Single returns a one-method interface shape named after the method.
func Single(name string, arity int) Shape {
	return MustInterface(name, Method{Name: name, Arity: arity})
}

// Method returns the method with the given name.
func (i *Interface) Method(name string) (Method, bool) {
	for _, m := range i.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

func (i *Interface) validate() error {
	seen := make(map[string]bool, len(i.Methods))
	for _, m := range i.Methods {
		if m.Name == "" {
			return errors.IllegalState(errors.PhaseShape, "method with empty name")
		}
		if seen[m.Name] {
			return errors.IllegalState(errors.PhaseShape, fmt.Sprintf("duplicate method %q", m.Name))
		}
		if m.Arity < 0 {
			return errors.IllegalState(errors.PhaseShape, fmt.Sprintf("method %q has negative arity", m.Name))
		}
		seen[m.Name] = true
		if m.Returns != nil {
			if err := m.Returns.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReturnShape returns the shape results of m are projected through.
func (m Method) ReturnShape() Shape {
	if m.Returns == nil {
		return Object
	}
	return *m.Returns
}

// AcceptsArgs reports whether n positional arguments match the method arity.
func (m Method) AcceptsArgs(n int) bool {
	if m.Variadic {
		return n >= m.Arity
	}
	return n == m.Arity
}

// Validate checks that s is well formed: collections carry their component
// shapes, map keys have a keyable kind, and interfaces have unique methods.
func (s Shape) Validate() error {
	switch s.Kind {
	case KindList:
		if s.Elem == nil {
			return errors.IllegalState(errors.PhaseShape, "list shape without element shape")
		}
		return s.Elem.Validate()
	case KindMap:
		if s.Key == nil || s.Elem == nil {
			return errors.IllegalState(errors.PhaseShape, "map shape without key or value shape")
		}
		if !isKeyKind(s.Key.Kind) {
			return errors.IllegalState(errors.PhaseShape, fmt.Sprintf("%s cannot key a map", s.Key.Kind))
		}
		return s.Elem.Validate()
	case KindInterface:
		if s.Interface == nil {
			return errors.IllegalState(errors.PhaseShape, "interface shape without descriptor")
		}
		return s.Interface.validate()
	}
	if int(s.Kind) >= len(kindNames) {
		return errors.IllegalState(errors.PhaseShape, fmt.Sprintf("unknown shape kind %d", s.Kind))
	}
	return nil
}

// Equal reports whether a and b request the same projection.
func Equal(a, b Shape) bool {
	return a.String() == b.String()
}

// String renders s in the syntax accepted by Parse.
func (s Shape) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Shape) write(b *strings.Builder) {
	switch s.Kind {
	case KindList:
		b.WriteString("list<")
		writeOptional(b, s.Elem)
		b.WriteByte('>')
	case KindMap:
		b.WriteString("map<")
		writeOptional(b, s.Key)
		b.WriteByte(',')
		writeOptional(b, s.Elem)
		b.WriteByte('>')
	case KindInterface:
		b.WriteString("iface{")
		if s.Interface != nil {
			for i, m := range s.Interface.Methods {
				if i > 0 {
					b.WriteByte(',')
				}
				m.write(b)
			}
		}
		b.WriteByte('}')
	default:
		b.WriteString(s.Kind.String())
	}
	if s.Nullable {
		b.WriteByte('?')
	}
}

func writeOptional(b *strings.Builder, s *Shape) {
	if s == nil {
		b.WriteByte('_')
		return
	}
	s.write(b)
}

func (m Method) write(b *strings.Builder) {
	if m.Construct {
		b.WriteString("new ")
	}
	b.WriteString(m.Name)
	fmt.Fprintf(b, "/%d", m.Arity)
	if m.Variadic {
		b.WriteString("...")
	}
	if m.Returns != nil {
		b.WriteByte(':')
		m.Returns.write(b)
	}
}
