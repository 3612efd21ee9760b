// Package trait probes the capability traits of foreign values.
package trait

import (
	"strings"

	"github.com/wippyai/interop"
)

// Trait is one member of the closed capability set.
type Trait uint8

const (
	Null Trait = iota
	Boolean
	String
	Number
	Members
	ArrayElements
	Executable
	Instantiable
	HostObject
	ProxyObject
	Native

	numTraits
)

var traitNames = [...]string{
	Null:          "NULL",
	Boolean:       "BOOLEAN",
	String:        "STRING",
	Number:        "NUMBER",
	Members:       "MEMBERS",
	ArrayElements: "ARRAY_ELEMENTS",
	Executable:    "EXECUTABLE",
	Instantiable:  "INSTANTIABLE",
	HostObject:    "HOST_OBJECT",
	ProxyObject:   "PROXY_OBJECT",
	Native:        "NATIVE",
}

func (t Trait) String() string {
	if t < numTraits {
		return traitNames[t]
	}
	return "UNKNOWN"
}

// All returns every trait in declaration order.
func All() []Trait {
	all := make([]Trait, 0, numTraits)
	for t := Null; t < numTraits; t++ {
		all = append(all, t)
	}
	return all
}

// Parse returns the trait with the given name.
func Parse(name string) (Trait, bool) {
	name = strings.ToUpper(name)
	for t := Null; t < numTraits; t++ {
		if traitNames[t] == name {
			return t, true
		}
	}
	return 0, false
}

// Set is a bitmask over the trait enumeration.
type Set uint16

// Of builds a set from individual traits.
func Of(traits ...Trait) Set {
	var s Set
	for _, t := range traits {
		s = s.With(t)
	}
	return s
}

func (s Set) Has(t Trait) bool { return s&(1<<t) != 0 }

func (s Set) With(t Trait) Set { return s | 1<<t }

// HasAny reports whether s contains at least one of traits.
func (s Set) HasAny(traits ...Trait) bool {
	for _, t := range traits {
		if s.Has(t) {
			return true
		}
	}
	return false
}

func (s Set) Len() int {
	n := 0
	for t := Null; t < numTraits; t++ {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// Traits lists the members of s in declaration order.
func (s Set) Traits() []Trait {
	out := make([]Trait, 0, s.Len())
	for t := Null; t < numTraits; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, t := range s.Traits() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Probe asks v for every trait. A nil handle and a null value probe as
// exactly {NULL}; the remaining predicates are not consulted for them.
func Probe(v interop.Value) Set {
	if v == nil || v.IsNull() {
		return Of(Null)
	}
	var s Set
	for t := Boolean; t < numTraits; t++ {
		if predicate(v, t) {
			s = s.With(t)
		}
	}
	return s
}

func predicate(v interop.Value, t Trait) bool {
	switch t {
	case Null:
		return v.IsNull()
	case Boolean:
		return v.IsBoolean()
	case String:
		return v.IsString()
	case Number:
		return v.IsNumber()
	case Members:
		return v.HasMembers()
	case ArrayElements:
		return v.HasArrayElements()
	case Executable:
		return v.CanExecute()
	case Instantiable:
		return v.CanInstantiate()
	case HostObject:
		return v.IsHostObject()
	case ProxyObject:
		return v.IsProxyObject()
	case Native:
		return v.IsNativePointer()
	}
	return false
}
