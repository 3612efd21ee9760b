package view

import (
	"fmt"
	"hash/maphash"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/numeric"
	"github.com/wippyai/interop/trait"
)

// Materialize copies v into plain Go values: nil, bool, string, canonical
// numbers, []any for arrays and map[string]any for member-bearing values.
// Host and proxy objects are returned as they are, native pointers as
// uintptr, and callables as the foreign value itself. Containers nested
// deeper than maxDepth are truncated to nil.
func Materialize(v interop.Value, maxDepth int) (any, error) {
	return materialize(v, 0, maxDepth)
}

func materialize(v interop.Value, depth, maxDepth int) (any, error) {
	traits := trait.Probe(v)
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
		return canonical(v)
	case traits.Has(trait.Members):
		if depth >= maxDepth {
			return nil, nil
		}
		return materializeMembers(v, depth, maxDepth)
	case traits.Has(trait.ArrayElements):
		if depth >= maxDepth {
			return nil, nil
		}
		return materializeArray(v, depth, maxDepth)
	case traits.Has(trait.Native):
		return v.AsNativePointer()
	}
	return v, nil
}

func canonical(v interop.Value) (any, error) {
	x, err := v.AsNumber()
	if err != nil {
		return nil, err
	}
	n, ok := numeric.Of(x)
	if !ok {
		return x, nil
	}
	return n.Canonical(), nil
}

func materializeArray(v interop.Value, depth, maxDepth int) ([]any, error) {
	size, err := v.ArraySize()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, size)
	for i := int64(0); i < size; i++ {
		e, err := v.ArrayElement(i)
		if err != nil {
			return nil, err
		}
		m, err := materialize(e, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func materializeMembers(v interop.Value, depth, maxDepth int) (map[string]any, error) {
	keys, err := v.MemberKeys()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		e, err := v.GetMember(k)
		if err != nil {
			return nil, err
		}
		m, err := materialize(e, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		out[k] = m
	}
	return out, nil
}

// DeepEqual compares two materialized values. Numbers compare by value across
// representations, foreign values by handle identity, and anything else with
// reflect.DeepEqual.
func DeepEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, ok := numeric.Of(a); ok {
		nb, ok := numeric.Of(b)
		return ok && numeric.Equal(na, nb)
	}
	switch a := a.(type) {
	case []any:
		b, ok := b.([]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !DeepEqual(a[i], b[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		b, ok := b.(map[string]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	case map[int64]any:
		b, ok := b.(map[int64]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	case interop.Value:
		b, ok := b.(interop.Value)
		return ok && interop.Same(a, b)
	}
	return reflect.DeepEqual(a, b)
}

var seed = maphash.MakeSeed()

// Hash returns a hash of a materialized value consistent with DeepEqual.
// The result is never zero.
func Hash(x any) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeHash(&h, x)
	if sum := h.Sum64(); sum != 0 {
		return sum
	}
	return 1
}

func writeHash(h *maphash.Hash, x any) {
	if x == nil {
		h.WriteByte(0)
		return
	}
	if n, ok := numeric.Of(x); ok {
		h.WriteByte(1)
		switch c := n.Canonical().(type) {
		case int64:
			h.WriteString(fmt.Sprint(c))
		case float64:
			if math.IsNaN(c) {
				h.WriteString("NaN")
			} else {
				h.WriteString(fmt.Sprint(math.Float64bits(c)))
			}
		case uint64:
			h.WriteString(fmt.Sprint(c))
		case *big.Int:
			h.WriteString(c.String())
		}
		return
	}
	switch x := x.(type) {
	case bool:
		h.WriteByte(2)
		if x {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case string:
		h.WriteByte(3)
		h.WriteString(x)
	case []any:
		h.WriteByte(4)
		for _, e := range x {
			writeHash(h, e)
		}
	case map[string]any:
		h.WriteByte(5)
		var sum uint64
		for k, v := range x {
			sum += pairHash(k, v)
		}
		h.WriteString(fmt.Sprint(sum))
	case map[int64]any:
		h.WriteByte(6)
		var sum uint64
		for k, v := range x {
			sum += pairHash(k, v)
		}
		h.WriteString(fmt.Sprint(sum))
	case interop.Value:
		h.WriteByte(7)
		writeIdentity(h, x)
	default:
		h.WriteByte(8)
		h.WriteString(reflect.TypeOf(x).String())
	}
}

func pairHash(k, v any) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeHash(&h, k)
	writeHash(&h, v)
	return h.Sum64()
}

// writeIdentity hashes a foreign handle so that interop.Same handles collide.
func writeIdentity(h *maphash.Hash, v interop.Value) {
	rv := reflect.ValueOf(v)
	h.WriteString(rv.Type().String())
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		h.WriteString(fmt.Sprint(maphash.Comparable(seed, rv.Pointer())))
	case reflect.Slice:
		h.WriteString(fmt.Sprint(maphash.Comparable(seed, rv.Pointer()), rv.Len()))
	}
}

// Format renders v for diagnostics in guest member and element order,
// truncating containers nested deeper than maxDepth as "...".
func Format(v interop.Value, maxDepth int) string {
	var b strings.Builder
	format(&b, v, 0, maxDepth)
	return b.String()
}

func format(b *strings.Builder, v interop.Value, depth, maxDepth int) {
	traits := trait.Probe(v)
	switch {
	case traits.Has(trait.Null):
		b.WriteString("null")
	case traits.Has(trait.String):
		s, _ := v.AsString()
		fmt.Fprintf(b, "%q", s)
	case traits.Has(trait.Boolean) || traits.Has(trait.Number) || traits.Has(trait.HostObject):
		m, err := materialize(v, depth, depth)
		if err != nil {
			b.WriteString(v.String())
			return
		}
		fmt.Fprint(b, m)
	case traits.HasAny(trait.Members, trait.ArrayElements):
		if depth >= maxDepth {
			b.WriteString("...")
			return
		}
		if traits.Has(trait.Members) {
			formatMembers(b, v, depth, maxDepth)
		} else {
			formatArray(b, v, depth, maxDepth)
		}
	default:
		b.WriteString(v.String())
	}
}

func formatArray(b *strings.Builder, v interop.Value, depth, maxDepth int) {
	size, err := v.ArraySize()
	if err != nil {
		b.WriteString(v.String())
		return
	}
	b.WriteByte('[')
	for i := int64(0); i < size; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		e, err := v.ArrayElement(i)
		if err != nil {
			b.WriteString("?")
			continue
		}
		format(b, e, depth+1, maxDepth)
	}
	b.WriteByte(']')
}

func formatMembers(b *strings.Builder, v interop.Value, depth, maxDepth int) {
	keys, err := v.MemberKeys()
	if err != nil {
		b.WriteString(v.String())
		return
	}
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		e, err := v.GetMember(k)
		if err != nil {
			b.WriteString("?")
			continue
		}
		format(b, e, depth+1, maxDepth)
	}
	b.WriteByte('}')
}
