package view

import (
	"fmt"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/numeric"
	"github.com/wippyai/interop/shape"
)

// IndexMap is a live map view over a value with array elements, keyed by
// element index. Keys have the Go type of the key shape: int32 for int32
// keys, int64 for int64 and number keys.
type IndexMap struct {
	v     interop.Value
	p     shape.Projector
	key   shape.Shape
	value shape.Shape
}

// NewIndexMap returns an index-keyed view over the array elements of v. The
// caller must have checked the key kind and that v has array elements.
func NewIndexMap(v interop.Value, key, value shape.Shape, p shape.Projector) *IndexMap {
	return &IndexMap{v: v, key: key, value: value, p: p}
}

func (m *IndexMap) Foreign() interop.Value { return m.v }

func (m *IndexMap) Shape() shape.Shape { return shape.MapOf(m.key, m.value) }

func (m *IndexMap) Len() (int, error) {
	n, err := m.v.ArraySize()
	return int(n), err
}

func (m *IndexMap) keyOf(i int64) any {
	if m.key.Kind == shape.KindInt32 {
		return int32(i)
	}
	return i
}

// Keys returns the indices 0..Len()-1 typed per the key shape.
func (m *IndexMap) Keys() ([]any, error) {
	n, err := m.v.ArraySize()
	if err != nil {
		return nil, err
	}
	keys := make([]any, n)
	for i := range keys {
		keys[i] = m.keyOf(int64(i))
	}
	return keys, nil
}

// index resolves key to an in-range array index.
func (m *IndexMap) index(key any) (int64, bool) {
	n, ok := numeric.Of(key)
	if !ok {
		return 0, false
	}
	i, err := n.AsLong()
	if err != nil || i < 0 {
		return 0, false
	}
	if m.key.Kind == shape.KindInt32 && !n.FitsInInt() {
		return 0, false
	}
	size, err := m.v.ArraySize()
	if err != nil || i >= size {
		return 0, false
	}
	return i, true
}

// Has reports whether key is an in-range index.
func (m *IndexMap) Has(key any) bool {
	_, ok := m.index(key)
	return ok
}

// Get reads the element at key and projects it through the value shape.
func (m *IndexMap) Get(key any) (any, error) {
	i, ok := m.index(key)
	if !ok {
		return nil, errors.NotFound(errors.PhaseView, "index", fmt.Sprint(key))
	}
	e, err := m.v.ArrayElement(i)
	if err != nil {
		return nil, err
	}
	return m.p.Project(e, m.value)
}

// Put writes x at key. The array cannot grow through this view; a key that is
// not an integral index is invalid input and range errors come from the guest.
func (m *IndexMap) Put(key any, x any) error {
	n, ok := numeric.Of(key)
	if !ok {
		return errors.InvalidInput(errors.PhaseView, fmt.Sprintf("index key %v is not a number", key))
	}
	i, err := n.AsLong()
	if err != nil {
		return err
	}
	return m.v.SetArrayElement(i, x)
}

// Materialize copies the view into a map from int64 index to plain Go values.
func (m *IndexMap) Materialize() (map[int64]any, error) {
	elems, err := materializeArray(m.v, 0, m.p.MaxDepth())
	if err != nil {
		return nil, err
	}
	out := make(map[int64]any, len(elems))
	for i, e := range elems {
		out[int64(i)] = e
	}
	return out, nil
}

func (m *IndexMap) Equal(other any) bool {
	o, ok := other.(*IndexMap)
	if !ok || o == nil {
		return false
	}
	if o == m {
		return true
	}
	a, err := m.Materialize()
	if err != nil {
		return false
	}
	b, err := o.Materialize()
	if err != nil {
		return false
	}
	return DeepEqual(a, b)
}

func (m *IndexMap) Hash() uint64 {
	mat, err := m.Materialize()
	if err != nil {
		return Hash(m.v)
	}
	return Hash(mat)
}

func (m *IndexMap) String() string {
	return Format(m.v, m.p.MaxDepth())
}

var _ interop.Wrapper = (*IndexMap)(nil)
