package view

import (
	"github.com/wippyai/interop"
	"github.com/wippyai/interop/shape"
)

// List is a live list view over a value with array elements. Every call goes
// to the guest array protocol; nothing is cached.
type List struct {
	v    interop.Value
	p    shape.Projector
	elem shape.Shape
}

// NewList returns a list view over v whose elements are projected through elem.
// The caller must have checked that v has array elements.
func NewList(v interop.Value, elem shape.Shape, p shape.Projector) *List {
	return &List{v: v, elem: elem, p: p}
}

// Foreign returns the viewed value.
func (l *List) Foreign() interop.Value { return l.v }

// Shape returns the list shape this view satisfies.
func (l *List) Shape() shape.Shape { return shape.ListOf(l.elem) }

// Len returns the current guest array size.
func (l *List) Len() (int, error) {
	n, err := l.v.ArraySize()
	return int(n), err
}

// Get reads element i and projects it through the element shape.
// Guest errors are returned unchanged.
func (l *List) Get(i int) (any, error) {
	e, err := l.v.ArrayElement(int64(i))
	if err != nil {
		return nil, err
	}
	return l.p.Project(e, l.elem)
}

// Set writes x to element i of the guest array.
func (l *List) Set(i int, x any) error {
	return l.v.SetArrayElement(int64(i), x)
}

// Slice reads every element into a new slice.
func (l *List) Slice() ([]any, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	out := make([]any, n)
	for i := range out {
		if out[i], err = l.Get(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Materialize copies the list into plain Go values.
func (l *List) Materialize() ([]any, error) {
	return materializeArray(l.v, 0, l.p.MaxDepth())
}

// Equal reports whether other is a list view with structurally equal elements.
func (l *List) Equal(other any) bool {
	o, ok := other.(*List)
	if !ok || o == nil {
		return false
	}
	if o == l {
		return true
	}
	a, err := l.Materialize()
	if err != nil {
		return false
	}
	b, err := o.Materialize()
	if err != nil {
		return false
	}
	return DeepEqual(a, b)
}

// Hash is consistent with Equal.
func (l *List) Hash() uint64 {
	m, err := l.Materialize()
	if err != nil {
		return Hash(l.v)
	}
	return Hash(m)
}

func (l *List) String() string {
	return Format(l.v, l.p.MaxDepth())
}

var _ interop.Wrapper = (*List)(nil)
