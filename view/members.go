package view

import (
	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
)

// Members is a live string-keyed map view over a member-bearing value.
// Keys follow the guest's member order.
type Members struct {
	v     interop.Value
	p     shape.Projector
	key   shape.Shape
	value shape.Shape
}

// NewMembers returns a map view over the members of v. The caller must have
// checked that v has members.
func NewMembers(v interop.Value, key, value shape.Shape, p shape.Projector) *Members {
	return &Members{v: v, key: key, value: value, p: p}
}

func (m *Members) Foreign() interop.Value { return m.v }

func (m *Members) Shape() shape.Shape { return shape.MapOf(m.key, m.value) }

// Keys returns the current member keys in guest order.
func (m *Members) Keys() ([]string, error) {
	return m.v.MemberKeys()
}

func (m *Members) Len() (int, error) {
	keys, err := m.v.MemberKeys()
	return len(keys), err
}

func (m *Members) Has(key string) bool {
	return m.v.HasMember(key)
}

// Get reads member key and projects it through the value shape.
func (m *Members) Get(key string) (any, error) {
	if !m.v.HasMember(key) {
		return nil, errors.NotFound(errors.PhaseView, "member", key)
	}
	e, err := m.v.GetMember(key)
	if err != nil {
		return nil, err
	}
	return m.p.Project(e, m.value)
}

// Put writes member key on the guest.
func (m *Members) Put(key string, x any) error {
	return m.v.PutMember(key, x)
}

// Remove deletes member key and reports whether it was present.
func (m *Members) Remove(key string) (bool, error) {
	return m.v.RemoveMember(key)
}

// Map reads every member into a new map, projecting values one level deep.
func (m *Members) Map() (map[string]any, error) {
	keys, err := m.v.MemberKeys()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if out[k], err = m.Get(k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Materialize copies the members into plain Go values.
func (m *Members) Materialize() (map[string]any, error) {
	return materializeMembers(m.v, 0, m.p.MaxDepth())
}

// Equal reports whether other is a member view with structurally equal entries.
func (m *Members) Equal(other any) bool {
	o, ok := other.(*Members)
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

func (m *Members) Hash() uint64 {
	mat, err := m.Materialize()
	if err != nil {
		return Hash(m.v)
	}
	return Hash(mat)
}

func (m *Members) String() string {
	return Format(m.v, m.p.MaxDepth())
}

var _ interop.Wrapper = (*Members)(nil)
