package wasmguest

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/host"
	"github.com/wippyai/interop/numeric"
)

// Memory is an exported linear memory seen as a live array of bytes.
type Memory struct {
	interop.UnimplementedValue
	mem    api.Memory
	name   string
	binder *host.Binder
}

var _ interop.Value = (*Memory)(nil)

func (m *Memory) HasArrayElements() bool { return true }

func (m *Memory) ArraySize() (int64, error) { return int64(m.mem.Size()), nil }

func (m *Memory) ArrayElement(index int64) (interop.Value, error) {
	if err := m.bounds(index); err != nil {
		return nil, err
	}
	b, _ := m.mem.ReadByte(uint32(index))
	return m.binder.ValueOf(b), nil
}

// SetArrayElement stores one byte; values outside [0, 255] are rejected.
func (m *Memory) SetArrayElement(index int64, x any) error {
	if err := m.bounds(index); err != nil {
		return err
	}
	x, err := scalar(x, "byte", m.name)
	if err != nil {
		return err
	}
	n, ok := numeric.Of(x)
	if !ok {
		return errors.New(errors.PhaseGuest, errors.KindTypeMismatch).
			Path(m.name).
			Shape("byte").
			HostType(fmt.Sprintf("%T", x)).
			Build()
	}
	v, err := n.AsShort()
	if err != nil || v < 0 || v > 255 {
		return errors.New(errors.PhaseGuest, errors.KindTypeMismatch).
			Path(m.name).
			Shape("byte").
			Value(n.Canonical()).
			Build()
	}
	m.mem.WriteByte(uint32(index), byte(v))
	return nil
}

func (m *Memory) bounds(index int64) error {
	size := int64(m.mem.Size())
	if index < 0 || index >= size {
		return errors.OutOfBounds(errors.PhaseGuest, []string{m.name}, index, size)
	}
	return nil
}

func (m *Memory) String() string {
	return fmt.Sprintf("memory %s(%d bytes)", m.name, m.mem.Size())
}
