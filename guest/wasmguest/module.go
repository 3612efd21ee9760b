package wasmguest

import (
	"context"
	"fmt"
	"slices"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/host"
)

// Module is an instantiated wasm module. Its members are the exported
// functions and memories; exported globals are reachable by name as well.
type Module struct {
	interop.UnimplementedValue
	ctx     context.Context
	inst    api.Module
	binder  *host.Binder
	exports []string
}

var _ interop.Value = (*Module)(nil)

// Close releases the instance.
func (m *Module) Close(ctx context.Context) error {
	return m.inst.Close(ctx)
}

func (m *Module) HasMembers() bool { return true }

func (m *Module) GetMember(key string) (interop.Value, error) {
	if fn := m.inst.ExportedFunction(key); fn != nil {
		return &Function{m: m, fn: fn, name: key}, nil
	}
	if mem := m.inst.ExportedMemory(key); mem != nil {
		return &Memory{mem: mem, name: key, binder: m.binder}, nil
	}
	if g := m.inst.ExportedGlobal(key); g != nil {
		return m.binder.ValueOf(decode(g.Type(), g.Get())), nil
	}
	return nil, errors.NotFound(errors.PhaseGuest, "export", key)
}

// PutMember writes a mutable exported global.
func (m *Module) PutMember(key string, x any) error {
	g := m.inst.ExportedGlobal(key)
	if g == nil {
		if m.HasMember(key) {
			return errors.Unsupported(errors.PhaseGuest, "export "+key+" is not a global")
		}
		return errors.NotFound(errors.PhaseGuest, "export", key)
	}
	mg, ok := g.(api.MutableGlobal)
	if !ok {
		return errors.Unsupported(errors.PhaseGuest, "global "+key+" is immutable")
	}
	v, err := encode(g.Type(), x, key)
	if err != nil {
		return err
	}
	mg.Set(v)
	return nil
}

func (m *Module) RemoveMember(key string) (bool, error) {
	return false, errors.Unsupported(errors.PhaseGuest, "exports cannot be removed")
}

func (m *Module) MemberKeys() ([]string, error) {
	return slices.Clone(m.exports), nil
}

func (m *Module) HasMember(key string) bool {
	return m.inst.ExportedFunction(key) != nil ||
		m.inst.ExportedMemory(key) != nil ||
		m.inst.ExportedGlobal(key) != nil
}

func (m *Module) String() string {
	return fmt.Sprintf("wasm module(%d exports)", len(m.exports))
}
