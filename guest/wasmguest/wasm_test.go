package wasmguest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wippyai/interop/callable"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
	"github.com/wippyai/interop/view"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixture exports add(i32,i32)->i32, mul64(i64,i64)->i64, neg(f32)->f32,
// load(i32)->i32 (load8_u), get_counter()->i32, trap(), one page of memory
// and the mutable i32 global counter = 7.
var fixture = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	// types
	0x01, 0x1E, 0x06,
	0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,
	0x60, 0x02, 0x7E, 0x7E, 0x01, 0x7E,
	0x60, 0x01, 0x7D, 0x01, 0x7D,
	0x60, 0x01, 0x7F, 0x01, 0x7F,
	0x60, 0x00, 0x01, 0x7F,
	0x60, 0x00, 0x00,
	// functions
	0x03, 0x07, 0x06, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// globals
	0x06, 0x06, 0x01, 0x7F, 0x01, 0x41, 0x07, 0x0B,
	// exports
	0x07, 0x44, 0x08,
	0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x05, 'm', 'u', 'l', '6', '4', 0x00, 0x01,
	0x03, 'n', 'e', 'g', 0x00, 0x02,
	0x04, 'l', 'o', 'a', 'd', 0x00, 0x03,
	0x0B, 'g', 'e', 't', '_', 'c', 'o', 'u', 'n', 't', 'e', 'r', 0x00, 0x04,
	0x04, 't', 'r', 'a', 'p', 0x00, 0x05,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x07, 'c', 'o', 'u', 'n', 't', 'e', 'r', 0x03, 0x00,
	// code
	0x0A, 0x28, 0x06,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x7E, 0x0B,
	0x05, 0x00, 0x20, 0x00, 0x8C, 0x0B,
	0x07, 0x00, 0x20, 0x00, 0x2D, 0x00, 0x00, 0x0B,
	0x04, 0x00, 0x23, 0x00, 0x0B,
	0x03, 0x00, 0x00, 0x0B,
}

func load(t *testing.T) *Module {
	t.Helper()
	ctx := context.Background()
	r := NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })
	m, err := Load(ctx, r, fixture)
	require.NoError(t, err)
	return m
}

func call(t *testing.T, m *Module, name string, args ...any) any {
	t.Helper()
	fn, err := m.GetMember(name)
	require.NoError(t, err)
	res, err := fn.Execute(args...)
	require.NoError(t, err)
	if res.IsNull() {
		return nil
	}
	n, err := res.AsNumber()
	require.NoError(t, err)
	return n
}

func TestModuleTraits(t *testing.T) {
	m := load(t)
	assert.Equal(t, trait.Of(trait.Members), trait.Probe(m))

	keys, err := m.MemberKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "get_counter", "load", "memory", "mul64", "neg", "trap"}, keys)

	fn, err := m.GetMember("add")
	require.NoError(t, err)
	assert.Equal(t, trait.Of(trait.Executable), trait.Probe(fn))
	assert.Equal(t, "func add(i32, i32) (i32)", fn.String())

	mem, err := m.GetMember("memory")
	require.NoError(t, err)
	assert.Equal(t, trait.Of(trait.ArrayElements), trait.Probe(mem))

	assert.True(t, m.HasMember("counter"))
	assert.False(t, m.HasMember("missing"))
	_, err = m.GetMember("missing")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	_, err = m.RemoveMember("add")
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestExecute(t *testing.T) {
	m := load(t)

	tests := []struct {
		name string
		fn   string
		args []any
		want any
	}{
		{"i32", "add", []any{int32(2), 3}, int64(5)},
		{"i32 wraps", "add", []any{int32(2147483647), 1}, int64(-2147483648)},
		{"bool as i32", "add", []any{true, true}, int64(2)},
		{"i64", "mul64", []any{int64(1) << 40, 4}, int64(1) << 42},
		{"f32", "neg", []any{float32(1.5)}, float32(-1.5)},
		{"global read", "get_counter", nil, int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, m, tt.fn, tt.args...))
		})
	}
}

func TestExecuteNarrowing(t *testing.T) {
	m := load(t)
	add, err := m.GetMember("add")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []any
		kind errors.Kind
	}{
		{"too wide for i32", []any{int64(1) << 40, 1}, errors.KindTypeMismatch},
		{"fraction", []any{1.5, 1}, errors.KindTypeMismatch},
		{"string", []any{"1", 1}, errors.KindTypeMismatch},
		{"arity", []any{1}, errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := add.Execute(tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tt.kind), err.Error())
		})
	}

	neg, err := m.GetMember("neg")
	require.NoError(t, err)
	_, err = neg.Execute(0.1)
	assert.True(t, errors.IsKind(err, errors.KindTypeMismatch), "0.1 is not exact in f32")
}

func TestForeignArguments(t *testing.T) {
	m := load(t)
	add, err := m.GetMember("add")
	require.NoError(t, err)
	get, err := m.GetMember("get_counter")
	require.NoError(t, err)

	seven, err := get.Execute()
	require.NoError(t, err)
	res, err := add.Execute(seven, seven)
	require.NoError(t, err)
	n, err := res.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(14), n)

	_, err = add.Execute(m, 1)
	assert.True(t, errors.IsKind(err, errors.KindTypeMismatch))
}

func TestTrap(t *testing.T) {
	m := load(t)
	trap, err := m.GetMember("trap")
	require.NoError(t, err)
	_, err = trap.Execute()
	require.Error(t, err)
	assert.False(t, errors.IsKind(err, errors.KindTypeMismatch))
}

func TestMemory(t *testing.T) {
	m := load(t)
	v, err := m.GetMember("memory")
	require.NoError(t, err)

	size, err := v.ArraySize()
	require.NoError(t, err)
	assert.Equal(t, int64(65536), size)

	require.NoError(t, v.SetArrayElement(10, 42))
	assert.Equal(t, int64(42), call(t, m, "load", 10), "writes are visible to the guest")

	b, err := v.ArrayElement(10)
	require.NoError(t, err)
	n, err := b.AsNumber()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	assert.True(t, errors.IsKind(v.SetArrayElement(0, 256), errors.KindTypeMismatch))
	assert.True(t, errors.IsKind(v.SetArrayElement(0, -1), errors.KindTypeMismatch))
	assert.True(t, errors.IsKind(v.SetArrayElement(0, "x"), errors.KindTypeMismatch))
	assert.True(t, errors.IsKind(v.SetArrayElement(size, 1), errors.KindOutOfBounds))
	_, err = v.ArrayElement(-1)
	assert.True(t, errors.IsKind(err, errors.KindOutOfBounds))
}

func TestMemoryListView(t *testing.T) {
	m := load(t)
	v, err := m.GetMember("memory")
	require.NoError(t, err)

	e := coerce.New()
	out, err := e.Project(v, shape.ListOf(shape.Int8))
	require.NoError(t, err)
	list, ok := out.(*view.List)
	require.True(t, ok, "%T", out)

	require.NoError(t, list.Set(3, int8(9)))
	assert.Equal(t, int64(9), call(t, m, "load", 3))
	got, err := list.Get(3)
	require.NoError(t, err)
	assert.Equal(t, int8(9), got)
}

func TestGlobals(t *testing.T) {
	m := load(t)

	g, err := m.GetMember("counter")
	require.NoError(t, err)
	n, err := g.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	require.NoError(t, m.PutMember("counter", 9))
	assert.Equal(t, int64(9), call(t, m, "get_counter"))

	assert.True(t, errors.IsKind(m.PutMember("counter", int64(1)<<40), errors.KindTypeMismatch))
	assert.True(t, errors.IsKind(m.PutMember("add", 1), errors.KindUnsupported))
	assert.True(t, errors.IsKind(m.PutMember("missing", 1), errors.KindNotFound))
}

func TestInterfaceOverModule(t *testing.T) {
	m := load(t)
	e := coerce.New()

	s, err := shape.Parse("iface{add/2:int32, neg/1:float32, get_counter/0:int32}")
	require.NoError(t, err)
	a, err := coerce.As[*callable.Adapter](e, m, s)
	require.NoError(t, err)

	got, err := a.Call("add", 20, 22)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got)
	got, err = a.Call("neg", 2)
	require.NoError(t, err)
	assert.Equal(t, float32(-2), got)

	fn, err := m.GetMember("add")
	require.NoError(t, err)
	single, err := coerce.As[*callable.Adapter](e, fn, shape.Single("add", 2))
	require.NoError(t, err)
	var typed func(a, b int32) (int32, error)
	require.NoError(t, single.Bind(&typed))
	sum, err := typed(40, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(42), sum)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRuntimeWithConfig(ctx, &Config{MemoryLimitPages: 1})
	defer r.Close(ctx)

	_, err := Load(ctx, r, []byte("not wasm"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
