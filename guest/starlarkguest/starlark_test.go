package starlarkguest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/interop/callable"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
	"github.com/wippyai/interop/view"
)

const module = `
xs = [10, 20, 30]
config = {"name": "demo", "retries": 3}
point = struct(x = 1, y = 2)
pair = (1, "a")
nothing = None

def add(a, b):
    return a + b

def greet(name):
    print("hello", name)
    return "hello " + name
`

func load(t *testing.T) (*Env, *coerce.Engine) {
	t.Helper()
	env := New("test")
	_, err := env.Exec("module.star", module)
	require.NoError(t, err)
	return env, coerce.New()
}

func eval(t *testing.T, env *Env, expr string) any {
	t.Helper()
	v, err := env.Eval(expr)
	require.NoError(t, err)
	m, err := coerce.New().Materialize(v)
	require.NoError(t, err)
	return m
}

func TestTraits(t *testing.T) {
	env, _ := load(t)
	tests := []struct {
		expr string
		want trait.Set
	}{
		{"nothing", trait.Of(trait.Null)},
		{"True", trait.Of(trait.Boolean)},
		{"'s'", trait.Of(trait.String)},
		{"1", trait.Of(trait.Number)},
		{"1.5", trait.Of(trait.Number)},
		{"xs", trait.Of(trait.ArrayElements)},
		{"pair", trait.Of(trait.ArrayElements)},
		{"config", trait.Of(trait.Members)},
		{"point", trait.Of(trait.Members)},
		{"add", trait.Of(trait.Executable)},
		{"len", trait.Of(trait.Executable)},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := env.Eval(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), trait.Probe(v).String())
		})
	}
}

func TestExecGlobals(t *testing.T) {
	env := New("test")
	mod, err := env.Exec("module.star", module)
	require.NoError(t, err)

	keys, err := mod.MemberKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "config", "greet", "nothing", "pair", "point", "xs"}, keys)

	require.NoError(t, env.Globals().PutMember("extra", 5))
	assert.Equal(t, int64(5), eval(t, env, "extra"))

	_, err = env.Exec("second.star", "total = add(xs[0], extra)")
	require.NoError(t, err)
	assert.Equal(t, int64(15), eval(t, env, "total"))

	globals, err := env.Globals().MemberKeys()
	require.NoError(t, err)
	assert.Contains(t, globals, "total")
	assert.Contains(t, globals, "struct")
}

func TestNarrowing300(t *testing.T) {
	env, e := load(t)
	v, err := env.Eval("300")
	require.NoError(t, err)

	_, err = e.Project(v, shape.Int8)
	assert.True(t, errors.IsKind(err, errors.KindTypeMismatch))

	s, err := coerce.As[int16](e, v, shape.Int16)
	require.NoError(t, err)
	assert.Equal(t, int16(300), s)
}

func TestListViews(t *testing.T) {
	env, e := load(t)
	xs, err := env.Eval("xs")
	require.NoError(t, err)

	a, err := coerce.As[*view.List](e, xs, shape.ListOf(shape.Int32))
	require.NoError(t, err)
	got, err := a.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int32(20), got)

	require.NoError(t, a.Set(1, 99))
	assert.Equal(t, int64(99), eval(t, env, "xs[1]"))

	xs2, err := env.Eval("xs")
	require.NoError(t, err)
	b, err := coerce.As[*view.List](e, xs2, shape.ListOf(shape.Int64))
	require.NoError(t, err)
	got, err = b.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got)

	_, err = env.Exec("grow.star", "xs.append(40)")
	require.NoError(t, err)
	n, err := a.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = a.Get(10)
	assert.True(t, errors.IsKind(err, errors.KindOutOfBounds))
}

func TestTupleIsReadOnly(t *testing.T) {
	env, _ := load(t)
	pair, err := env.Eval("pair")
	require.NoError(t, err)
	err = pair.SetArrayElement(0, 2)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestMembersView(t *testing.T) {
	env, e := load(t)
	cfg, err := env.Eval("config")
	require.NoError(t, err)

	m, err := coerce.As[*view.Members](e, cfg, shape.MapOf(shape.String, shape.Object))
	require.NoError(t, err)
	keys, err := m.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "retries"}, keys)

	require.NoError(t, m.Put("debug", true))
	assert.Equal(t, true, eval(t, env, `config["debug"]`))

	removed, err := m.Remove("retries")
	require.NoError(t, err)
	assert.True(t, removed)

	plain, err := m.Materialize()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "demo", "debug": true}, plain)

	pt, err := env.Eval("point")
	require.NoError(t, err)
	x, err := pt.GetMember("x")
	require.NoError(t, err)
	n, _ := x.AsNumber()
	assert.Equal(t, int64(1), n)
	assert.True(t, errors.IsKind(pt.PutMember("x", 2), errors.KindUnsupported))
}

func TestFunctions(t *testing.T) {
	env, e := load(t)
	add, err := env.Eval("add")
	require.NoError(t, err)

	a, err := coerce.As[*callable.Adapter](e, add, shape.Function)
	require.NoError(t, err)
	_, err = a.Invoke(1)
	require.Error(t, err, "starlark arity errors come back unchanged")

	a, err = coerce.As[*callable.Adapter](e, add, shape.Single("add", 2))
	require.NoError(t, err)
	got, err := a.Invoke(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	var typed func(a, b int32) (int32, error)
	require.NoError(t, a.Bind(&typed))
	sum, err := typed(40, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(42), sum)
}

func TestMultiMethodOverStruct(t *testing.T) {
	env := New("test")
	_, err := env.Exec("calc.star", `
def _add(a, b):
    return a + b

calc = struct(add = _add, name = "calc")
`)
	require.NoError(t, err)
	calc, err := env.Eval("calc")
	require.NoError(t, err)

	s := shape.MustParse("iface{add/2:int32, sub/2}")
	a, err := coerce.As[*callable.Adapter](coerce.New(), calc, s)
	require.NoError(t, err)

	got, err := a.Call("add", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(3), got)

	_, err = a.Call("sub", 1, 2)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestPrintIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env, err := NewWithConfig("printer", &Config{Logger: zap.New(core)})
	require.NoError(t, err)
	_, err = env.Exec("module.star", module)
	require.NoError(t, err)

	greet, err := env.Eval("greet")
	require.NoError(t, err)
	_, err = greet.Execute("bob")
	require.NoError(t, err)

	entries := logs.FilterMessage("hello bob").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "printer", entries[0].ContextMap()["thread"])
}

type counter struct{ N int }

func (c *counter) Inc(by int) int {
	c.N += by
	return c.N
}

func TestHostValues(t *testing.T) {
	c := &counter{}
	env, err := NewWithConfig("host", &Config{Predeclared: map[string]any{
		"counter": c,
		"double":  func(x int) int { return 2 * x },
		"nums":    []int{1, 2, 3},
		"limits":  map[string]any{"max": 10},
	}})
	require.NoError(t, err)

	assert.Equal(t, int64(10), eval(t, env, "double(5)"))
	assert.Equal(t, int64(3), eval(t, env, "counter.Inc(3)"))
	assert.Equal(t, 3, c.N)
	assert.Equal(t, int64(2), eval(t, env, "nums[1]"))
	assert.Equal(t, int64(3), eval(t, env, "len(nums)"))
	assert.Equal(t, int64(10), eval(t, env, `limits["max"]`))

	_, err = env.Exec("set.star", "counter.N = 7")
	require.NoError(t, err)
	assert.Equal(t, 7, c.N)

	v, err := env.Eval("counter")
	require.NoError(t, err)
	host, err := v.AsHostObject()
	require.NoError(t, err)
	assert.Same(t, c, host, "host values come back unwrapped")
}

func TestCyclicList(t *testing.T) {
	env := New("cycle")
	_, err := env.Exec("cycle.star", "xs = []\nxs.append(xs)")
	require.NoError(t, err)

	xs, err := env.Eval("xs")
	require.NoError(t, err)
	m, err := coerce.New().Materialize(xs)
	require.NoError(t, err)

	depth := 0
	for cur := m; cur != nil; depth++ {
		cur = cur.([]any)[0]
	}
	assert.Equal(t, coerce.DefaultMaxDepth, depth)
}

func TestErrors(t *testing.T) {
	env := New("errors")
	_, err := env.Exec("bad.star", "def (")
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = env.Eval("undefined_name")
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	v, err := env.Eval("'s'")
	require.NoError(t, err)
	_, err = v.GetMember("upper")
	assert.True(t, errors.IsKind(err, errors.KindUnsupported), "string methods are not members")
}
