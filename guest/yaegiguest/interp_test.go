package yaegiguest

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traefik/yaegi/interp"

	"github.com/wippyai/interop/callable"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
)

func eval(t *testing.T, in *Interpreter, src string) any {
	t.Helper()
	v, err := in.Eval(src)
	require.NoError(t, err)
	out, err := coerce.New().Project(v, shape.Object)
	require.NoError(t, err)
	return out
}

func TestEvalScalars(t *testing.T) {
	in, err := New()
	require.NoError(t, err)

	tests := []struct {
		src  string
		want any
	}{
		{"1 + 2", int64(3)},
		{`"go" + "pher"`, "gopher"},
		{"3 > 2", true},
		{"1.5 * 3", 4.5},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, in, tt.src))
		})
	}

	_, err = in.Eval(`import "strings"`)
	require.NoError(t, err)
	assert.Equal(t, "GO", eval(t, in, `strings.ToUpper("go")`))
}

func TestFunctions(t *testing.T) {
	in, err := New()
	require.NoError(t, err)
	_, err = in.Eval(`func Add(a, b int) int { return a + b }`)
	require.NoError(t, err)

	add, err := in.Eval("Add")
	require.NoError(t, err)
	assert.True(t, trait.Probe(add).Has(trait.Executable))

	res, err := add.Execute(2, 3)
	require.NoError(t, err)
	n, err := res.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	sym, err := in.Symbol("main.Add")
	require.NoError(t, err)
	assert.True(t, sym.CanExecute())
	_, err = in.Symbol("main.Missing")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	a, err := coerce.As[*callable.Adapter](coerce.New(), add, shape.Single("add", 2))
	require.NoError(t, err)
	var typed func(a, b int32) (int32, error)
	require.NoError(t, a.Bind(&typed))
	sum, err := typed(40, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(42), sum)
}

func TestSharedStorage(t *testing.T) {
	in, err := New()
	require.NoError(t, err)
	_, err = in.Eval(`var xs = []int{1, 2, 3}`)
	require.NoError(t, err)
	_, err = in.Eval(`var m = map[string]int{"a": 1}`)
	require.NoError(t, err)

	xs, err := in.Eval("xs")
	require.NoError(t, err)
	require.True(t, xs.HasArrayElements())
	require.NoError(t, xs.SetArrayElement(0, 10))
	assert.Equal(t, int64(10), eval(t, in, "xs[0]"), "slice writes reach the interpreter")

	m, err := in.Eval("m")
	require.NoError(t, err)
	require.True(t, m.HasMembers())
	require.NoError(t, m.PutMember("b", 2))
	assert.Equal(t, int64(2), eval(t, in, `m["b"]`))
}

func TestUse(t *testing.T) {
	in, err := NewWithConfig(&Config{AllowedImports: []string{"strings"}})
	require.NoError(t, err)

	scale := func(x, k int) int { return x * k }
	require.NoError(t, in.Use(interp.Exports{
		"hostlib/hostlib": {"Scale": reflect.ValueOf(scale)},
	}))
	_, err = in.Eval(`import "hostlib"`)
	require.NoError(t, err)
	assert.Equal(t, int64(12), eval(t, in, "hostlib.Scale(3, 4)"))
}

func TestErrors(t *testing.T) {
	in, err := NewWithConfig(&Config{AllowedImports: []string{"strings"}})
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
	}{
		{"forbidden import", `import "os"`},
		{"forbidden in block", "import (\n\t\"strings\"\n\t\"os/exec\"\n)"},
		{"compile error", "1 +"},
		{"undefined", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Eval(tt.src)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindInvalidInput), err.Error())
		})
	}

	_, err = in.Eval(`import "strings"`)
	require.NoError(t, err)
}
