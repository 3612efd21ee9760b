package host

import (
	stderrors "errors"
	"math/big"
	"reflect"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/internal/testguest"
	"github.com/wippyai/interop/shape"
	"github.com/wippyai/interop/trait"
	"github.com/wippyai/interop/view"
)

type celsius float64

type point struct {
	X, Y  int
	Label string `interop:"label"`
	Tags  []string
	Skip  bool `interop:"-"`
	cache int
}

func (p *point) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

func (p point) Sum() int { return p.X + p.Y }

func TestValueOf_Traits(t *testing.T) {
	var nilPtr *point
	var nilMap map[string]int
	x := 1

	tests := []struct {
		value any
		name  string
		want  trait.Set
	}{
		{nil, "nil", trait.Of(trait.Null)},
		{nilPtr, "nil pointer", trait.Of(trait.Null)},
		{nilMap, "nil map", trait.Of(trait.Null)},
		{true, "bool", trait.Of(trait.Boolean)},
		{"s", "string", trait.Of(trait.String)},
		{int8(3), "int8", trait.Of(trait.Number)},
		{celsius(21.5), "named float", trait.Of(trait.Number)},
		{big.NewInt(7), "big int", trait.Of(trait.Number)},
		{[]int{1}, "slice", trait.Of(trait.HostObject, trait.ArrayElements)},
		{[2]int{}, "array", trait.Of(trait.HostObject, trait.ArrayElements)},
		{map[string]int{}, "string map", trait.Of(trait.HostObject, trait.Members)},
		{map[int]int{}, "int map", trait.Of(trait.HostObject)},
		{point{}, "struct", trait.Of(trait.HostObject, trait.Members)},
		{&point{}, "struct pointer", trait.Of(trait.HostObject, trait.Members)},
		{strings.ToUpper, "func", trait.Of(trait.HostObject, trait.Executable)},
		{reflect.TypeOf(point{}), "type", trait.Of(trait.HostObject, trait.Instantiable)},
		{unsafe.Pointer(&x), "unsafe pointer", trait.Of(trait.Native)},
		{make(chan int), "chan", trait.Of(trait.HostObject)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.String(), trait.Probe(ValueOf(tt.value)).String())
		})
	}
}

func TestValueOf_Scalars(t *testing.T) {
	n, err := ValueOf(uint16(9)).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), n)

	n, err = ValueOf(celsius(21.5)).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 21.5, n)

	n, err = ValueOf(float32(0.5)).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), n)

	s, err := ValueOf("hi").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = ValueOf("hi").AsNumber()
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestValueOf_Unwraps(t *testing.T) {
	fv := testguest.Number(1)
	assert.Same(t, fv, ValueOf(fv))

	l := view.NewList(testguest.Array(1), shape.Object, coerce.New())
	assert.Equal(t, l.Foreign(), ValueOf(l))
}

func TestSlice(t *testing.T) {
	data := []int{10, 20, 30}
	v := ValueOf(data)

	n, err := v.ArraySize()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, v.SetArrayElement(1, 99))
	assert.Equal(t, 99, data[1])

	e, err := v.ArrayElement(1)
	require.NoError(t, err)
	x, _ := e.AsNumber()
	assert.Equal(t, int64(99), x)

	_, err = v.ArrayElement(3)
	assert.True(t, errors.IsKind(err, errors.KindOutOfBounds))

	err = v.SetArrayElement(0, "nope")
	assert.True(t, errors.IsKind(err, errors.KindTypeMismatch))

	err = ValueOf([]int8{0}).SetArrayElement(0, 300)
	assert.True(t, errors.IsKind(err, errors.KindTypeMismatch), "lossy conversion must fail")

	require.NoError(t, v.SetArrayElement(2, testguest.Number(7)))
	assert.Equal(t, 7, data[2])
}

func TestArray_Addressability(t *testing.T) {
	arr := [2]int{1, 2}
	err := ValueOf(arr).SetArrayElement(0, 5)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))

	require.NoError(t, ValueOf(&arr).SetArrayElement(0, 5))
	assert.Equal(t, 5, arr[0])
}

func TestStruct(t *testing.T) {
	p := &point{X: 1, Y: 2, Label: "a", Tags: []string{"x"}}
	v := ValueOf(p)

	keys, err := v.MemberKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "label", "Tags", "Move", "Sum"}, keys)
	assert.True(t, v.HasMember("label"))
	assert.False(t, v.HasMember("Label"))
	assert.False(t, v.HasMember("Skip"))
	assert.False(t, v.HasMember("cache"))

	require.NoError(t, v.PutMember("X", 5))
	assert.Equal(t, 5, p.X)

	move, err := v.GetMember("Move")
	require.NoError(t, err)
	require.True(t, move.CanExecute())
	_, err = move.Execute(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, p.X)
	assert.Equal(t, 3, p.Y)

	sum, err := v.GetMember("Sum")
	require.NoError(t, err)
	res, err := sum.Execute()
	require.NoError(t, err)
	x, _ := res.AsNumber()
	assert.Equal(t, int64(9), x)

	tags, err := v.GetMember("Tags")
	require.NoError(t, err)
	require.NoError(t, tags.SetArrayElement(0, "y"))
	assert.Equal(t, "y", p.Tags[0])

	_, err = v.GetMember("missing")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	err = v.PutMember("Move", 1)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))

	_, err = v.RemoveMember("X")
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestStruct_ByValueIsReadOnly(t *testing.T) {
	v := ValueOf(point{X: 1})
	keys, err := v.MemberKeys()
	require.NoError(t, err)
	assert.NotContains(t, keys, "Move", "pointer methods are not in a value's method set")

	err = v.PutMember("X", 2)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestNestedStructIsLive(t *testing.T) {
	type outer struct{ In point }
	o := &outer{}
	in, err := ValueOf(o).GetMember("In")
	require.NoError(t, err)
	require.NoError(t, in.PutMember("Y", 4))
	assert.Equal(t, 4, o.In.Y)
}

func TestNaming(t *testing.T) {
	b := NewWithConfig(&Config{Naming: SnakeCase})
	keys, err := b.ValueOf(&point{}).MemberKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "label", "tags", "move", "sum"}, keys)

	tests := []struct {
		in, kebab, snake, camel string
	}{
		{"FirstName", "first-name", "first_name", "firstName"},
		{"ID", "id", "id", "id"},
		{"ParseXMLFile", "parse-xml-file", "parse_xml_file", "parseXMLFile"},
		{"XMLParser", "xml-parser", "xml_parser", "xmlParser"},
		{"simple", "simple", "simple", "simple"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.kebab, KebabCase(tt.in))
			assert.Equal(t, tt.snake, SnakeCase(tt.in))
			assert.Equal(t, tt.camel, LowerCamel(tt.in))
			assert.Equal(t, tt.in, GoName(tt.in))
		})
	}
}

func TestMap(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1}
	v := ValueOf(m)

	keys, err := v.MemberKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, v.PutMember("c", 3))
	assert.Equal(t, 3, m["c"])

	removed, err := v.RemoveMember("a")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = v.RemoveMember("a")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = v.GetMember("a")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestFunc(t *testing.T) {
	v := ValueOf(func(a, b int) int { return a + b })
	res, err := v.Execute(2, testguest.Number(3))
	require.NoError(t, err)
	x, _ := res.AsNumber()
	assert.Equal(t, int64(5), x)

	_, err = v.Execute(1)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	boom := stderrors.New("boom")
	failing := ValueOf(func() (int, error) { return 0, boom })
	_, err = failing.Execute()
	assert.Same(t, boom, err)

	none, err := ValueOf(func() {}).Execute()
	require.NoError(t, err)
	assert.True(t, none.IsNull())

	pair, err := ValueOf(func() (int, string) { return 1, "a" }).Execute()
	require.NoError(t, err)
	size, _ := pair.ArraySize()
	assert.Equal(t, int64(2), size)

	joined, err := ValueOf(strings.Join).Execute([]string{"a", "b"}, "-")
	require.NoError(t, err)
	s, _ := joined.AsString()
	assert.Equal(t, "a-b", s)
}

func TestFunc_Variadic(t *testing.T) {
	v := ValueOf(func(prefix string, xs ...int) int {
		total := len(prefix)
		for _, x := range xs {
			total += x
		}
		return total
	})
	res, err := v.Execute("ab", 1, 2, 3)
	require.NoError(t, err)
	x, _ := res.AsNumber()
	assert.Equal(t, int64(8), x)

	res, err = v.Execute("ab")
	require.NoError(t, err)
	x, _ = res.AsNumber()
	assert.Equal(t, int64(2), x)
}

func TestFunc_ForeignArguments(t *testing.T) {
	var gotRaw interop.Value
	var gotAny any
	v := ValueOf(func(raw interop.Value, x any) {
		gotRaw, gotAny = raw, x
	})
	arr := testguest.Array(1, "a")
	_, err := v.Execute(arr, arr)
	require.NoError(t, err)
	assert.Same(t, arr, gotRaw, "interop.Value parameters receive the handle")
	assert.IsType(t, &view.List{}, gotAny, "any parameters receive the default projection")
}

func TestFunc_NullArguments(t *testing.T) {
	v := ValueOf(func(p *point, xs []int) bool {
		return p == nil && xs == nil
	})
	res, err := v.Execute(testguest.Null(), testguest.Null())
	require.NoError(t, err)
	ok, err := res.AsBoolean()
	require.NoError(t, err)
	assert.True(t, ok, "null reaches nil-able parameters as nil")

	_, err = ValueOf(func(p point) {}).Execute(testguest.Null())
	assert.True(t, errors.IsKind(err, errors.KindTypeMismatch), "struct values have no null")
}

func TestType_NewInstance(t *testing.T) {
	class := ValueOf(reflect.TypeOf(point{}))

	inst, err := class.NewInstance(1, 2, "p")
	require.NoError(t, err)
	host, err := inst.AsHostObject()
	require.NoError(t, err)
	assert.Equal(t, &point{X: 1, Y: 2, Label: "p"}, host)

	_, err = class.NewInstance(1, 2, "p", []string{}, true, 0)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	s, err := ValueOf(reflect.TypeOf([]int{})).NewInstance(3)
	require.NoError(t, err)
	size, _ := s.ArraySize()
	assert.Equal(t, int64(3), size)

	m, err := ValueOf(reflect.TypeOf(map[string]int{})).NewInstance()
	require.NoError(t, err)
	assert.True(t, m.HasMembers())

	n, err := ValueOf(reflect.TypeOf(celsius(0))).NewInstance(36.6)
	require.NoError(t, err)
	x, _ := n.AsNumber()
	assert.Equal(t, 36.6, x)
}

func TestNative(t *testing.T) {
	x := 1
	p := unsafe.Pointer(&x)
	got, err := ValueOf(p).AsNativePointer()
	require.NoError(t, err)
	assert.Equal(t, uintptr(p), got)
}

// counter is a proxy array that is also callable.
type counter struct {
	vals []any
}

func (c *counter) Len() int64 { return int64(len(c.vals)) }

func (c *counter) Index(i int64) (any, error) { return c.vals[i], nil }

func (c *counter) SetIndex(i int64, v any) error {
	c.vals[i] = v
	return nil
}

func (c *counter) Call(args ...any) (any, error) {
	c.vals = append(c.vals, args...)
	return len(c.vals), nil
}

func TestProxy(t *testing.T) {
	c := &counter{vals: []any{"a"}}
	v := ValueOf(c)

	assert.Equal(t, trait.Of(trait.ArrayElements, trait.Executable, trait.ProxyObject).String(),
		trait.Probe(v).String())

	res, err := v.Execute(1, 2)
	require.NoError(t, err)
	n, _ := res.AsNumber()
	assert.Equal(t, int64(3), n)

	size, err := v.ArraySize()
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	_, err = v.ArrayElement(5)
	assert.True(t, errors.IsKind(err, errors.KindOutOfBounds))

	_, err = v.GetMember("x")
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))

	p, err := v.AsProxyObject()
	require.NoError(t, err)
	assert.Same(t, c, p)

	got, err := coerce.New().Project(v, shape.Proxy)
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestProjection(t *testing.T) {
	e := coerce.New()

	data := []int{1, 2, 3}
	got, err := e.Project(ValueOf(data), shape.ListOf(shape.Int32))
	require.NoError(t, err)
	assert.IsType(t, []int{}, got, "host slices pass through")

	p := &point{X: 1, Y: 2}
	mover, err := coerce.As[interface {
		Call(string, ...any) (any, error)
	}](e, ValueOf(p), shape.MustParse("iface{Move/2, Sum/0:int32}"))
	require.NoError(t, err)
	_, err = mover.Call("Move", 10, 10)
	require.NoError(t, err)
	sum, err := mover.Call("Sum")
	require.NoError(t, err)
	assert.Equal(t, int32(23), sum)

	ptr := &data
	l, err := coerce.As[*view.List](e, ValueOf(ptr), shape.ListOf(shape.Int32))
	require.NoError(t, err)
	require.NoError(t, l.Set(0, 42))
	assert.Equal(t, 42, data[0])
}
