package starlarkguest

import (
	"fmt"
	"math/big"
	"sort"

	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/numeric"
	"github.com/wippyai/interop/trait"
)

// ToStarlark converts a host value for use by scripts. Scalars, []any and
// map[string]any become native Starlark values; Starlark values pass through;
// anything else is exposed through the environment's host binder.
func (e *Env) ToStarlark(x any) (starlark.Value, error) {
	switch t := x.(type) {
	case nil:
		return starlark.None, nil
	case *Value:
		return t.v, nil
	case starlark.Value:
		return t, nil
	case bool:
		return starlark.Bool(t), nil
	case string:
		return starlark.String(t), nil
	case int:
		return starlark.MakeInt(t), nil
	case int8:
		return starlark.MakeInt64(int64(t)), nil
	case int16:
		return starlark.MakeInt64(int64(t)), nil
	case int32:
		return starlark.MakeInt64(int64(t)), nil
	case int64:
		return starlark.MakeInt64(t), nil
	case uint:
		return starlark.MakeUint(t), nil
	case uint8:
		return starlark.MakeUint64(uint64(t)), nil
	case uint16:
		return starlark.MakeUint64(uint64(t)), nil
	case uint32:
		return starlark.MakeUint64(uint64(t)), nil
	case uint64:
		return starlark.MakeUint64(t), nil
	case float32:
		return starlark.Float(t), nil
	case float64:
		return starlark.Float(t), nil
	case *big.Int:
		return starlark.MakeBigInt(t), nil
	case []any:
		elems := make([]starlark.Value, len(t))
		for i, el := range t {
			sv, err := e.ToStarlark(el)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := starlark.NewDict(len(t))
		for _, k := range keys {
			sv, err := e.ToStarlark(t[k])
			if err != nil {
				return nil, err
			}
			if err := d.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	if fv, ok := interop.Unwrap(x); ok {
		return e.fromForeign(fv)
	}
	return e.fromForeign(e.binder.ValueOf(x))
}

// fromForeign converts scalars by value and wraps everything else.
func (e *Env) fromForeign(fv interop.Value) (starlark.Value, error) {
	if sv, ok := fv.(*Value); ok {
		return sv.v, nil
	}
	traits := trait.Probe(fv)
	switch {
	case traits.Has(trait.Null):
		return starlark.None, nil
	case traits.Has(trait.Boolean):
		b, err := fv.AsBoolean()
		return starlark.Bool(b), err
	case traits.Has(trait.String):
		s, err := fv.AsString()
		return starlark.String(s), err
	case traits.Has(trait.Number):
		x, err := fv.AsNumber()
		if err != nil {
			return nil, err
		}
		n, ok := numeric.Of(x)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseGuest, nil, "number", traits.String())
		}
		return e.ToStarlark(n.Canonical())
	}
	return &foreign{env: e, fv: fv}, nil
}

// foreign exposes a foreign value to scripts: callable when it executes,
// attribute-bearing when it has members, indexable when it has elements.
type foreign struct {
	env *Env
	fv  interop.Value
}

var (
	_ starlark.Callable  = (*foreign)(nil)
	_ starlark.HasAttrs  = (*foreign)(nil)
	_ starlark.Indexable = (*foreign)(nil)
)

func (f *foreign) String() string        { return f.fv.String() }
func (f *foreign) Type() string          { return "foreign" }
func (f *foreign) Freeze()               {}
func (f *foreign) Truth() starlark.Bool  { return starlark.True }
func (f *foreign) Name() string          { return f.fv.String() }
func (f *foreign) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: foreign") }

func (f *foreign) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: keyword arguments are not supported", f.Name())
	}
	in := make([]any, len(args))
	for i, a := range args {
		in[i] = f.env.ValueOf(a)
	}
	res, err := f.fv.Execute(in...)
	if err != nil {
		return nil, err
	}
	return f.env.fromForeign(res)
}

func (f *foreign) Attr(name string) (starlark.Value, error) {
	if !f.fv.HasMembers() || !f.fv.HasMember(name) {
		return nil, nil
	}
	m, err := f.fv.GetMember(name)
	if err != nil {
		return nil, err
	}
	return f.env.fromForeign(m)
}

func (f *foreign) AttrNames() []string {
	keys, _ := f.fv.MemberKeys()
	return keys
}

func (f *foreign) SetField(name string, v starlark.Value) error {
	return f.fv.PutMember(name, f.env.ValueOf(v))
}

func (f *foreign) Len() int {
	n, err := f.fv.ArraySize()
	if err != nil {
		return 0
	}
	return int(n)
}

// Index yields None when the read fails; Indexable has no error result.
func (f *foreign) Index(i int) starlark.Value {
	el, err := f.fv.ArrayElement(int64(i))
	if err != nil {
		f.env.log.Debug("foreign index failed", zap.Int("index", i), zap.Error(err))
		return starlark.None
	}
	sv, err := f.env.fromForeign(el)
	if err != nil {
		f.env.log.Debug("foreign index failed", zap.Int("index", i), zap.Error(err))
		return starlark.None
	}
	return sv
}

func (f *foreign) SetIndex(i int, v starlark.Value) error {
	return f.fv.SetArrayElement(int64(i), f.env.ValueOf(v))
}
