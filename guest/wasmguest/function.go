package wasmguest

import (
	"fmt"
	"math"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/numeric"
	"github.com/wippyai/interop/trait"
)

// Function is an exported wasm function.
type Function struct {
	interop.UnimplementedValue
	m    *Module
	fn   api.Function
	name string
}

var _ interop.Value = (*Function)(nil)

func (f *Function) CanExecute() bool { return true }

// Execute checks each argument against the parameter's value type with the
// numeric ladder and calls the function with the module's context. A single
// result is returned as a number, several as an array, none as null. Traps
// are returned as they are.
func (f *Function) Execute(args ...any) (interop.Value, error) {
	def := f.fn.Definition()
	params := def.ParamTypes()
	if len(args) != len(params) {
		return nil, errors.New(errors.PhaseGuest, errors.KindInvalidInput).
			Path(f.name).
			Detail("expected %d arguments, got %d", len(params), len(args)).
			Build()
	}

	stack := make([]uint64, len(args))
	for i, a := range args {
		v, err := encode(params[i], a, f.name)
		if err != nil {
			return nil, err
		}
		stack[i] = v
	}

	Logger().Debug("wasm call", zap.String("func", f.name), zap.Int("args", len(args)))
	res, err := f.fn.Call(f.m.ctx, stack...)
	if err != nil {
		return nil, err
	}

	results := def.ResultTypes()
	switch len(results) {
	case 0:
		return f.m.binder.ValueOf(nil), nil
	case 1:
		return f.m.binder.ValueOf(decode(results[0], res[0])), nil
	}
	out := make([]any, len(results))
	for i, t := range results {
		out[i] = decode(t, res[i])
	}
	return f.m.binder.ValueOf(out), nil
}

func (f *Function) String() string {
	def := f.fn.Definition()
	names := func(ts []api.ValueType) string {
		s := make([]string, len(ts))
		for i, t := range ts {
			s[i] = api.ValueTypeName(t)
		}
		return strings.Join(s, ", ")
	}
	return fmt.Sprintf("func %s(%s) (%s)", f.name, names(def.ParamTypes()), names(def.ResultTypes()))
}

// scalar unwraps a foreign boolean or number to its Go value.
func scalar(x any, want, where string) (any, error) {
	fv, ok := interop.Unwrap(x)
	if !ok {
		return x, nil
	}
	switch {
	case fv.IsBoolean():
		return fv.AsBoolean()
	case fv.IsNumber():
		return fv.AsNumber()
	}
	return nil, errors.TypeMismatch(errors.PhaseGuest, []string{where}, want, trait.Probe(fv).String())
}

// encode narrows a host value to a wasm value type.
func encode(t api.ValueType, x any, where string) (uint64, error) {
	x, err := scalar(x, api.ValueTypeName(t), where)
	if err != nil {
		return 0, err
	}
	if b, ok := x.(bool); ok && t == api.ValueTypeI32 {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	n, ok := numeric.Of(x)
	if !ok {
		return 0, errors.New(errors.PhaseGuest, errors.KindTypeMismatch).
			Path(where).
			Shape(api.ValueTypeName(t)).
			HostType(fmt.Sprintf("%T", x)).
			Build()
	}
	switch t {
	case api.ValueTypeI32:
		v, err := n.AsInt()
		return api.EncodeI32(v), err
	case api.ValueTypeI64:
		v, err := n.AsLong()
		return api.EncodeI64(v), err
	case api.ValueTypeF32:
		v, err := n.AsFloat()
		return api.EncodeF32(v), err
	case api.ValueTypeF64:
		v, err := n.AsDouble()
		return api.EncodeF64(v), err
	}
	return 0, errors.Unsupported(errors.PhaseGuest, "value type "+api.ValueTypeName(t))
}

func decode(t api.ValueType, v uint64) any {
	switch t {
	case api.ValueTypeI32:
		return api.DecodeI32(v)
	case api.ValueTypeI64:
		return int64(v)
	case api.ValueTypeF32:
		return api.DecodeF32(v)
	case api.ValueTypeF64:
		return math.Float64frombits(v)
	}
	return v
}
