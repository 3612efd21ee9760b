package callable

import (
	"fmt"
	"reflect"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/internal/convert"
	"github.com/wippyai/interop/shape"
)

// Bind sets *fnPtr to a typed Go function that calls the adapter's single
// method. Arguments are passed to the guest as they are; the first result is
// projected through the shape of its Go type and converted. The function may
// end with an error result, which receives call and conversion errors.
// Without one, a failing call panics with the error.
//
//	var add func(a, b int32) (int32, error)
//	err := adapter.Bind(&add)
func (a *Adapter) Bind(fnPtr any) error {
	ptr := reflect.ValueOf(fnPtr)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Func {
		return errors.InvalidInput(errors.PhaseInvoke, fmt.Sprintf("Bind needs a pointer to a func, got %T", fnPtr))
	}
	m, err := a.single()
	if err != nil {
		return err
	}

	fnType := ptr.Elem().Type()
	var result reflect.Type
	hasErr := false
	switch fnType.NumOut() {
	case 0:
	case 1:
		if shape.IsErrorType(fnType.Out(0)) {
			hasErr = true
		} else {
			result = fnType.Out(0)
		}
	case 2:
		if !shape.IsErrorType(fnType.Out(1)) {
			return errors.InvalidInput(errors.PhaseInvoke, fmt.Sprintf("second result of %s must be error", fnType))
		}
		result, hasErr = fnType.Out(0), true
	default:
		return errors.InvalidInput(errors.PhaseInvoke, fmt.Sprintf("%s has too many results", fnType))
	}

	fn := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		out, err := a.invokeTyped(m, fnType, in, result)
		if err != nil && !hasErr {
			panic(err)
		}
		return results(fnType, out, err, result != nil, hasErr)
	})
	ptr.Elem().Set(fn)
	return nil
}

func (a *Adapter) invokeTyped(m shape.Method, fnType reflect.Type, in []reflect.Value, result reflect.Type) (reflect.Value, error) {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if fnType.IsVariadic() && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}

	res, err := a.call(m, args)
	if err != nil || result == nil {
		return reflect.Value{}, err
	}
	return convert.Foreign(res, result, a.p)
}

func results(fnType reflect.Type, out reflect.Value, err error, hasResult, hasErr bool) []reflect.Value {
	vals := make([]reflect.Value, 0, 2)
	if hasResult {
		if !out.IsValid() {
			out = reflect.Zero(fnType.Out(0))
		}
		vals = append(vals, out)
	}
	if hasErr {
		errType := fnType.Out(fnType.NumOut() - 1)
		if err == nil {
			vals = append(vals, reflect.Zero(errType))
		} else {
			vals = append(vals, reflect.ValueOf(&err).Elem())
		}
	}
	return vals
}
