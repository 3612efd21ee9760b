package shape

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/interop/errors"
)

// FromWIT maps a WIT type onto the shape a component value of that type is
// projected through. Unsigned widths map to the next signed width so that
// every value fits; u64 maps to number. Records become string-keyed maps and
// tuples become lists of objects.
func FromWIT(t wit.Type) (Shape, error) {
	switch t := t.(type) {
	case wit.Bool:
		return Boolean, nil
	case wit.S8:
		return Int8, nil
	case wit.U8, wit.S16:
		return Int16, nil
	case wit.U16, wit.S32:
		return Int32, nil
	case wit.U32, wit.S64:
		return Int64, nil
	case wit.U64:
		return Number, nil
	case wit.F32:
		return Float32, nil
	case wit.F64:
		return Float64, nil
	case wit.Char:
		return Char, nil
	case wit.String:
		return String, nil
	case *wit.TypeDef:
		return fromTypeDef(t)
	}
	return Shape{}, errors.IllegalState(errors.PhaseShape, fmt.Sprintf("unsupported WIT type %T", t))
}

func fromTypeDef(t *wit.TypeDef) (Shape, error) {
	switch kind := t.Kind.(type) {
	case *wit.List:
		elem, err := FromWIT(kind.Type)
		if err != nil {
			return Shape{}, err
		}
		return ListOf(elem), nil
	case *wit.Option:
		inner, err := FromWIT(kind.Type)
		if err != nil {
			return Shape{}, err
		}
		return inner.OrNull(), nil
	case *wit.Record:
		for _, f := range kind.Fields {
			if _, err := FromWIT(f.Type); err != nil {
				return Shape{}, err
			}
		}
		return MapOf(String, Object), nil
	case *wit.Tuple:
		for _, et := range kind.Types {
			if _, err := FromWIT(et); err != nil {
				return Shape{}, err
			}
		}
		return ListOf(Object), nil
	case wit.Type:
		return FromWIT(kind)
	}
	return Shape{}, errors.IllegalState(errors.PhaseShape, fmt.Sprintf("unsupported WIT type definition %T", t.Kind))
}
