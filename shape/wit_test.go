package shape

import (
	"reflect"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
)

func TestFromWIT(t *testing.T) {
	tests := []struct {
		witType wit.Type
		want    string
	}{
		{wit.Bool{}, "bool"},
		{wit.S8{}, "int8"},
		{wit.U8{}, "int16"},
		{wit.S16{}, "int16"},
		{wit.U16{}, "int32"},
		{wit.S32{}, "int32"},
		{wit.U32{}, "int64"},
		{wit.S64{}, "int64"},
		{wit.U64{}, "number"},
		{wit.F32{}, "float32"},
		{wit.F64{}, "float64"},
		{wit.Char{}, "char"},
		{wit.String{}, "string"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}}, "list<int64>"},
		{&wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}}, "string?"},
		{&wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "a", Type: wit.U32{}},
			{Name: "b", Type: wit.String{}},
		}}}, "map<string,object>"},
		{&wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U32{}, wit.String{}}}}, "list<object>"},
		{&wit.TypeDef{Kind: &wit.List{Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.S8{}}}}}, "list<int8?>"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			s, err := FromWIT(tc.witType)
			if err != nil {
				t.Fatalf("FromWIT: %v", err)
			}
			if got := s.String(); got != tc.want {
				t.Errorf("FromWIT = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFromWITUnsupported(t *testing.T) {
	tests := []struct {
		witType wit.Type
		name    string
	}{
		{&wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "a"}}}}, "enum"},
		{&wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}, Err: wit.String{}}}, "result"},
		{&wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "e", Type: &wit.TypeDef{Kind: &wit.Flags{Flags: []wit.Flag{{Name: "x"}}}}},
		}}}, "record with flags"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromWIT(tc.witType)
			if !errors.IsKind(err, errors.KindIllegalState) {
				t.Errorf("err = %v, want illegal_state", err)
			}
		})
	}
}

type sample struct{ N int }

func TestFromType(t *testing.T) {
	var fn func(int) int
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(true), "bool"},
		{reflect.TypeOf(int8(0)), "int8"},
		{reflect.TypeOf(uint8(0)), "int16"},
		{reflect.TypeOf(int32(0)), "int32"},
		{reflect.TypeOf(uint16(0)), "int32"},
		{reflect.TypeOf(0), "int64"},
		{reflect.TypeOf(uint32(0)), "int64"},
		{reflect.TypeOf(uint64(0)), "number"},
		{reflect.TypeOf(float32(0)), "float32"},
		{reflect.TypeOf(0.0), "float64"},
		{reflect.TypeOf(""), "string"},
		{reflect.TypeOf((*any)(nil)).Elem(), "object"},
		{reflect.TypeOf((*interop.Value)(nil)).Elem(), "any"},
		{reflect.TypeOf(fn), "iface{apply/1}"},
		{reflect.TypeOf((*int32)(nil)), "int32?"},
		{reflect.TypeOf(sample{}), "host"},
		{reflect.TypeOf(&sample{}), "host"},
		{reflect.TypeOf([]int{}), "host"},
		{reflect.TypeOf((*error)(nil)).Elem(), "host"},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			if got := FromType(tc.typ).String(); got != tc.want {
				t.Errorf("FromType(%s) = %q, want %q", tc.typ, got, tc.want)
			}
		})
	}

	if !IsErrorType(reflect.TypeOf((*error)(nil)).Elem()) {
		t.Error("IsErrorType(error) = false")
	}
}
