package host

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/internal/convert"
	"github.com/wippyai/interop/shape"
)

// object is a Go value reached through reflection.
type object struct {
	b *Binder
	x any

	// self carries the method set; target is self with one pointer level
	// removed for structs, slices, arrays and maps.
	self   reflect.Value
	target reflect.Value

	class reflect.Type
}

var _ interop.Value = (*object)(nil)

func (b *Binder) object(x any, rv reflect.Value) *object {
	o := &object{b: b, x: x, self: rv, target: rv}
	if rv.Kind() == reflect.Pointer {
		switch rv.Elem().Kind() {
		case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
			o.target = rv.Elem()
		}
	}
	return o
}

// member is one entry of a struct's member table.
type member struct {
	name   string
	field  []int
	method int
}

func (m member) isMethod() bool { return m.field == nil }

// memberTable lists exported fields in declaration order, then exported
// methods of the method-set type. Fields tagged `interop:"-"` are skipped and
// `interop:"name"` renames.
func (b *Binder) memberTable(structType, methodType reflect.Type) []member {
	key := methodType
	b.mu.RLock()
	table, ok := b.members[key]
	b.mu.RUnlock()
	if ok {
		return table
	}

	seen := make(map[string]bool)
	for _, f := range reflect.VisibleFields(structType) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := b.naming(f.Name)
		if tag, ok := f.Tag.Lookup("interop"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		table = append(table, member{name: name, field: f.Index})
	}
	for i := 0; i < methodType.NumMethod(); i++ {
		name := b.naming(methodType.Method(i).Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		table = append(table, member{name: name, method: i})
	}

	b.mu.Lock()
	b.members[key] = table
	b.mu.Unlock()
	return table
}

func (o *object) members() []member {
	if o.target.Kind() != reflect.Struct {
		return nil
	}
	return o.b.memberTable(o.target.Type(), o.self.Type())
}

func (o *object) lookup(key string) (member, bool) {
	for _, m := range o.members() {
		if m.name == key {
			return m, true
		}
	}
	return member{}, false
}

func (o *object) stringMap() bool {
	return o.target.Kind() == reflect.Map && o.target.Type().Key().Kind() == reflect.String
}

func (o *object) IsNull() bool     { return false }
func (o *object) IsBoolean() bool  { return false }
func (o *object) IsString() bool   { return false }
func (o *object) IsNumber() bool   { return false }
func (o *object) HasMembers() bool { return o.class == nil && (o.target.Kind() == reflect.Struct || o.stringMap()) }

func (o *object) HasArrayElements() bool {
	if o.class != nil {
		return false
	}
	k := o.target.Kind()
	return k == reflect.Slice || k == reflect.Array
}

func (o *object) CanExecute() bool      { return o.class == nil && o.target.Kind() == reflect.Func }
func (o *object) CanInstantiate() bool  { return o.class != nil }
func (o *object) IsHostObject() bool    { return true }
func (o *object) IsProxyObject() bool   { return false }
func (o *object) IsNativePointer() bool { return false }

func (o *object) AsBoolean() (bool, error)   { return false, o.unsupported("not a boolean") }
func (o *object) AsString() (string, error)  { return "", o.unsupported("not a string") }
func (o *object) AsNumber() (any, error)     { return nil, o.unsupported("not a number") }
func (o *object) AsHostObject() (any, error) { return o.x, nil }
func (o *object) AsProxyObject() (any, error) {
	return nil, o.unsupported("not a proxy object")
}

func (o *object) AsNativePointer() (uintptr, error) {
	return 0, o.unsupported("not a native pointer")
}

// wrap exposes a field or element, keeping addressable structs and arrays
// live by handing out their address.
func (o *object) wrap(v reflect.Value) interop.Value {
	if v.CanAddr() {
		switch v.Kind() {
		case reflect.Struct, reflect.Array:
			return o.b.ValueOf(v.Addr().Interface())
		}
	}
	if !v.CanInterface() {
		return null{}
	}
	return o.b.ValueOf(v.Interface())
}

func (o *object) GetMember(key string) (interop.Value, error) {
	switch {
	case o.stringMap():
		v := o.target.MapIndex(reflect.ValueOf(key).Convert(o.target.Type().Key()))
		if !v.IsValid() {
			return nil, errors.NotFound(errors.PhaseGuest, "member", key)
		}
		return o.wrap(v), nil
	case o.HasMembers():
		m, ok := o.lookup(key)
		if !ok {
			return nil, errors.NotFound(errors.PhaseGuest, "member", key)
		}
		if m.isMethod() {
			return o.b.ValueOf(o.self.Method(m.method).Interface()), nil
		}
		f, err := o.target.FieldByIndexErr(m.field)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseGuest, errors.KindNullReference, err, "field "+key)
		}
		return o.wrap(f), nil
	}
	return nil, o.unsupported("get member " + key)
}

func (o *object) PutMember(key string, x any) error {
	switch {
	case o.stringMap():
		if o.target.IsNil() {
			return o.unsupported("put member " + key + " into nil map")
		}
		v, err := convert.Foreign(x, o.target.Type().Elem(), o.b.projector)
		if err != nil {
			return err
		}
		o.target.SetMapIndex(reflect.ValueOf(key).Convert(o.target.Type().Key()), v)
		return nil
	case o.HasMembers():
		m, ok := o.lookup(key)
		if !ok {
			return errors.NotFound(errors.PhaseGuest, "member", key)
		}
		if m.isMethod() {
			return o.unsupported("method " + key + " is read-only")
		}
		f, err := o.target.FieldByIndexErr(m.field)
		if err != nil {
			return errors.Wrap(errors.PhaseGuest, errors.KindNullReference, err, "field "+key)
		}
		if !f.CanSet() {
			return o.unsupported("field " + key + " is not addressable")
		}
		v, err := convert.Foreign(x, f.Type(), o.b.projector)
		if err != nil {
			return err
		}
		f.Set(v)
		return nil
	}
	return o.unsupported("put member " + key)
}

func (o *object) RemoveMember(key string) (bool, error) {
	if !o.stringMap() {
		return false, o.unsupported("remove member " + key)
	}
	k := reflect.ValueOf(key).Convert(o.target.Type().Key())
	if !o.target.MapIndex(k).IsValid() {
		return false, nil
	}
	o.target.SetMapIndex(k, reflect.Value{})
	return true, nil
}

// MemberKeys lists map keys sorted, or struct members in table order.
func (o *object) MemberKeys() ([]string, error) {
	switch {
	case o.stringMap():
		keys := make([]string, 0, o.target.Len())
		for _, k := range o.target.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		return keys, nil
	case o.HasMembers():
		table := o.members()
		keys := make([]string, len(table))
		for i, m := range table {
			keys[i] = m.name
		}
		return keys, nil
	}
	return nil, nil
}

func (o *object) HasMember(key string) bool {
	switch {
	case o.stringMap():
		return o.target.MapIndex(reflect.ValueOf(key).Convert(o.target.Type().Key())).IsValid()
	case o.HasMembers():
		_, ok := o.lookup(key)
		return ok
	}
	return false
}

func (o *object) element(index int64) (reflect.Value, error) {
	if !o.HasArrayElements() {
		return reflect.Value{}, o.unsupported("array element access")
	}
	n := int64(o.target.Len())
	if index < 0 || index >= n {
		return reflect.Value{}, errors.OutOfBounds(errors.PhaseGuest, nil, index, n)
	}
	return o.target.Index(int(index)), nil
}

func (o *object) ArrayElement(index int64) (interop.Value, error) {
	e, err := o.element(index)
	if err != nil {
		return nil, err
	}
	return o.wrap(e), nil
}

func (o *object) SetArrayElement(index int64, x any) error {
	e, err := o.element(index)
	if err != nil {
		return err
	}
	if !e.CanSet() {
		return o.unsupported("array is not addressable; pass a pointer to it")
	}
	v, err := convert.Foreign(x, e.Type(), o.b.projector)
	if err != nil {
		return err
	}
	e.Set(v)
	return nil
}

func (o *object) ArraySize() (int64, error) {
	if !o.HasArrayElements() {
		return 0, o.unsupported("array size")
	}
	return int64(o.target.Len()), nil
}

// Execute calls a Go func. Arguments are converted to the parameter types;
// a trailing error result is returned as the call error.
func (o *object) Execute(args ...any) (interop.Value, error) {
	if !o.CanExecute() {
		return nil, o.unsupported("execute")
	}
	in, err := convert.Args(args, o.target.Type(), o.b.projector)
	if err != nil {
		return nil, err
	}
	return o.b.results(o.target.Call(in))
}

func (b *Binder) results(out []reflect.Value) (interop.Value, error) {
	if n := len(out); n > 0 && shape.IsErrorType(out[n-1].Type()) {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return null{}, nil
	case 1:
		return b.ValueOf(out[0].Interface()), nil
	}
	multi := make([]any, len(out))
	for i, v := range out {
		multi[i] = v.Interface()
	}
	return b.ValueOf(multi), nil
}

// NewInstance creates a value of the wrapped type. Structs take their
// exported fields positionally and are returned by pointer; slices take an
// optional length; other types take an optional initial value.
func (o *object) NewInstance(args ...any) (interop.Value, error) {
	if o.class == nil {
		return nil, o.unsupported("instantiate")
	}
	t := o.class
	switch t.Kind() {
	case reflect.Struct:
		ptr := reflect.New(t)
		var fields [][]int
		for _, f := range reflect.VisibleFields(t) {
			if f.IsExported() && !f.Anonymous {
				fields = append(fields, f.Index)
			}
		}
		if len(args) > len(fields) {
			return nil, o.arity(len(fields), len(args))
		}
		for i, a := range args {
			f, err := ptr.Elem().FieldByIndexErr(fields[i])
			if err != nil {
				return nil, errors.Wrap(errors.PhaseGuest, errors.KindNullReference, err, "embedded field")
			}
			v, err := convert.Foreign(a, f.Type(), o.b.projector)
			if err != nil {
				return nil, err
			}
			f.Set(v)
		}
		return o.b.ValueOf(ptr.Interface()), nil
	case reflect.Slice:
		if len(args) > 1 {
			return nil, o.arity(1, len(args))
		}
		n := 0
		if len(args) == 1 {
			v, err := convert.Foreign(args[0], reflect.TypeOf(n), o.b.projector)
			if err != nil {
				return nil, err
			}
			n = int(v.Int())
		}
		if n < 0 {
			return nil, errors.InvalidInput(errors.PhaseGuest, fmt.Sprintf("negative length %d", n))
		}
		ptr := reflect.New(t)
		ptr.Elem().Set(reflect.MakeSlice(t, n, n))
		return o.b.ValueOf(ptr.Interface()), nil
	case reflect.Map:
		if len(args) > 0 {
			return nil, o.arity(0, len(args))
		}
		return o.b.ValueOf(reflect.MakeMap(t).Interface()), nil
	}

	if len(args) > 1 {
		return nil, o.arity(1, len(args))
	}
	ptr := reflect.New(t)
	if len(args) == 1 {
		v, err := convert.Foreign(args[0], t, o.b.projector)
		if err != nil {
			return nil, err
		}
		ptr.Elem().Set(v)
		return o.b.ValueOf(ptr.Elem().Interface()), nil
	}
	return o.b.ValueOf(ptr.Interface()), nil
}

func (o *object) arity(want, got int) error {
	return errors.New(errors.PhaseGuest, errors.KindInvalidInput).
		HostType(o.class.String()).
		Detail("expected at most %d arguments, got %d", want, got).
		Build()
}

func (o *object) unsupported(what string) error {
	return errors.New(errors.PhaseGuest, errors.KindUnsupported).
		HostType(fmt.Sprintf("%T", o.x)).
		Detail("%s", what).
		Build()
}

func (o *object) String() string {
	switch {
	case o.class != nil:
		return "type(" + o.class.String() + ")"
	case o.HasArrayElements():
		return fmt.Sprintf("%s(len=%d)", o.self.Type(), o.target.Len())
	case o.stringMap():
		return fmt.Sprintf("%s(len=%d)", o.self.Type(), o.target.Len())
	}
	return o.self.Type().String()
}
