package host

import (
	"fmt"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
)

// ProxyArray is implemented by host values that guests see as arrays.
type ProxyArray interface {
	Len() int64
	Index(i int64) (any, error)
	SetIndex(i int64, v any) error
}

// ProxyObject is implemented by host values that guests see as member
// bearing objects.
type ProxyObject interface {
	Keys() []string
	Member(key string) (any, bool)
	SetMember(key string, v any) error
	DeleteMember(key string) bool
}

// ProxyExecutable is implemented by host values guests can call.
type ProxyExecutable interface {
	Call(args ...any) (any, error)
}

// ProxyInstantiable is implemented by host values guests can instantiate.
type ProxyInstantiable interface {
	Construct(args ...any) (any, error)
}

// proxy exposes a host-implemented protocol. Arguments reach the proxy as
// they were given; results go back through the binder.
type proxy struct {
	b    *Binder
	p    any
	arr  ProxyArray
	obj  ProxyObject
	exec ProxyExecutable
	ctor ProxyInstantiable
}

var _ interop.Value = (*proxy)(nil)

func (b *Binder) proxyOf(x any) (*proxy, bool) {
	p := &proxy{b: b, p: x}
	p.arr, _ = x.(ProxyArray)
	p.obj, _ = x.(ProxyObject)
	p.exec, _ = x.(ProxyExecutable)
	p.ctor, _ = x.(ProxyInstantiable)
	if p.arr == nil && p.obj == nil && p.exec == nil && p.ctor == nil {
		return nil, false
	}
	return p, true
}

func (p *proxy) IsNull() bool           { return false }
func (p *proxy) IsBoolean() bool        { return false }
func (p *proxy) IsString() bool         { return false }
func (p *proxy) IsNumber() bool         { return false }
func (p *proxy) HasMembers() bool       { return p.obj != nil }
func (p *proxy) HasArrayElements() bool { return p.arr != nil }
func (p *proxy) CanExecute() bool       { return p.exec != nil }
func (p *proxy) CanInstantiate() bool   { return p.ctor != nil }
func (p *proxy) IsHostObject() bool     { return false }
func (p *proxy) IsProxyObject() bool    { return true }
func (p *proxy) IsNativePointer() bool  { return false }

func (p *proxy) AsBoolean() (bool, error)    { return false, p.unsupported("not a boolean") }
func (p *proxy) AsString() (string, error)   { return "", p.unsupported("not a string") }
func (p *proxy) AsNumber() (any, error)      { return nil, p.unsupported("not a number") }
func (p *proxy) AsHostObject() (any, error)  { return nil, p.unsupported("not a host object") }
func (p *proxy) AsProxyObject() (any, error) { return p.p, nil }

func (p *proxy) AsNativePointer() (uintptr, error) {
	return 0, p.unsupported("not a native pointer")
}

func (p *proxy) GetMember(key string) (interop.Value, error) {
	if p.obj == nil {
		return nil, p.unsupported("get member " + key)
	}
	v, ok := p.obj.Member(key)
	if !ok {
		return nil, errors.NotFound(errors.PhaseGuest, "member", key)
	}
	return p.b.ValueOf(v), nil
}

func (p *proxy) PutMember(key string, v any) error {
	if p.obj == nil {
		return p.unsupported("put member " + key)
	}
	return p.obj.SetMember(key, v)
}

func (p *proxy) RemoveMember(key string) (bool, error) {
	if p.obj == nil {
		return false, p.unsupported("remove member " + key)
	}
	return p.obj.DeleteMember(key), nil
}

func (p *proxy) MemberKeys() ([]string, error) {
	if p.obj == nil {
		return nil, nil
	}
	return p.obj.Keys(), nil
}

func (p *proxy) HasMember(key string) bool {
	if p.obj == nil {
		return false
	}
	_, ok := p.obj.Member(key)
	return ok
}

func (p *proxy) bounds(index int64) error {
	if p.arr == nil {
		return p.unsupported("array element access")
	}
	if n := p.arr.Len(); index < 0 || index >= n {
		return errors.OutOfBounds(errors.PhaseGuest, nil, index, n)
	}
	return nil
}

func (p *proxy) ArrayElement(index int64) (interop.Value, error) {
	if err := p.bounds(index); err != nil {
		return nil, err
	}
	v, err := p.arr.Index(index)
	if err != nil {
		return nil, err
	}
	return p.b.ValueOf(v), nil
}

func (p *proxy) SetArrayElement(index int64, v any) error {
	if err := p.bounds(index); err != nil {
		return err
	}
	return p.arr.SetIndex(index, v)
}

func (p *proxy) ArraySize() (int64, error) {
	if p.arr == nil {
		return 0, p.unsupported("array size")
	}
	return p.arr.Len(), nil
}

func (p *proxy) Execute(args ...any) (interop.Value, error) {
	if p.exec == nil {
		return nil, p.unsupported("execute")
	}
	res, err := p.exec.Call(args...)
	if err != nil {
		return nil, err
	}
	return p.b.ValueOf(res), nil
}

func (p *proxy) NewInstance(args ...any) (interop.Value, error) {
	if p.ctor == nil {
		return nil, p.unsupported("instantiate")
	}
	res, err := p.ctor.Construct(args...)
	if err != nil {
		return nil, err
	}
	return p.b.ValueOf(res), nil
}

func (p *proxy) unsupported(what string) error {
	return errors.New(errors.PhaseGuest, errors.KindUnsupported).
		HostType(fmt.Sprintf("%T", p.p)).
		Detail("%s", what).
		Build()
}

func (p *proxy) String() string {
	if s, ok := p.p.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("proxy(%T)", p.p)
}
