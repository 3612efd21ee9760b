// Package interop provides a Go implementation of a foreign-value
// interoperability layer.
//
// Values produced by a dynamically-shaped guest (a script engine, a
// WebAssembly instance, Go values reached through reflection) cross into
// statically-typed host code as handles implementing Value. Host code never
// inspects the guest's object model directly: it asks for a shape and the
// coercion engine decides, from the value's capability traits alone, how to
// satisfy it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	interop/             Root package with the guest protocol (Value) and identity helpers
//	├── trait/           Capability probe over the closed 11-trait set
//	├── numeric/         Lossless-fit ladders and narrowing for numeric scalars
//	├── shape/           Host shape descriptors, text/YAML/WIT/Go-type sources
//	├── view/            Live list, member and index-keyed collection views
//	├── callable/        Adapters synthesizing host callables over guest values
//	├── coerce/          The projection engine and its dispatch table
//	├── errors/          Structured error types
//	├── host/            Go host values and proxies as foreign values
//	├── guest/           Starlark, wazero and yaegi guest bindings
//	└── cmd/interop-probe CLI to probe, call and explore guest values
//
// # Quick Start
//
// Project a Starlark value onto host shapes:
//
//	env := starlarkguest.New("demo")
//	v, err := env.Eval("[10, 20, 30]")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng := coerce.New()
//	res, err := eng.Project(v, shape.ListOf(shape.Int32))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	list := res.(*view.List)
//	second, _ := list.Get(1) // int32(20)
//
// # Capability Traits
//
//	NULL            the guest's null/None/undefined
//	BOOLEAN         AsBoolean
//	STRING          AsString
//	NUMBER          AsNumber, checked by the numeric ladders
//	MEMBERS         GetMember/PutMember/RemoveMember/MemberKeys/HasMember
//	ARRAY_ELEMENTS  ArrayElement/SetArrayElement/ArraySize
//	EXECUTABLE      Execute
//	INSTANTIABLE    NewInstance
//	HOST_OBJECT     AsHostObject
//	PROXY_OBJECT    AsProxyObject
//	NATIVE          AsNativePointer
//
// NULL is exclusive: a null value probes as exactly {NULL}.
//
// # Thread Safety
//
// Guest environments are generally not safe for concurrent foreign calls.
// Engine is immutable after construction and may be shared, but views and
// adapters delegate every operation to the guest synchronously and add no
// synchronization of their own. Use them from the goroutine that owns the guest.
//
// # Termination
//
// Deep materialization, structural equality and hashing thread an explicit
// depth counter and truncate at the configured cap (default 10), so cyclic
// guest graphs never recurse without bound.
package interop
