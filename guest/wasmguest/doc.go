// Package wasmguest exposes core WebAssembly modules run by wazero as
// foreign values.
//
// An instantiated module has MEMBERS: its exported functions and memories.
// Exported globals are reachable by name and mutable ones accept writes.
// Functions are EXECUTABLE; arguments are narrowed to the parameter value
// types with the checked numeric ladder. Memories are live ARRAY_ELEMENTS
// of bytes.
//
//	r := wasmguest.NewRuntime(ctx)
//	defer r.Close(ctx)
//	mod, err := wasmguest.Load(ctx, r, wasmBytes)
//	add, err := mod.GetMember("add")
//	sum, err := add.Execute(int32(2), int32(3))
package wasmguest
