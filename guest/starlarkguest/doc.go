// Package starlarkguest binds go.starlark.net values to the guest protocol.
//
// Trait mapping:
//
//	None                          NULL
//	Bool                          BOOLEAN
//	String                        STRING
//	Int, Float                    NUMBER
//	List, Tuple, other Indexable  ARRAY_ELEMENTS (tuples are read-only)
//	Dict, struct, module          MEMBERS (dicts expose their string keys)
//	Callable                      EXECUTABLE
//
// Host values handed to scripts (call arguments, PutMember, SetArrayElement,
// Predeclare) are converted by Env.ToStarlark: scalars, []any and
// map[string]any by value, foreign values and other Go values by reference
// through a callable, attribute-bearing, indexable wrapper.
//
// Exec keeps module globals mutable so that views over them can write back;
// Starlark's own ExecFile would freeze them.
package starlarkguest
