// Package callable adapts foreign values to interface shapes.
//
// An Adapter forwards method calls to the guest. How a call reaches the guest
// is fixed when the adapter is created, from the shape and the value's traits:
// a single-method interface executes or instantiates the value itself, or
// calls the same-named member; a multi-method interface always calls members.
// Members are looked up on every call, so a value that loses or gains a
// member is observed immediately, and a missing member surfaces as an
// unsupported error from the call rather than from the projection.
//
// Bind turns a single-method adapter into a typed Go function:
//
//	var add func(a, b int32) (int32, error)
//	if err := adapter.Bind(&add); err != nil {
//		return err
//	}
//	sum, err := add(1, 2)
package callable
