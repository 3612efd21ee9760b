// Package coerce projects foreign values onto host shapes.
//
// An Engine probes a value's traits once per projection and dispatches on
// the category of the requested shape through a fixed table:
//
//	scalar       the matching trait is required; numbers go through the
//	             numeric ladder; a null value yields nil for nullable shapes
//	             and null_reference otherwise
//	collection   live views from package view; Go slices and maps held as
//	             host objects are returned as they are
//	interface    callable adapters from package callable
//	any          the foreign value itself
//	object       the default host mapping
//	passthrough  host objects, proxies and native pointers
//
// Failures are synchronous *errors.Error values: type_mismatch when the value
// lacks the traits the shape needs or a number does not fit, null_reference
// for a null value where a present one is required, and illegal_state for a
// malformed shape. Failed projections are logged at debug level.
//
// Basic usage:
//
//	e := coerce.New()
//	n, err := coerce.As[int32](e, v, shape.Int32)
//	l, err := coerce.As[*view.List](e, v, shape.ListOf(shape.Object))
//
// The engine is stateless apart from its configuration and runs entirely on
// the calling goroutine.
package coerce
