// Package errors provides structured error types for the interop layer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the requested shape, the probed trait set, the Go type
// involved, an access path and a cause chain.
//
// The kinds that projection callers branch on are:
//
//	type_mismatch   the requested shape is incompatible with the value's traits,
//	                or a numeric fit check failed
//	null_reference  the value is null and the shape requires a present value
//	unsupported     a capability is absent at call time
//	illegal_state   the shape descriptor is malformed
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseProject, errors.KindTypeMismatch).
//		Path("items", "3").
//		Shape("int8").
//		Traits("{NUMBER}").
//		Detail("300 does not fit").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseProject, path, "int8", "{NUMBER}")
//	err := errors.Unsupported(errors.PhaseGuest, "execute")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on kind alone, regardless of phase.
package errors
