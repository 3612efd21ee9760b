// Package yaegiguest evaluates Go source with the yaegi interpreter and
// exposes results through the host binder. Interpreted functions, slices,
// maps and structs become ordinary host values, so the same projection and
// adapter machinery applies to them as to compiled Go.
package yaegiguest
