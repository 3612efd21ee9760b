// Package shape describes the host-side forms a foreign value can be projected
// into.
//
// A Shape is a Kind plus nullability, component shapes for collections, and an
// Interface descriptor for callable shapes. Kinds fall into categories that
// share one projection strategy:
//
//	scalar       bool, int8..int64, float32, float64, char, string, number
//	collection   list<T>, map<K,V>
//	interface    named method sets (func is the single-method "apply/1")
//	any          the foreign value itself
//	object       the default host mapping
//	passthrough  host, proxy, native
//
// Shapes come from four sources: the package-level values and constructors,
// the text syntax read by Parse, YAML interface descriptors read by
// LoadInterfaces, and WIT types mapped by FromWIT. FromType maps Go types for
// binding typed functions.
//
// Shape identity is the canonical text form returned by String. Interface
// names are informational and do not take part in it.
//
// Validate reports malformed shapes as illegal_state: collections without
// component shapes, map keys of a kind that can never key a map, and
// interfaces with duplicate method names. Map keys of kind int8, int16,
// float32 and float64 are well formed but rejected by projection.
package shape
