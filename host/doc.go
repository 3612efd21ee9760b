// Package host exposes Go values to the interop layer as foreign values.
//
// Host code often needs to hand its own data to the same machinery that
// handles guest values: a Go slice read through a list view, a struct whose
// methods satisfy an interface shape, a constructor callable from a script.
// A Binder wraps such values with reflection. Wrapping is live: views over a
// wrapped slice or struct pointer read and write the Go storage directly.
//
// Values that implement ProxyArray, ProxyObject, ProxyExecutable or
// ProxyInstantiable are exposed through those methods instead of reflection,
// which lets host code present computed or remote data with a chosen trait
// set.
//
// Member names default to the Go names. Config.Naming selects another
// convention, and a field tag overrides it:
//
//	type Point struct {
//		X, Y  int
//		Label string `interop:"label"`
//		cache int    // unexported, never visible
//	}
//
//	b := host.NewWithConfig(&host.Config{Naming: host.SnakeCase})
//	v := b.ValueOf(&Point{X: 1})
package host
