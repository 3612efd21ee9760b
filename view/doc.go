// Package view provides live collection views over foreign values.
//
// A List reads and writes through the guest array protocol, a Members view
// through the member protocol, and an IndexMap presents array elements as a
// map keyed by index. Views never cache: sizes, keys and elements are read
// from the guest on every call, so guest-side mutations are visible at once
// and writes through one view are visible through every other view of the
// same value.
//
// Elements and member values are projected through the view's element or
// value shape by the Projector the view was built with. Guest errors from
// element and member access are returned unchanged.
//
// Equality and hashing are structural: two views are equal when their
// materialized contents are, regardless of which foreign value produced
// them. A view never equals a plain Go slice or map; compare Materialize
// results instead. Recursion through nested values stops at the projector's
// depth cap, which keeps equality, hashing and String total over cyclic
// guest graphs.
package view
