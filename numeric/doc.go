// Package numeric implements the numeric fit ladder used when projecting
// guest numbers onto fixed-width host types.
//
// Guest numbers arrive as any Go numeric (every int and uint width, float32,
// float64, *big.Int) and are normalized by Of into a Number. A Number answers
// two independent families of fit questions:
//
//	integral  FitsInByte ⟹ FitsInShort ⟹ FitsInInt ⟹ FitsInLong
//	floating  FitsInFloat, FitsInDouble
//
// A value fits a width iff narrowing to it and widening back reproduces the
// value exactly. Floats with an integral value climb the integral ladder;
// negative zero, NaN, infinities and fractional values never do. NaN and the
// infinities fit both floating widths.
//
// The As* methods return the narrowed value or a type_mismatch error in the
// project phase, so a projection failure reads the same whichever width was
// requested.
package numeric
