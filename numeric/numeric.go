package numeric

import (
	"fmt"
	"math"
	"math/big"

	"github.com/wippyai/interop/errors"
)

// Kind is the representation a Number was normalized into.
type Kind uint8

const (
	Int Kind = iota
	Uint
	Float
	Big
)

var kindNames = [...]string{
	Int:   "int",
	Uint:  "uint",
	Float: "float",
	Big:   "big",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// 2^63 and 2^64 are exactly representable as float64.
const (
	twoTo63 = float64(1 << 63)
	twoTo64 = twoTo63 * 2
)

// Number is a guest numeric normalized to one of four representations.
// Integers are kept exact; floats are kept as float64 (float32 widens exactly).
type Number struct {
	b    *big.Int
	i    int64
	u    uint64
	f    float64
	kind Kind
}

// FromInt returns an integral Number.
func FromInt(i int64) Number { return Number{kind: Int, i: i} }

// FromFloat returns a floating Number.
func FromFloat(f float64) Number { return Number{kind: Float, f: f} }

// Of normalizes a Go numeric into a Number. Unsigned values that fit int64
// and big integers that fit int64 or uint64 use the narrower representation.
func Of(x any) (Number, bool) {
	switch v := x.(type) {
	case Number:
		return v, true
	case int:
		return FromInt(int64(v)), true
	case int8:
		return FromInt(int64(v)), true
	case int16:
		return FromInt(int64(v)), true
	case int32:
		return FromInt(int64(v)), true
	case int64:
		return FromInt(v), true
	case uint:
		return fromUint(uint64(v)), true
	case uint8:
		return FromInt(int64(v)), true
	case uint16:
		return FromInt(int64(v)), true
	case uint32:
		return FromInt(int64(v)), true
	case uint64:
		return fromUint(v), true
	case uintptr:
		return fromUint(uint64(v)), true
	case float32:
		return FromFloat(float64(v)), true
	case float64:
		return FromFloat(v), true
	case *big.Int:
		if v == nil {
			return Number{}, false
		}
		switch {
		case v.IsInt64():
			return FromInt(v.Int64()), true
		case v.IsUint64():
			return Number{kind: Uint, u: v.Uint64()}, true
		}
		return Number{kind: Big, b: new(big.Int).Set(v)}, true
	}
	return Number{}, false
}

func fromUint(u uint64) Number {
	if u <= math.MaxInt64 {
		return FromInt(int64(u))
	}
	return Number{kind: Uint, u: u}
}

// Kind returns the representation of n.
func (n Number) Kind() Kind { return n.kind }

// IsNaN reports whether n is a floating NaN.
func (n Number) IsNaN() bool { return n.kind == Float && math.IsNaN(n.f) }

// int64Value returns n as an int64 if it is integral and in range.
// Negative zero is not integral for this purpose.
func (n Number) int64Value() (int64, bool) {
	switch n.kind {
	case Int:
		return n.i, true
	case Uint:
		return 0, false
	case Float:
		f := n.f
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
			return 0, false
		}
		if f == 0 && math.Signbit(f) {
			return 0, false
		}
		if f < -twoTo63 || f >= twoTo63 {
			return 0, false
		}
		return int64(f), true
	case Big:
		if n.b.IsInt64() {
			return n.b.Int64(), true
		}
	}
	return 0, false
}

func (n Number) fitsRange(lo, hi int64) bool {
	i, ok := n.int64Value()
	return ok && i >= lo && i <= hi
}

// FitsInByte reports whether n is exactly representable as an int8.
func (n Number) FitsInByte() bool { return n.fitsRange(math.MinInt8, math.MaxInt8) }

// FitsInShort reports whether n is exactly representable as an int16.
func (n Number) FitsInShort() bool { return n.fitsRange(math.MinInt16, math.MaxInt16) }

// FitsInInt reports whether n is exactly representable as an int32.
func (n Number) FitsInInt() bool { return n.fitsRange(math.MinInt32, math.MaxInt32) }

// FitsInLong reports whether n is exactly representable as an int64.
func (n Number) FitsInLong() bool {
	_, ok := n.int64Value()
	return ok
}

// FitsInFloat reports whether narrowing n to float32 and widening it back
// reproduces n. NaN and infinities fit.
func (n Number) FitsInFloat() bool {
	switch n.kind {
	case Int:
		d := float64(float32(n.i))
		return d >= -twoTo63 && d < twoTo63 && int64(d) == n.i
	case Uint:
		d := float64(float32(n.u))
		return d < twoTo64 && uint64(d) == n.u
	case Float:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return true
		}
		return float64(float32(n.f)) == n.f
	case Big:
		_, acc := new(big.Float).SetInt(n.b).Float32()
		return acc == big.Exact
	}
	return false
}

// FitsInDouble reports whether narrowing n to float64 and widening it back
// reproduces n. Every floating Number fits.
func (n Number) FitsInDouble() bool {
	switch n.kind {
	case Int:
		d := float64(n.i)
		return d >= -twoTo63 && d < twoTo63 && int64(d) == n.i
	case Uint:
		d := float64(n.u)
		return d < twoTo64 && uint64(d) == n.u
	case Float:
		return true
	case Big:
		_, acc := new(big.Float).SetInt(n.b).Float64()
		return acc == big.Exact
	}
	return false
}

func (n Number) mismatch(target string) error {
	return errors.New(errors.PhaseProject, errors.KindTypeMismatch).
		Shape(target).
		Traits("{NUMBER}").
		Value(n.Canonical()).
		Detail("%s does not fit in %s", n, target).
		Build()
}

// AsByte narrows n to int8.
func (n Number) AsByte() (int8, error) {
	if !n.FitsInByte() {
		return 0, n.mismatch("int8")
	}
	i, _ := n.int64Value()
	return int8(i), nil
}

// AsShort narrows n to int16.
func (n Number) AsShort() (int16, error) {
	if !n.FitsInShort() {
		return 0, n.mismatch("int16")
	}
	i, _ := n.int64Value()
	return int16(i), nil
}

// AsInt narrows n to int32.
func (n Number) AsInt() (int32, error) {
	if !n.FitsInInt() {
		return 0, n.mismatch("int32")
	}
	i, _ := n.int64Value()
	return int32(i), nil
}

// AsLong narrows n to int64.
func (n Number) AsLong() (int64, error) {
	i, ok := n.int64Value()
	if !ok {
		return 0, n.mismatch("int64")
	}
	return i, nil
}

// AsFloat narrows n to float32.
func (n Number) AsFloat() (float32, error) {
	if !n.FitsInFloat() {
		return 0, n.mismatch("float32")
	}
	return float32(n.float64()), nil
}

// AsDouble narrows n to float64.
func (n Number) AsDouble() (float64, error) {
	if !n.FitsInDouble() {
		return 0, n.mismatch("float64")
	}
	return n.float64(), nil
}

// AsChar narrows n to a UTF-16 code unit.
func (n Number) AsChar() (rune, error) {
	if !n.fitsRange(0, math.MaxUint16) {
		return 0, n.mismatch("char")
	}
	i, _ := n.int64Value()
	return rune(i), nil
}

func (n Number) float64() float64 {
	switch n.kind {
	case Int:
		return float64(n.i)
	case Uint:
		return float64(n.u)
	case Float:
		return n.f
	case Big:
		f, _ := new(big.Float).SetInt(n.b).Float64()
		return f
	}
	return 0
}

// Canonical widens n to the first faithful Go representation among int64,
// float64, uint64 and *big.Int.
func (n Number) Canonical() any {
	if i, ok := n.int64Value(); ok {
		return i
	}
	if n.FitsInDouble() {
		return n.float64()
	}
	switch n.kind {
	case Uint:
		return n.u
	case Big:
		return new(big.Int).Set(n.b)
	}
	return n.f
}

// Equal reports whether a and b denote the same numeric value. NaN equals NaN
// so that equality stays reflexive for structural comparison.
func Equal(a, b Number) bool {
	if a.IsNaN() || b.IsNaN() {
		return a.IsNaN() && b.IsNaN()
	}
	return a.rat().Cmp(b.rat()) == 0 && a.negZero() == b.negZero() && a.inf() == b.inf()
}

func (n Number) negZero() bool { return n.kind == Float && n.f == 0 && math.Signbit(n.f) }

func (n Number) inf() int {
	if n.kind == Float && math.IsInf(n.f, 0) {
		if n.f > 0 {
			return 1
		}
		return -1
	}
	return 0
}

func (n Number) rat() *big.Rat {
	switch n.kind {
	case Int:
		return new(big.Rat).SetInt64(n.i)
	case Uint:
		return new(big.Rat).SetUint64(n.u)
	case Float:
		if math.IsInf(n.f, 0) {
			return new(big.Rat)
		}
		return new(big.Rat).SetFloat64(n.f)
	case Big:
		return new(big.Rat).SetInt(n.b)
	}
	return new(big.Rat)
}

func (n Number) String() string {
	switch n.kind {
	case Int:
		return fmt.Sprint(n.i)
	case Uint:
		return fmt.Sprint(n.u)
	case Float:
		return fmt.Sprint(n.f)
	case Big:
		return n.b.String()
	}
	return "0"
}
