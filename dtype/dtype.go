// Package dtype enumerates the primitive numeric kinds this library operates
// over and the promotion rules used by elementwise and reduction kernels.
//
// It has no dependency on any other package in this module: every layer above
// (Node, iterators, conversion, math, reductions, cumulative ops) consults
// dtype for sizing and promotion decisions but dtype never imports them back.
package dtype

import "fmt"

// DType is a closed enumeration of the primitive numeric kinds this array
// core supports. The zero value is Bool.
type DType int8

// The supported primitive dtypes, in ascending byte-size-within-kind order.
// N (the width of the conversion matrix in convert) is len(All).
const (
	Bool DType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64

	// n is the number of dtypes; keep it last.
	n
)

// N is the width of the dtype × dtype conversion matrix (spec §4.6).
const N = int(n)

// All lists every dtype in enum order. Callers may range over it to build
// per-dtype tables without repeating the enum.
var All = [N]DType{Bool, Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Float32, Float64}

// Kind classifies a dtype for promotion purposes.
type Kind int8

const (
	KindBool Kind = iota
	KindSigned
	KindUnsigned
	KindFloat
)

var sizes = [N]int{
	Bool:    1,
	Int8:    1,
	Uint8:   1,
	Int16:   2,
	Uint16:  2,
	Int32:   4,
	Uint32:  4,
	Int64:   8,
	Uint64:  8,
	Float32: 4,
	Float64: 8,
}

var names = [N]string{
	Bool:    "bool",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

var kinds = [N]Kind{
	Bool:    KindBool,
	Int8:    KindSigned,
	Uint8:   KindUnsigned,
	Int16:   KindSigned,
	Uint16:  KindUnsigned,
	Int32:   KindSigned,
	Uint32:  KindUnsigned,
	Int64:   KindSigned,
	Uint64:  KindUnsigned,
	Float32: KindFloat,
	Float64: KindFloat,
}

// Valid reports whether d is one of the named dtype constants.
func (d DType) Valid() bool {
	return d >= Bool && d < n
}

// Size returns the byte size of one element of d. It returns 0 for an
// invalid dtype; callers on the fail-fast path should validate with Valid
// first.
func (d DType) Size() int {
	if !d.Valid() {
		return 0
	}
	return sizes[d]
}

// Kind classifies d as bool, signed, unsigned, or float.
func (d DType) Kind() Kind {
	if !d.Valid() {
		return KindBool
	}
	return kinds[d]
}

// IsFloat reports whether d is a floating-point dtype.
func (d DType) IsFloat() bool {
	return d.Kind() == KindFloat
}

// IsInteger reports whether d is a signed or unsigned integer dtype
// (bool is excluded, matching the "integer kind" used by the promotion
// rules in spec §3.1).
func (d DType) IsInteger() bool {
	k := d.Kind()
	return k == KindSigned || k == KindUnsigned
}

// IsSigned reports whether d is a signed integer dtype.
func (d DType) IsSigned() bool {
	return d.Kind() == KindSigned
}

// IsUnsigned reports whether d is an unsigned integer dtype.
func (d DType) IsUnsigned() bool {
	return d.Kind() == KindUnsigned
}

// String renders the canonical lower-case dtype name.
func (d DType) String() string {
	if !d.Valid() {
		return fmt.Sprintf("dtype(%d)", int8(d))
	}
	return names[d]
}

// widerFloat maps an integer dtype to the float width its values must be
// widened to when promoted against a float operand (spec §3.1: "widened to
// float64 if input is float32 and the signed/unsigned integer is >= 32 bits").
func widerFloat(integer DType, other DType) DType {
	if other == Float64 {
		return Float64
	}
	// other is Float32 here.
	if sizes[integer] >= 4 {
		return Float64
	}
	return Float32
}

// Promote computes the result dtype of combining a and b under an elementwise
// binary operator, per spec §3.1:
//
//   - same kind-class (both signed, both unsigned, or both float): promote to
//     the wider width.
//   - signed x unsigned of the same width: promote to the next wider signed
//     type, saturating at int64; uint64 x int64 promotes to float64.
//   - integer x float: promote to the float, widened to float64 if the float
//     operand is float32 and the integer operand is >= 32 bits wide.
//   - bool combines with anything as if it were the other operand's dtype,
//     with the other operand's dtype taken as-is (bool never widens a
//     non-bool partner).
func Promote(a, b DType) DType {
	if a == b {
		return a
	}
	if a == Bool {
		return b
	}
	if b == Bool {
		return a
	}

	af, bf := a.IsFloat(), b.IsFloat()
	switch {
	case af && bf:
		if sizes[a] >= sizes[b] {
			return a
		}
		return b
	case af && !bf:
		return widerFloat(b, a)
	case !af && bf:
		return widerFloat(a, b)
	}

	// Both integer, not bool, different dtypes.
	as, bs := a.IsSigned(), b.IsSigned()
	if as == bs {
		// Same signedness, different width: take the wider.
		if sizes[a] >= sizes[b] {
			return a
		}
		return b
	}

	// Mixed signed/unsigned.
	signed, unsigned := a, b
	if bs {
		signed, unsigned = b, a
	}
	if sizes[signed] > sizes[unsigned] {
		return signed
	}
	// Same width signed/unsigned: promote to the next wider signed type.
	switch sizes[unsigned] {
	case 1:
		return Int16
	case 2:
		return Int32
	case 4:
		return Int64
	default: // 8: uint64 x int64 -> float64
		return Float64
	}
}
