// Package mathops implements the elementwise binary and unary operations of
// spec.md §4.10: arithmetic, comparisons, logical ops, and bitwise/shift ops,
// all with broadcasting and dtype promotion via package dtype and dispatch.
//
// Every kernel computes in one of three "lanes" — float64, int64, or uint64 —
// chosen from the operation's resolved dtype, rather than instantiating a
// fully monomorphic kernel per one of the 11 concrete dtypes. This collapses
// what would otherwise be an 11-way (or, for binary ops, up to 11x11-way)
// generic instantiation into three, at the cost of computing Int8..Int32 and
// Uint8..Uint32 arithmetic in a wider (int64) register than their native
// width; values are truncated back to the destination width by
// convert.WriteAs exactly as a native-width kernel would. This trade is
// recorded in DESIGN.md.
package mathops

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/convert"
	"github.com/katalvlaran/nour/dispatch"
	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

var ErrRequiresInteger = errors.New("mathops: operation requires integer (or bool) operands")

func broadcastPair(a, b *ndar.Node, outDT dtype.DType) (*ndar.Node, *ndar.NMultiIter, *ndar.NIter, error) {
	mi, err := ndar.MultiIterInitFromNodes(a, b)
	if err != nil {
		return nil, nil, nil, err
	}
	out, err := ndar.NewEmpty(mi.OutShape(), outDT)
	if err != nil {
		return nil, nil, nil, err
	}
	return out, mi, ndar.NewIter(out), nil
}

func elementwiseFloat(a, b *ndar.Node, resolved dtype.DType, op func(x, y float64) float64) (*ndar.Node, error) {
	out, mi, outIt, err := broadcastPair(a, b, resolved)
	if err != nil {
		return nil, err
	}
	for mi.NotDone() {
		x := convert.ReadAs[float64](mi.Item(0), 0, a.DType())
		y := convert.ReadAs[float64](mi.Item(1), 0, b.DType())
		convert.WriteAs[float64](outIt.Item(), 0, resolved, op(x, y))
		mi.Next()
		outIt.Next()
	}
	return out, nil
}

func elementwiseInt(a, b *ndar.Node, resolved dtype.DType, op func(x, y int64) int64) (*ndar.Node, error) {
	out, mi, outIt, err := broadcastPair(a, b, resolved)
	if err != nil {
		return nil, err
	}
	for mi.NotDone() {
		x := convert.ReadAs[int64](mi.Item(0), 0, a.DType())
		y := convert.ReadAs[int64](mi.Item(1), 0, b.DType())
		convert.WriteAs[int64](outIt.Item(), 0, resolved, op(x, y))
		mi.Next()
		outIt.Next()
	}
	return out, nil
}

func elementwiseUint(a, b *ndar.Node, resolved dtype.DType, op func(x, y uint64) uint64) (*ndar.Node, error) {
	out, mi, outIt, err := broadcastPair(a, b, resolved)
	if err != nil {
		return nil, err
	}
	for mi.NotDone() {
		x := convert.ReadAs[uint64](mi.Item(0), 0, a.DType())
		y := convert.ReadAs[uint64](mi.Item(1), 0, b.DType())
		convert.WriteAs[uint64](outIt.Item(), 0, resolved, op(x, y))
		mi.Next()
		outIt.Next()
	}
	return out, nil
}

func elementwiseCompare(a, b *ndar.Node, promoted dtype.DType, cmp func(x, y float64) int) (*ndar.Node, error) {
	out, mi, outIt, err := broadcastPair(a, b, dtype.Bool)
	if err != nil {
		return nil, err
	}
	useFloat := promoted.IsFloat()
	for mi.NotDone() {
		var c int
		if useFloat {
			c = cmp(convert.ReadAs[float64](mi.Item(0), 0, a.DType()), convert.ReadAs[float64](mi.Item(1), 0, b.DType()))
		} else {
			x := convert.ReadAs[int64](mi.Item(0), 0, a.DType())
			y := convert.ReadAs[int64](mi.Item(1), 0, b.DType())
			c = cmp(float64(x), float64(y))
		}
		ndar.SetAt[bool](outIt.Item(), 0, c != 0)
		mi.Next()
		outIt.Next()
	}
	return out, nil
}

func readTruthy(data []byte, off int, dt dtype.DType) bool {
	if dt.IsFloat() {
		return convert.ReadAs[float64](data, off, dt) != 0
	}
	return convert.ReadAs[int64](data, off, dt) != 0
}

func elementwiseLogical(a, b *ndar.Node, combine func(x, y bool) bool) (*ndar.Node, error) {
	out, mi, outIt, err := broadcastPair(a, b, dtype.Bool)
	if err != nil {
		return nil, err
	}
	for mi.NotDone() {
		x := readTruthy(mi.Item(0), 0, a.DType())
		y := readTruthy(mi.Item(1), 0, b.DType())
		ndar.SetAt[bool](outIt.Item(), 0, combine(x, y))
		mi.Next()
		outIt.Next()
	}
	return out, nil
}

func binaryArith(a, b *ndar.Node, wantOut *dtype.DType, policy dispatch.OutPolicy,
	floatOp func(x, y float64) float64, intOp func(x, y int64) int64, uintOp func(x, y uint64) uint64) (*ndar.Node, error) {
	promoted := dtype.Promote(a.DType(), b.DType())
	resolved := dispatch.ResolveDType(promoted, policy)
	var out *ndar.Node
	var err error
	switch {
	case resolved.IsFloat():
		out, err = elementwiseFloat(a, b, resolved, floatOp)
	case resolved == dtype.Uint64:
		out, err = elementwiseUint(a, b, resolved, uintOp)
	default:
		out, err = elementwiseInt(a, b, resolved, intOp)
	}
	if err != nil {
		return nil, err
	}
	return dispatch.Finalize(out, wantOut)
}

func requireInteger(op string, a, b *ndar.Node) error {
	if a.DType().IsFloat() || b.DType().IsFloat() {
		return nerr.Mirror(nerr.Type, fmt.Errorf("mathops: %s: %w", op, ErrRequiresInteger))
	}
	return nil
}

// Add computes a + b with broadcasting and dtype promotion.
func Add(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryArith(a, b, wantOut, dispatch.PolicyNone,
		func(x, y float64) float64 { return x + y },
		func(x, y int64) int64 { return x + y },
		func(x, y uint64) uint64 { return x + y })
}

// Sub computes a - b.
func Sub(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryArith(a, b, wantOut, dispatch.PolicyNone,
		func(x, y float64) float64 { return x - y },
		func(x, y int64) int64 { return x - y },
		func(x, y uint64) uint64 { return x - y })
}

// Mul computes a * b.
func Mul(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryArith(a, b, wantOut, dispatch.PolicyNone,
		func(x, y float64) float64 { return x * y },
		func(x, y int64) int64 { return x * y },
		func(x, y uint64) uint64 { return x * y })
}

// Div computes true (always-floating-point) division a / b.
func Div(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	promoted := dtype.Promote(a.DType(), b.DType())
	resolved := dispatch.ResolveDType(promoted, dispatch.PolicyFloat)
	out, err := elementwiseFloat(a, b, resolved, func(x, y float64) float64 { return x / y })
	if err != nil {
		return nil, err
	}
	return dispatch.Finalize(out, wantOut)
}

func floorDivInt(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func modInt(x, y int64) int64 {
	r := x % y
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}
	return r
}

// FloorDiv computes the floor (round-toward-negative-infinity) quotient,
// matching Python/numpy floor-division semantics rather than Go's
// truncate-toward-zero integer division.
func FloorDiv(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryArith(a, b, wantOut, dispatch.PolicyNone,
		func(x, y float64) float64 { return math.Floor(x / y) },
		floorDivInt,
		func(x, y uint64) uint64 { return x / y })
}

// Mod computes the modulo with the divisor's sign (spec §4.10), matching
// Python/numpy modulo rather than Go's remainder-follows-dividend-sign %.
func Mod(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryArith(a, b, wantOut, dispatch.PolicyNone,
		func(x, y float64) float64 {
			r := math.Mod(x, y)
			if r != 0 && (r < 0) != (y < 0) {
				r += y
			}
			return r
		},
		modInt,
		func(x, y uint64) uint64 { return x % y })
}

func ipow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func upow(base, exp uint64) uint64 {
	var result uint64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Pow computes a raised to the power b elementwise, preserving an integer
// resolved dtype when both operands are integer (a negative integer exponent
// yields 0, matching the "no rational results" integer-power convention).
func Pow(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryArith(a, b, wantOut, dispatch.PolicyNone, math.Pow, ipow, upow)
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Eq, Ne, Lt, Le, Gt, Ge compute elementwise comparisons, always producing a
// Bool result, with operands compared in their promoted dtype.
func Eq(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseCompare(a, b, dtype.Promote(a.DType(), b.DType()), func(x, y float64) int { return boolInt(x == y) })
}
func Ne(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseCompare(a, b, dtype.Promote(a.DType(), b.DType()), func(x, y float64) int { return boolInt(x != y) })
}
func Lt(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseCompare(a, b, dtype.Promote(a.DType(), b.DType()), func(x, y float64) int { return boolInt(x < y) })
}
func Le(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseCompare(a, b, dtype.Promote(a.DType(), b.DType()), func(x, y float64) int { return boolInt(x <= y) })
}
func Gt(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseCompare(a, b, dtype.Promote(a.DType(), b.DType()), func(x, y float64) int { return boolInt(x > y) })
}
func Ge(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseCompare(a, b, dtype.Promote(a.DType(), b.DType()), func(x, y float64) int { return boolInt(x >= y) })
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// LogicalAnd, LogicalOr, LogicalXor treat operands as truthy (!= 0)
// regardless of dtype and produce Bool.
func LogicalAnd(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseLogical(a, b, func(x, y bool) bool { return x && y })
}
func LogicalOr(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseLogical(a, b, func(x, y bool) bool { return x || y })
}
func LogicalXor(a, b *ndar.Node) (*ndar.Node, error) {
	return elementwiseLogical(a, b, func(x, y bool) bool { return x != y })
}

func binaryBitwise(op string, a, b *ndar.Node, wantOut *dtype.DType,
	intOp func(x, y int64) int64, uintOp func(x, y uint64) uint64) (*ndar.Node, error) {
	if err := requireInteger(op, a, b); err != nil {
		return nil, err
	}
	return binaryArith(a, b, wantOut, dispatch.PolicyInt, nil, intOp, uintOp)
}

// BitwiseAnd, BitwiseOr, BitwiseXor require integer (or bool) operands and
// preserve the promoted integer dtype.
func BitwiseAnd(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryBitwise("BitwiseAnd", a, b, wantOut, func(x, y int64) int64 { return x & y }, func(x, y uint64) uint64 { return x & y })
}
func BitwiseOr(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryBitwise("BitwiseOr", a, b, wantOut, func(x, y int64) int64 { return x | y }, func(x, y uint64) uint64 { return x | y })
}
func BitwiseXor(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryBitwise("BitwiseXor", a, b, wantOut, func(x, y int64) int64 { return x ^ y }, func(x, y uint64) uint64 { return x ^ y })
}

// LeftShift and RightShift require integer (or bool) operands; RightShift is
// an arithmetic (sign-preserving) shift for signed resolved dtypes and a
// logical shift for unsigned ones.
func LeftShift(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryBitwise("LeftShift", a, b, wantOut,
		func(x, y int64) int64 { return x << uint64(y) },
		func(x, y uint64) uint64 { return x << y })
}
func RightShift(a, b *ndar.Node, wantOut *dtype.DType) (*ndar.Node, error) {
	return binaryBitwise("RightShift", a, b, wantOut,
		func(x, y int64) int64 { return x >> uint64(y) },
		func(x, y uint64) uint64 { return x >> y })
}
