// Package cumulative implements the single-axis cumulative operations of
// spec.md §4.12: cumsum, cumprod, cummin, cummax, their NaN-skipping
// variants, diff, and gradient.
//
// Like package reduce, every kernel accumulates in a float64 working lane
// regardless of operand dtype (documented in DESIGN.md alongside reduce's
// identical choice). The NaN-skipping variants share their non-skipping
// counterpart's code path: a NaN input that isn't skipped simply propagates
// through ordinary float64 arithmetic (any op against NaN is NaN), and a
// skipped NaN just leaves the running accumulator unwritten-to for that
// step, which is exactly spec §4.12's "NaN position holds the pre-NaN
// accumulator value" policy.
package cumulative

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/convert"
	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

var (
	ErrAxisRange     = errors.New("cumulative: axis out of range")
	ErrRequiresFloat = errors.New("cumulative: NaN-skipping dispatcher requires a floating-point operand")
	ErrDiffNeedsAxis = errors.New("cumulative: Diff requires axis length > 1")
)

// requireFloat guards the NanCum* dispatchers: spec §4.11/§4.12 define them
// only for floating-point inputs, raising a Type error on anything else
// (spec §7).
func requireFloat(op string, node *ndar.Node) error {
	if !node.DType().IsFloat() {
		return nerr.Mirror(nerr.Type, fmt.Errorf("cumulative: %s: %w", op, ErrRequiresFloat))
	}
	return nil
}

func normalizeAxis(axis, ndim int) (int, error) {
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return 0, nerr.Mirror(nerr.Index, fmt.Errorf("cumulative: axis %d out of range [0,%d): %w", axis, ndim, ErrAxisRange))
	}
	return axis, nil
}

func outerShapeWithout(shape []int, axis int) []int {
	out := make([]int, 0, len(shape)-1)
	for i, s := range shape {
		if i != axis {
			out = append(out, s)
		}
	}
	return out
}

func spreadCoord(outer []int, axis int, dst []int) {
	k := 0
	for i := range dst {
		if i == axis {
			continue
		}
		dst[i] = outer[k]
		k++
	}
}

func cumAlongAxis(node *ndar.Node, axis int, skipNaN bool, outDT dtype.DType, op func(acc, v float64) float64) (*ndar.Node, error) {
	nd := node.NDim()
	axis, err := normalizeAxis(axis, nd)
	if err != nil {
		return nil, err
	}
	axisLen := node.Shape()[axis]
	out, err := ndar.NewEmpty(node.Shape(), outDT)
	if err != nil {
		return nil, err
	}
	srcDT := node.DType()
	fullCoord := make([]int, nd)

	outer := ndar.NewCoordIter(outerShapeWithout(node.Shape(), axis))
	for outer.Next() {
		spreadCoord(outer.Coord(), axis, fullCoord)
		acc := math.NaN()
		first := true
		for i := 0; i < axisLen; i++ {
			fullCoord[axis] = i
			srcOff := ndar.LinearByteOffset(fullCoord, node.Strides())
			v := convert.ReadAs[float64](node.Data(), srcOff, srcDT)
			if !(skipNaN && math.IsNaN(v)) {
				if first {
					acc = v
					first = false
				} else {
					acc = op(acc, v)
				}
			}
			dstOff := ndar.LinearByteOffset(fullCoord, out.Strides())
			convert.WriteAs[float64](out.Data(), dstOff, outDT, acc)
		}
	}
	return out, nil
}

// sumAccumDType is CumSum/CumProd's output dtype: float inputs (of any
// width) widen to Float64, unsigned integers accumulate in Uint64, other
// integers (and Bool) accumulate in Int64 — the same promotion rule as
// reduce.Sum/reduce.Prod (spec §3.1, §4.12).
func sumAccumDType(dt dtype.DType) dtype.DType {
	switch {
	case dt.IsFloat():
		return dtype.Float64
	case dt.IsUnsigned():
		return dtype.Uint64
	default:
		return dtype.Int64
	}
}

func minOp(acc, v float64) float64 {
	if v < acc || math.IsNaN(v) {
		return v
	}
	return acc
}
func maxOp(acc, v float64) float64 {
	if v > acc || math.IsNaN(v) {
		return v
	}
	return acc
}

// CumSum computes the running sum of node along axis, promoting the output
// dtype the same way reduce.Sum does (float inputs always widen to Float64).
func CumSum(node *ndar.Node, axis int) (*ndar.Node, error) {
	return cumAlongAxis(node, axis, false, sumAccumDType(node.DType()), func(acc, v float64) float64 { return acc + v })
}

// CumProd computes the running product of node along axis, promoting the
// output dtype the same way reduce.Prod does.
func CumProd(node *ndar.Node, axis int) (*ndar.Node, error) {
	return cumAlongAxis(node, axis, false, sumAccumDType(node.DType()), func(acc, v float64) float64 { return acc * v })
}

// CumMin computes the running minimum of node along axis, preserving node's
// dtype (spec §3.1: cummin/cummax do not promote).
func CumMin(node *ndar.Node, axis int) (*ndar.Node, error) {
	return cumAlongAxis(node, axis, false, node.DType(), minOp)
}

// CumMax computes the running maximum of node along axis, preserving node's
// dtype.
func CumMax(node *ndar.Node, axis int) (*ndar.Node, error) {
	return cumAlongAxis(node, axis, false, node.DType(), maxOp)
}

// NanCumSum, NanCumProd, NanCumMin, NanCumMax are the NaN-skipping variants:
// a NaN element leaves the running accumulator at its pre-NaN value instead
// of propagating NaN forward. Defined only for floating-point operands
// (spec §4.11, applied to §4.12's NaN-skipping cumulative ops).
func NanCumSum(node *ndar.Node, axis int) (*ndar.Node, error) {
	if err := requireFloat("NanCumSum", node); err != nil {
		return nil, err
	}
	return cumAlongAxis(node, axis, true, sumAccumDType(node.DType()), func(acc, v float64) float64 { return acc + v })
}
func NanCumProd(node *ndar.Node, axis int) (*ndar.Node, error) {
	if err := requireFloat("NanCumProd", node); err != nil {
		return nil, err
	}
	return cumAlongAxis(node, axis, true, sumAccumDType(node.DType()), func(acc, v float64) float64 { return acc * v })
}
func NanCumMin(node *ndar.Node, axis int) (*ndar.Node, error) {
	if err := requireFloat("NanCumMin", node); err != nil {
		return nil, err
	}
	return cumAlongAxis(node, axis, true, node.DType(), minOp)
}
func NanCumMax(node *ndar.Node, axis int) (*ndar.Node, error) {
	if err := requireFloat("NanCumMax", node); err != nil {
		return nil, err
	}
	return cumAlongAxis(node, axis, true, node.DType(), maxOp)
}

// diffResultDType is Diff's output dtype: Int64 for integer (and Bool)
// input, Float64 for float input, regardless of the input's width (spec
// §3.1).
func diffResultDType(dt dtype.DType) dtype.DType {
	if dt.IsFloat() {
		return dtype.Float64
	}
	return dtype.Int64
}

func singleDiff(node *ndar.Node, axis int) (*ndar.Node, error) {
	nd := node.NDim()
	axis, err := normalizeAxis(axis, nd)
	if err != nil {
		return nil, err
	}
	axisLen := node.Shape()[axis]
	if axisLen <= 1 {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("cumulative: Diff requires axis length > 1, got %d: %w", axisLen, ErrDiffNeedsAxis))
	}
	outAxisLen := axisLen - 1
	outShape := node.Shape()
	outShape[axis] = outAxisLen
	outDT := diffResultDType(node.DType())
	out, err := ndar.NewEmpty(outShape, outDT)
	if err != nil {
		return nil, err
	}
	srcDT := node.DType()
	srcCoord := make([]int, nd)
	dstCoord := make([]int, nd)

	outer := ndar.NewCoordIter(outerShapeWithout(node.Shape(), axis))
	for outer.Next() {
		spreadCoord(outer.Coord(), axis, srcCoord)
		spreadCoord(outer.Coord(), axis, dstCoord)
		for i := 0; i < outAxisLen; i++ {
			srcCoord[axis] = i
			va := convert.ReadAs[float64](node.Data(), ndar.LinearByteOffset(srcCoord, node.Strides()), srcDT)
			srcCoord[axis] = i + 1
			vb := convert.ReadAs[float64](node.Data(), ndar.LinearByteOffset(srcCoord, node.Strides()), srcDT)
			dstCoord[axis] = i
			convert.WriteAs[float64](out.Data(), ndar.LinearByteOffset(dstCoord, out.Strides()), out.DType(), vb-va)
		}
	}
	return out, nil
}

// Diff computes the order-th discrete difference of node along axis
// (order=1: out[i] = a[i+1]-a[i]; order=2 applies that again to the result,
// and so on), shrinking axis's extent by order per application.
func Diff(node *ndar.Node, axis, order int) (*ndar.Node, error) {
	if order < 0 {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("cumulative: Diff order must be >= 0"))
	}
	cur := node
	for i := 0; i < order; i++ {
		next, err := singleDiff(cur, axis)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Gradient computes the central-difference gradient of node along axis with
// unit spacing: a one-sided difference at each edge and (a[i+1]-a[i-1])/2
// elsewhere, always producing a floating-point result.
func Gradient(node *ndar.Node, axis int) (*ndar.Node, error) {
	nd := node.NDim()
	axis, err := normalizeAxis(axis, nd)
	if err != nil {
		return nil, err
	}
	axisLen := node.Shape()[axis]
	outDT := floatResultDType(node.DType())
	out, err := ndar.NewEmpty(node.Shape(), outDT)
	if err != nil {
		return nil, err
	}
	srcDT := node.DType()
	coord := make([]int, nd)

	readAt := func(c []int) float64 {
		return convert.ReadAs[float64](node.Data(), ndar.LinearByteOffset(c, node.Strides()), srcDT)
	}

	outer := ndar.NewCoordIter(outerShapeWithout(node.Shape(), axis))
	for outer.Next() {
		spreadCoord(outer.Coord(), axis, coord)
		for i := 0; i < axisLen; i++ {
			var g float64
			switch {
			case axisLen == 1:
				g = 0
			case i == 0:
				coord[axis] = 0
				a0 := readAt(coord)
				coord[axis] = 1
				a1 := readAt(coord)
				g = a1 - a0
			case i == axisLen-1:
				coord[axis] = axisLen - 1
				aN := readAt(coord)
				coord[axis] = axisLen - 2
				aNm1 := readAt(coord)
				g = aN - aNm1
			default:
				coord[axis] = i - 1
				aPrev := readAt(coord)
				coord[axis] = i + 1
				aNext := readAt(coord)
				g = (aNext - aPrev) / 2
			}
			coord[axis] = i
			convert.WriteAs[float64](out.Data(), ndar.LinearByteOffset(coord, out.Strides()), outDT, g)
		}
	}
	return out, nil
}

// floatResultDType is Gradient's output dtype: always Float64, regardless
// of the input dtype (spec §3.1).
func floatResultDType(dtype.DType) dtype.DType {
	return dtype.Float64
}
