// Package reduce implements the axis-set reduction operations of spec.md
// §4.11: sum, prod, min, max, mean, var, std, argmin, argmax, all, any,
// count_nonzero, and the NaN-skipping variants of the first seven.
//
// Every kernel accumulates in a single float64 working lane regardless of
// the operand's dtype, rather than instantiating per-dtype accumulators.
// This is a deliberate simplification over a fully monomorphic design
// (recorded in DESIGN.md): it trades exact integer precision above 2^53 (and
// over uint64's top range) for a single accumulation path across twelve
// kernels plus NaN variants. Min/Max/Argmin/Argmax compare in the same
// float64 lane, then write the original element's bytes back (not the
// float64 round-trip) so the exact extremal value and its dtype survive
// regardless of the comparison lane's precision.
package reduce

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
	ErrAxisRange     = errors.New("reduce: axis out of range")
	ErrRequiresFloat = errors.New("reduce: NaN-skipping dispatcher requires a floating-point operand")
)

// requireFloat guards the Nan* dispatchers: spec §4.11 defines them only for
// floating-point inputs, raising a Type error on anything else (spec §7).
func requireFloat(op string, node *ndar.Node) error {
	if !node.DType().IsFloat() {
		return nerr.Mirror(nerr.Type, fmt.Errorf("reduce: %s: %w", op, ErrRequiresFloat))
	}
	return nil
}

func normalizeAxes(axes []int, ndim int) (map[int]bool, error) {
	set := map[int]bool{}
	if len(axes) == 0 {
		for i := 0; i < ndim; i++ {
			set[i] = true
		}
		return set, nil
	}
	for _, a := range axes {
		ra := a
		if ra < 0 {
			ra += ndim
		}
		if ra < 0 || ra >= ndim {
			return nil, nerr.Mirror(nerr.Index, fmt.Errorf("reduce: axis %d out of range [0,%d): %w", a, ndim, ErrAxisRange))
		}
		set[ra] = true
	}
	return set, nil
}

func reduceOutShape(shape []int, axes map[int]bool, keepDims bool) []int {
	out := make([]int, 0, len(shape))
	for i, s := range shape {
		if axes[i] {
			if keepDims {
				out = append(out, 1)
			}
		} else {
			out = append(out, s)
		}
	}
	return out
}

func reducedCoord(coord []int, axes map[int]bool, keepDims bool) []int {
	rc := make([]int, 0, len(coord))
	for i, c := range coord {
		if axes[i] {
			if keepDims {
				rc = append(rc, 0)
			}
		} else {
			rc = append(rc, c)
		}
	}
	return rc
}

// walk builds the output shape for reducing node over axes and returns a
// function that visits every input element once, in row-major order, handing
// the visitor the flat output index the element folds into.
func walk(node *ndar.Node, axes map[int]bool, keepDims bool) (outShape []int, run func(visit func(outIdx int, elem []byte))) {
	outShape = reduceOutShape(node.Shape(), axes, keepDims)
	run = func(visit func(outIdx int, elem []byte)) {
		it := ndar.NewIter(node)
		for it.NotDone() {
			rc := reducedCoord(it.Coord(), axes, keepDims)
			outIdx := ndar.FlattenIndex(rc, outShape)
			visit(outIdx, it.Item())
			it.Next()
		}
	}
	return outShape, run
}

// accumDType is Sum/Prod's output dtype: float inputs (of any width) widen
// to Float64, unsigned integers accumulate in Uint64, other integers (and
// Bool) accumulate in Int64 (spec §3.1).
func accumDType(dt dtype.DType) dtype.DType {
	switch {
	case dt.IsFloat():
		return dtype.Float64
	case dt.IsUnsigned():
		return dtype.Uint64
	default:
		return dtype.Int64
	}
}

// floatResultDType is Mean/Var/Std/Gradient's output dtype: always Float64,
// regardless of the input dtype (spec §3.1).
func floatResultDType(dtype.DType) dtype.DType {
	return dtype.Float64
}

func sumProd(node *ndar.Node, axes []int, keepDims, skipNaN, isProd bool) (*ndar.Node, error) {
	axSet, err := normalizeAxes(axes, node.NDim())
	if err != nil {
		return nil, err
	}
	outShape, run := walk(node, axSet, keepDims)
	n := ndar.NItems(outShape)
	acc := make([]float64, n)
	if isProd {
		for i := range acc {
			acc[i] = 1
		}
	}
	srcDT := node.DType()
	run(func(outIdx int, elem []byte) {
		v := convert.ReadAs[float64](elem, 0, srcDT)
		if skipNaN && math.IsNaN(v) {
			return
		}
		if isProd {
			acc[outIdx] *= v
		} else {
			acc[outIdx] += v
		}
	})

	outDT := accumDType(srcDT)
	out, err := ndar.NewEmpty(outShape, outDT)
	if err != nil {
		return nil, err
	}
	writeAll(out, acc)
	return out, nil
}

// Sum reduces node over axes (nil/empty means every axis), summing
// elements. keepDims retains reduced axes as size-1 dimensions.
func Sum(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return sumProd(node, axes, keepDims, false, false)
}

// Prod reduces node over axes, multiplying elements.
func Prod(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return sumProd(node, axes, keepDims, false, true)
}

// NanSum is Sum, skipping NaN elements (treated as absent). Defined only for
// floating-point operands (spec §4.11).
func NanSum(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	if err := requireFloat("NanSum", node); err != nil {
		return nil, err
	}
	return sumProd(node, axes, keepDims, true, false)
}

// NanProd is Prod, skipping NaN elements. Defined only for floating-point
// operands (spec §4.11).
func NanProd(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	if err := requireFloat("NanProd", node); err != nil {
		return nil, err
	}
	return sumProd(node, axes, keepDims, true, true)
}

func meanVarStd(node *ndar.Node, axes []int, keepDims, skipNaN bool, ddof int, wantStd, wantVar bool) (*ndar.Node, error) {
	axSet, err := normalizeAxes(axes, node.NDim())
	if err != nil {
		return nil, err
	}
	outShape, run := walk(node, axSet, keepDims)
	n := ndar.NItems(outShape)
	sum := make([]float64, n)
	count := make([]int, n)
	srcDT := node.DType()
	run(func(outIdx int, elem []byte) {
		v := convert.ReadAs[float64](elem, 0, srcDT)
		if skipNaN && math.IsNaN(v) {
			return
		}
		sum[outIdx] += v
		count[outIdx]++
	})
	mean := make([]float64, n)
	for i := range mean {
		if count[i] > 0 {
			mean[i] = sum[i] / float64(count[i])
		} else {
			mean[i] = math.NaN()
		}
	}
	if !wantVar && !wantStd {
		outDT := floatResultDType(srcDT)
		out, err := ndar.NewEmpty(outShape, outDT)
		if err != nil {
			return nil, err
		}
		writeAll(out, mean)
		return out, nil
	}

	sqDiff := make([]float64, n)
	run(func(outIdx int, elem []byte) {
		v := convert.ReadAs[float64](elem, 0, srcDT)
		if skipNaN && math.IsNaN(v) {
			return
		}
		d := v - mean[outIdx]
		sqDiff[outIdx] += d * d
	})
	result := make([]float64, n)
	for i := range result {
		denom := count[i] - ddof
		if denom <= 0 {
			result[i] = math.NaN()
			continue
		}
		v := sqDiff[i] / float64(denom)
		if wantStd {
			v = math.Sqrt(v)
		}
		result[i] = v
	}
	outDT := floatResultDType(srcDT)
	out, err := ndar.NewEmpty(outShape, outDT)
	if err != nil {
		return nil, err
	}
	writeAll(out, result)
	return out, nil
}

// Mean reduces node over axes, averaging elements.
func Mean(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return meanVarStd(node, axes, keepDims, false, 0, false, false)
}

// Var reduces node over axes, computing the variance with ddof degrees of
// freedom subtracted from the element count (ddof=0: population variance;
// ddof=1: sample variance).
func Var(node *ndar.Node, axes []int, keepDims bool, ddof int) (*ndar.Node, error) {
	return meanVarStd(node, axes, keepDims, false, ddof, false, true)
}

// Std is Var's square root.
func Std(node *ndar.Node, axes []int, keepDims bool, ddof int) (*ndar.Node, error) {
	return meanVarStd(node, axes, keepDims, false, ddof, true, true)
}

// NanMean, NanVar, NanStd are Mean/Var/Std, skipping NaN elements (and
// excluding them from the element count used for the mean and denominator).
// Defined only for floating-point operands (spec §4.11).
func NanMean(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	if err := requireFloat("NanMean", node); err != nil {
		return nil, err
	}
	return meanVarStd(node, axes, keepDims, true, 0, false, false)
}
func NanVar(node *ndar.Node, axes []int, keepDims bool, ddof int) (*ndar.Node, error) {
	if err := requireFloat("NanVar", node); err != nil {
		return nil, err
	}
	return meanVarStd(node, axes, keepDims, true, ddof, false, true)
}
func NanStd(node *ndar.Node, axes []int, keepDims bool, ddof int) (*ndar.Node, error) {
	if err := requireFloat("NanStd", node); err != nil {
		return nil, err
	}
	return meanVarStd(node, axes, keepDims, true, ddof, true, true)
}

func minMax(node *ndar.Node, axes []int, keepDims, skipNaN, isMax bool) (*ndar.Node, error) {
	axSet, err := normalizeAxes(axes, node.NDim())
	if err != nil {
		return nil, err
	}
	outShape, run := walk(node, axSet, keepDims)
	n := ndar.NItems(outShape)
	bestVal := make([]float64, n)
	bestElem := make([][]byte, n)
	seen := make([]bool, n)
	srcDT := node.DType()
	itemsize := srcDT.Size()
	run(func(outIdx int, elem []byte) {
		v := convert.ReadAs[float64](elem, 0, srcDT)
		if skipNaN && math.IsNaN(v) {
			return
		}
		if !seen[outIdx] || (isMax && v > bestVal[outIdx]) || (!isMax && v < bestVal[outIdx]) {
			seen[outIdx] = true
			bestVal[outIdx] = v
			cp := make([]byte, itemsize)
			copy(cp, elem[:itemsize])
			bestElem[outIdx] = cp
		}
	})
	out, err := ndar.NewEmpty(outShape, srcDT)
	if err != nil {
		return nil, err
	}
	dst := out.Data()
	for i, elem := range bestElem {
		if elem == nil {
			continue
		}
		copy(dst[i*itemsize:(i+1)*itemsize], elem)
	}
	return out, nil
}

// Min reduces node over axes, taking the minimum element per output slot.
func Min(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return minMax(node, axes, keepDims, false, false)
}

// Max reduces node over axes, taking the maximum element per output slot.
func Max(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return minMax(node, axes, keepDims, false, true)
}

// NanMin, NanMax are Min/Max, skipping NaN elements. Defined only for
// floating-point operands (spec §4.11).
func NanMin(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	if err := requireFloat("NanMin", node); err != nil {
		return nil, err
	}
	return minMax(node, axes, keepDims, true, false)
}
func NanMax(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	if err := requireFloat("NanMax", node); err != nil {
		return nil, err
	}
	return minMax(node, axes, keepDims, true, true)
}

func argMinMax(node *ndar.Node, axes []int, keepDims, isMax bool) (*ndar.Node, error) {
	axSet, err := normalizeAxes(axes, node.NDim())
	if err != nil {
		return nil, err
	}
	outShape, run := walk(node, axSet, keepDims)
	n := ndar.NItems(outShape)
	bestVal := make([]float64, n)
	bestIdx := make([]int64, n)
	seen := make([]bool, n)
	localSeq := make([]int64, n)
	srcDT := node.DType()
	run(func(outIdx int, elem []byte) {
		v := convert.ReadAs[float64](elem, 0, srcDT)
		seq := localSeq[outIdx]
		localSeq[outIdx]++
		// Row-major tie-breaking: the first element to reach the extremal
		// value for this output slot keeps it, matching numpy's argmin/argmax.
		if !seen[outIdx] || (isMax && v > bestVal[outIdx]) || (!isMax && v < bestVal[outIdx]) {
			seen[outIdx] = true
			bestVal[outIdx] = v
			bestIdx[outIdx] = seq
		}
	})
	out, err := ndar.NewEmpty(outShape, dtype.Int64)
	if err != nil {
		return nil, err
	}
	dst := out.Data()
	for i, idx := range bestIdx {
		ndar.SetAt[int64](dst, i*8, idx)
	}
	return out, nil
}

// ArgMin reduces node over axes, recording — per output slot — the
// row-major-local position (within the visitation order of the reduced
// axes) of the minimal element, ties broken by first occurrence.
func ArgMin(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return argMinMax(node, axes, keepDims, false)
}

// ArgMax is ArgMin's maximum counterpart.
func ArgMax(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return argMinMax(node, axes, keepDims, true)
}

// All reduces node over axes, testing whether every element is truthy.
func All(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return boolReduce(node, axes, keepDims, true)
}

// Any reduces node over axes, testing whether any element is truthy.
func Any(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	return boolReduce(node, axes, keepDims, false)
}

func boolReduce(node *ndar.Node, axes []int, keepDims, isAll bool) (*ndar.Node, error) {
	axSet, err := normalizeAxes(axes, node.NDim())
	if err != nil {
		return nil, err
	}
	outShape, run := walk(node, axSet, keepDims)
	n := ndar.NItems(outShape)
	result := make([]bool, n)
	if isAll {
		for i := range result {
			result[i] = true
		}
	}
	srcDT := node.DType()
	run(func(outIdx int, elem []byte) {
		truthy := truthyOf(elem, srcDT)
		if isAll {
			result[outIdx] = result[outIdx] && truthy
		} else {
			result[outIdx] = result[outIdx] || truthy
		}
	})
	out, err := ndar.NewEmpty(outShape, dtype.Bool)
	if err != nil {
		return nil, err
	}
	dst := out.Data()
	for i, v := range result {
		ndar.SetAt[bool](dst, i, v)
	}
	return out, nil
}

// CountNonzero reduces node over axes, counting truthy elements.
func CountNonzero(node *ndar.Node, axes []int, keepDims bool) (*ndar.Node, error) {
	axSet, err := normalizeAxes(axes, node.NDim())
	if err != nil {
		return nil, err
	}
	outShape, run := walk(node, axSet, keepDims)
	n := ndar.NItems(outShape)
	counts := make([]int64, n)
	srcDT := node.DType()
	run(func(outIdx int, elem []byte) {
		if truthyOf(elem, srcDT) {
			counts[outIdx]++
		}
	})
	out, err := ndar.NewEmpty(outShape, dtype.Int64)
	if err != nil {
		return nil, err
	}
	dst := out.Data()
	for i, v := range counts {
		ndar.SetAt[int64](dst, i*8, v)
	}
	return out, nil
}

func truthyOf(elem []byte, dt dtype.DType) bool {
	if dt.IsFloat() {
		return convert.ReadAs[float64](elem, 0, dt) != 0
	}
	return convert.ReadAs[int64](elem, 0, dt) != 0
}

func writeAll(out *ndar.Node, vals []float64) {
	dt := out.DType()
	dst := out.Data()
	itemsize := dt.Size()
	for i, v := range vals {
		convert.WriteAs[float64](dst, i*itemsize, dt, v)
	}
}
