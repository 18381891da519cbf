// Package convert implements the closed dtype × dtype type-conversion matrix
// described in spec.md §4.6.
//
// The original specifies this as a generated N×N table of copy/cast kernels;
// spec.md §9 calls for collapsing that generated code into "a monomorphic
// generic kernel parameterised over (src_ty, dst_ty); instantiate via the
// target language's generics or macro facility... a runtime dispatch table
// remains... but its entries are generated at compile time." This package
// does exactly that: one generic cast function plus two small dispatch
// switches (one per source dtype, routing to the destination) replace the
// 121-cell table, grounded in the same "dispatch on a type switch to a
// generic numeric conversion" idiom used for dtype conversion elsewhere in
// this corpus (itohio-EasyRobot's mt.ElemConvert/elemConvertNumeric).
package convert

import (
	"fmt"
	"math"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

// Numeric is every dtype's Go representation except bool, which converts to
// and from the others by the "0/1, x != 0" rule (spec §4.6) rather than a
// numeric cast.
type Numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// CastNumeric converts v to Dst using the target-language primitive cast:
// standard widening/narrowing for ints, truncation for int-from-float. A NaN
// source converts to the zero value rather than raising or trapping,
// matching spec §4.6 ("NaN cast to integer yields zero and must not raise").
func CastNumeric[Dst, Src Numeric](v Src) Dst {
	switch sv := any(v).(type) {
	case float64:
		if math.IsNaN(sv) {
			return Dst(0)
		}
	case float32:
		if math.IsNaN(float64(sv)) {
			return Dst(0)
		}
	}
	return Dst(v)
}

// boolToNumeric implements bool-to-numeric casting: true -> 1, false -> 0.
func boolToNumeric[Dst Numeric](v bool) Dst {
	if v {
		return Dst(1)
	}
	return Dst(0)
}

// numericToBool implements numeric-to-bool casting: x != 0.
func numericToBool[Src Numeric](v Src) bool {
	return v != 0
}

// setFromNumeric writes CastNumeric(v) into dst at dstOff, resolving the
// destination's concrete Go type from dstDT. This is the generic kernel that
// spec §9 asks the generated N-cell row to collapse into.
func setFromNumeric[Src Numeric](dst []byte, dstOff int, dstDT dtype.DType, v Src) {
	switch dstDT {
	case dtype.Bool:
		ndar.SetAt[bool](dst, dstOff, numericToBool(v))
	case dtype.Int8:
		ndar.SetAt[int8](dst, dstOff, CastNumeric[int8](v))
	case dtype.Uint8:
		ndar.SetAt[uint8](dst, dstOff, CastNumeric[uint8](v))
	case dtype.Int16:
		ndar.SetAt[int16](dst, dstOff, CastNumeric[int16](v))
	case dtype.Uint16:
		ndar.SetAt[uint16](dst, dstOff, CastNumeric[uint16](v))
	case dtype.Int32:
		ndar.SetAt[int32](dst, dstOff, CastNumeric[int32](v))
	case dtype.Uint32:
		ndar.SetAt[uint32](dst, dstOff, CastNumeric[uint32](v))
	case dtype.Int64:
		ndar.SetAt[int64](dst, dstOff, CastNumeric[int64](v))
	case dtype.Uint64:
		ndar.SetAt[uint64](dst, dstOff, CastNumeric[uint64](v))
	case dtype.Float32:
		ndar.SetAt[float32](dst, dstOff, CastNumeric[float32](v))
	case dtype.Float64:
		ndar.SetAt[float64](dst, dstOff, CastNumeric[float64](v))
	}
}

// convertElem copies one element from src at srcOff (dtype srcDT) to dst at
// dstOff (dtype dstDT). This is the (dst,src) matrix cell lookup: the outer
// switch picks the source's Go type (10 numeric cases plus bool), the inner
// setFromNumeric/bool path picks the destination's.
func convertElem(dst []byte, dstOff int, dstDT dtype.DType, src []byte, srcOff int, srcDT dtype.DType) {
	switch srcDT {
	case dtype.Bool:
		v := ndar.GetAt[bool](src, srcOff)
		if dstDT == dtype.Bool {
			ndar.SetAt[bool](dst, dstOff, v)
			return
		}
		switch dstDT {
		case dtype.Int8:
			ndar.SetAt[int8](dst, dstOff, boolToNumeric[int8](v))
		case dtype.Uint8:
			ndar.SetAt[uint8](dst, dstOff, boolToNumeric[uint8](v))
		case dtype.Int16:
			ndar.SetAt[int16](dst, dstOff, boolToNumeric[int16](v))
		case dtype.Uint16:
			ndar.SetAt[uint16](dst, dstOff, boolToNumeric[uint16](v))
		case dtype.Int32:
			ndar.SetAt[int32](dst, dstOff, boolToNumeric[int32](v))
		case dtype.Uint32:
			ndar.SetAt[uint32](dst, dstOff, boolToNumeric[uint32](v))
		case dtype.Int64:
			ndar.SetAt[int64](dst, dstOff, boolToNumeric[int64](v))
		case dtype.Uint64:
			ndar.SetAt[uint64](dst, dstOff, boolToNumeric[uint64](v))
		case dtype.Float32:
			ndar.SetAt[float32](dst, dstOff, boolToNumeric[float32](v))
		case dtype.Float64:
			ndar.SetAt[float64](dst, dstOff, boolToNumeric[float64](v))
		}
	case dtype.Int8:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[int8](src, srcOff))
	case dtype.Uint8:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[uint8](src, srcOff))
	case dtype.Int16:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[int16](src, srcOff))
	case dtype.Uint16:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[uint16](src, srcOff))
	case dtype.Int32:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[int32](src, srcOff))
	case dtype.Uint32:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[uint32](src, srcOff))
	case dtype.Int64:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[int64](src, srcOff))
	case dtype.Uint64:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[uint64](src, srcOff))
	case dtype.Float32:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[float32](src, srcOff))
	case dtype.Float64:
		setFromNumeric(dst, dstOff, dstDT, ndar.GetAt[float64](src, srcOff))
	}
}

// ReadAs reads the element at byte offset off in data (declared as dt) and
// returns it as T, applying the bool<->numeric rule when dt or T's role is
// bool. Used by mathops and reduce to read a mixed-dtype operand uniformly
// as the kernel's working type.
func ReadAs[T Numeric](data []byte, off int, dt dtype.DType) T {
	switch dt {
	case dtype.Bool:
		return boolToNumeric[T](ndar.GetAt[bool](data, off))
	case dtype.Int8:
		return CastNumeric[T](ndar.GetAt[int8](data, off))
	case dtype.Uint8:
		return CastNumeric[T](ndar.GetAt[uint8](data, off))
	case dtype.Int16:
		return CastNumeric[T](ndar.GetAt[int16](data, off))
	case dtype.Uint16:
		return CastNumeric[T](ndar.GetAt[uint16](data, off))
	case dtype.Int32:
		return CastNumeric[T](ndar.GetAt[int32](data, off))
	case dtype.Uint32:
		return CastNumeric[T](ndar.GetAt[uint32](data, off))
	case dtype.Int64:
		return CastNumeric[T](ndar.GetAt[int64](data, off))
	case dtype.Uint64:
		return CastNumeric[T](ndar.GetAt[uint64](data, off))
	case dtype.Float32:
		return CastNumeric[T](ndar.GetAt[float32](data, off))
	case dtype.Float64:
		return CastNumeric[T](ndar.GetAt[float64](data, off))
	}
	var zero T
	return zero
}

// WriteAs writes v into data at byte offset off as dtype dt, applying the
// bool<->numeric rule when dt is bool.
func WriteAs[T Numeric](data []byte, off int, dt dtype.DType, v T) {
	if dt == dtype.Bool {
		ndar.SetAt[bool](data, off, numericToBool(v))
		return
	}
	setFromNumeric(data, off, dt, v)
}

// ToDType converts src into dst, allocating dst with src's shape if dst is
// nil. If dst is provided it must have src's shape and its own dtype (the
// destination type); a mismatch on either axis is a Value error (spec §4.6).
//
// When src and dst share a dtype the conversion falls through to
// ndar.Copy, per spec §4.6 ("when src and dst dtypes are equal it falls
// through to Node.copy").
//
// The kernel picks one of four paths depending on (dst, src) contiguity:
// a linear index loop when both are contiguous, a single strided iterator
// on whichever side is not contiguous, or dual strided iterators when
// neither is.
func ToDType(dst *ndar.Node, src *ndar.Node, dstDType dtype.DType) (*ndar.Node, error) {
	if dst == nil {
		out, err := ndar.NewEmpty(src.Shape(), dstDType)
		if err != nil {
			return nil, err
		}
		dst = out
	} else {
		if !ndar.SameShape(dst, src) {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("convert: shape mismatch dst=%v src=%v: %w", dst.Shape(), src.Shape(), ndar.ErrShapeMismatch))
		}
		if dst.DType() != dstDType {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("convert: dst dtype %s != requested %s: %w", dst.DType(), dstDType, ndar.ErrDTypeMismatch))
		}
	}

	if dst.DType() == src.DType() {
		return ndar.Copy(dst, src)
	}

	dstItemsize := dst.DType().Size()
	srcItemsize := src.DType().Size()

	switch {
	case dst.IsContiguous() && src.IsContiguous():
		dstBuf, srcBuf := dst.Data(), src.Data()
		n := src.NItems()
		for i := 0; i < n; i++ {
			convertElem(dstBuf, i*dstItemsize, dst.DType(), srcBuf, i*srcItemsize, src.DType())
		}
	case dst.IsContiguous() && !src.IsContiguous():
		srcIt := ndar.NewIter(src)
		dstBuf := dst.Data()
		i := 0
		for srcIt.NotDone() {
			convertElem(dstBuf, i*dstItemsize, dst.DType(), srcIt.Item(), 0, src.DType())
			srcIt.Next()
			i++
		}
	case !dst.IsContiguous() && src.IsContiguous():
		dstIt := ndar.NewIter(dst)
		srcBuf := src.Data()
		i := 0
		for dstIt.NotDone() {
			convertElem(dstIt.Item(), 0, dst.DType(), srcBuf, i*srcItemsize, src.DType())
			dstIt.Next()
			i++
		}
	default:
		dstIt := ndar.NewIter(dst)
		srcIt := ndar.NewIter(src)
		for dstIt.NotDone() && srcIt.NotDone() {
			convertElem(dstIt.Item(), 0, dst.DType(), srcIt.Item(), 0, src.DType())
			dstIt.Next()
			srcIt.Next()
		}
	}
	return dst, nil
}
