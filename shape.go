package ndar

import (
	"fmt"

	"github.com/katalvlaran/nour/nerr"
)

// MaxMultiIter is the largest number of input arrays an NMultiIter may
// broadcast together (spec §4.4: "MAX_MULTIITER >= 32").
const MaxMultiIter = 32

// ErrNotBroadcastable is returned when a set of shapes cannot be
// right-aligned broadcast together.
var ErrNotBroadcastable = fmt.Errorf("ndar: shapes not broadcastable: %w", ErrShapeMismatch)

// BroadcastShapes resolves a common output shape for shapes by right-aligned
// broadcasting (spec §4.5): axes line up from the trailing (last) dimension;
// an axis of extent 1 is broadcastable against any other extent.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	outNDim := 0
	for _, s := range shapes {
		if len(s) > outNDim {
			outNDim = len(s)
		}
	}
	out := make([]int, outNDim)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		offset := outNDim - len(s)
		for i, extent := range s {
			axis := offset + i
			switch {
			case extent == out[axis] || extent == 1:
				if extent > out[axis] {
					out[axis] = extent
				}
			case out[axis] == 1:
				out[axis] = extent
			default:
				return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: cannot broadcast shapes %v: %w", shapes, ErrNotBroadcastable))
			}
		}
	}
	return out, nil
}

// BroadcastStrides computes the per-axis byte strides a (shape, strides)
// pair must use to be iterated over outShape: axes broadcast from extent 1
// get stride 0 (spec §4.5); axes absent from shape (because outShape has
// more leading axes) also get stride 0.
func BroadcastStrides(shape, strides, outShape []int) []int {
	outND := len(outShape)
	offset := outND - len(shape)
	out := make([]int, outND)
	for axis := 0; axis < outND; axis++ {
		srcAxis := axis - offset
		if srcAxis < 0 {
			out[axis] = 0
			continue
		}
		if shape[srcAxis] == 1 && outShape[axis] != 1 {
			out[axis] = 0
		} else {
			out[axis] = strides[srcAxis]
		}
	}
	return out
}
