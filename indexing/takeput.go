package indexing

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/nerr"
)

// Mode selects the out-of-bounds policy for Take and Put (spec §4.8).
type Mode int

const (
	// ModeError raises an Index error for any index still out of range
	// after the single negative-wrap normalization all three modes share.
	ModeError Mode = iota
	// ModeWrap wraps out-of-range indices modulo the axis size.
	ModeWrap
	// ModeClamp clamps out-of-range indices into [0, axisSize-1].
	ModeClamp
)

var ErrNotContiguous = errors.New("indexing: Put requires a contiguous node")

// resolveIndex applies the single negative-wrap normalization common to
// every mode, then — if still out of [0, axisSize) — applies mode's policy.
func resolveIndex(raw int64, axisSize int, mode Mode) (int64, error) {
	wrapped := raw
	if wrapped < 0 {
		wrapped += int64(axisSize)
	}
	if wrapped >= 0 && wrapped < int64(axisSize) {
		return wrapped, nil
	}
	switch mode {
	case ModeWrap:
		m := raw % int64(axisSize)
		if m < 0 {
			m += int64(axisSize)
		}
		return m, nil
	case ModeClamp:
		if raw < 0 {
			return 0, nil
		}
		return int64(axisSize - 1), nil
	default:
		return 0, nerr.Mirror(nerr.Index, fmt.Errorf("indexing: index %d out of bounds for axis size %d: %w", raw, axisSize, ErrIndexOutOfBounds))
	}
}

// Take gathers node's elements at indices along axis (default -1, the last
// axis), honoring mode's out-of-bounds policy. It is IndexWithIntArray with
// a configurable bounds policy; IndexWithIntArray is Take with mode=ModeError
// (spec §4.8: "Take ... Otherwise identical [to index_with_int_array]").
func Take(node *ndar.Node, indices *ndar.NArray, axis int, mode Mode) (*ndar.Node, error) {
	if err := requireInt64(indices); err != nil {
		return nil, err
	}
	axis, err := normalizeAxis(axis, node.NDim())
	if err != nil {
		return nil, err
	}
	axisSize := node.Shape()[axis]
	outerShape := append([]int(nil), node.Shape()[:axis]...)
	innerShape := append([]int(nil), node.Shape()[axis+1:]...)
	idxShape := indices.Shape()

	outShape := make([]int, 0, len(outerShape)+len(idxShape)+len(innerShape))
	outShape = append(outShape, outerShape...)
	outShape = append(outShape, idxShape...)
	outShape = append(outShape, innerShape...)

	out, err := ndar.NewEmpty(outShape, node.DType())
	if err != nil {
		return nil, err
	}
	itemsize := node.DType().Size()
	dst := out.Data()
	dstOff := 0

	outerIt := ndar.NewCoordIter(outerShape)
	for outerIt.Next() {
		outerCoord := append([]int(nil), outerIt.Coord()...)

		idxIt := ndar.NewCoordIter(idxShape)
		for idxIt.Next() {
			off := ndar.LinearByteOffset(idxIt.Coord(), indices.Strides())
			raw := ndar.GetAt[int64](indices.Data(), off)
			resolved, err := resolveIndex(raw, axisSize, mode)
			if err != nil {
				return nil, err
			}

			innerIt := ndar.NewCoordIter(innerShape)
			for innerIt.Next() {
				srcCoord := make([]int, 0, len(outerCoord)+1+len(innerShape))
				srcCoord = append(srcCoord, outerCoord...)
				srcCoord = append(srcCoord, int(resolved))
				srcCoord = append(srcCoord, innerIt.Coord()...)
				srcOff := ndar.LinearByteOffset(srcCoord, node.Strides())
				copy(dst[dstOff:dstOff+itemsize], node.Data()[srcOff:srcOff+itemsize])
				dstOff += itemsize
			}
		}
	}
	return out, nil
}

// IndexWithIntArray gathers node's elements at indices along axis (default
// -1), raising an Index error on any out-of-bounds index after the single
// negative wrap (spec §4.8).
func IndexWithIntArray(node *ndar.Node, indices *ndar.NArray, axis int) (*ndar.Node, error) {
	return Take(node, indices, axis, ModeError)
}

// Put assigns values into node at the flattened positions named by indices,
// honoring mode's out-of-bounds policy. node must be contiguous (Put is
// documented as "flatten-index assignment into a contiguous node", spec
// §4.8). values must have node's dtype and either indices.Size() elements
// or exactly 1 (broadcasting the single value to every selected position).
func Put(node *ndar.Node, indices *ndar.NArray, values *ndar.Node, mode Mode) error {
	if err := requireInt64(indices); err != nil {
		return err
	}
	if !node.IsContiguous() {
		return nerr.Mirror(nerr.Value, fmt.Errorf("indexing: %w", ErrNotContiguous))
	}
	if values.DType() != node.DType() {
		return nerr.Mirror(nerr.Type, fmt.Errorf("indexing: Put dtype mismatch node=%s values=%s: %w", node.DType(), values.DType(), ErrDTypeMismatch))
	}

	n := indices.Size()
	valuesCount := values.NItems()
	broadcastScalar := valuesCount == 1
	if !broadcastScalar && valuesCount != n {
		return nerr.Mirror(nerr.Value, fmt.Errorf("indexing: Put values length %d matches neither indices length %d nor 1: %w", valuesCount, n, ErrValuesMismatch))
	}

	itemsize := node.DType().Size()
	nitems := node.NItems()
	dst := node.Data()

	var valuesIt *ndar.NIter
	if !broadcastScalar {
		valuesIt = ndar.NewIter(values)
	}

	idxIt := ndar.NewCoordIter(indices.Shape())
	for idxIt.Next() {
		off := ndar.LinearByteOffset(idxIt.Coord(), indices.Strides())
		raw := ndar.GetAt[int64](indices.Data(), off)
		resolved, err := resolveIndex(raw, nitems, mode)
		if err != nil {
			return err
		}

		var src []byte
		if broadcastScalar {
			src = values.Data()[:itemsize]
		} else {
			src = valuesIt.Item()
			valuesIt.Next()
		}
		dstOff := int(resolved) * itemsize
		copy(dst[dstOff:dstOff+itemsize], src)
	}
	return nil
}
