// Package indexing implements the slicing and fancy-indexing operations of
// spec.md §4.8: single/multi-axis slicing (views), boolean masking (copy),
// integer/boolean-array (NArray) indexing, advanced multi-axis indexing,
// take, and put.
package indexing

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

var (
	ErrAxisRange      = errors.New("indexing: axis out of range")
	ErrZeroStep       = errors.New("indexing: slice step must not be zero")
	ErrTooManySlices  = errors.New("indexing: more slices than axes")
	ErrDTypeMismatch  = errors.New("indexing: dtype mismatch")
	ErrShapeMismatch  = errors.New("indexing: shape mismatch")
	ErrIndexOutOfBounds = errors.New("indexing: index out of bounds")
	ErrValuesMismatch = errors.New("indexing: values length mismatch")
)

// SliceSpec is one rule of the index rule set (spec §3.4): Start, Stop, Step
// select a sub-axis. A SliceSpec with every field zero means "full range /
// keep this axis" when used inside MultiSlice.
type SliceSpec struct {
	Start, Stop, Step int
}

func isFullRange(s SliceSpec) bool { return s.Start == 0 && s.Stop == 0 && s.Step == 0 }

// normalize resolves Python-slice-style start/stop/step against an axis of
// length dimLen, returning the clamped (start, stop, step) and the resulting
// axis length.
func normalize(spec SliceSpec, dimLen int) (start, stop, step, length int, err error) {
	step = spec.Step
	if step == 0 {
		return 0, 0, 0, 0, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: %w", ErrZeroStep))
	}
	start, stop = spec.Start, spec.Stop
	if start < 0 {
		start += dimLen
	}
	if stop < 0 {
		stop += dimLen
	}
	if step > 0 {
		if start < 0 {
			start = 0
		} else if start > dimLen {
			start = dimLen
		}
		if stop < 0 {
			stop = 0
		} else if stop > dimLen {
			stop = dimLen
		}
		if stop > start {
			length = (stop - start + step - 1) / step
		}
	} else {
		if start < 0 {
			start = -1
		} else if start >= dimLen {
			start = dimLen - 1
		}
		if stop < 0 {
			stop = -1
		} else if stop >= dimLen {
			stop = dimLen - 1
		}
		if start > stop {
			length = (start - stop + (-step) - 1) / (-step)
		}
	}
	return start, stop, step, length, nil
}

// Slice returns a new non-owning view over node along axis dim (spec §4.8):
// negative start/stop are normalized by adding shape[dim], clamped to the
// valid range in the direction of step; step must be nonzero.
func Slice(node *ndar.Node, spec SliceSpec, dim int) (*ndar.Node, error) {
	nd := node.NDim()
	if dim < 0 || dim >= nd {
		return nil, nerr.Mirror(nerr.Index, fmt.Errorf("indexing: Slice axis %d out of range [0,%d): %w", dim, nd, ErrAxisRange))
	}
	dimLen := node.Shape()[dim]
	start, _, step, length, err := normalize(spec, dimLen)
	if err != nil {
		return nil, err
	}

	shape := node.Shape()
	strides := node.Strides()
	origStride := strides[dim]
	shape[dim] = length
	strides[dim] = origStride * step

	offset := 0
	if length > 0 {
		offset = start * origStride
	}
	return ndar.NewChild(node, shape, strides, offset)
}

// MultiSlice applies Slice independently along successive axes: a SliceSpec
// with every field zero keeps that axis untouched ("full range"); fewer
// specs than ndim leaves the trailing axes untouched. len(specs) > ndim is
// an Index error.
func MultiSlice(node *ndar.Node, specs []SliceSpec) (*ndar.Node, error) {
	nd := node.NDim()
	if len(specs) > nd {
		return nil, nerr.Mirror(nerr.Index, fmt.Errorf("indexing: MultiSlice %d specs > ndim %d: %w", len(specs), nd, ErrTooManySlices))
	}
	cur := node
	for axis, spec := range specs {
		if isFullRange(spec) {
			continue
		}
		next, err := Slice(cur, spec, axis)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == node {
		// No axis actually sliced: still hand back a view, per the Node
		// contract that Slice/MultiSlice always produce a view.
		return ndar.NewChild(node, node.Shape(), node.Strides(), 0)
	}
	return cur, nil
}

// normalizeAxis resolves a possibly-negative axis against ndim.
func normalizeAxis(axis, ndim int) (int, error) {
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return 0, nerr.Mirror(nerr.Index, fmt.Errorf("indexing: axis out of range [0,%d): %w", ndim, ErrAxisRange))
	}
	return axis, nil
}

// requireInt64 validates that idx carries int64 indices, as spec §4.8
// requires throughout the fancy-indexing surface.
func requireInt64(idx *ndar.NArray) error {
	if idx.DType() != dtype.Int64 {
		return nerr.Mirror(nerr.Type, fmt.Errorf("indexing: index array must be int64, got %s: %w", idx.DType(), ErrDTypeMismatch))
	}
	return nil
}
