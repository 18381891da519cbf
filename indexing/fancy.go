package indexing

import (
	"fmt"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/nerr"
)

// AdvancedIndex gathers node's elements using one int64 NArray per consumed
// axis (spec §4.8). Unlike numpy's general broadcasting rule, every index
// array in indices must share the exact same shape ("stricter than numpy",
// a deliberate simplification recorded in DESIGN.md): there is exactly one
// combined index-shape, not a broadcast of N independent shapes. axes names
// which axis each entry of indices consumes; axes defaults to 0..len(indices)-1
// when nil. The output shape is indices[0].Shape() followed by node's
// remaining (non-indexed) axes in their original relative order.
func AdvancedIndex(node *ndar.Node, indices []*ndar.NArray, axes []int) (*ndar.Node, error) {
	if len(indices) == 0 {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: AdvancedIndex requires at least one index array: %w", ErrShapeMismatch))
	}
	for _, idx := range indices {
		if err := requireInt64(idx); err != nil {
			return nil, err
		}
	}

	nd := node.NDim()
	if axes == nil {
		axes = make([]int, len(indices))
		for i := range axes {
			axes[i] = i
		}
	}
	if len(axes) != len(indices) {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: AdvancedIndex %d axes != %d index arrays: %w", len(axes), len(indices), ErrShapeMismatch))
	}

	resolvedAxes := make([]int, len(axes))
	indexed := make(map[int]bool, len(axes))
	for i, a := range axes {
		ra, err := normalizeAxis(a, nd)
		if err != nil {
			return nil, err
		}
		if indexed[ra] {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: AdvancedIndex axis %d indexed more than once: %w", ra, ErrShapeMismatch))
		}
		indexed[ra] = true
		resolvedAxes[i] = ra
	}

	idxShape := indices[0].Shape()
	for _, idx := range indices[1:] {
		if !shapeEqual(idx.Shape(), idxShape) {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: AdvancedIndex index arrays must share one shape, got %v and %v: %w", idxShape, idx.Shape(), ErrShapeMismatch))
		}
	}

	nonIndexedAxes := make([]int, 0, nd-len(resolvedAxes))
	for a := 0; a < nd; a++ {
		if !indexed[a] {
			nonIndexedAxes = append(nonIndexedAxes, a)
		}
	}
	nonIndexedShape := make([]int, len(nonIndexedAxes))
	for i, a := range nonIndexedAxes {
		nonIndexedShape[i] = node.Shape()[a]
	}

	outShape := make([]int, 0, len(idxShape)+len(nonIndexedShape))
	outShape = append(outShape, idxShape...)
	outShape = append(outShape, nonIndexedShape...)

	out, err := ndar.NewEmpty(outShape, node.DType())
	if err != nil {
		return nil, err
	}
	itemsize := node.DType().Size()
	dst := out.Data()
	dstOff := 0

	axisSizes := make([]int, len(resolvedAxes))
	for i, a := range resolvedAxes {
		axisSizes[i] = node.Shape()[a]
	}

	idxIt := ndar.NewCoordIter(idxShape)
	for idxIt.Next() {
		idxValues := make([]int64, len(indices))
		for k, idx := range indices {
			off := ndar.LinearByteOffset(idxIt.Coord(), idx.Strides())
			raw := ndar.GetAt[int64](idx.Data(), off)
			resolved, err := resolveIndex(raw, axisSizes[k], ModeError)
			if err != nil {
				return nil, err
			}
			idxValues[k] = resolved
		}

		nonIt := ndar.NewCoordIter(nonIndexedShape)
		for nonIt.Next() {
			srcCoord := make([]int, nd)
			for k, a := range resolvedAxes {
				srcCoord[a] = int(idxValues[k])
			}
			for j, a := range nonIndexedAxes {
				srcCoord[a] = nonIt.Coord()[j]
			}
			srcOff := ndar.LinearByteOffset(srcCoord, node.Strides())
			copy(dst[dstOff:dstOff+itemsize], node.Data()[srcOff:srcOff+itemsize])
			dstOff += itemsize
		}
	}
	return out, nil
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
