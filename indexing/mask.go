package indexing

import (
	"fmt"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

// BooleanMask selects the elements of node whose corresponding mask element
// is true, returning a new 1-D contiguous Node of node's dtype (spec §4.8).
// mask must be dtype Bool and have node's exact shape.
func BooleanMask(node, mask *ndar.Node) (*ndar.Node, error) {
	if mask.DType() != dtype.Bool {
		return nil, nerr.Mirror(nerr.Type, fmt.Errorf("indexing: BooleanMask requires a bool mask, got %s: %w", mask.DType(), ErrDTypeMismatch))
	}
	if !ndar.SameShape(node, mask) {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: BooleanMask shape mismatch node=%v mask=%v: %w", node.Shape(), mask.Shape(), ErrShapeMismatch))
	}

	maskIt := ndar.NewIter(mask)
	count := 0
	for maskIt.NotDone() {
		if ndar.GetAt[bool](maskIt.Item(), 0) {
			count++
		}
		maskIt.Next()
	}

	out, err := ndar.NewEmpty([]int{count}, node.DType())
	if err != nil {
		return nil, err
	}

	itemsize := node.DType().Size()
	nodeIt := ndar.NewIter(node)
	maskIt.Reset()
	dst := out.Data()
	w := 0
	for nodeIt.NotDone() {
		if ndar.GetAt[bool](maskIt.Item(), 0) {
			copy(dst[w*itemsize:(w+1)*itemsize], nodeIt.Item())
			w++
		}
		nodeIt.Next()
		maskIt.Next()
	}
	return out, nil
}

// IndexWithBooleanArray is the NArray-mask counterpart of BooleanMask: mask
// must share node's exact shape, and the output is a 1-D contiguous array of
// the selected elements.
func IndexWithBooleanArray(node *ndar.Node, mask *ndar.NArray) (*ndar.Node, error) {
	if mask.DType() != dtype.Bool {
		return nil, nerr.Mirror(nerr.Type, fmt.Errorf("indexing: IndexWithBooleanArray requires a bool mask, got %s: %w", mask.DType(), ErrDTypeMismatch))
	}
	if len(mask.Shape()) != node.NDim() {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: IndexWithBooleanArray ndim mismatch: %w", ErrShapeMismatch))
	}
	for i, s := range mask.Shape() {
		if s != node.Shape()[i] {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("indexing: IndexWithBooleanArray shape mismatch node=%v mask=%v: %w", node.Shape(), mask.Shape(), ErrShapeMismatch))
		}
	}

	maskNode, err := mask.ToNode()
	if err != nil {
		return nil, err
	}
	return BooleanMask(node, maskNode)
}
