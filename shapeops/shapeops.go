// Package shapeops implements the shape-manipulation view operations of
// spec.md §4.7: reshape, ravel/flatten, the transposition family, squeeze,
// expand_dims, and resize.
//
// Reshape, the transposition family, ExpandDims, and Squeeze follow one rule
// (spec §4.7): if copy is requested and the Node is the sole live reference
// to its buffer, it is mutated in place; otherwise a new child view is
// returned whose base is the original Node. Ravel, Flatten, and Resize take
// no copy flag; their behavior is described on each function.
package shapeops

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/nerr"
)

var (
	ErrAxisRange     = errors.New("shapeops: axis out of range")
	ErrDuplicateAxis = errors.New("shapeops: duplicate axis")
	ErrNotContiguous = errors.New("shapeops: reshape requires contiguous input")
	ErrItemsMismatch = errors.New("shapeops: item count changed")
)

func checkAxis(axis, ndim int) error {
	if axis < 0 || axis >= ndim {
		return nerr.Mirror(nerr.Index, fmt.Errorf("shapeops: axis %d out of range [0,%d): %w", axis, ndim, ErrAxisRange))
	}
	return nil
}

// viewOrMutate applies the copy-in-place-or-view rule uniformly.
func viewOrMutate(node *ndar.Node, shape, strides []int, copyFlag bool) (*ndar.Node, error) {
	if copyFlag && node.CanMutateInPlace() {
		node.SetShapeStrides(shape, strides)
		return node, nil
	}
	return ndar.NewChild(node, shape, strides, 0)
}

// Reshape returns a Node of newShape sharing node's data, requiring node be
// contiguous and NItems(newShape) == node.NItems() (spec §4.7: a
// non-contiguous reshape must fall back to a copy, performed by the caller
// via Copy + Reshape).
func Reshape(node *ndar.Node, newShape []int, copyFlag bool) (*ndar.Node, error) {
	if !node.IsContiguous() {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("shapeops: Reshape: %w", ErrNotContiguous))
	}
	if ndar.NItems(newShape) != node.NItems() {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("shapeops: Reshape %v -> %v changes item count: %w", node.Shape(), newShape, ErrItemsMismatch))
	}
	strides := ndar.CalcStrides(newShape, node.DType().Size())
	return viewOrMutate(node, newShape, strides, copyFlag)
}

// Ravel returns a 1-D view if node is contiguous, otherwise an owning 1-D
// copy (spec §4.7).
func Ravel(node *ndar.Node) (*ndar.Node, error) {
	flat := []int{node.NItems()}
	if node.IsContiguous() {
		strides := ndar.CalcStrides(flat, node.DType().Size())
		return ndar.NewChild(node, flat, strides, 0)
	}
	copied, err := ndar.Copy(nil, node)
	if err != nil {
		return nil, err
	}
	return Reshape(copied, flat, true)
}

// Flatten always returns an owning, contiguous 1-D array (the copying twin
// of Ravel).
func Flatten(node *ndar.Node) (*ndar.Node, error) {
	copied, err := ndar.Copy(nil, node)
	if err != nil {
		return nil, err
	}
	return Reshape(copied, []int{node.NItems()}, true)
}

func permuted(shape, strides, order []int) (newShape, newStrides []int) {
	nd := len(order)
	newShape = make([]int, nd)
	newStrides = make([]int, nd)
	for i, ax := range order {
		newShape[i] = shape[ax]
		newStrides[i] = strides[ax]
	}
	return
}

// PermuteDims reorders node's axes according to order, a permutation of
// [0, ndim). Duplicate axes are a Value error.
func PermuteDims(node *ndar.Node, order []int, copyFlag bool) (*ndar.Node, error) {
	nd := node.NDim()
	if len(order) != nd {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("shapeops: PermuteDims order length %d != ndim %d: %w", len(order), nd, ErrAxisRange))
	}
	seen := make([]bool, nd)
	for _, ax := range order {
		if err := checkAxis(ax, nd); err != nil {
			return nil, err
		}
		if seen[ax] {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("shapeops: PermuteDims duplicate axis %d: %w", ax, ErrDuplicateAxis))
		}
		seen[ax] = true
	}
	shape, strides := permuted(node.Shape(), node.Strides(), order)
	return viewOrMutate(node, shape, strides, copyFlag)
}

// Transpose reverses all axes (the ndim == 2 case is the familiar matrix
// transpose; this generalizes to any ndim per numpy-style convention).
func Transpose(node *ndar.Node, copyFlag bool) (*ndar.Node, error) {
	nd := node.NDim()
	order := make([]int, nd)
	for i := range order {
		order[i] = nd - 1 - i
	}
	return PermuteDims(node, order, copyFlag)
}

// MatrixTranspose swaps the last two axes of a strictly 2-D node.
func MatrixTranspose(node *ndar.Node, copyFlag bool) (*ndar.Node, error) {
	if node.NDim() != 2 {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("shapeops: MatrixTranspose requires ndim==2, got %d: %w", node.NDim(), ErrAxisRange))
	}
	return PermuteDims(node, []int{1, 0}, copyFlag)
}

// Swapaxes exchanges axes a1 and a2.
func Swapaxes(node *ndar.Node, a1, a2 int, copyFlag bool) (*ndar.Node, error) {
	nd := node.NDim()
	if err := checkAxis(a1, nd); err != nil {
		return nil, err
	}
	if err := checkAxis(a2, nd); err != nil {
		return nil, err
	}
	order := make([]int, nd)
	for i := range order {
		order[i] = i
	}
	order[a1], order[a2] = order[a2], order[a1]
	return PermuteDims(node, order, copyFlag)
}

// Moveaxis relocates axis src to position dst, shifting intervening axes.
func Moveaxis(node *ndar.Node, src, dst int, copyFlag bool) (*ndar.Node, error) {
	nd := node.NDim()
	if err := checkAxis(src, nd); err != nil {
		return nil, err
	}
	if err := checkAxis(dst, nd); err != nil {
		return nil, err
	}
	order := make([]int, 0, nd)
	for i := 0; i < nd; i++ {
		if i != src {
			order = append(order, i)
		}
	}
	out := make([]int, 0, nd)
	out = append(out, order[:dst]...)
	out = append(out, src)
	out = append(out, order[dst:]...)
	return PermuteDims(node, out, copyFlag)
}

// Rollaxis moves axis to before position start (numpy's legacy rollaxis
// semantics).
func Rollaxis(node *ndar.Node, axis, start int, copyFlag bool) (*ndar.Node, error) {
	nd := node.NDim()
	if err := checkAxis(axis, nd); err != nil {
		return nil, err
	}
	if start < 0 || start > nd {
		return nil, nerr.Mirror(nerr.Index, fmt.Errorf("shapeops: Rollaxis start %d out of range [0,%d]: %w", start, nd, ErrAxisRange))
	}
	if axis < start {
		start--
	}
	return Moveaxis(node, axis, start, copyFlag)
}

// ExpandDims inserts a length-1 axis at position axis (spec §4.7: axis in
// [0, ndim] since it is an insertion point, not an existing axis).
func ExpandDims(node *ndar.Node, axis int, copyFlag bool) (*ndar.Node, error) {
	nd := node.NDim()
	if axis < 0 || axis > nd {
		return nil, nerr.Mirror(nerr.Index, fmt.Errorf("shapeops: ExpandDims axis %d out of range [0,%d]: %w", axis, nd, ErrAxisRange))
	}
	shape := node.Shape()
	strides := node.Strides()
	newShape := make([]int, 0, nd+1)
	newStrides := make([]int, 0, nd+1)
	newShape = append(newShape, shape[:axis]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[axis:]...)
	// The inserted stride is never read (extent is 1); using the neighbor's
	// stride keeps contiguity detection accurate when possible.
	insertStride := node.DType().Size()
	if axis < len(strides) {
		insertStride = strides[axis]
	} else if len(strides) > 0 {
		insertStride = strides[len(strides)-1]
	}
	newStrides = append(newStrides, strides[:axis]...)
	newStrides = append(newStrides, insertStride)
	newStrides = append(newStrides, strides[axis:]...)
	return viewOrMutate(node, newShape, newStrides, copyFlag)
}

// Squeeze drops every length-1 axis; a fully-squeezed array becomes 0-D.
func Squeeze(node *ndar.Node, copyFlag bool) (*ndar.Node, error) {
	shape := node.Shape()
	strides := node.Strides()
	newShape := make([]int, 0, len(shape))
	newStrides := make([]int, 0, len(shape))
	for i, s := range shape {
		if s != 1 {
			newShape = append(newShape, s)
			newStrides = append(newStrides, strides[i])
		}
	}
	return viewOrMutate(node, newShape, newStrides, copyFlag)
}

// Resize allocates a new contiguous buffer of newShape's total size, copies
// min(old,new) elements in row-major order (via a strided iterator if node
// is non-contiguous), and zero-fills any remainder. It always produces an
// owning Node (spec §4.7).
func Resize(node *ndar.Node, newShape []int) (*ndar.Node, error) {
	out, err := ndar.NewEmpty(newShape, node.DType())
	if err != nil {
		return nil, err
	}
	itemsize := node.DType().Size()
	n := out.NItems()
	if node.NItems() < n {
		n = node.NItems()
	}
	if node.IsContiguous() {
		copy(out.Data(), node.Data()[:n*itemsize])
		return out, nil
	}
	it := ndar.NewIter(node)
	dstBuf := out.Data()
	for i := 0; i < n && it.NotDone(); i++ {
		copy(dstBuf[i*itemsize:(i+1)*itemsize], it.Item())
		it.Next()
	}
	return out, nil
}
