package ndar

import (
	"fmt"

	"github.com/katalvlaran/nour/nerr"
)

// NWindowIter iterates sliding-window origins over a Node, with a nested
// iteration over each window's elements (spec §4.4). For axis i, a window of
// WindowShape[i] elements, dilated by Dilation[i] and advanced origin-to-
// origin by Stride[i], is visited at every valid origin in row-major order.
type NWindowIter struct {
	base        *Node
	windowShape []int
	strideFac   []int
	dilation    []int
	originShape []int // number of valid window origins per axis
	originIt    *coordIter
	curOrigin   []int
	done        bool
}

// WindowIterInit builds an NWindowIter over node with the given per-axis
// window size, origin-to-origin stride factor, and dilation. It fails with
// ErrShapeMismatch (taxonomy Value) when any axis is shorter than the
// dilated window, matching spec §4.4.
func WindowIterInit(node *Node, windowShape, strideFactor, dilation []int) (*NWindowIter, error) {
	nd := node.NDim()
	if len(windowShape) != nd || len(strideFactor) != nd || len(dilation) != nd {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: window iterator arity mismatch for ndim %d: %w", nd, ErrShapeMismatch))
	}
	originShape := make([]int, nd)
	for i := 0; i < nd; i++ {
		dilated := (windowShape[i]-1)*dilation[i] + 1
		if dilated > node.shape[i] {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: axis %d length %d shorter than dilated window %d: %w", i, node.shape[i], dilated, ErrShapeMismatch))
		}
		span := node.shape[i] - dilated
		originShape[i] = span/strideFactor[i] + 1
	}
	return &NWindowIter{
		base:        node,
		windowShape: append([]int(nil), windowShape...),
		strideFac:   append([]int(nil), strideFactor...),
		dilation:    append([]int(nil), dilation...),
		originShape: originShape,
		originIt:    newCoordIter(originShape),
	}, nil
}

// NextOrigin advances to the next window origin, returning false once every
// origin has been visited.
func (w *NWindowIter) NextOrigin() bool {
	if !w.originIt.next() {
		w.done = true
		return false
	}
	w.curOrigin = w.originIt.coord
	return true
}

// OriginCoord returns the base-array coordinate of the current window's
// first element (origin * strideFactor, per axis).
func (w *NWindowIter) OriginCoord() []int {
	coord := make([]int, len(w.curOrigin))
	for i, o := range w.curOrigin {
		coord[i] = o * w.strideFac[i]
	}
	return coord
}

// WindowIter returns an NIter walking the current window's elements in
// row-major order, with dilation applied to the per-axis stride.
func (w *NWindowIter) WindowIter() *NIter {
	origin := w.OriginCoord()
	itemsize := w.base.dt.Size()
	offset := 0
	for i, c := range origin {
		offset += c * w.base.strides[i]
	}
	strides := make([]int, len(w.windowShape))
	for i, s := range w.base.strides {
		strides[i] = s * w.dilation[i]
	}
	it := &NIter{}
	it.Init(w.base.data[offset:], itemsize, w.windowShape, strides)
	return it
}
