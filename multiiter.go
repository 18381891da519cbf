package ndar

import (
	"fmt"

	"github.com/katalvlaran/nour/nerr"
)

// NMultiIter broadcasts up to MaxMultiIter input arrays over a common output
// shape (spec §4.4). It holds one internal NIter per input, each built with
// the input's broadcast strides over the common output shape, so item(i)
// simply forwards to that input's current pointer.
type NMultiIter struct {
	iters    []*NIter
	outShape []int
	index    int
	nitems   int
}

// MultiIterInitFromNodes resolves a common broadcast shape for nodes and
// builds an NMultiIter over them.
func MultiIterInitFromNodes(nodes ...*Node) (*NMultiIter, error) {
	if len(nodes) > MaxMultiIter {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: %d inputs exceeds MaxMultiIter %d: %w", len(nodes), MaxMultiIter, ErrShapeMismatch))
	}
	shapes := make([][]int, len(nodes))
	for i, node := range nodes {
		shapes[i] = node.shape
	}
	outShape, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}

	mi := &NMultiIter{outShape: outShape, nitems: NItems(outShape)}
	for _, node := range nodes {
		bstrides := BroadcastStrides(node.shape, node.strides, outShape)
		it := &NIter{}
		it.Init(node.data, node.dt.Size(), outShape, bstrides)
		mi.iters = append(mi.iters, it)
	}
	return mi, nil
}

// MultiIterInit builds an NMultiIter directly from (data, itemsize, shape,
// strides) quadruples, independent of Node.
func MultiIterInit(outShape []int, inputs []struct {
	Data     []byte
	ItemSize int
	Shape    []int
	Strides  []int
}) *NMultiIter {
	mi := &NMultiIter{outShape: outShape, nitems: NItems(outShape)}
	for _, in := range inputs {
		bstrides := BroadcastStrides(in.Shape, in.Strides, outShape)
		it := &NIter{}
		it.Init(in.Data, in.ItemSize, outShape, bstrides)
		mi.iters = append(mi.iters, it)
	}
	return mi
}

// OutShape returns the resolved broadcast output shape.
func (mi *NMultiIter) OutShape() []int { return mi.outShape }

// NotDone reports whether more output positions remain.
func (mi *NMultiIter) NotDone() bool { return mi.index < mi.nitems }

// Item returns the current element bytes of input i.
func (mi *NMultiIter) Item(i int) []byte { return mi.iters[i].Item() }

// Next advances every input iterator by one output position.
func (mi *NMultiIter) Next() {
	mi.index++
	for _, it := range mi.iters {
		it.Next()
	}
}

// Reset rewinds every input iterator to the first output position.
func (mi *NMultiIter) Reset() {
	mi.index = 0
	for _, it := range mi.iters {
		it.Reset()
	}
}
