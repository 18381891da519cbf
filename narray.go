package ndar

import (
	"fmt"

	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

// NArray is a lean, non-refcounted descriptor for ephemeral index/mask
// arrays (spec §3.3). It does not participate in Node's refcounting and has
// no base; integer-index and boolean-mask inputs to indexing operations
// carry NArray instead of full Node overhead.
type NArray struct {
	data       []byte
	dt         dtype.DType
	shape      []int
	strides    []int
	size       int
	ownsData    bool
	ownsShape   bool
	ownsStrides bool
}

// DType returns the element dtype.
func (a *NArray) DType() dtype.DType { return a.dt }

// NDim returns the number of axes.
func (a *NArray) NDim() int { return len(a.shape) }

// Shape returns the axis extents (not a defensive copy; treat as read-only).
func (a *NArray) Shape() []int { return a.shape }

// Strides returns the per-axis byte strides (not a defensive copy).
func (a *NArray) Strides() []int { return a.strides }

// Size returns the total element count.
func (a *NArray) Size() int { return a.size }

// Data exposes the backing byte buffer.
func (a *NArray) Data() []byte { return a.data }

// IsContiguous reports whether strides match the C-order layout for shape.
func (a *NArray) IsContiguous() bool {
	want := CalcStrides(a.shape, a.dt.Size())
	if len(want) != len(a.strides) {
		return false
	}
	for i := range want {
		if want[i] != a.strides[i] {
			return false
		}
	}
	return true
}

// NewNArray builds an NArray that borrows data and shape (its owns_* flags
// are all unset) and computes C-order strides for shape; callers that want
// NArray to own its storage should use NewEmptyNArray or Copy.
func NewNArray(data []byte, shape []int, dt dtype.DType) (*NArray, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	size := NItems(shape)
	need := size * dt.Size()
	if len(data) < need {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("narray: buffer too small: have %d want %d: %w", len(data), need, ErrShapeMismatch))
	}
	return &NArray{
		data:    data[:need],
		dt:      dt,
		shape:   shape,
		strides: CalcStrides(shape, dt.Size()),
		size:    size,
	}, nil
}

// NewEmptyNArray allocates a zero-initialized, owning, contiguous NArray.
func NewEmptyNArray(shape []int, dt dtype.DType) (*NArray, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	size := NItems(shape)
	data := make([]byte, size*dt.Size())
	return &NArray{
		data:        data,
		dt:          dt,
		shape:       append([]int(nil), shape...),
		strides:     CalcStrides(shape, dt.Size()),
		size:        size,
		ownsData:    true,
		ownsShape:   true,
		ownsStrides: true,
	}, nil
}

// FromNode builds a borrowing NArray view over node's current buffer, shape,
// and strides. It does not increment node's refcount; the caller must keep
// node alive for as long as the NArray is used.
func FromNode(node *Node) *NArray {
	return &NArray{
		data:    node.data,
		dt:      node.dt,
		shape:   node.shape,
		strides: node.strides,
		size:    node.NItems(),
	}
}

// FromIntArray builds a contiguous int64 NArray from a flat slice of Go ints,
// shaped as shape.
func FromIntArray(values []int64, shape []int) (*NArray, error) {
	a, err := NewEmptyNArray(shape, dtype.Int64)
	if err != nil {
		return nil, err
	}
	if len(values) < a.size {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("narray: FromIntArray: have %d values want %d: %w", len(values), a.size, ErrShapeMismatch))
	}
	for i := 0; i < a.size; i++ {
		SetAt[int64](a.data, i*8, values[i])
	}
	return a, nil
}

// FromBoolArray builds a contiguous bool NArray from a flat slice, shaped as
// shape.
func FromBoolArray(values []bool, shape []int) (*NArray, error) {
	a, err := NewEmptyNArray(shape, dtype.Bool)
	if err != nil {
		return nil, err
	}
	if len(values) < a.size {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("narray: FromBoolArray: have %d values want %d: %w", len(values), a.size, ErrShapeMismatch))
	}
	for i := 0; i < a.size; i++ {
		if values[i] {
			a.data[i] = 1
		}
	}
	return a, nil
}

// ToNode copies an NArray into an owning Node of the same shape and dtype.
func (a *NArray) ToNode() (*Node, error) {
	n, err := NewEmpty(a.shape, a.dt)
	if err != nil {
		return nil, err
	}
	if a.IsContiguous() {
		copy(n.data, a.data[:len(n.data)])
		return n, nil
	}
	itemsize := a.dt.Size()
	it := newCoordIter(a.shape)
	i := 0
	for it.next() {
		off := linearByteOffset(it.coord, a.strides)
		copy(n.data[i*itemsize:(i+1)*itemsize], a.data[off:off+itemsize])
		i++
	}
	return n, nil
}

// GetItem returns the raw bytes of the element at the given flat (row-major)
// index.
func (a *NArray) GetItem(flatIndex int) []byte {
	if a.IsContiguous() {
		sz := a.dt.Size()
		return a.data[flatIndex*sz : (flatIndex+1)*sz]
	}
	coord := unflatten(flatIndex, a.shape)
	off := linearByteOffset(coord, a.strides)
	sz := a.dt.Size()
	return a.data[off : off+sz]
}

// Copy returns a deep, owning copy of a.
func (a *NArray) Copy() (*NArray, error) {
	out, err := NewEmptyNArray(a.shape, a.dt)
	if err != nil {
		return nil, err
	}
	if a.IsContiguous() {
		copy(out.data, a.data[:len(out.data)])
		return out, nil
	}
	itemsize := a.dt.Size()
	it := newCoordIter(a.shape)
	i := 0
	for it.next() {
		off := linearByteOffset(it.coord, a.strides)
		copy(out.data[i*itemsize:(i+1)*itemsize], a.data[off:off+itemsize])
		i++
	}
	return out, nil
}

// Free releases an owning NArray's fields. NArray is not refcounted; Free is
// a one-shot release matching the "owns_*" flags described in spec §3.3.
func (a *NArray) Free() {
	if a.ownsData {
		a.data = nil
	}
	if a.ownsShape {
		a.shape = nil
	}
	if a.ownsStrides {
		a.strides = nil
	}
}
