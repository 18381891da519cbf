// Package ndar implements the strided array core described by this project:
// Node (an owning, reference-counted array descriptor), NArray (a lightweight
// view-only descriptor for index/mask inputs), and the iteration machinery
// (NIter, NMultiIter, NWindowIter) and shape tools every higher layer builds
// on.
//
// Node and NArray live in one package, mirroring lvlath/core keeping Graph,
// Vertex, and Edge together: the types are mutually recursive (an iterator
// is built from a Node; NArray converts to/from Node; shape tools read a
// Node's shape/strides directly) so splitting them would only add import
// plumbing, not clarity.
package ndar

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/nour/dtype"
	"github.com/katalvlaran/nour/nerr"
)

// MaxNDim is the largest number of axes a Node or NArray may carry (spec
// §3.2: "MAX_NDIM >= 32").
const MaxNDim = 32

// Flag is the Node state bitset (spec §3.2).
type Flag uint8

const (
	// FlagOwnData is set when the Node is responsible for releasing data.
	FlagOwnData Flag = 1 << iota
	// FlagContiguous is set when strides match the row-major layout for shape.
	FlagContiguous
	// FlagStrided is set for any addressable (non-contiguous) layout; it is
	// mutually exclusive with FlagContiguous for dispatch purposes, though a
	// contiguous array also satisfies the strided contract (spec §3.2 inv. 2).
	FlagStrided
	// FlagCOrder marks row-major axis ordering.
	FlagCOrder
	// FlagWritable permits in-place mutation.
	FlagWritable
)

// Sentinel errors. Every exported Node function that can fail also mirrors
// its failure into nerr's last-error channel (see nerr.Mirror).
var (
	ErrNDimRange     = errors.New("ndar: ndim out of range")
	ErrNegativeShape = errors.New("ndar: negative shape extent")
	ErrAlloc         = errors.New("ndar: allocation failed")
	ErrShapeMismatch = errors.New("ndar: shape mismatch")
	ErrDTypeMismatch = errors.New("ndar: dtype mismatch")
	ErrAxisRange     = errors.New("ndar: axis out of range")
	ErrDead          = errors.New("ndar: use of a freed node")
)

// Node is an owning, reference-counted strided array descriptor (spec §3.2).
type Node struct {
	data    []byte
	dt      dtype.DType
	shape   []int
	strides []int // byte strides, one per axis
	base    *Node
	refs    int32
	flags   Flag
	name    string
	dead    bool
}

// DType returns the element dtype.
func (n *Node) DType() dtype.DType { return n.dt }

// NDim returns the number of axes.
func (n *Node) NDim() int { return len(n.shape) }

// Shape returns a defensive copy of the axis extents (an empty, non-nil
// slice for a 0-D Node).
func (n *Node) Shape() []int { return append(make([]int, 0, len(n.shape)), n.shape...) }

// Strides returns a defensive copy of the per-axis byte strides.
func (n *Node) Strides() []int { return append([]int(nil), n.strides...) }

// Data exposes the backing byte buffer starting at this Node's origin. It is
// shared with any view built from this Node; callers must not resize it.
func (n *Node) Data() []byte { return n.data }

// Base returns the Node this one is a view over, or nil if it owns its data.
func (n *Node) Base() *Node { return n.base }

// Flags returns the current flag bitset.
func (n *Node) Flags() Flag { return n.flags }

// Name returns the diagnostic label (non-semantic).
func (n *Node) Name() string { return n.name }

// SetName sets the diagnostic label.
func (n *Node) SetName(name string) { n.name = name }

// RefCount returns the current reference count (for tests/diagnostics).
func (n *Node) RefCount() int32 { return n.refs }

// Has reports whether all bits in f are set.
func (fl Flag) Has(f Flag) bool { return fl&f == f }

// IsContiguous reports whether the Node is laid out in C-order contiguous
// strides for its shape and dtype.
func (n *Node) IsContiguous() bool { return n.flags.Has(FlagContiguous) }

// IsScalar reports the canonical scalar shape, ndim == 0 (spec §9 Open
// Question: this project normalizes to ndim==0; see IsScalarLike for the
// alternate convention accepted on input).
func (n *Node) IsScalar() bool { return len(n.shape) == 0 }

// IsScalarLike accepts both scalar conventions discussed in spec §9: ndim==0
// or ndim==1 with shape==[1].
func (n *Node) IsScalarLike() bool {
	if len(n.shape) == 0 {
		return true
	}
	return len(n.shape) == 1 && n.shape[0] == 1
}

// NItems returns product(shape), with the empty product (ndim==0) equal to 1.
func NItems(shape []int) int {
	total := 1
	for _, s := range shape {
		total *= s
	}
	return total
}

// NItems returns the total element count of n.
func (n *Node) NItems() int { return NItems(n.shape) }

// SameShape reports whether a and b have identical ndim and per-axis extents.
func SameShape(a, b *Node) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// CalcStrides computes C-order (row-major) contiguous byte strides for shape
// given an element size (spec §4.5).
func CalcStrides(shape []int, itemsize int) []int {
	nd := len(shape)
	strides := make([]int, nd)
	stride := itemsize
	for i := nd - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

func validateShape(shape []int) error {
	if len(shape) > MaxNDim {
		return nerr.Mirror(nerr.Value, fmt.Errorf("ndar: ndim %d exceeds MaxNDim %d: %w", len(shape), MaxNDim, ErrNDimRange))
	}
	for _, s := range shape {
		if s < 0 {
			return nerr.Mirror(nerr.Value, fmt.Errorf("ndar: negative shape extent in %v: %w", shape, ErrNegativeShape))
		}
	}
	return nil
}

// New constructs a Node over data of the given shape and dtype. If copy is
// true, data is deep-copied into a freshly owned buffer; otherwise the Node
// borrows data directly (useful for zero-copy ingestion of caller buffers)
// and FlagOwnData is left unset. data must be at least NItems(shape)*dtype.Size()
// bytes long.
func New(data []byte, copyData bool, shape []int, dt dtype.DType) (*Node, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	size := NItems(shape) * dt.Size()
	if len(data) < size {
		return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: buffer too small: have %d want %d: %w", len(data), size, ErrShapeMismatch))
	}
	buf := data[:size]
	flags := FlagContiguous | FlagCOrder | FlagWritable
	if copyData {
		owned := make([]byte, size)
		copy(owned, buf)
		buf = owned
		flags |= FlagOwnData
	}
	return &Node{
		data:    buf,
		dt:      dt,
		shape:   append([]int(nil), shape...),
		strides: CalcStrides(shape, dt.Size()),
		refs:    1,
		flags:   flags,
	}, nil
}

// NewEmpty allocates a zero-initialized, owning, contiguous Node of shape
// and dtype dt.
func NewEmpty(shape []int, dt dtype.DType) (*Node, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	size := NItems(shape) * dt.Size()
	data := make([]byte, size)
	return &Node{
		data:    data,
		dt:      dt,
		shape:   append([]int(nil), shape...),
		strides: CalcStrides(shape, dt.Size()),
		refs:    1,
		flags:   FlagOwnData | FlagContiguous | FlagCOrder | FlagWritable,
	}, nil
}

// NewScalar builds a 0-D Node holding a single value encoded in raw (exactly
// dt.Size() bytes).
func NewScalar(raw []byte, dt dtype.DType) (*Node, error) {
	return New(raw, true, nil, dt)
}

// NewChild builds a non-owning view over parent with a custom shape,
// strides, and byte offset (spec §4.3 new_child). It increments parent's
// refcount; the view is marked FlagContiguous only if the resulting strides
// happen to equal the row-major layout for shape.
func NewChild(parent *Node, shape, strides []int, offset int) (*Node, error) {
	if parent.dead {
		return nil, nerr.Mirror(nerr.Runtime, fmt.Errorf("ndar: NewChild: %w", ErrDead))
	}
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(parent.data) {
		return nil, nerr.Mirror(nerr.Index, fmt.Errorf("ndar: child offset %d out of range [0,%d]: %w", offset, len(parent.data), ErrAxisRange))
	}

	flags := FlagCOrder
	if parent.flags.Has(FlagWritable) {
		flags |= FlagWritable
	}
	contig := CalcStrides(shape, parent.dt.Size())
	isContig := len(strides) == len(contig)
	for i := range strides {
		if isContig && strides[i] != contig[i] {
			isContig = false
		}
	}
	if isContig {
		flags |= FlagContiguous
	} else {
		flags |= FlagStrided
	}

	parent.refs++
	return &Node{
		data:    parent.data[offset:],
		dt:      parent.dt,
		shape:   append([]int(nil), shape...),
		strides: append([]int(nil), strides...),
		base:    parent,
		refs:    1,
		flags:   flags,
	}, nil
}

// Free decrements n's refcount. At zero it releases n's shape/strides (and,
// if n owns its buffer, the buffer itself), then propagates the decref to
// n.base if present (spec §4.3, §4.13).
func Free(n *Node) {
	if n == nil || n.dead {
		return
	}
	n.refs--
	if n.refs > 0 {
		return
	}
	n.shape = nil
	n.strides = nil
	if n.flags.Has(FlagOwnData) {
		n.data = nil
	}
	n.dead = true
	if n.base != nil {
		Free(n.base)
		n.base = nil
	}
}

// Copy implements spec §4.3 Node.copy: if dst is nil, allocates an empty
// Node matching src's shape and dtype; otherwise validates same shape and
// same dtype. Byte-copies when both are contiguous; otherwise iterates with
// a strided iterator.
func Copy(dst, src *Node) (*Node, error) {
	if dst == nil {
		out, err := NewEmpty(src.shape, src.dt)
		if err != nil {
			return nil, err
		}
		dst = out
	} else {
		if !SameShape(dst, src) {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: Copy shape mismatch dst=%v src=%v: %w", dst.shape, src.shape, ErrShapeMismatch))
		}
		if dst.dt != src.dt {
			return nil, nerr.Mirror(nerr.Value, fmt.Errorf("ndar: Copy dtype mismatch dst=%s src=%s: %w", dst.dt, src.dt, ErrDTypeMismatch))
		}
	}

	if dst.IsContiguous() && src.IsContiguous() {
		copy(dst.data, src.data[:len(dst.data)])
		return dst, nil
	}

	itemsize := src.dt.Size()
	srcIt := NewIter(src)
	dstIt := NewIter(dst)
	for srcIt.NotDone() && dstIt.NotDone() {
		copy(dstIt.Item()[:itemsize], srcIt.Item()[:itemsize])
		srcIt.Next()
		dstIt.Next()
	}
	return dst, nil
}
