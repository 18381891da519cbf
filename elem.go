package ndar

import "unsafe"

// GetAt reads a T out of data at the given byte offset. Used by generic
// kernels that already know the concrete Go type backing a dtype.
func GetAt[T any](data []byte, byteOffset int) T {
	return *(*T)(unsafe.Pointer(&data[byteOffset]))
}

// SetAt writes a T into data at the given byte offset.
func SetAt[T any](data []byte, byteOffset int, v T) {
	*(*T)(unsafe.Pointer(&data[byteOffset])) = v
}

// linearByteOffset computes the byte offset of coord under strides.
func linearByteOffset(coord, strides []int) int {
	off := 0
	for i, c := range coord {
		off += c * strides[i]
	}
	return off
}

// LinearByteOffset is the exported form of linearByteOffset, used by other
// packages in this module (indexing, reduce, cumulative) that need to map a
// coordinate to a byte offset without re-deriving the formula.
func LinearByteOffset(coord, strides []int) int { return linearByteOffset(coord, strides) }

// Unflatten is the exported form of unflatten.
func Unflatten(flat int, shape []int) []int { return unflatten(flat, shape) }

// FlattenIndex is the exported form of flatten (named to avoid colliding
// with the Flatten shape operation in package shapeops).
func FlattenIndex(coord, shape []int) int { return flatten(coord, shape) }

// unflatten decomposes a row-major flat index into per-axis coordinates for
// shape.
func unflatten(flat int, shape []int) []int {
	nd := len(shape)
	coord := make([]int, nd)
	for i := nd - 1; i >= 0; i-- {
		if shape[i] == 0 {
			coord[i] = 0
			continue
		}
		coord[i] = flat % shape[i]
		flat /= shape[i]
	}
	return coord
}

// flatten recomposes a row-major flat index from per-axis coordinates.
func flatten(coord, shape []int) int {
	flat := 0
	for i, c := range coord {
		flat = flat*shape[i] + c
	}
	return flat
}

// coordIter is a minimal row-major odometer over a shape, used by helpers
// (NArray.Copy, advanced indexing) that need plain coordinate enumeration
// without the full NIter/Node machinery.
type coordIter struct {
	shape   []int
	coord   []int
	started bool
	done    bool
}

func newCoordIter(shape []int) *coordIter {
	return &coordIter{shape: shape, coord: make([]int, len(shape))}
}

// next advances to the next coordinate, returning false once exhausted. The
// first call positions at the all-zero coordinate without advancing.
func (c *coordIter) next() bool {
	if c.done {
		return false
	}
	if NItems(c.shape) == 0 {
		c.done = true
		return false
	}
	if !c.started {
		c.started = true
		return true
	}
	for i := len(c.shape) - 1; i >= 0; i-- {
		c.coord[i]++
		if c.coord[i] < c.shape[i] {
			return true
		}
		c.coord[i] = 0
	}
	c.done = true
	return false
}
