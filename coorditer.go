package ndar

// CoordIter is the exported row-major coordinate odometer used by packages
// that need to enumerate logical coordinates over a shape that isn't
// necessarily a Node's own (shape, strides) pair — e.g. an index array's
// shape while indexing a differently-shaped source Node.
type CoordIter struct{ inner *coordIter }

// NewCoordIter builds a CoordIter over shape.
func NewCoordIter(shape []int) *CoordIter {
	return &CoordIter{inner: newCoordIter(shape)}
}

// Next advances to the next coordinate, returning false once exhausted.
func (c *CoordIter) Next() bool { return c.inner.next() }

// Coord returns the current coordinate (owned by the iterator).
func (c *CoordIter) Coord() []int { return c.inner.coord }
