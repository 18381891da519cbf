package ndar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour/dtype"
)

func TestNewEmptyAndBasics(t *testing.T) {
	n, err := NewEmpty([]int{2, 3}, dtype.Int32)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, n.Shape())
	require.Equal(t, 6, n.NItems())
	require.True(t, n.IsContiguous())
	require.Equal(t, []int{12, 4}, n.Strides())
}

func TestCalcStrides(t *testing.T) {
	require.Equal(t, []int{48, 16, 4}, CalcStrides([]int{2, 3, 4}, 4))
	require.Equal(t, []int{}, CalcStrides(nil, 8))
}

func TestNewChildViewSharesBuffer(t *testing.T) {
	n, err := NewEmpty([]int{4}, dtype.Int64)
	require.NoError(t, err)
	SetAt[int64](n.Data(), 0, 42)

	child, err := NewChild(n, []int{4}, n.Strides(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(42), GetAt[int64](child.Data(), 0))
	require.Equal(t, int32(2), n.RefCount())
}

func TestFreeDecrementsRefAndPropagates(t *testing.T) {
	n, err := NewEmpty([]int{4}, dtype.Int8)
	require.NoError(t, err)
	child, err := NewChild(n, []int{4}, n.Strides(), 0)
	require.NoError(t, err)

	Free(child)
	require.Equal(t, int32(1), n.RefCount())
	Free(n)
	require.Equal(t, int32(0), n.RefCount())
}

func TestCopyContiguous(t *testing.T) {
	src, err := NewEmpty([]int{3}, dtype.Float64)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		SetAt[float64](src.Data(), i*8, float64(i))
	}
	dst, err := Copy(nil, src)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.Equal(t, float64(i), GetAt[float64](dst.Data(), i*8))
	}
}

func TestCopyShapeMismatch(t *testing.T) {
	a, _ := NewEmpty([]int{2}, dtype.Int32)
	b, _ := NewEmpty([]int{3}, dtype.Int32)
	_, err := Copy(b, a)
	require.Error(t, err)
}

func TestSameShape(t *testing.T) {
	a, _ := NewEmpty([]int{2, 3}, dtype.Int32)
	b, _ := NewEmpty([]int{2, 3}, dtype.Float64)
	c, _ := NewEmpty([]int{3, 2}, dtype.Int32)
	require.True(t, SameShape(a, b))
	require.False(t, SameShape(a, c))
}

func TestIsScalarLike(t *testing.T) {
	scalar, _ := NewEmpty(nil, dtype.Int32)
	require.True(t, scalar.IsScalar())
	require.True(t, scalar.IsScalarLike())

	oneElem, _ := NewEmpty([]int{1}, dtype.Int32)
	require.False(t, oneElem.IsScalar())
	require.True(t, oneElem.IsScalarLike())
}
