package ndar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour/dtype"
)

func TestNewNArrayBorrowsBuffer(t *testing.T) {
	data := make([]byte, 8)
	SetAt[int64](data, 0, 42)

	a, err := NewNArray(data, []int{1}, dtype.Int64)
	require.NoError(t, err)
	require.Equal(t, int64(42), GetAt[int64](a.Data(), 0))
}

func TestNewNArrayBufferTooSmall(t *testing.T) {
	data := make([]byte, 4)
	_, err := NewNArray(data, []int{2}, dtype.Int64)
	require.Error(t, err)
}

func TestNewEmptyNArrayOwnsStorage(t *testing.T) {
	a, err := NewEmptyNArray([]int{3}, dtype.Int64)
	require.NoError(t, err)
	require.Equal(t, 3, a.Size())
	require.True(t, a.IsContiguous())
}

func TestFromNodeSharesBuffer(t *testing.T) {
	n, err := NewEmpty([]int{2}, dtype.Int64)
	require.NoError(t, err)
	SetAt[int64](n.Data(), 0, 7)

	a := FromNode(n)
	require.Equal(t, int64(7), GetAt[int64](a.Data(), 0))
}

func TestFromIntArray(t *testing.T) {
	a, err := FromIntArray([]int64{1, 2, 3}, []int{3})
	require.NoError(t, err)
	require.Equal(t, int64(2), GetAt[int64](a.Data(), 8))
}

func TestFromBoolArray(t *testing.T) {
	a, err := FromBoolArray([]bool{true, false, true}, []int{3})
	require.NoError(t, err)
	require.True(t, GetAt[bool](a.Data(), 0))
	require.False(t, GetAt[bool](a.Data(), 1))
}

func TestToNodeContiguous(t *testing.T) {
	a, err := FromIntArray([]int64{5, 6}, []int{2})
	require.NoError(t, err)

	n, err := a.ToNode()
	require.NoError(t, err)
	require.Equal(t, int64(5), GetAt[int64](n.Data(), 0))
	require.Equal(t, int64(6), GetAt[int64](n.Data(), 8))
}

func TestGetItem(t *testing.T) {
	a, err := FromIntArray([]int64{10, 20, 30}, []int{3})
	require.NoError(t, err)
	require.Equal(t, int64(20), GetAt[int64](a.GetItem(1), 0))
}

func TestNArrayCopyIsIndependent(t *testing.T) {
	a, err := FromIntArray([]int64{1, 2}, []int{2})
	require.NoError(t, err)
	b, err := a.Copy()
	require.NoError(t, err)
	SetAt[int64](b.Data(), 0, 99)
	require.Equal(t, int64(1), GetAt[int64](a.Data(), 0))
}
