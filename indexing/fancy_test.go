package indexing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func TestAdvancedIndexSingleAxis(t *testing.T) {
	n := iotaNode(t, []int{2, 3}, dtype.Int64)
	rows, err := ndar.FromIntArray([]int64{1, 0}, []int{2})
	require.NoError(t, err)

	out, err := AdvancedIndex(n, []*ndar.NArray{rows}, []int{0})
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, out.Shape())
	require.Equal(t, []int64{3, 4, 5, 0, 1, 2}, readAll(out))
}

func TestAdvancedIndexTwoAxesElementwise(t *testing.T) {
	n := iotaNode(t, []int{2, 3}, dtype.Int64)
	rows, err := ndar.FromIntArray([]int64{0, 1}, []int{2})
	require.NoError(t, err)
	cols, err := ndar.FromIntArray([]int64{2, 0}, []int{2})
	require.NoError(t, err)

	out, err := AdvancedIndex(n, []*ndar.NArray{rows, cols}, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, []int{2}, out.Shape())
	require.Equal(t, []int64{2, 3}, readAll(out))
}

func TestAdvancedIndexShapeMismatchErrors(t *testing.T) {
	n := iotaNode(t, []int{2, 3}, dtype.Int64)
	rows, err := ndar.FromIntArray([]int64{0, 1}, []int{2})
	require.NoError(t, err)
	cols, err := ndar.FromIntArray([]int64{0, 1, 2}, []int{3})
	require.NoError(t, err)

	_, err = AdvancedIndex(n, []*ndar.NArray{rows, cols}, []int{0, 1})
	require.Error(t, err)
}

func TestAdvancedIndexDuplicateAxisErrors(t *testing.T) {
	n := iotaNode(t, []int{2, 3}, dtype.Int64)
	a, err := ndar.FromIntArray([]int64{0}, []int{1})
	require.NoError(t, err)

	_, err = AdvancedIndex(n, []*ndar.NArray{a, a}, []int{0, 0})
	require.Error(t, err)
}
