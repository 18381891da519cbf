package indexing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func iotaNode(t *testing.T, shape []int, dt dtype.DType) *ndar.Node {
	t.Helper()
	n, err := ndar.NewEmpty(shape, dt)
	require.NoError(t, err)
	it := ndar.NewIter(n)
	i := int64(0)
	for it.NotDone() {
		ndar.SetAt[int64](it.Item(), 0, i)
		i++
		it.Next()
	}
	return n
}

func readAll(node *ndar.Node) []int64 {
	it := ndar.NewIter(node)
	var out []int64
	for it.NotDone() {
		out = append(out, ndar.GetAt[int64](it.Item(), 0))
		it.Next()
	}
	return out
}

func TestSliceBasic(t *testing.T) {
	n := iotaNode(t, []int{5}, dtype.Int64)
	out, err := Slice(n, SliceSpec{Start: 1, Stop: 4, Step: 1}, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, readAll(out))
}

func TestSliceNegativeIndices(t *testing.T) {
	n := iotaNode(t, []int{5}, dtype.Int64)
	out, err := Slice(n, SliceSpec{Start: -3, Stop: -1, Step: 1}, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, readAll(out))
}

func TestSliceNegativeStep(t *testing.T) {
	n := iotaNode(t, []int{5}, dtype.Int64)
	out, err := Slice(n, SliceSpec{Start: 4, Stop: -6, Step: -1}, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 3, 2, 1, 0}, readAll(out))
}

func TestSliceZeroStepError(t *testing.T) {
	n := iotaNode(t, []int{5}, dtype.Int64)
	_, err := Slice(n, SliceSpec{Start: 0, Stop: 5, Step: 0}, 0)
	require.Error(t, err)
}

func TestMultiSliceKeepsUnspecifiedAxesFull(t *testing.T) {
	n := iotaNode(t, []int{2, 3}, dtype.Int64)
	out, err := MultiSlice(n, []SliceSpec{{Start: 1, Stop: 2, Step: 1}})
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, out.Shape())
	require.Equal(t, []int64{3, 4, 5}, readAll(out))
}

func TestMultiSliceTooManySpecs(t *testing.T) {
	n := iotaNode(t, []int{2}, dtype.Int64)
	_, err := MultiSlice(n, []SliceSpec{{Step: 1}, {Step: 1}})
	require.Error(t, err)
}
