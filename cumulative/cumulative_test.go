package cumulative

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func vecNode(t *testing.T, dt dtype.DType, values []float64) *ndar.Node {
	t.Helper()
	n, err := ndar.NewEmpty([]int{len(values)}, dt)
	require.NoError(t, err)
	for i, v := range values {
		switch dt {
		case dtype.Float64:
			ndar.SetAt[float64](n.Data(), i*8, v)
		case dtype.Int32:
			ndar.SetAt[int32](n.Data(), i*4, int32(v))
		default:
			t.Fatalf("unsupported dtype %s", dt)
		}
	}
	return n
}

func readFloat(node *ndar.Node, i int) float64 {
	itemsize := node.DType().Size()
	off := i * itemsize
	switch node.DType() {
	case dtype.Float64:
		return ndar.GetAt[float64](node.Data(), off)
	case dtype.Int64:
		return float64(ndar.GetAt[int64](node.Data(), off))
	case dtype.Int32:
		return float64(ndar.GetAt[int32](node.Data(), off))
	}
	return 0
}

func TestCumSum(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{1, 2, 3, 4})
	out, err := CumSum(n, 0)
	require.NoError(t, err)
	require.Equal(t, dtype.Int64, out.DType())
	require.Equal(t, []float64{1, 3, 6, 10}, []float64{readFloat(out, 0), readFloat(out, 1), readFloat(out, 2), readFloat(out, 3)})
}

func TestCumProd(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{1, 2, 3, 4})
	out, err := CumProd(n, 0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 6, 24}, []float64{readFloat(out, 0), readFloat(out, 1), readFloat(out, 2), readFloat(out, 3)})
}

func TestCumMinCumMaxPreserveDType(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{3, 1, 4, 1, 5})
	min, err := CumMin(n, 0)
	require.NoError(t, err)
	require.Equal(t, dtype.Int32, min.DType())
	require.Equal(t, []float64{3, 1, 1, 1, 1}, []float64{readFloat(min, 0), readFloat(min, 1), readFloat(min, 2), readFloat(min, 3), readFloat(min, 4)})

	max, err := CumMax(n, 0)
	require.NoError(t, err)
	require.Equal(t, dtype.Int32, max.DType())
	require.Equal(t, []float64{3, 3, 4, 4, 5}, []float64{readFloat(max, 0), readFloat(max, 1), readFloat(max, 2), readFloat(max, 3), readFloat(max, 4)})
}

func TestNanCumSumHoldsPreNaNAccumulator(t *testing.T) {
	n := vecNode(t, dtype.Float64, []float64{1, 2, math.NaN(), 4})
	out, err := NanCumSum(n, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, readFloat(out, 0))
	require.Equal(t, 3.0, readFloat(out, 1))
	require.Equal(t, 3.0, readFloat(out, 2))
	require.Equal(t, 7.0, readFloat(out, 3))
}

func TestCumSumPropagatesNaNWhenNotSkipped(t *testing.T) {
	n := vecNode(t, dtype.Float64, []float64{1, math.NaN(), 3})
	out, err := CumSum(n, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, readFloat(out, 0))
	require.True(t, math.IsNaN(readFloat(out, 1)))
	require.True(t, math.IsNaN(readFloat(out, 2)))
}

func TestDiffOrderOnePromotesIntegerToInt64(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{1, 3, 6, 10})
	out, err := Diff(n, 0, 1)
	require.NoError(t, err)
	require.Equal(t, dtype.Int64, out.DType())
	require.Equal(t, []int{3}, out.Shape())
	require.Equal(t, int64(2), ndar.GetAt[int64](out.Data(), 0))
	require.Equal(t, int64(3), ndar.GetAt[int64](out.Data(), 8))
	require.Equal(t, int64(4), ndar.GetAt[int64](out.Data(), 16))
}

func TestDiffOrderTwo(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{1, 2, 4, 7, 11})
	out, err := Diff(n, 0, 2)
	require.NoError(t, err)
	require.Equal(t, []int{3}, out.Shape())
	require.Equal(t, int64(1), ndar.GetAt[int64](out.Data(), 0))
	require.Equal(t, int64(1), ndar.GetAt[int64](out.Data(), 8))
	require.Equal(t, int64(1), ndar.GetAt[int64](out.Data(), 16))
}

func TestDiffOfFloatProducesFloat64(t *testing.T) {
	n := vecNode(t, dtype.Float64, []float64{1, 3, 6})
	out, err := Diff(n, 0, 1)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, out.DType())
}

func TestDiffRequiresAxisLengthGreaterThanOne(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{5})
	_, err := Diff(n, 0, 1)
	require.Error(t, err)
}

func TestGradientCentralAndOneSided(t *testing.T) {
	n := vecNode(t, dtype.Float64, []float64{1, 2, 4, 7})
	out, err := Gradient(n, 0)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, out.DType())
	require.Equal(t, 1.0, readFloat(out, 0))
	require.Equal(t, 1.5, readFloat(out, 1))
	require.Equal(t, 2.5, readFloat(out, 2))
	require.Equal(t, 3.0, readFloat(out, 3))
}

func TestAxisOutOfRangeErrors(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{1, 2, 3})
	_, err := CumSum(n, 5)
	require.Error(t, err)
}

func TestNanCumVariantsRejectIntegerInput(t *testing.T) {
	n := vecNode(t, dtype.Int32, []float64{1, 2, 3})

	_, err := NanCumSum(n, 0)
	require.Error(t, err)
	_, err = NanCumProd(n, 0)
	require.Error(t, err)
	_, err = NanCumMin(n, 0)
	require.Error(t, err)
	_, err = NanCumMax(n, 0)
	require.Error(t, err)
}
