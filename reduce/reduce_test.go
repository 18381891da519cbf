package reduce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func matNode(t *testing.T, shape []int, dt dtype.DType, values []float64) *ndar.Node {
	t.Helper()
	n, err := ndar.NewEmpty(shape, dt)
	require.NoError(t, err)
	it := ndar.NewIter(n)
	i := 0
	for it.NotDone() {
		switch dt {
		case dtype.Float64:
			ndar.SetAt[float64](it.Item(), 0, values[i])
		case dtype.Float32:
			ndar.SetAt[float32](it.Item(), 0, float32(values[i]))
		case dtype.Int32:
			ndar.SetAt[int32](it.Item(), 0, int32(values[i]))
		default:
			t.Fatalf("unsupported dtype %s", dt)
		}
		i++
		it.Next()
	}
	return n
}

func readFloat(node *ndar.Node, flatIdx int) float64 {
	itemsize := node.DType().Size()
	off := flatIdx * itemsize
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

func TestSumAllAxes(t *testing.T) {
	n := matNode(t, []int{2, 3}, dtype.Int32, []float64{1, 2, 3, 4, 5, 6})
	out, err := Sum(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, []int{}, out.Shape())
	require.Equal(t, dtype.Int64, out.DType())
	require.Equal(t, 21.0, readFloat(out, 0))
}

func TestSumSingleAxisKeepDims(t *testing.T) {
	n := matNode(t, []int{2, 3}, dtype.Int32, []float64{1, 2, 3, 4, 5, 6})
	out, err := Sum(n, []int{1}, true)
	require.NoError(t, err)
	require.Equal(t, []int{2, 1}, out.Shape())
	require.Equal(t, 6.0, readFloat(out, 0))
	require.Equal(t, 15.0, readFloat(out, 1))
}

func TestProd(t *testing.T) {
	n := matNode(t, []int{3}, dtype.Int32, []float64{2, 3, 4})
	out, err := Prod(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, 24.0, readFloat(out, 0))
}

func TestNanSumSkipsNaN(t *testing.T) {
	n := matNode(t, []int{3}, dtype.Float64, []float64{1, math.NaN(), 3})
	out, err := NanSum(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, 4.0, readFloat(out, 0))
}

func TestMeanVarStd(t *testing.T) {
	n := matNode(t, []int{4}, dtype.Float64, []float64{1, 2, 3, 4})
	mean, err := Mean(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, 2.5, readFloat(mean, 0))

	variance, err := Var(n, nil, false, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.25, readFloat(variance, 0), 1e-9)

	std, err := Std(n, nil, false, 0)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(1.25), readFloat(std, 0), 1e-9)
}

func TestVarSampleDdof(t *testing.T) {
	n := matNode(t, []int{4}, dtype.Float64, []float64{1, 2, 3, 4})
	variance, err := Var(n, nil, false, 1)
	require.NoError(t, err)
	require.InDelta(t, 5.0/3.0, readFloat(variance, 0), 1e-9)
}

func TestMinMaxPreserveExactDType(t *testing.T) {
	n := matNode(t, []int{3}, dtype.Int32, []float64{5, 1, 3})
	min, err := Min(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, dtype.Int32, min.DType())
	require.Equal(t, int32(1), ndar.GetAt[int32](min.Data(), 0))

	max, err := Max(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, int32(5), ndar.GetAt[int32](max.Data(), 0))
}

func TestArgMinArgMaxTieBreaksFirstOccurrence(t *testing.T) {
	n := matNode(t, []int{4}, dtype.Int32, []float64{3, 1, 1, 5})
	argmin, err := ArgMin(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), ndar.GetAt[int64](argmin.Data(), 0))

	argmax, err := ArgMax(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, int64(3), ndar.GetAt[int64](argmax.Data(), 0))
}

func TestAllAny(t *testing.T) {
	n := matNode(t, []int{3}, dtype.Int32, []float64{1, 1, 0})
	all, err := All(n, nil, false)
	require.NoError(t, err)
	require.False(t, ndar.GetAt[bool](all.Data(), 0))

	any, err := Any(n, nil, false)
	require.NoError(t, err)
	require.True(t, ndar.GetAt[bool](any.Data(), 0))
}

func TestCountNonzero(t *testing.T) {
	n := matNode(t, []int{4}, dtype.Int32, []float64{0, 1, 0, 2})
	out, err := CountNonzero(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, int64(2), ndar.GetAt[int64](out.Data(), 0))
}

func TestAxisOutOfRangeErrors(t *testing.T) {
	n := matNode(t, []int{2, 3}, dtype.Int32, []float64{1, 2, 3, 4, 5, 6})
	_, err := Sum(n, []int{5}, false)
	require.Error(t, err)
}

func TestSumAndProdOfFloat32ProducesFloat64(t *testing.T) {
	n := matNode(t, []int{3}, dtype.Float32, []float64{1, 2, 3})
	sum, err := Sum(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, sum.DType())
	require.Equal(t, 6.0, readFloat(sum, 0))

	prod, err := Prod(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, prod.DType())
	require.Equal(t, 6.0, readFloat(prod, 0))
}

func TestMeanVarStdOfFloat32ProducesFloat64(t *testing.T) {
	n := matNode(t, []int{4}, dtype.Float32, []float64{1, 2, 3, 4})
	mean, err := Mean(n, nil, false)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, mean.DType())

	variance, err := Var(n, nil, false, 0)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, variance.DType())

	std, err := Std(n, nil, false, 0)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, std.DType())
}

func TestNanVariantsRejectIntegerInput(t *testing.T) {
	n := matNode(t, []int{3}, dtype.Int32, []float64{1, 2, 3})

	_, err := NanSum(n, nil, false)
	require.Error(t, err)
	_, err = NanProd(n, nil, false)
	require.Error(t, err)
	_, err = NanMean(n, nil, false)
	require.Error(t, err)
	_, err = NanVar(n, nil, false, 0)
	require.Error(t, err)
	_, err = NanStd(n, nil, false, 0)
	require.Error(t, err)
	_, err = NanMin(n, nil, false)
	require.Error(t, err)
	_, err = NanMax(n, nil, false)
	require.Error(t, err)
}
