package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func TestResolveDTypeNone(t *testing.T) {
	require.Equal(t, dtype.Int32, ResolveDType(dtype.Int32, PolicyNone))
}

func TestResolveDTypeFloatWidensInteger(t *testing.T) {
	require.Equal(t, dtype.Float64, ResolveDType(dtype.Int32, PolicyFloat))
	require.Equal(t, dtype.Float32, ResolveDType(dtype.Float32, PolicyFloat))
}

func TestResolveDTypeBoolAlwaysBool(t *testing.T) {
	require.Equal(t, dtype.Bool, ResolveDType(dtype.Float64, PolicyBool))
}

func TestResolveDTypeIntFallsBackFromFloat(t *testing.T) {
	require.Equal(t, dtype.Int64, ResolveDType(dtype.Float32, PolicyInt))
	require.Equal(t, dtype.Int32, ResolveDType(dtype.Int32, PolicyInt))
}

func TestFinalizeNoOpWhenNilOrSameDType(t *testing.T) {
	n, err := ndar.NewEmpty([]int{2}, dtype.Int32)
	require.NoError(t, err)

	out, err := Finalize(n, nil)
	require.NoError(t, err)
	require.Same(t, n, out)

	dt := dtype.Int32
	out2, err := Finalize(n, &dt)
	require.NoError(t, err)
	require.Same(t, n, out2)
}

func TestFinalizeConverts(t *testing.T) {
	n, err := ndar.NewEmpty([]int{2}, dtype.Int32)
	require.NoError(t, err)
	ndar.SetAt[int32](n.Data(), 0, 7)

	dt := dtype.Float64
	out, err := Finalize(n, &dt)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, out.DType())
	require.Equal(t, float64(7), ndar.GetAt[float64](out.Data(), 0))
}
