package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func TestCastNumericTruncatesAndWidens(t *testing.T) {
	require.Equal(t, int8(3), CastNumeric[int8](3.9))
	require.Equal(t, float64(7), CastNumeric[float64](int32(7)))
}

func TestCastNumericNaNToIntegerIsZero(t *testing.T) {
	require.Equal(t, int64(0), CastNumeric[int64](math.NaN()))
	require.Equal(t, int32(0), CastNumeric[int32](float32(math.NaN())))
}

func TestToDTypeIntToFloat(t *testing.T) {
	src, err := ndar.NewEmpty([]int{3}, dtype.Int32)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		ndar.SetAt[int32](src.Data(), i*4, int32(i+1))
	}

	dst, err := ToDType(nil, src, dtype.Float64)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, dst.DType())
	for i := 0; i < 3; i++ {
		require.Equal(t, float64(i+1), ndar.GetAt[float64](dst.Data(), i*8))
	}
}

func TestToDTypeBoolRoundTrip(t *testing.T) {
	src, err := ndar.NewEmpty([]int{2}, dtype.Int8)
	require.NoError(t, err)
	ndar.SetAt[int8](src.Data(), 0, 0)
	ndar.SetAt[int8](src.Data(), 1, 5)

	dst, err := ToDType(nil, src, dtype.Bool)
	require.NoError(t, err)
	require.False(t, ndar.GetAt[bool](dst.Data(), 0))
	require.True(t, ndar.GetAt[bool](dst.Data(), 1))
}

func TestToDTypeSameDTypeFallsThroughToCopy(t *testing.T) {
	src, err := ndar.NewEmpty([]int{2}, dtype.Int32)
	require.NoError(t, err)
	ndar.SetAt[int32](src.Data(), 0, 99)

	dst, err := ToDType(nil, src, dtype.Int32)
	require.NoError(t, err)
	require.Equal(t, int32(99), ndar.GetAt[int32](dst.Data(), 0))
}

func TestToDTypeShapeMismatch(t *testing.T) {
	src, _ := ndar.NewEmpty([]int{2}, dtype.Int32)
	dst, _ := ndar.NewEmpty([]int{3}, dtype.Float64)
	_, err := ToDType(dst, src, dtype.Float64)
	require.Error(t, err)
}

func TestReadAsWriteAsBoolRule(t *testing.T) {
	buf := make([]byte, 8)
	WriteAs[int64](buf, 0, dtype.Bool, 0)
	require.False(t, ndar.GetAt[bool](buf, 0))
	WriteAs[int64](buf, 0, dtype.Bool, 7)
	require.True(t, ndar.GetAt[bool](buf, 0))

	ndar.SetAt[bool](buf, 0, true)
	require.Equal(t, int64(1), ReadAs[int64](buf, 0, dtype.Bool))
}
