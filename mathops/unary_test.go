package mathops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nour"
	"github.com/katalvlaran/nour/dtype"
)

func TestNegPreservesDType(t *testing.T) {
	a := scalarNode(t, dtype.Int32, 5)
	out, err := Neg(a)
	require.NoError(t, err)
	require.Equal(t, dtype.Int32, out.DType())
	require.Equal(t, int32(-5), ndar.GetAt[int32](out.Data(), 0))
}

func TestAbsFloatAndInt(t *testing.T) {
	f := scalarNode(t, dtype.Float64, -3.5)
	outF, err := Abs(f)
	require.NoError(t, err)
	require.Equal(t, 3.5, ndar.GetAt[float64](outF.Data(), 0))

	i := scalarNode(t, dtype.Int32, -7)
	outI, err := Abs(i)
	require.NoError(t, err)
	require.Equal(t, int32(7), ndar.GetAt[int32](outI.Data(), 0))
}

func TestSign(t *testing.T) {
	neg := scalarNode(t, dtype.Int32, -4)
	zero := scalarNode(t, dtype.Int32, 0)
	pos := scalarNode(t, dtype.Int32, 9)

	outNeg, err := Sign(neg)
	require.NoError(t, err)
	require.Equal(t, int32(-1), ndar.GetAt[int32](outNeg.Data(), 0))

	outZero, err := Sign(zero)
	require.NoError(t, err)
	require.Equal(t, int32(0), ndar.GetAt[int32](outZero.Data(), 0))

	outPos, err := Sign(pos)
	require.NoError(t, err)
	require.Equal(t, int32(1), ndar.GetAt[int32](outPos.Data(), 0))
}

func TestSqrtAlwaysFloat(t *testing.T) {
	a := scalarNode(t, dtype.Int32, 16)
	out, err := Sqrt(a)
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, out.DType())
	require.Equal(t, 4.0, ndar.GetAt[float64](out.Data(), 0))
}

func TestFloorRequiresFloat(t *testing.T) {
	i := scalarNode(t, dtype.Int32, 3)
	_, err := Floor(i)
	require.Error(t, err)

	f := scalarNode(t, dtype.Float64, 3.7)
	out, err := Floor(f)
	require.NoError(t, err)
	require.Equal(t, 3.0, ndar.GetAt[float64](out.Data(), 0))
}

func TestLogicalNot(t *testing.T) {
	a := scalarNode(t, dtype.Int32, 0)
	out, err := LogicalNot(a)
	require.NoError(t, err)
	require.True(t, ndar.GetAt[bool](out.Data(), 0))
}

func TestBitwiseNotSignedAndUnsigned(t *testing.T) {
	a := scalarNode(t, dtype.Int32, 0)
	out, err := BitwiseNot(a)
	require.NoError(t, err)
	require.Equal(t, int32(-1), ndar.GetAt[int32](out.Data(), 0))

	u := scalarNode(t, dtype.Uint64, 0)
	outU, err := BitwiseNot(u)
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), ndar.GetAt[uint64](outU.Data(), 0))
}

func TestBitwiseNotRejectsFloat(t *testing.T) {
	f := scalarNode(t, dtype.Float64, 1)
	_, err := BitwiseNot(f)
	require.Error(t, err)
}
