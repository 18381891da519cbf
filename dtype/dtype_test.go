package dtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeAndKind(t *testing.T) {
	require.Equal(t, 1, Bool.Size())
	require.Equal(t, 8, Float64.Size())
	require.Equal(t, KindFloat, Float32.Kind())
	require.True(t, Int32.IsSigned())
	require.True(t, Uint32.IsUnsigned())
	require.True(t, Float64.IsFloat())
	require.True(t, Int8.IsInteger())
	require.False(t, Bool.IsInteger())
}

func TestPromoteSameKind(t *testing.T) {
	require.Equal(t, Int32, Promote(Int16, Int32))
	require.Equal(t, Float64, Promote(Float32, Float64))
	require.Equal(t, Uint32, Promote(Uint16, Uint32))
}

func TestPromoteBoolNeverWidens(t *testing.T) {
	require.Equal(t, Int16, Promote(Bool, Int16))
	require.Equal(t, Uint8, Promote(Uint8, Bool))
}

func TestPromoteMixedSignUnsignedSameWidth(t *testing.T) {
	require.Equal(t, Int16, Promote(Int8, Uint8))
	require.Equal(t, Int32, Promote(Uint16, Int16))
}

func TestPromoteMixedSignUnsignedWiderSigned(t *testing.T) {
	require.Equal(t, Int64, Promote(Int64, Uint8))
}

func TestPromoteIntegerFloat(t *testing.T) {
	require.Equal(t, Float32, Promote(Int16, Float32))
	require.Equal(t, Float64, Promote(Int32, Float32))
	require.Equal(t, Float64, Promote(Uint64, Float32))
}

func TestStringAndValid(t *testing.T) {
	require.Equal(t, "float64", Float64.String())
	require.True(t, Bool.Valid())
	require.False(t, DType(99).Valid())
}
