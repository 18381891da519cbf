package nerr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRaiseSetsLastError(t *testing.T) {
	Clear()
	require.False(t, IsSet())

	err := Raise(Value, "bad shape %v", []int{1, 2})
	require.Error(t, err)
	require.True(t, IsSet())
	require.Equal(t, Value, Last().Kind)
	require.Contains(t, Print(), "bad shape")
}

func TestClearResetsSlot(t *testing.T) {
	RaiseKind(Index)
	require.True(t, IsSet())
	Clear()
	require.False(t, IsSet())
	require.Equal(t, "NoError", Print())
}

func TestMirrorPreservesWrappedError(t *testing.T) {
	Clear()
	inner := RaiseType("ignored")
	_ = inner
	Clear()

	sentinelErr := Raise(Memory, "alloc failed")
	mirrored := Mirror(Overflow, sentinelErr)
	require.Equal(t, sentinelErr, mirrored)
	require.Equal(t, Overflow, Last().Kind)
}

func TestMirrorNilClears(t *testing.T) {
	RaiseKind(Runtime)
	require.True(t, IsSet())
	require.NoError(t, Mirror(Runtime, nil))
	require.False(t, IsSet())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "Value", Value.String())
	require.Equal(t, "NoError", NoError.String())
}

func TestConvenienceRaisers(t *testing.T) {
	Clear()
	RaiseZeroDivision("divide by zero at %d", 3)
	require.Equal(t, ZeroDivision, Last().Kind)
}
