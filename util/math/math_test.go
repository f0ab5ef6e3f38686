package math

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, uint64(0), AlignUp(0, 4096))
	require.Equal(t, uint64(4096), AlignUp(1, 4096))
	require.Equal(t, uint64(4096), AlignUp(4096, 4096))
	require.Equal(t, uint64(8192), AlignUp(4097, 4096))
	require.Equal(t, uint64(8), AlignUp(5, 8))
}

func TestPowerOfTwo(t *testing.T) {
	require.True(t, IsPowerOfTwo(4096))
	require.False(t, IsPowerOfTwo(4095))
}
