package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNanotime(t *testing.T) {
	t0 := Nanotime()
	ProcYield(30)
	t1 := Nanotime()
	require.GreaterOrEqual(t, t1, t0)
	t.Log(t1 - t0)
}

func TestFastRand(t *testing.T) {
	seen := make(map[uint32]struct{})
	for i := 0; i < 16; i++ {
		seen[FastRand()] = struct{}{}
	}
	require.Greater(t, len(seen), 1)
}
