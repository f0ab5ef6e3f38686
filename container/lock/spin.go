package lock

import (
	"sync/atomic"

	"github.com/tezrry/oslab/link"
)

// SpinLock never sleeps in the kernel: contended callers burn cycles with
// randomized pauses until the word frees up. It is the busy-wait baseline the
// futex mutexes are measured against.
type SpinLock uint32

func (lk *SpinLock) Lock() {
	if atomic.CompareAndSwapUint32((*uint32)(lk), 0, 1) {
		return
	}

	for !atomic.CompareAndSwapUint32((*uint32)(lk), 0, 1) {
		r := link.FastRand() % 100
		if r < 30 {
			r = 30
		}
		link.ProcYield(r)
	}
}

func (lk *SpinLock) Unlock() {
	atomic.StoreUint32((*uint32)(lk), 0)
}

func (lk *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32((*uint32)(lk), 0, 1)
}
