package lock

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/tezrry/oslab/container/shm"
	"github.com/tezrry/oslab/internal/sys/futex"
)

// SharedFutexMutex runs the FutexMutex protocol on a word that other
// processes may map. It uses shared futex operations, so it also works for
// a word in plain process memory, only slower in the kernel.
type SharedFutexMutex struct {
	key uint32
}

// SharedAt returns the mutex whose word lives at off inside r. The word is
// not reset: the process that creates r starts it at zero, later openers
// observe whatever state the mutex is in.
func SharedAt(r *shm.Region, off int) (*SharedFutexMutex, error) {
	p, err := r.Uint32(off)
	if err != nil {
		return nil, err
	}

	return (*SharedFutexMutex)(unsafe.Pointer(p)), nil
}

func (m *SharedFutexMutex) TryLock() bool {
	return atomic.CompareAndSwapUint32(&m.key, unlocked, lockedNoWaiters)
}

func (m *SharedFutexMutex) Lock() {
	if atomic.CompareAndSwapUint32(&m.key, unlocked, lockedNoWaiters) {
		return
	}

	lockSlow(&m.key, futex.Shared)
}

func (m *SharedFutexMutex) LockTimeout(d time.Duration) bool {
	if atomic.CompareAndSwapUint32(&m.key, unlocked, lockedNoWaiters) {
		return true
	}

	return lockSlowTimeout(&m.key, d, futex.Shared)
}

func (m *SharedFutexMutex) Unlock() {
	unlock(&m.key, futex.Shared)
}
