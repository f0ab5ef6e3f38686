package lock

import (
	"sync/atomic"
	"time"

	"github.com/tezrry/oslab/internal/sys/futex"
	"github.com/tezrry/oslab/link"
)

// States of a futex lock word. The word never holds any other value.
const (
	unlocked          uint32 = 0
	lockedNoWaiters   uint32 = 1
	lockedWithWaiters uint32 = 2
)

// Replaced in tests to count syscalls.
var (
	futexWait        = futex.Wait
	futexWaitTimeout = futex.WaitTimeout
	futexWake        = futex.Wake
)

// FutexMutex is a mutual exclusion lock built directly on futex(2).
// The zero value is an unlocked mutex.
//
// Lock and Unlock stay in user space unless the lock is contended. The lock
// is not fair and not reentrant, and a FutexMutex must not be copied after
// first use.
type FutexMutex struct {
	key uint32
}

// TryLock tries to lock m without blocking and reports whether it succeeded.
func (m *FutexMutex) TryLock() bool {
	return atomic.CompareAndSwapUint32(&m.key, unlocked, lockedNoWaiters)
}

// Lock locks m, blocking in the kernel while another owner holds it.
func (m *FutexMutex) Lock() {
	if atomic.CompareAndSwapUint32(&m.key, unlocked, lockedNoWaiters) {
		return
	}

	lockSlow(&m.key, futex.Private)
}

// LockTimeout is like Lock but gives up after d and reports whether m was
// acquired.
func (m *FutexMutex) LockTimeout(d time.Duration) bool {
	if atomic.CompareAndSwapUint32(&m.key, unlocked, lockedNoWaiters) {
		return true
	}

	return lockSlowTimeout(&m.key, d, futex.Private)
}

// Unlock unlocks m. It panics if m is not locked.
//
// As with sync.Mutex, a locked FutexMutex is not tied to a goroutine; one
// goroutine may lock it and another unlock it. Unlocking a mutex held by
// someone else is not detected.
func (m *FutexMutex) Unlock() {
	unlock(&m.key, futex.Private)
}

func lockSlow(key *uint32, scope futex.Scope) {
	// The word holds lockedWithWaiters before every sleep, so an Unlock that
	// sees lockedNoWaiters has nobody to wake. A prior value of unlocked
	// means the swap itself took ownership, possibly leaving one spare wake.
	for atomic.SwapUint32(key, lockedWithWaiters) != unlocked {
		// Any return is only a hint: a real wake, a spurious one, EINTR, or
		// EAGAIN because the word moved before the kernel compared it.
		_ = futexWait(key, lockedWithWaiters, scope)
	}
}

func lockSlowTimeout(key *uint32, d time.Duration, scope futex.Scope) bool {
	deadline := link.Nanotime() + int64(d)
	for atomic.SwapUint32(key, lockedWithWaiters) != unlocked {
		remain := deadline - link.Nanotime()
		if remain <= 0 {
			return false
		}

		// ETIMEDOUT is handled like any other wakeup, the next swap decides.
		_ = futexWaitTimeout(key, lockedWithWaiters, time.Duration(remain), scope)
	}

	return true
}

func unlock(key *uint32, scope futex.Scope) {
	switch atomic.SwapUint32(key, unlocked) {
	case lockedNoWaiters:
	case lockedWithWaiters:
		_, _ = futexWake(key, 1, scope)
	case unlocked:
		panic("lock: unlock of unlocked futex mutex")
	}
}
