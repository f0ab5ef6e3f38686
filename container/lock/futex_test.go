//go:build linux

package lock

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/tezrry/oslab/container/shm"
	"github.com/tezrry/oslab/internal/sys/futex"
)

type syscallCounter struct {
	waits atomic.Int64
	wakes atomic.Int64
}

// countSyscalls routes every futex call of this package through counters
// until the test ends.
func countSyscalls(t *testing.T) *syscallCounter {
	sc := new(syscallCounter)
	wait, waitTimeout, wake := futexWait, futexWaitTimeout, futexWake
	futexWait = func(addr *uint32, val uint32, scope futex.Scope) error {
		sc.waits.Add(1)
		return wait(addr, val, scope)
	}
	futexWaitTimeout = func(addr *uint32, val uint32, d time.Duration, scope futex.Scope) error {
		sc.waits.Add(1)
		return waitTimeout(addr, val, d, scope)
	}
	futexWake = func(addr *uint32, n int, scope futex.Scope) (int, error) {
		sc.wakes.Add(1)
		return wake(addr, n, scope)
	}
	t.Cleanup(func() {
		futexWait, futexWaitTimeout, futexWake = wait, waitTimeout, wake
	})
	return sc
}

func hammer(lk ILocker, workers, iterations int) int {
	var (
		wg      sync.WaitGroup
		counter int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				lk.Lock()
				counter++
				lk.Unlock()
			}
		}()
	}
	wg.Wait()
	return counter
}

func TestFutexMutexUncontended(t *testing.T) {
	sc := countSyscalls(t)
	var m FutexMutex
	for i := 0; i < 1000; i++ {
		m.Lock()
		require.Equal(t, lockedNoWaiters, atomic.LoadUint32(&m.key))
		m.Unlock()
		require.Equal(t, unlocked, atomic.LoadUint32(&m.key))
	}
	require.Zero(t, sc.waits.Load())
	require.Zero(t, sc.wakes.Load())
}

func TestFutexMutexTryLock(t *testing.T) {
	var m FutexMutex
	require.True(t, m.TryLock())
	require.False(t, m.TryLock())
	require.Equal(t, lockedNoWaiters, m.key)
	m.Unlock()
	require.Equal(t, unlocked, m.key)

	m.Lock()
	require.False(t, m.TryLock())
	m.Unlock()
	require.True(t, m.TryLock())
	m.Unlock()
}

func TestFutexMutexUnlockOfUnlocked(t *testing.T) {
	var m FutexMutex
	require.Panics(t, m.Unlock)
}

func TestFutexMutexCounter(t *testing.T) {
	iterations := 10_000_000
	if testing.Short() {
		iterations = 100_000
	}

	var m FutexMutex
	require.Equal(t, 2*iterations, hammer(&m, 2, iterations))
	require.Equal(t, unlocked, m.key)

	for _, workers := range []int{1, 4, 16} {
		t.Run(fmt.Sprintf("%dx%d", workers, 10_000), func(t *testing.T) {
			var m FutexMutex
			require.Equal(t, workers*10_000, hammer(&m, workers, 10_000))
		})
	}
}

func TestFutexMutexSpuriousWakeups(t *testing.T) {
	// Every wait returns at once as if interrupted; the lock must still
	// serialize the increments.
	wait := futexWait
	futexWait = func(addr *uint32, val uint32, scope futex.Scope) error {
		runtime.Gosched()
		return unix.EINTR
	}
	defer func() { futexWait = wait }()

	var m FutexMutex
	require.Equal(t, 8*20_000, hammer(&m, 8, 20_000))
}

func TestFutexMutexHandoff(t *testing.T) {
	const waiters = 8
	sc := countSyscalls(t)

	var m FutexMutex
	m.Lock()

	acquired := make(chan int, waiters)
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func(id int) {
			defer wg.Done()
			m.Lock()
			acquired <- id
			<-release
			m.Unlock()
		}(i)
	}

	require.Eventually(t, func() bool {
		return sc.waits.Load() >= waiters
	}, 5*time.Second, time.Millisecond, "waiters never blocked")
	require.Equal(t, lockedWithWaiters, atomic.LoadUint32(&m.key))

	seen := make(map[int]struct{}, waiters)
	m.Unlock()
	for i := 0; i < waiters; i++ {
		select {
		case id := <-acquired:
			seen[id] = struct{}{}
		case <-time.After(5 * time.Second):
			t.Fatalf("unlock %d woke nobody", i)
		}

		// Exactly one new owner per unlock.
		select {
		case id := <-acquired:
			t.Fatalf("waiter %d acquired while another owner holds the lock", id)
		case <-time.After(10 * time.Millisecond):
		}

		release <- struct{}{}
	}

	wg.Wait()
	require.Len(t, seen, waiters)
	require.Equal(t, unlocked, atomic.LoadUint32(&m.key))
	require.NotZero(t, sc.wakes.Load())
}

func TestFutexMutexLockTimeout(t *testing.T) {
	var m FutexMutex
	require.True(t, m.LockTimeout(time.Second))

	start := time.Now()
	require.False(t, m.LockTimeout(20*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	require.False(t, m.LockTimeout(0))

	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Unlock()
	}()
	require.True(t, m.LockTimeout(5*time.Second))
	m.Unlock()

	// A waiter that gave up may leave the word claiming waiters; the next
	// cycle clears it.
	m.Lock()
	m.Unlock()
	require.Equal(t, unlocked, m.key)
}

func TestSharedFutexMutex(t *testing.T) {
	r, err := shm.Anonymous(64)
	if err != nil {
		t.Skip(err)
	}
	defer func() {
		require.NoError(t, r.Close())
	}()

	m, err := SharedAt(r, 0)
	require.NoError(t, err)
	_, err = SharedAt(r, 2)
	require.Error(t, err)

	counter, err := r.Uint64(8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 50_000; j++ {
				m.Lock()
				*counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(4*50_000), *counter)

	require.True(t, m.TryLock())
	require.False(t, m.LockTimeout(5*time.Millisecond))
	m.Unlock()
	p, err := r.Uint32(0)
	require.NoError(t, err)
	require.Equal(t, unlocked, atomic.LoadUint32(p))
}

func TestSpinLock(t *testing.T) {
	var lk SpinLock
	require.True(t, lk.TryLock())
	require.False(t, lk.TryLock())
	lk.Unlock()
	require.Equal(t, 4*10_000, hammer(&lk, 4, 10_000))
}

func BenchmarkFutexMutex(b *testing.B) {
	var m FutexMutex
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Lock()
			m.Unlock()
		}
	})
}

func BenchmarkSpinLock(b *testing.B) {
	var lk SpinLock
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lk.Lock()
			lk.Unlock()
		}
	})
}

func BenchmarkSyncMutex(b *testing.B) {
	var mu sync.Mutex
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			mu.Unlock()
		}
	})
}
