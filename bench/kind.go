package bench

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/tezrry/oslab/container/lock"
	"github.com/tezrry/oslab/pkg/errors"
)

// Kind names a primitive a benchmark can drive.
type Kind string

const (
	// KindFutex is lock.FutexMutex, or a raw futex word in the wake run.
	KindFutex Kind = "futex"
	// KindMutex is sync.Mutex.
	KindMutex Kind = "mutex"
	// KindSpin is lock.SpinLock.
	KindSpin Kind = "spin"
	// KindSemaphore is a weighted semaphore of capacity one.
	KindSemaphore Kind = "semaphore"
	// KindAtomic replaces the lock with an atomic add on the counter.
	KindAtomic Kind = "atomic"
	// KindCond is a sync.Cond broadcast in the wake run.
	KindCond Kind = "cond"
)

// CounterKinds lists the kinds RunCounter accepts.
var CounterKinds = []Kind{KindFutex, KindMutex, KindSpin, KindSemaphore, KindAtomic}

// WakeKinds lists the kinds RunWakeLatency accepts.
var WakeKinds = []Kind{KindFutex, KindCond}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindFutex, KindMutex, KindSpin, KindSemaphore, KindAtomic, KindCond:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownLocker, s)
}

type semaphoreLocker struct {
	sem *semaphore.Weighted
}

func (l semaphoreLocker) Lock() {
	// Acquire only fails when the context is done, which Background never is.
	_ = l.sem.Acquire(context.Background(), 1)
}

func (l semaphoreLocker) Unlock() {
	l.sem.Release(1)
}

func (l semaphoreLocker) TryLock() bool {
	return l.sem.TryAcquire(1)
}

// NewLocker builds a fresh, unlocked lock of the given kind.
func NewLocker(kind Kind) (lock.ILocker, error) {
	switch kind {
	case KindFutex:
		return new(lock.FutexMutex), nil
	case KindMutex:
		return new(sync.Mutex), nil
	case KindSpin:
		return new(lock.SpinLock), nil
	case KindSemaphore:
		return semaphoreLocker{sem: semaphore.NewWeighted(1)}, nil
	}
	return nil, fmt.Errorf("%w: %q has no locker", errors.ErrUnknownLocker, kind)
}
