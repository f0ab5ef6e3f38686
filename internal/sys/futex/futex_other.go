//go:build !linux

package futex

import (
	"runtime"
	"time"

	"github.com/tezrry/oslab/pkg/errors"
)

// Wait yields the processor and returns ErrUnsupportedPlatform, which callers
// treat like a spurious wakeup.
func Wait(addr *uint32, val uint32, scope Scope) error {
	runtime.Gosched()
	return errors.ErrUnsupportedPlatform
}

// WaitTimeout yields the processor for at most d.
func WaitTimeout(addr *uint32, val uint32, d time.Duration, scope Scope) error {
	if d > time.Millisecond {
		d = time.Millisecond
	}
	if d > 0 {
		time.Sleep(d)
	}
	return errors.ErrUnsupportedPlatform
}

// Wake is a no-op outside of linux.
func Wake(addr *uint32, n int, scope Scope) (int, error) {
	return 0, errors.ErrUnsupportedPlatform
}

// IsTimeout never matches outside of linux.
func IsTimeout(err error) bool {
	return false
}
