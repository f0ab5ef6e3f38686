// Copyright (c) 2021 Andy Pan
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux

package futex

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	opWait        = 0
	opWake        = 1
	opPrivateFlag = 128
)

// Do the interface allocations only once for common
// Errno values.
var (
	errEAGAIN    error = unix.EAGAIN
	errEINTR     error = unix.EINTR
	errETIMEDOUT error = unix.ETIMEDOUT
	errEINVAL    error = unix.EINVAL
)

// errnoErr returns common boxed Errno values, to prevent
// allocations at runtime.
func errnoErr(e unix.Errno) error {
	switch e {
	case unix.EAGAIN:
		return errEAGAIN
	case unix.EINTR:
		return errEINTR
	case unix.ETIMEDOUT:
		return errETIMEDOUT
	case unix.EINVAL:
		return errEINVAL
	}
	return e
}

func op(base uintptr, scope Scope) uintptr {
	if scope == Private {
		return base | opPrivateFlag
	}
	return base
}

// Wait atomically checks that *addr still equals val and, if so, sleeps until
// a Wake on addr or a spurious wakeup. It returns EAGAIN immediately when the
// word has already changed and EINTR when interrupted by a signal.
func Wait(addr *uint32, val uint32, scope Scope) error {
	// Syscall6, not RawSyscall6: the runtime must hand the P off while this
	// thread sleeps in the kernel.
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)), op(opWait, scope), uintptr(val), 0, 0, 0)
	if errno != 0 {
		return errnoErr(errno)
	}
	return nil
}

// WaitTimeout is like Wait but gives up with ETIMEDOUT after d. A
// non-positive d never sleeps.
func WaitTimeout(addr *uint32, val uint32, d time.Duration, scope Scope) error {
	if d <= 0 {
		return errETIMEDOUT
	}

	ts := unix.NsecToTimespec(d.Nanoseconds())
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)), op(opWait, scope), uintptr(val), uintptr(unsafe.Pointer(&ts)), 0, 0)
	if errno != 0 {
		return errnoErr(errno)
	}
	return nil
}

// Wake releases up to n threads blocked in Wait on addr and returns how many
// were actually woken.
func Wake(addr *uint32, n int, scope Scope) (int, error) {
	r, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)), op(opWake, scope), uintptr(n), 0, 0, 0)
	if errno != 0 {
		return 0, errnoErr(errno)
	}
	return int(r), nil
}

// IsTimeout reports whether err is the timeout returned by WaitTimeout.
func IsTimeout(err error) bool {
	return err == errETIMEDOUT
}
