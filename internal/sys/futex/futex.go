// Package futex wraps the futex(2) wait/wake operations on a single 32-bit word.
//
// Wait and WaitTimeout may return spuriously; callers must re-check the word
// instead of trusting the return value. Wake only reports how many waiters
// were released.
package futex

// Scope selects whether a futex word is private to the calling process or
// lives in memory shared with other processes.
type Scope uint8

const (
	// Private words are only waited on by threads of one process; the kernel
	// can skip the shared mapping lookup for them.
	Private Scope = iota
	// Shared words live in a mapping shared between processes.
	Shared
)

// WakeAll is the waiter count that releases every waiter on a word.
const WakeAll = 0x7fff_ffff

func (s Scope) String() string {
	switch s {
	case Private:
		return "private"
	case Shared:
		return "shared"
	}
	return "unknown"
}
