package link

import _ "unsafe"

//go:linkname ProcYield runtime.procyield
func ProcYield(cycles uint32)

//go:linkname FastRand runtime.fastrand
func FastRand() uint32

// Nanotime is the runtime's monotonic clock, without the wall clock reading
// that time.Now carries.
//
//go:linkname Nanotime runtime.nanotime
func Nanotime() int64
