// Package shm maps memory regions that several processes can see at once,
// used to host futex words and the data they protect.
package shm

import (
	"unsafe"

	"github.com/tezrry/oslab/pkg/errors"
)

// Region is a shared memory mapping. Pointers handed out by a Region are
// valid until Close; using them afterwards is undefined.
type Region struct {
	data []byte
	path string
}

// Size returns the mapped length in bytes, a multiple of the page size.
func (r *Region) Size() int {
	return len(r.data)
}

// Path returns the backing file, empty for anonymous regions.
func (r *Region) Path() string {
	return r.path
}

// Uint32 returns a pointer to the 4-byte word at off.
func (r *Region) Uint32(off int) (*uint32, error) {
	p, err := r.word(off, 4)
	if err != nil {
		return nil, err
	}
	return (*uint32)(p), nil
}

// Uint64 returns a pointer to the 8-byte word at off.
func (r *Region) Uint64(off int) (*uint64, error) {
	p, err := r.word(off, 8)
	if err != nil {
		return nil, err
	}
	return (*uint64)(p), nil
}

func (r *Region) word(off, size int) (unsafe.Pointer, error) {
	if r.data == nil {
		return nil, errors.ErrRegionClosed
	}
	if off < 0 || off+size > len(r.data) {
		return nil, errors.ErrOutOfRange
	}
	// Mappings are page aligned, so the offset alone decides alignment.
	if off%size != 0 {
		return nil, errors.ErrMisalignedWord
	}
	return unsafe.Pointer(&r.data[off]), nil
}
