//go:build linux

package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/tezrry/oslab/pkg/errors"
	"github.com/tezrry/oslab/util/math"
)

func pageAlign(size int) (int, error) {
	if size <= 0 {
		return 0, errors.ErrInvalidRegionSize
	}
	page := uint64(unix.Getpagesize())
	if !math.IsPowerOfTwo(page) {
		return 0, fmt.Errorf("page size %d is not a power of two", page)
	}
	return int(math.AlignUp(uint64(size), page)), nil
}

func mmap(fd, size int) ([]byte, error) {
	flags := unix.MAP_SHARED
	if fd < 0 {
		flags |= unix.MAP_ANONYMOUS
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, flags)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return data, nil
}

// Anonymous maps a zeroed region of at least size bytes that is not backed by
// a file. It is shared with children that inherit the mapping, never with
// unrelated processes.
func Anonymous(size int) (*Region, error) {
	size, err := pageAlign(size)
	if err != nil {
		return nil, err
	}

	data, err := mmap(-1, size)
	if err != nil {
		return nil, err
	}
	return &Region{data: data}, nil
}

// Create makes a new file at path, sizes it to at least size bytes and maps
// it. The file must not exist yet; its contents start zeroed.
func Create(path string, size int) (*Region, error) {
	size, err := pageAlign(size)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if err = f.Truncate(int64(size)); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	data, err := mmap(int(f.Fd()), size)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &Region{data: data, path: path}, nil
}

// Open maps an existing region file created by Create.
func Open(path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() <= 0 {
		return nil, fmt.Errorf("%w: %s is empty", errors.ErrInvalidRegionSize, path)
	}

	data, err := mmap(int(f.Fd()), int(fi.Size()))
	if err != nil {
		return nil, err
	}
	return &Region{data: data, path: path}, nil
}

// Close unmaps the region. The backing file, if any, is left in place.
func (r *Region) Close() error {
	if r.data == nil {
		return errors.ErrRegionClosed
	}

	data := r.data
	r.data = nil
	return os.NewSyscallError("munmap", unix.Munmap(data))
}

// Remove unmaps the region and deletes its backing file.
func (r *Region) Remove() error {
	err := r.Close()
	if r.path == "" {
		return err
	}
	if rmErr := os.Remove(r.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
