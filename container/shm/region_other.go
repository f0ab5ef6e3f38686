//go:build !linux

package shm

import "github.com/tezrry/oslab/pkg/errors"

func Anonymous(size int) (*Region, error) {
	return nil, errors.ErrUnsupportedPlatform
}

func Create(path string, size int) (*Region, error) {
	return nil, errors.ErrUnsupportedPlatform
}

func Open(path string) (*Region, error) {
	return nil, errors.ErrUnsupportedPlatform
}

func (r *Region) Close() error {
	return errors.ErrUnsupportedPlatform
}

func (r *Region) Remove() error {
	return errors.ErrUnsupportedPlatform
}
