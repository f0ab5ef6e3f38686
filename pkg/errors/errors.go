// Copyright (c) 2019 Andy Pan
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

package errors

import "errors"

var (
	// ErrUnsupportedPlatform occurs when running the futex paths on a platform other than linux.
	ErrUnsupportedPlatform = errors.New("oslab: unsupported platform in oslab")
	// ErrInvalidRegionSize occurs when a shared region is created with a non-positive size.
	ErrInvalidRegionSize = errors.New("oslab: invalid shared region size")
	// ErrMisalignedWord occurs when a word is requested at an offset that is not naturally aligned.
	ErrMisalignedWord = errors.New("oslab: misaligned word offset")
	// ErrOutOfRange occurs when a word is requested beyond the end of a shared region.
	ErrOutOfRange = errors.New("oslab: offset out of range")
	// ErrRegionClosed occurs when accessing a shared region that has been unmapped.
	ErrRegionClosed = errors.New("oslab: shared region has been closed")
	// ErrCounterMismatch occurs when a benchmark finishes with a counter different from the expected total,
	// meaning an increment was lost or duplicated.
	ErrCounterMismatch = errors.New("oslab: counter mismatch")
	// ErrUnknownLocker occurs when a benchmark is asked for a locker kind it doesn't know.
	ErrUnknownLocker = errors.New("oslab: unknown locker kind")
	// ErrInvalidConfig occurs when a benchmark config fails validation.
	ErrInvalidConfig = errors.New("oslab: invalid config")
)
