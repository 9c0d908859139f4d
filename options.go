// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// DefaultMaxBlockSize is the default cap on EBQ block capacity used when
// NewEBQ is not given WithMaxBlockSize. It must be a power of two >= 2.
const DefaultMaxBlockSize = 512

// Allocator supplies raw storage for EBQ block growth. The zero value
// (nil Allocator) makes NewEBQ use the Go runtime allocator directly via
// make([]T, n), which already satisfies the alignment contract spec.md
// asks of an external allocator collaborator — Go slice allocation is
// always aligned for T.
//
// A non-nil Allocator is only ever consulted on the growth path; it is
// never called by a non-allocating TryEnqueue.
type Allocator interface {
	// Alloc returns a freshly allocated, zero-valued slice of n elements,
	// or an error if the allocation cannot be satisfied.
	Alloc(n int) (any, error)
}

// ebqConfig holds construction-time knobs for NewEBQ.
type ebqConfig struct {
	maxBlockSize int
	allocator    Allocator
}

// EBQOption configures an EBQ at construction time.
type EBQOption func(*ebqConfig)

// WithMaxBlockSize caps the capacity any single EBQ block can grow to.
// Must be a power of two >= 2; panics otherwise. Defaults to
// DefaultMaxBlockSize.
func WithMaxBlockSize(n int) EBQOption {
	if n < 2 || n&(n-1) != 0 {
		panic("lfq: MaxBlockSize must be a power of two >= 2")
	}
	return func(c *ebqConfig) { c.maxBlockSize = n }
}

// WithAllocator overrides the allocator used on the EBQ growth path.
func WithAllocator(a Allocator) EBQOption {
	return func(c *ebqConfig) { c.allocator = a }
}

func newEBQConfig(opts []EBQOption) ebqConfig {
	c := ebqConfig{maxBlockSize: DefaultMaxBlockSize}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ceilPow2 is an alias kept for spec-fidelity with largestBlockSize =
// ceilPow2(size + 1) in spec.md §4.4; identical to roundToPow2.
func ceilPow2(n int) int {
	return roundToPow2(n)
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after an 8-byte field.
type padShort [64 - 8]byte
