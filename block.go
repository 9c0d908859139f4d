// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// block is a single fixed-capacity power-of-two circular buffer: one leaf
// of an EBQ's ring. Its operations are not exported; it is manipulated
// only by its owning EBQ.
//
// Field grouping follows spec.md §4.1's false-sharing mitigation: front
// and the consumer's localTail shadow share a line, tail and the
// producer's localFront shadow share a second line, and next/data share
// a third.
type block[T any] struct {
	_          pad
	front      atomix.Uint64 // consumer-owned: next slot to dequeue
	localTail  uint64        // consumer-owned shadow of tail
	_          padShort

	_          pad
	tail       atomix.Uint64 // producer-owned: next slot to enqueue
	localFront uint64        // producer-owned shadow of front
	_          padShort

	_        pad
	next     atomic.Pointer[block[T]] // published with release by producer
	data     []T
	sizeMask uint64
}

// newBlock allocates a block of the given power-of-two capacity. The
// block's next initially points at itself, matching spec.md's "next is
// initially self-cyclic for the first block of a newly constructed ring";
// callers splicing additional blocks into an existing ring overwrite next
// immediately after construction.
func newBlock[T any](capacity int) *block[T] {
	b := &block[T]{
		data:     make([]T, capacity),
		sizeMask: uint64(capacity) - 1,
	}
	b.next.Store(b)
	return b
}

// capacity returns the number of slots in the block, one of which is
// always wasted to disambiguate empty from full.
func (b *block[T]) capacity() int {
	return int(b.sizeMask) + 1
}
