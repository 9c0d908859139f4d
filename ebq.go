// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "sync/atomic"

// EBQ is a single-producer single-consumer unbounded-growth queue built as
// a circular singly-linked list of fixed-capacity blocks.
//
// The common-path Enqueue/Dequeue is wait-free; allocation happens only
// when the ring has no free block left and growth is permitted (via
// Enqueue, as opposed to the non-allocating TryEnqueue).
//
// Based on moodycamel::ReaderWriterQueue's block-ring design: shadow
// copies of the opposite role's index (localFront/localTail) avoid a
// cross-thread atomic load on the common path, falling back to a fresh
// acquire-load only when the cached value disagrees with the predicate.
type EBQ[T any] struct {
	_          pad
	frontBlock atomic.Pointer[block[T]] // consumer-owned
	_          pad
	tailBlock  atomic.Pointer[block[T]] // producer-owned
	_          pad
	largestBlockSize uint64 // producer-owned: next growth target
	maxBlockSize     uint64
	allocator        Allocator
	guard            roleGuard
}

// NewEBQ constructs an EBQ guaranteeing initial capacity for at least size
// elements, per spec.md §4.4's sizing rules.
func NewEBQ[T any](size int, opts ...EBQOption) *EBQ[T] {
	cfg := newEBQConfig(opts)
	maxBlockSize := uint64(cfg.maxBlockSize)

	q := &EBQ[T]{
		maxBlockSize: maxBlockSize,
		allocator:    cfg.allocator,
	}

	largest := uint64(ceilPow2(size + 1))
	if largest > 2*maxBlockSize {
		numBlocks := ceilDiv(uint64(size)+2*maxBlockSize-3, maxBlockSize-1)
		first := newBlock[T](int(maxBlockSize))
		prev := first
		for i := uint64(1); i < numBlocks; i++ {
			b := newBlock[T](int(maxBlockSize))
			prev.next.Store(b)
			prev = b
		}
		prev.next.Store(first)
		q.frontBlock.Store(first)
		q.tailBlock.Store(first)
		q.largestBlockSize = maxBlockSize
	} else {
		first := newBlock[T](int(largest))
		q.frontBlock.Store(first)
		q.tailBlock.Store(first)
		q.largestBlockSize = largest
	}

	return q
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// TryEnqueue adds an element without allocating. Returns ErrWouldBlock
// when the ring is full (no free block available).
func (q *EBQ[T]) TryEnqueue(elem *T) error {
	q.guard.enterProducer()
	defer q.guard.leaveProducer()
	return q.enqueue(elem, false)
}

// Enqueue adds an element, allocating and splicing a new block into the
// ring when necessary. Returns an error only if the allocator fails.
func (q *EBQ[T]) Enqueue(elem *T) error {
	q.guard.enterProducer()
	defer q.guard.leaveProducer()
	return q.enqueue(elem, true)
}

func (q *EBQ[T]) enqueue(elem *T, allowAlloc bool) error {
	tb := q.tailBlock.Load() // producer-owned: plain load suffices

	localFront := tb.localFront
	tail := tb.tail.LoadRelaxed() // producer-owned field, only this thread writes it
	nextTail := (tail + 1) & tb.sizeMask

	if nextTail == localFront {
		localFront = tb.front.LoadAcquire()
		tb.localFront = localFront
	}

	if nextTail != localFront {
		// Fast path: room is certainly available in the current block.
		tb.data[tail] = *elem
		tb.tail.StoreRelease(nextTail)
		return nil
	}

	return q.enqueueSlow(tb, elem, allowAlloc)
}

// enqueueSlow handles a full tail block: either the ring's next block is
// known empty (invariant: any block strictly between tailBlock and
// frontBlock is empty), or the ring is exhausted and growth is needed.
func (q *EBQ[T]) enqueueSlow(tb *block[T], elem *T, allowAlloc bool) error {
	nb := tb.next.Load() // acquire-load of the next block pointer
	fb := q.frontBlock.Load()

	if nb != fb {
		// The next block is guaranteed empty, but it is not fresh: a
		// block is never reset, so its front/tail rest wherever the
		// previous lap's drain left them. Construct at its current
		// tail slot, not slot 0.
		front := nb.front.LoadAcquire()
		nb.localFront = front
		bt := nb.tail.LoadRelaxed() // producer-owned: this thread wrote it last lap
		nb.data[bt] = *elem
		nb.tail.StoreRelease((bt + 1) & nb.sizeMask)
		q.tailBlock.Store(nb) // release: publishes the new current block
		return nil
	}

	if !allowAlloc {
		return ErrWouldBlock
	}

	newSize := q.largestBlockSize * 2
	if newSize > q.maxBlockSize {
		newSize = q.maxBlockSize
	}
	if newSize < 2 {
		newSize = 2
	}

	nbNew, err := q.allocBlock(int(newSize))
	if err != nil {
		return err
	}
	q.largestBlockSize = newSize

	nbNew.data[0] = *elem
	nbNew.tail.StoreRelaxed(1)

	// Splice nbNew between tb and its current next (fb), then publish:
	// the link write must be visible before the tailBlock advance that
	// exposes it, so tb.next is stored first.
	nbNew.next.Store(fb)
	tb.next.Store(nbNew)
	q.tailBlock.Store(nbNew) // release
	return nil
}

func (q *EBQ[T]) allocBlock(capacity int) (*block[T], error) {
	if q.allocator == nil {
		return newBlock[T](capacity), nil
	}
	raw, err := q.allocator.Alloc(capacity)
	if err != nil {
		return nil, err
	}
	if data, ok := raw.([]T); ok && len(data) >= capacity {
		return &block[T]{data: data[:capacity], sizeMask: uint64(capacity) - 1}, nil
	}
	return newBlock[T](capacity), nil
}

// Dequeue removes and returns the front element. Returns (zero-value,
// ErrWouldBlock) if the queue is empty.
func (q *EBQ[T]) Dequeue() (T, error) {
	q.guard.enterConsumer()
	defer q.guard.leaveConsumer()

	var zero T
	fb := q.frontBlock.Load() // consumer-owned

	front := fb.front.LoadRelaxed()
	localTail := fb.localTail

	if front == localTail {
		localTail = fb.tail.LoadAcquire()
		fb.localTail = localTail
	}

	if front != localTail {
		elem := fb.data[front]
		fb.data[front] = zero
		newFront := (front + 1) & fb.sizeMask
		fb.front.StoreRelease(newFront)
		return elem, nil
	}

	// fb's cached view of tail agrees with front: it may genuinely be
	// empty, or tailBlock has already advanced past it.
	tbNow := q.tailBlock.Load() // acquire-load
	if fb == tbNow {
		return zero, ErrWouldBlock
	}

	// Double-check: the producer may have filled fb between the tail
	// reload above and its tailBlock advance. fb.tail is final now.
	localTail = fb.tail.LoadAcquire()
	fb.localTail = localTail
	if front != localTail {
		elem := fb.data[front]
		fb.data[front] = zero
		fb.front.StoreRelease((front + 1) & fb.sizeMask)
		return elem, nil
	}

	nb := fb.next.Load()
	nb.localTail = nb.tail.LoadAcquire()
	q.frontBlock.Store(nb) // release: publishes the advance

	nbFront := nb.front.LoadRelaxed()
	elem := nb.data[nbFront]
	newFront := (nbFront + 1) & nb.sizeMask
	nb.data[nbFront] = zero
	nb.front.StoreRelease(newFront)
	return elem, nil
}

// Peek returns a pointer to the front element without removing it, or
// (nil, false) if the queue is empty. It runs the same discovery
// algorithm as Dequeue but performs no store and no destructive zeroing.
func (q *EBQ[T]) Peek() (*T, bool) {
	q.guard.enterConsumer()
	defer q.guard.leaveConsumer()

	fb := q.frontBlock.Load()
	front := fb.front.LoadRelaxed()
	localTail := fb.localTail

	if front == localTail {
		localTail = fb.tail.LoadAcquire()
		fb.localTail = localTail
	}

	if front != localTail {
		return &fb.data[front], true
	}

	tbNow := q.tailBlock.Load()
	if fb == tbNow {
		return nil, false
	}

	// Same double-check as Dequeue before looking past fb.
	localTail = fb.tail.LoadAcquire()
	fb.localTail = localTail
	if front != localTail {
		return &fb.data[front], true
	}

	nb := fb.next.Load()
	front = nb.front.LoadAcquire()
	tail := nb.tail.LoadAcquire()
	if front == tail {
		return nil, false
	}
	return &nb.data[front], true
}

// Pop behaves as Dequeue but discards the returned element.
func (q *EBQ[T]) Pop() bool {
	_, err := q.Dequeue()
	return err == nil
}

// SizeApprox returns a possibly-stale element count, safe to call from
// either role. It walks the ring from frontBlock to tailBlock, which
// themselves may be observed mid-update; the result can be off by the
// count of one in-flight operation.
func (q *EBQ[T]) SizeApprox() int {
	fb := q.frontBlock.Load()
	tb := q.tailBlock.Load()

	total := 0
	b := fb
	for {
		tail := b.tail.LoadAcquire()
		front := b.front.LoadAcquire()
		total += int((tail - front) & b.sizeMask)
		if b == tb {
			break
		}
		b = b.next.Load()
	}
	return total
}

// MaxCapacity returns the total element capacity across all current
// blocks: one slot per block is always reserved to disambiguate empty
// from full, per spec.md §4.7.
func (q *EBQ[T]) MaxCapacity() int {
	fb := q.frontBlock.Load()
	total := 0
	b := fb
	for {
		total += int(b.sizeMask)
		if b.next.Load() == fb {
			break
		}
		b = b.next.Load()
	}
	return total
}

// Cap implements Queue[T]; it is an alias for MaxCapacity.
func (q *EBQ[T]) Cap() int {
	return q.MaxCapacity()
}
