// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
)

// FCB is a single-producer single-consumer strictly bounded circular
// buffer: a single preallocated array of slots plus two monotonically
// increasing indices masked to the capacity window, and a pair of
// counting semaphores giving it both non-blocking and blocking
// operations without a separate wrapper type.
//
// Derived from the teacher package's Lamport-ring-buffer SPSC (index/mask
// layout, one atomic store per operation) — without its cached
// opposite-index shadow, which that ring needs to avoid a cross-thread
// atomic load but which FCB has no use for: ordering here comes entirely
// from the freeSlots/items semaphore pair, so there is no separate
// "is there room" check for a shadow to short-circuit. Extended with that
// semaphore pair, the shape moodycamel's BlockingReaderWriterCircularBuffer
// layers over the same ring, so try_* and wait_*/wait_*_timed can coexist
// on one type.
//
// FCB never allocates after construction.
type FCB[T any] struct {
	_        pad
	nextItem atomix.Uint64 // consumer-owned: index of next slot to dequeue
	_        pad
	nextSlot atomix.Uint64 // producer-owned: index of next slot to enqueue
	_        pad
	data     []T
	mask     uint64
	capacity int // maxcap as requested; data is sized to the next power of 2

	freeSlots *Semaphore
	items     *Semaphore
}

// NewFCB creates an FCB with room for exactly maxcap elements in flight;
// the backing array rounds up to the next power of two so slot indices
// can be masked instead of divided, but freeSlots/items gate usage to
// maxcap — unlike EBQ's blocks, FCB wastes no slot to disambiguate empty
// from full, because nextSlot/nextItem are unbounded counters (masked
// only at access), not wrapped indices compared directly.
func NewFCB[T any](maxcap int) *FCB[T] {
	if maxcap < 1 {
		panic("lfq: maxcap must be >= 1")
	}
	n := uint64(roundToPow2(maxcap))
	return &FCB[T]{
		data:      make([]T, n),
		mask:      n - 1,
		capacity:  maxcap,
		freeSlots: NewSemaphore(maxcap),
		items:     NewSemaphore(0),
	}
}

// TryEnqueue reserves a slot without blocking. Returns ErrWouldBlock if
// the queue is full.
func (q *FCB[T]) TryEnqueue(elem *T) error {
	if !q.freeSlots.TryWait() {
		return ErrWouldBlock
	}
	q.store(elem)
	return nil
}

// WaitEnqueue blocks until a slot is free or ctx is done.
func (q *FCB[T]) WaitEnqueue(ctx context.Context, elem *T) error {
	if err := q.freeSlots.Wait(ctx); err != nil {
		return err
	}
	q.store(elem)
	return nil
}

// WaitEnqueueTimed blocks up to timeout for a free slot. Returns
// ErrTimeout if the deadline passes first.
func (q *FCB[T]) WaitEnqueueTimed(elem *T, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := q.WaitEnqueue(ctx, elem)
	if err != nil {
		return ErrTimeout
	}
	return nil
}

func (q *FCB[T]) store(elem *T) {
	i := q.nextSlot.LoadRelaxed()
	q.data[i&q.mask] = *elem
	q.nextSlot.StoreRelease(i + 1)
	q.items.Signal()
}

// Enqueue implements Producer[T] as an alias for TryEnqueue.
func (q *FCB[T]) Enqueue(elem *T) error {
	return q.TryEnqueue(elem)
}

// TryDequeue removes an element without blocking. Returns (zero-value,
// ErrWouldBlock) if the queue is empty.
func (q *FCB[T]) TryDequeue() (T, error) {
	var zero T
	if !q.items.TryWait() {
		return zero, ErrWouldBlock
	}
	return q.take(), nil
}

// Dequeue implements Consumer[T] as an alias for TryDequeue.
func (q *FCB[T]) Dequeue() (T, error) {
	return q.TryDequeue()
}

// WaitDequeue blocks until an element is available or ctx is done.
func (q *FCB[T]) WaitDequeue(ctx context.Context) (T, error) {
	var zero T
	if err := q.items.Wait(ctx); err != nil {
		return zero, err
	}
	return q.take(), nil
}

// WaitDequeueTimed blocks up to timeout for an element to become
// available. Returns ErrTimeout if the deadline passes first.
func (q *FCB[T]) WaitDequeueTimed(timeout time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	v, err := q.WaitDequeue(ctx)
	if err != nil {
		var zero T
		return zero, ErrTimeout
	}
	return v, nil
}

func (q *FCB[T]) take() T {
	i := q.nextItem.LoadRelaxed()
	elem := q.data[i&q.mask]
	var zero T
	q.data[i&q.mask] = zero
	q.nextItem.StoreRelease(i + 1)
	q.freeSlots.Signal()
	return elem
}

// SizeApprox returns a possibly-stale element count, safe from either
// side.
func (q *FCB[T]) SizeApprox() int {
	return q.items.AvailableApprox()
}

// MaxCapacity returns the fixed element capacity, i.e. the maxcap given
// to NewFCB.
func (q *FCB[T]) MaxCapacity() int {
	return q.capacity
}

// Cap implements Queue[T]; it is an alias for MaxCapacity.
func (q *FCB[T]) Cap() int {
	return q.capacity
}
