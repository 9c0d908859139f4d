// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
)

// FCBIndirect is an FCB specialized for uintptr payloads: handles,
// offsets, encoded IDs, or anything else the caller manages the
// lifetime of outside the queue. Unlike FCBPtr it carries no pointer
// semantics of its own — it never keeps a value alive and never writes
// through it — so it fits opaque integer handles as well as true
// pointers round-tripped through uintptr by the caller.
//
// Adapted from the teacher package's indirect SPSC variant: same ring
// plumbing as FCB, narrowed to a single machine word per slot.
type FCBIndirect struct {
	_        pad
	nextItem atomix.Uint64
	_        pad
	nextSlot atomix.Uint64
	_        pad
	data     []uintptr
	mask     uint64
	capacity int

	freeSlots *Semaphore
	items     *Semaphore
}

// NewFCBIndirect creates an FCBIndirect with room for exactly maxcap
// handles in flight.
func NewFCBIndirect(maxcap int) *FCBIndirect {
	if maxcap < 1 {
		panic("lfq: maxcap must be >= 1")
	}
	n := uint64(roundToPow2(maxcap))
	return &FCBIndirect{
		data:      make([]uintptr, n),
		mask:      n - 1,
		capacity:  maxcap,
		freeSlots: NewSemaphore(maxcap),
		items:     NewSemaphore(0),
	}
}

// TryEnqueue stores a handle without blocking. Returns ErrWouldBlock if
// the queue is full.
func (q *FCBIndirect) TryEnqueue(elem uintptr) error {
	if !q.freeSlots.TryWait() {
		return ErrWouldBlock
	}
	q.store(elem)
	return nil
}

// Enqueue implements ProducerIndirect as an alias for TryEnqueue.
func (q *FCBIndirect) Enqueue(elem uintptr) error {
	return q.TryEnqueue(elem)
}

// WaitEnqueue blocks until a slot is free or ctx is done.
func (q *FCBIndirect) WaitEnqueue(ctx context.Context, elem uintptr) error {
	if err := q.freeSlots.Wait(ctx); err != nil {
		return err
	}
	q.store(elem)
	return nil
}

// WaitEnqueueTimed blocks up to timeout for a free slot. Returns
// ErrTimeout if the deadline passes first.
func (q *FCBIndirect) WaitEnqueueTimed(elem uintptr, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := q.WaitEnqueue(ctx, elem); err != nil {
		return ErrTimeout
	}
	return nil
}

func (q *FCBIndirect) store(elem uintptr) {
	i := q.nextSlot.LoadRelaxed()
	q.data[i&q.mask] = elem
	q.nextSlot.StoreRelease(i + 1)
	q.items.Signal()
}

// TryDequeue removes a handle without blocking. Returns (0,
// ErrWouldBlock) if the queue is empty.
func (q *FCBIndirect) TryDequeue() (uintptr, error) {
	if !q.items.TryWait() {
		return 0, ErrWouldBlock
	}
	return q.take(), nil
}

// Dequeue implements ConsumerIndirect as an alias for TryDequeue.
func (q *FCBIndirect) Dequeue() (uintptr, error) {
	return q.TryDequeue()
}

// WaitDequeue blocks until a handle is available or ctx is done.
func (q *FCBIndirect) WaitDequeue(ctx context.Context) (uintptr, error) {
	if err := q.items.Wait(ctx); err != nil {
		return 0, err
	}
	return q.take(), nil
}

// WaitDequeueTimed blocks up to timeout for a handle to become
// available. Returns ErrTimeout if the deadline passes first.
func (q *FCBIndirect) WaitDequeueTimed(timeout time.Duration) (uintptr, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	v, err := q.WaitDequeue(ctx)
	if err != nil {
		return 0, ErrTimeout
	}
	return v, nil
}

func (q *FCBIndirect) take() uintptr {
	i := q.nextItem.LoadRelaxed()
	elem := q.data[i&q.mask]
	q.data[i&q.mask] = 0
	q.nextItem.StoreRelease(i + 1)
	q.freeSlots.Signal()
	return elem
}

// SizeApprox returns a possibly-stale element count, safe from either
// side.
func (q *FCBIndirect) SizeApprox() int {
	return q.items.AvailableApprox()
}

// Cap returns the queue's usable capacity.
func (q *FCBIndirect) Cap() int {
	return q.capacity
}
