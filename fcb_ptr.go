// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"context"
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// FCBPtr is an FCB specialized for unsafe.Pointer payloads, enabling
// zero-copy object transfer between the producer and consumer goroutine:
// the producer creates an object once, enqueues its pointer, and the
// consumer receives the same pointer. Ownership transfers to the
// consumer on a successful Enqueue — the producer must not touch the
// object afterwards.
//
// Adapted from the teacher package's SPSCPtr: the slot array is walked
// with unsafe.Add pointer arithmetic (eliding a bounds check already
// proven safe by the mask) rather than Go slice indexing.
type FCBPtr struct {
	_        pad
	nextItem atomix.Uint64
	_        pad
	nextSlot atomix.Uint64
	_        pad
	data     []unsafe.Pointer
	mask     uint64
	capacity int

	freeSlots *Semaphore
	items     *Semaphore
}

// NewFCBPtr creates an FCBPtr with room for exactly maxcap pointers in
// flight.
func NewFCBPtr(maxcap int) *FCBPtr {
	if maxcap < 1 {
		panic("lfq: maxcap must be >= 1")
	}
	n := uint64(roundToPow2(maxcap))
	return &FCBPtr{
		data:      make([]unsafe.Pointer, n),
		mask:      n - 1,
		capacity:  maxcap,
		freeSlots: NewSemaphore(maxcap),
		items:     NewSemaphore(0),
	}
}

func (q *FCBPtr) slot(i uint64) *unsafe.Pointer {
	// Equivalent to &q.data[i&q.mask]; pointer arithmetic elides the
	// slice bounds check since i&q.mask is always < len(q.data).
	return (*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.data)), int(i&q.mask)*ptrSize))
}

// TryEnqueue adds a pointer without blocking. Returns ErrWouldBlock if
// the queue is full.
func (q *FCBPtr) TryEnqueue(elem unsafe.Pointer) error {
	if !q.freeSlots.TryWait() {
		return ErrWouldBlock
	}
	q.store(elem)
	return nil
}

// Enqueue implements ProducerPtr as an alias for TryEnqueue.
func (q *FCBPtr) Enqueue(elem unsafe.Pointer) error {
	return q.TryEnqueue(elem)
}

// WaitEnqueue blocks until a slot is free or ctx is done.
func (q *FCBPtr) WaitEnqueue(ctx context.Context, elem unsafe.Pointer) error {
	if err := q.freeSlots.Wait(ctx); err != nil {
		return err
	}
	q.store(elem)
	return nil
}

func (q *FCBPtr) store(elem unsafe.Pointer) {
	i := q.nextSlot.LoadRelaxed()
	*q.slot(i) = elem
	q.nextSlot.StoreRelease(i + 1)
	q.items.Signal()
}

// TryDequeue removes a pointer without blocking. Returns (nil,
// ErrWouldBlock) if the queue is empty.
func (q *FCBPtr) TryDequeue() (unsafe.Pointer, error) {
	if !q.items.TryWait() {
		return nil, ErrWouldBlock
	}
	return q.take(), nil
}

// Dequeue implements ConsumerPtr as an alias for TryDequeue.
func (q *FCBPtr) Dequeue() (unsafe.Pointer, error) {
	return q.TryDequeue()
}

// WaitDequeue blocks until a pointer is available or ctx is done.
func (q *FCBPtr) WaitDequeue(ctx context.Context) (unsafe.Pointer, error) {
	if err := q.items.Wait(ctx); err != nil {
		return nil, err
	}
	return q.take(), nil
}

// WaitDequeueTimed blocks up to timeout. Returns ErrTimeout if the
// deadline passes first.
func (q *FCBPtr) WaitDequeueTimed(timeout time.Duration) (unsafe.Pointer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	v, err := q.WaitDequeue(ctx)
	if err != nil {
		return nil, ErrTimeout
	}
	return v, nil
}

func (q *FCBPtr) take() unsafe.Pointer {
	i := q.nextItem.LoadRelaxed()
	slot := q.slot(i)
	elem := *slot
	*slot = nil
	q.nextItem.StoreRelease(i + 1)
	q.freeSlots.Signal()
	return elem
}

// SizeApprox returns a possibly-stale element count, safe from either
// side.
func (q *FCBPtr) SizeApprox() int {
	return q.items.AvailableApprox()
}

// Cap returns the queue's usable capacity.
func (q *FCBPtr) Cap() int {
	return q.capacity
}
