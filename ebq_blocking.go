// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"context"
	"time"
)

// BlockingEBQ pairs an EBQ with one counting semaphore, giving the
// consumer wait/timed-wait dequeue operations on top of EBQ's wait-free
// non-blocking core.
//
// There is deliberately only one semaphore (tracking items, signaled on
// every successful enqueue): EBQ's storage grows rather than rejects once
// allocation is permitted, so there is no natural "free slots" count to
// wait on the way FCB has one. WaitEnqueue therefore behaves as the
// allocating Enqueue — it can still fail (when a custom allocator
// returns an error), it simply never blocks on a
// capacity semaphore since unbounded growth has no capacity to wait for.
type BlockingEBQ[T any] struct {
	q     *EBQ[T]
	items *Semaphore
}

// NewBlockingEBQ wraps a freshly constructed EBQ with a counting
// semaphore. See NewEBQ for the size/options semantics.
func NewBlockingEBQ[T any](size int, opts ...EBQOption) *BlockingEBQ[T] {
	return &BlockingEBQ[T]{
		q:     NewEBQ[T](size, opts...),
		items: NewSemaphore(0),
	}
}

// TryEnqueue adds an element without allocating, signaling the items
// semaphore on success.
func (b *BlockingEBQ[T]) TryEnqueue(elem *T) error {
	if err := b.q.TryEnqueue(elem); err != nil {
		return err
	}
	b.items.Signal()
	return nil
}

// Enqueue adds an element, allocating if necessary, signaling the items
// semaphore on success.
func (b *BlockingEBQ[T]) Enqueue(elem *T) error {
	if err := b.q.Enqueue(elem); err != nil {
		return err
	}
	b.items.Signal()
	return nil
}

// WaitEnqueue is Enqueue: see the BlockingEBQ doc comment for why EBQ has
// no enqueue-side semaphore to actually wait on.
func (b *BlockingEBQ[T]) WaitEnqueue(elem *T) error {
	return b.Enqueue(elem)
}

// TryDequeue is EBQ.Dequeue, exposed under the try_* name for symmetry
// with FCB's operation family.
func (b *BlockingEBQ[T]) TryDequeue() (T, error) {
	v, err := b.q.Dequeue()
	if err == nil {
		b.items.TryWait() // keep the semaphore's count in sync
	}
	return v, err
}

// Dequeue is an alias for TryDequeue.
func (b *BlockingEBQ[T]) Dequeue() (T, error) {
	return b.TryDequeue()
}

// WaitDequeue blocks until an element is available or ctx is done.
func (b *BlockingEBQ[T]) WaitDequeue(ctx context.Context) (T, error) {
	for {
		if err := b.items.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		if v, err := b.q.Dequeue(); err == nil {
			return v, nil
		}
		// The permit had no matching element: a TryDequeue can take an
		// element before the producer's Signal for it, and that late
		// Signal leaves a spare permit behind; retry.
	}
}

// WaitDequeueTimed blocks up to timeout for an element to become
// available. Returns ErrTimeout if the deadline passes first.
func (b *BlockingEBQ[T]) WaitDequeueTimed(timeout time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	v, err := b.WaitDequeue(ctx)
	if err != nil {
		var zero T
		return zero, ErrTimeout
	}
	return v, nil
}

// Peek returns a pointer to the front element without removing it.
func (b *BlockingEBQ[T]) Peek() (*T, bool) {
	return b.q.Peek()
}

// Pop discards the front element. Returns false if the queue was empty.
func (b *BlockingEBQ[T]) Pop() bool {
	v, err := b.TryDequeue()
	_ = v
	return err == nil
}

// SizeApprox returns a possibly-stale element count.
func (b *BlockingEBQ[T]) SizeApprox() int {
	return b.q.SizeApprox()
}

// MaxCapacity returns the total element capacity across all current
// blocks.
func (b *BlockingEBQ[T]) MaxCapacity() int {
	return b.q.MaxCapacity()
}

// Cap implements Queue[T]; it is an alias for MaxCapacity.
func (b *BlockingEBQ[T]) Cap() int {
	return b.q.MaxCapacity()
}
