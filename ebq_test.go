// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"testing"

	"github.com/hayabusa-go/lfq"
)

// TestEBQPingPong exercises the basic Enqueue/Dequeue FIFO shape on a
// single-block EBQ.
func TestEBQPingPong(t *testing.T) {
	q := lfq.NewEBQ[int](4)

	for i := 1; i <= 3; i++ {
		v := i
		if err := q.TryEnqueue(&v); err != nil {
			t.Fatalf("TryEnqueue(%d): %v", i, err)
		}
	}

	for i := 1; i <= 3; i++ {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if v != i {
			t.Fatalf("Dequeue = %d, want %d", v, i)
		}
	}

	if _, err := q.Dequeue(); !lfq.IsWouldBlock(err) {
		t.Fatalf("Dequeue on empty queue: err=%v, want ErrWouldBlock", err)
	}
}

// TestEBQGrowth is spec.md §8 scenario 3: construct with initial size=2
// (single block, capacity 4, 3 usable slots since one is wasted); the
// non-allocating try_enqueue can hold 3 elements, the 4th needs the
// allocating Enqueue to splice in a new block.
func TestEBQGrowth(t *testing.T) {
	q := lfq.NewEBQ[int](2)

	for i := 1; i <= 3; i++ {
		v := i
		if err := q.TryEnqueue(&v); err != nil {
			t.Fatalf("TryEnqueue(%d): %v", i, err)
		}
	}

	v3 := 99
	if err := q.TryEnqueue(&v3); !lfq.IsWouldBlock(err) {
		t.Fatalf("TryEnqueue on full block: err=%v, want ErrWouldBlock", err)
	}

	for i := 4; i <= 7; i++ {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	if got := q.MaxCapacity(); got < 7 {
		t.Fatalf("MaxCapacity() = %d, want >= 7", got)
	}

	for i := 1; i <= 7; i++ {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if v != i {
			t.Fatalf("Dequeue = %d, want %d (FIFO order across the spliced block)", v, i)
		}
	}
}

// TestEBQRingAdvancement is spec.md §8 scenario 4: force multiple blocks,
// fill completely, drain completely, fill again — the second fill must
// not allocate and dequeue order must still hold.
func TestEBQRingAdvancement(t *testing.T) {
	q := lfq.NewEBQ[int](2, lfq.WithMaxBlockSize(2))

	fill := func(base int) {
		for i := range 20 {
			v := base + i
			if err := q.Enqueue(&v); err != nil {
				t.Fatalf("Enqueue(%d): %v", v, err)
			}
		}
	}
	drain := func(base int) {
		for i := range 20 {
			v, err := q.Dequeue()
			if err != nil {
				t.Fatalf("Dequeue: %v", err)
			}
			if v != base+i {
				t.Fatalf("Dequeue = %d, want %d", v, base+i)
			}
		}
	}

	fill(0)
	drain(0)
	capAfterFirstRound := q.MaxCapacity()

	fill(1000)
	if got := q.MaxCapacity(); got != capAfterFirstRound {
		t.Fatalf("second fill allocated: MaxCapacity before=%d after=%d", capAfterFirstRound, got)
	}
	drain(1000)
}

// TestEBQReusedBlockRestsAtNonZeroOffset targets the reused-block write
// offset directly: a cap-2 block that fills and fully drains comes to
// rest at front==tail==1, not 0. Writing into it on the next lap must
// resume from that offset instead of slot 0 (which would either read the
// wrong slot, or — for a cap-2 block specifically — make the block look
// empty again and silently drop the element).
func TestEBQReusedBlockRestsAtNonZeroOffset(t *testing.T) {
	q := lfq.NewEBQ[int](1, lfq.WithMaxBlockSize(2))

	// Fill the first block (cap 2, 1 usable slot) and force two more
	// cap-2 blocks to be spliced in, then drain all blocks completely so
	// each block's front/tail rest at a non-zero offset.
	for i := 1; i <= 3; i++ {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	for i := 1; i <= 3; i++ {
		v, err := q.Dequeue()
		if err != nil || v != i {
			t.Fatalf("Dequeue = (%d, %v), want (%d, nil)", v, err, i)
		}
	}

	// The ring now has blocks resting at a non-zero offset. Refill and
	// drain again: if the reuse path wrote at a hardcoded slot 0, this
	// would either return stale/wrong values or drop elements.
	for i := 4; i <= 6; i++ {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	for i := 4; i <= 6; i++ {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if v != i {
			t.Fatalf("Dequeue = %d, want %d (reused block wrote at the wrong offset)", v, i)
		}
	}
}

// TestEBQPeekIdempotence is spec.md §8 scenario 5.
func TestEBQPeekIdempotence(t *testing.T) {
	q := lfq.NewEBQ[int](4)
	v := 7
	if err := q.TryEnqueue(&v); err != nil {
		t.Fatalf("TryEnqueue: %v", err)
	}

	p1, ok := q.Peek()
	if !ok {
		t.Fatalf("Peek on non-empty queue returned ok=false")
	}
	p2, ok := q.Peek()
	if !ok {
		t.Fatalf("second Peek returned ok=false")
	}
	if *p1 != *p2 || *p1 != 7 {
		t.Fatalf("Peek mismatch: %d, %d, want 7, 7", *p1, *p2)
	}

	got, err := q.Dequeue()
	if err != nil || got != 7 {
		t.Fatalf("Dequeue after Peek = (%d, %v), want (7, nil)", got, err)
	}
}

func TestEBQPeekEmpty(t *testing.T) {
	q := lfq.NewEBQ[int](4)
	if _, ok := q.Peek(); ok {
		t.Fatalf("Peek on empty queue returned ok=true")
	}
}

func TestEBQPop(t *testing.T) {
	q := lfq.NewEBQ[int](4)
	v := 1
	_ = q.TryEnqueue(&v)
	if !q.Pop() {
		t.Fatalf("Pop on non-empty queue returned false")
	}
	if q.Pop() {
		t.Fatalf("Pop on empty queue returned true")
	}
}

func TestEBQSizeApprox(t *testing.T) {
	q := lfq.NewEBQ[int](8)
	if got := q.SizeApprox(); got != 0 {
		t.Fatalf("SizeApprox on new queue = %d, want 0", got)
	}
	for i := range 3 {
		v := i
		_ = q.TryEnqueue(&v)
	}
	if got := q.SizeApprox(); got != 3 {
		t.Fatalf("SizeApprox = %d, want 3", got)
	}
	_, _ = q.Dequeue()
	if got := q.SizeApprox(); got != 2 {
		t.Fatalf("SizeApprox after one dequeue = %d, want 2", got)
	}
}

func TestEBQWithAllocator(t *testing.T) {
	var calls int
	alloc := allocatorFunc(func(n int) (any, error) {
		calls++
		return make([]int, n), nil
	})

	q := lfq.NewEBQ[int](2, lfq.WithAllocator(alloc))
	for i := range 10 {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if calls == 0 {
		t.Fatalf("custom allocator was never invoked on the growth path")
	}
}

type allocatorFunc func(n int) (any, error)

func (f allocatorFunc) Alloc(n int) (any, error) { return f(n) }
