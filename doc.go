// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq provides single-producer single-consumer wait-free FIFO
// queues.
//
// The package offers two shapes for different capacity needs:
//
//   - EBQ: Expanding Block Queue — grows by linking in additional fixed
//     capacity blocks on demand, never copies or reallocates existing
//     elements, bounded only by memory.
//   - FCB: Fixed Circular Buffer — one preallocated power-of-two array,
//     never allocates after construction, strictly bounded.
//
// Both shapes come in a non-blocking flavor (immediate ErrWouldBlock)
// and a semaphore-backed blocking flavor (context-cancellable wait and
// a fixed-timeout wait).
//
// # Quick Start
//
//	q := lfq.NewEBQ[Event](1024)
//	bq := lfq.NewFCB[Event](1024)
//
// # Basic Usage
//
// Both shapes share the same producer/consumer shape for enqueueing and
// dequeueing:
//
//	// Create a queue
//	q := lfq.NewEBQ[int](1024)
//
//	// Enqueue (non-blocking, allocates a new block if the ring has no free one)
//	value := 42
//	err := q.Enqueue(&value)
//	if err != nil {
//	    // custom allocator failed
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if lfq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Common Patterns
//
// Pipeline Stage (bounded, backpressure via FCB):
//
//	// Stage 1 → Queue → Stage 2, Stage 1 blocked when Stage 2 falls behind
//	q := lfq.NewFCB[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    for data := range input {
//	        if err := q.WaitEnqueueTimed(&data, time.Second); err != nil {
//	            continue // dropped: consumer too slow
//	        }
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    ctx := context.Background()
//	    for {
//	        data, err := q.WaitDequeue(ctx)
//	        if err != nil {
//	            return // ctx canceled
//	        }
//	        process(data)
//	    }
//	}()
//
// Pipeline Stage (unbounded, EBQ absorbs bursts):
//
//	// Stage 1 → Queue → Stage 2, producer never blocks on a slow consumer
//	q := lfq.NewBlockingEBQ[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    for data := range input {
//	        q.Enqueue(&data) // grows rather than blocks
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    ctx := context.Background()
//	    for {
//	        data, err := q.WaitDequeue(ctx)
//	        if err != nil {
//	            return
//	        }
//	        process(data)
//	    }
//	}()
//
// # Queue Variants
//
// Three payload flavors are available for FCB, mirroring the teacher
// package's SPSC family:
//
//	NewFCB[T]()        - Generic type-safe queue for any type
//	NewFCBIndirect()   - Queue for uintptr values (pool indices, handles)
//	NewFCBPtr()        - Queue for unsafe.Pointer (zero-copy pointer passing)
//
// When to use Indirect:
//
//	// Buffer pool with index-based access
//	pool := make([][]byte, 1024)
//	freeList := lfq.NewFCBIndirect(1024)
//
//	// Initialize free list with buffer indices
//	for i := range pool {
//	    pool[i] = make([]byte, 4096)
//	    freeList.Enqueue(uintptr(i))
//	}
//
//	// Allocate: get index from free list
//	idx, err := freeList.Dequeue()
//	buf := pool[idx]
//
//	// Free: return index to free list
//	freeList.Enqueue(idx)
//
// When to use Ptr:
//
//	// Zero-copy object passing between goroutines
//	q := lfq.NewFCBPtr(1024)
//
//	// Producer creates object once
//	msg := &Message{Data: largePayload}
//	q.Enqueue(unsafe.Pointer(msg))
//
//	// Consumer receives same pointer - no copy
//	ptr, _ := q.Dequeue()
//	msg := (*Message)(ptr)
//
// EBQ has no Indirect/Ptr variants: its growth path constructs new
// blocks of T, which for uintptr or unsafe.Pointer payloads offers no
// benefit over the generic form.
//
// # Growth Control
//
// EBQ grows by doubling its most recently allocated block size up to a
// ceiling, configured at construction:
//
//	q := lfq.NewEBQ[Event](1024, lfq.WithMaxBlockSize(2048))
//
// TryEnqueue never allocates; Enqueue allocates when the current block
// is full and the next block in the ring is not empty. A custom
// allocator can be supplied for arena- or pool-backed
// block construction:
//
//	q := lfq.NewEBQ[Event](1024, lfq.WithAllocator(myArena))
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when a non-blocking operation cannot
// proceed. This error is sourced from [code.hybscloud.com/iox] for
// ecosystem consistency.
//
//	// Retry loop with backoff
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !lfq.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	lfq.IsWouldBlock(err)  // true if queue full/empty
//	lfq.IsSemantic(err)    // true if control flow signal
//	lfq.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Blocking operations with a deadline return [ErrTimeout] instead, a
// local error not sourced from iox since iox has no timeout
// classification:
//
//	lfq.IsTimeout(err)     // true if a wait's deadline passed
//
// # Capacity and Length
//
// FCB's capacity rounds its backing array up to the next power of 2,
// but gates usage to exactly the requested capacity via its semaphore
// pair — unlike the teacher package's SPSC, no slot is wasted to
// disambiguate empty from full:
//
//	q := lfq.NewFCB[int](3)     // Cap() == 3
//	q := lfq.NewFCB[int](1000)  // Cap() == 1000
//
// EBQ's capacity grows block by block; MaxCapacity/Cap report the sum
// across all currently linked blocks, which increases as Enqueue
// allocates.
//
// SizeApprox is intentionally approximate because exact counts in
// wait-free algorithms require expensive cross-core synchronization.
// Track exact counts in application logic when needed.
//
// # Thread Safety
//
// EBQ and FCB are single-producer single-consumer: exactly one
// goroutine may call producer-side methods (TryEnqueue/Enqueue/
// WaitEnqueue*) and exactly one goroutine may call consumer-side
// methods (TryDequeue/Dequeue/WaitDequeue*/Peek/Pop) concurrently with
// it. Violating this (e.g. two goroutines enqueueing) causes undefined
// behavior including data corruption and races.
//
// Build with -tags lfqdebug to turn same-role reentrancy on an EBQ or
// BlockingEBQ into a panic instead of undefined behavior — see
// [roleGuard]. FCB, FCBIndirect and FCBPtr have no such check.
//
// # Race Detection
//
// Go's race detector is not designed for wait-free algorithm
// verification. The race detector tracks explicit synchronization
// primitives (mutex, channels, WaitGroup) but cannot observe
// happens-before relationships established through atomic memory
// orderings (acquire-release semantics).
//
// EBQ and FCB use acquire/release-ordered atomics to protect non-atomic
// data fields. These algorithms are correct, but the race detector may
// report false positives because it cannot track synchronization
// provided by atomic operations on separate variables.
//
// Tests incompatible with race detection are excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions during the spin phase of a blocking wait.
package lfq
