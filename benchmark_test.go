// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"testing"
	"unsafe"

	"github.com/hayabusa-go/lfq"
)

// =============================================================================
// SPSC Baselines (Critical for overhead comparison)
// =============================================================================

func BenchmarkEBQ_SingleOp(b *testing.B) {
	q := lfq.NewEBQ[int](1024)

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.TryEnqueue(&v)
		q.Dequeue()
	}
}

func BenchmarkFCB_SingleOp(b *testing.B) {
	q := lfq.NewFCB[int](1024)

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.TryEnqueue(&v)
		q.TryDequeue()
	}
}

func BenchmarkFCBIndirect_SingleOp(b *testing.B) {
	q := lfq.NewFCBIndirect(1024)

	b.ResetTimer()
	for i := range b.N {
		q.TryEnqueue(uintptr(i))
		q.TryDequeue()
	}
}

func BenchmarkFCBPtr_SingleOp(b *testing.B) {
	q := lfq.NewFCBPtr(1024)
	val := 42

	b.ResetTimer()
	for range b.N {
		q.TryEnqueue(unsafe.Pointer(&val))
		q.TryDequeue()
	}
}

// =============================================================================
// Concurrent producer/consumer throughput
// =============================================================================

func BenchmarkEBQ_Concurrent(b *testing.B) {
	q := lfq.NewEBQ[int](1024)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				q.Dequeue()
			}
		}
	}()

	b.ResetTimer()
	for i := range b.N {
		v := i
		for q.TryEnqueue(&v) != nil {
		}
	}
	b.StopTimer()
	close(done)
}

func BenchmarkFCB_Concurrent(b *testing.B) {
	q := lfq.NewFCB[int](1024)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				q.TryDequeue()
			}
		}
	}()

	b.ResetTimer()
	for i := range b.N {
		v := i
		for q.TryEnqueue(&v) != nil {
		}
	}
	b.StopTimer()
	close(done)
}

// =============================================================================
// Growth cost (EBQ only)
// =============================================================================

func BenchmarkEBQ_AllocatingEnqueue(b *testing.B) {
	q := lfq.NewEBQ[int](2, lfq.WithMaxBlockSize(64))

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		if i%63 == 0 {
			q.Dequeue()
		}
	}
}
