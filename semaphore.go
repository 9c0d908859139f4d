// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"context"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Semaphore is the counting semaphore collaborator spec.md describes for
// FCB and the blocking EBQ wrapper: a non-negative count supporting
// Signal (unconditional increment), Wait/TryWait (decrement with block /
// non-block) and a timed wait.
//
// The fast path (TryWait succeeding, or Signal) touches only an atomic
// counter. A thread that must actually wait spins briefly (spin.Wait, the
// same short-retry helper the teacher's FAA queues used for CAS
// contention) before parking on a condition variable, matching the
// spin-then-park shape used for blocking waits throughout the wider
// example pack.
type Semaphore struct {
	count atomix.Int64

	mu   sync.Mutex
	cond *sync.Cond
}

// NewSemaphore creates a counting semaphore with the given initial count.
func NewSemaphore(initial int) *Semaphore {
	s := &Semaphore{}
	s.count.StoreRelaxed(int64(initial))
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Signal unconditionally increments the count and wakes all waiters.
func (s *Semaphore) Signal() {
	s.SignalN(1)
}

// SignalN increments the count by n and wakes waiters.
func (s *Semaphore) SignalN(n int) {
	s.count.AddAcqRel(int64(n))
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// TryWait decrements the count if it is positive, without blocking.
// Returns false immediately if the count is already zero.
func (s *Semaphore) TryWait() bool {
	for {
		cur := s.count.LoadAcquire()
		if cur <= 0 {
			return false
		}
		if s.count.CompareAndSwapAcqRel(cur, cur-1) {
			return true
		}
	}
}

// AvailableApprox returns a possibly-stale view of the current count.
func (s *Semaphore) AvailableApprox() int {
	return int(s.count.LoadAcquire())
}

// Wait blocks until the count is positive (decrementing it) or ctx is
// done, whichever happens first.
func (s *Semaphore) Wait(ctx context.Context) error {
	if s.TryWait() {
		return nil
	}

	sw := spin.Wait{}
	for range spinAttempts {
		if s.TryWait() {
			return nil
		}
		sw.Once()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.mu.Lock()
		for s.count.LoadAcquire() <= 0 {
			if ctx.Err() != nil {
				s.mu.Unlock()
				return
			}
			s.cond.Wait()
		}
		s.mu.Unlock()
	}()

	select {
	case <-done:
		if s.TryWait() {
			return nil
		}
		// Spuriously woken with the count since reclaimed by another
		// waiter (SPSC usage never has more than one waiter per role,
		// but a shared Semaphore instance makes no such guarantee).
		return s.Wait(ctx)
	case <-ctx.Done():
		s.mu.Lock()
		s.cond.Broadcast() // unstick the helper goroutine above
		s.mu.Unlock()
		<-done
		return ctx.Err()
	}
}

// WaitTimed blocks up to timeout for the count to become positive. It
// returns ErrTimeout (not ctx.Err()) when the deadline passes first, to
// match spec.md's timed-wait error vocabulary.
func (s *Semaphore) WaitTimed(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.Wait(ctx)
	if err != nil {
		return ErrTimeout
	}
	return nil
}

// spinAttempts bounds the busy-wait phase before a blocked Wait commits
// to parking on the condition variable.
const spinAttempts = 32
