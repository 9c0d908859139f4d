// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "testing"

func TestNewBlockSelfCyclic(t *testing.T) {
	b := newBlock[int](4)
	if b.next.Load() != b {
		t.Fatalf("newBlock's next must be self-cyclic until spliced")
	}
	if b.capacity() != 4 {
		t.Fatalf("capacity() = %d, want 4", b.capacity())
	}
	if b.sizeMask != 3 {
		t.Fatalf("sizeMask = %d, want 3", b.sizeMask)
	}
}

func TestBlockTailStoreLeavesFrontUntouched(t *testing.T) {
	b := newBlock[int](8)
	b.tail.StoreRelease(1)
	b.data[0] = 42
	if got := b.front.LoadRelaxed(); got != 0 {
		t.Fatalf("front should be untouched by a tail-side store, got %d", got)
	}
	if b.data[0] != 42 {
		t.Fatalf("data[0] = %d, want 42", b.data[0])
	}
}
