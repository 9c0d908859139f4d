// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build lfqdebug

package lfq

import "code.hybscloud.com/atomix"

// roleGuard detects reentrancy within a single role (producer or
// consumer) when built with -tags lfqdebug. Per spec.md §7, role
// concurrency violations are undefined behavior in release builds; debug
// builds assert instead of corrupting state silently.
type roleGuard struct {
	producerBusy atomix.Uint64
	consumerBusy atomix.Uint64
}

func (g *roleGuard) enterProducer() {
	if !g.producerBusy.CompareAndSwapAcqRel(0, 1) {
		panic("lfq: concurrent producer-role reentry detected (build without -tags lfqdebug to disable this check)")
	}
}

func (g *roleGuard) leaveProducer() {
	g.producerBusy.StoreRelease(0)
}

func (g *roleGuard) enterConsumer() {
	if !g.consumerBusy.CompareAndSwapAcqRel(0, 1) {
		panic("lfq: concurrent consumer-role reentry detected (build without -tags lfqdebug to disable this check)")
	}
}

func (g *roleGuard) leaveConsumer() {
	g.consumerBusy.StoreRelease(0)
}
