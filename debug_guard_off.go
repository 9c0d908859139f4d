// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !lfqdebug

package lfq

// roleGuard is a no-op in release builds (the default). Role concurrency
// violations are undefined behavior here, per spec.md §7 — build with
// -tags lfqdebug to turn them into a panic instead.
type roleGuard struct{}

func (g *roleGuard) enterProducer() {}
func (g *roleGuard) leaveProducer() {}
func (g *roleGuard) enterConsumer() {}
func (g *roleGuard) leaveConsumer() {}
