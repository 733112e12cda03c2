// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package atomics provides typed atomics with explicit memory-order
// parameters, a test-and-set flag, and spin/sleep locks built on it.
//
// The Go memory model already gives every sync/atomic operation
// acquire/release semantics (stronger, in fact, than plain relaxed), so
// Order below is not load-bearing for correctness on top of sync/atomic.
// It exists because the event core's invariants (see package evoq) are
// stated in terms of explicit per-operation orderings, mirroring the
// evo C++ library this module's design is drawn from -- carrying the
// Order parameter through the API keeps call sites self-documenting about
// which ordering each operation relies on, and leaves room for a future
// platform-specific backend that isn't just sync/atomic.
package atomics

// Order identifies the memory ordering requested for an atomic operation.
type Order int

const (
	Relaxed Order = iota
	Acquire
	Release
	AcqRel
	SeqCst
)

// Fence issues a standalone memory fence for the given order.
// Relaxed is a no-op; anything else maps to a full sequentially
// consistent fence, since sync/atomic does not expose finer-grained
// standalone fences.
func Fence(order Order) {
	if order == Relaxed {
		return
	}
	var x int32
	_ = casInt32(&x, 0, 0)
}
