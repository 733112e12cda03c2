// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomics

import "sync/atomic"

// pad is cache-line padding for keeping hot counters on separate cache
// lines; nothing in this package embeds it.
type pad [56]byte // 64-byte line minus one uint64

func casInt32(addr *int32, old, new int32) bool {
	return atomic.CompareAndSwapInt32(addr, old, new)
}

// Uint64 is a 64-bit unsigned atomic with explicit-order accessors.
type Uint64 struct {
	v atomic.Uint64
}

func (a *Uint64) Load(order Order) uint64 {
	_ = order
	return a.v.Load()
}

func (a *Uint64) Store(val uint64, order Order) {
	_ = order
	a.v.Store(val)
}

// Add adds delta and returns the new value.
func (a *Uint64) Add(delta uint64, order Order) uint64 {
	_ = order
	return a.v.Add(delta)
}

// CompareAndSwap attempts old->new and reports success.
func (a *Uint64) CompareAndSwap(old, new_ uint64, successOrder, failureOrder Order) bool {
	_ = successOrder
	_ = failureOrder
	return a.v.CompareAndSwap(old, new_)
}

// Int64 is a 64-bit signed atomic with explicit-order accessors.
type Int64 struct {
	v atomic.Int64
}

func (a *Int64) Load(order Order) int64 {
	_ = order
	return a.v.Load()
}

func (a *Int64) Store(val int64, order Order) {
	_ = order
	a.v.Store(val)
}

func (a *Int64) Add(delta int64, order Order) int64 {
	_ = order
	return a.v.Add(delta)
}

func (a *Int64) CompareAndSwap(old, new_ int64, successOrder, failureOrder Order) bool {
	_ = successOrder
	_ = failureOrder
	return a.v.CompareAndSwap(old, new_)
}

// Uint32 is a 32-bit unsigned atomic with explicit-order accessors.
type Uint32 struct {
	v atomic.Uint32
}

func (a *Uint32) Load(order Order) uint32 {
	_ = order
	return a.v.Load()
}

func (a *Uint32) Store(val uint32, order Order) {
	_ = order
	a.v.Store(val)
}

func (a *Uint32) Add(delta uint32, order Order) uint32 {
	_ = order
	return a.v.Add(delta)
}

func (a *Uint32) CompareAndSwap(old, new_ uint32, successOrder, failureOrder Order) bool {
	_ = successOrder
	_ = failureOrder
	return a.v.CompareAndSwap(old, new_)
}

// Int32 is a 32-bit signed atomic with explicit-order accessors.
type Int32 struct {
	v atomic.Int32
}

func (a *Int32) Load(order Order) int32 {
	_ = order
	return a.v.Load()
}

func (a *Int32) Store(val int32, order Order) {
	_ = order
	a.v.Store(val)
}

func (a *Int32) Add(delta int32, order Order) int32 {
	_ = order
	return a.v.Add(delta)
}

func (a *Int32) CompareAndSwap(old, new_ int32, successOrder, failureOrder Order) bool {
	_ = successOrder
	_ = failureOrder
	return a.v.CompareAndSwap(old, new_)
}

// Bool is a boolean atomic with explicit-order accessors.
type Bool struct {
	v atomic.Bool
}

func (a *Bool) Load(order Order) bool {
	_ = order
	return a.v.Load()
}

func (a *Bool) Store(val bool, order Order) {
	_ = order
	a.v.Store(val)
}

func (a *Bool) CompareAndSwap(old, new_ bool, successOrder, failureOrder Order) bool {
	_ = successOrder
	_ = failureOrder
	return a.v.CompareAndSwap(old, new_)
}
