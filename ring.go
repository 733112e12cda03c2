// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package evoq provides a bounded, power-of-two ring-buffer event queue
// (Ring) and an N-worker consumer pool (Pool) built on it.
//
// Ring supports one or many producers enqueueing Events without blocking
// on consumers, and either a single dedicated consumer (DrainSingle) or a
// cooperating group of consumers sharing a mutex (DrainMulti /
// DrainMultiWait). Its commit discipline -- a monotone reservation counter,
// a strictly in-order commit cursor, and a read cursor -- is carried over
// directly from evo::EventQueue in the C++ library this design is drawn
// from: producers spin-wait on back-pressure and on the in-order commit,
// never on a lock.
package evoq

import (
	"time"

	"code.hybscloud.com/evoq/atomics"
	"code.hybscloud.com/spin"
)

const (
	minCapacity = 16
	// maxCapacity is clamped well inside the 64-bit sequence space so that
	// "next - read" arithmetic never risks overflowing a signed/32-bit int
	// on the capacity side; the sequence counters themselves still use the
	// full uint64 range.
	maxCapacity = 1 << 30
)

type ringSlot struct {
	ev Event
	_  pad
}

// Ring is a bounded MPMC ring buffer of Events with one commit cursor and
// one read cursor.
type Ring struct {
	_        pad
	next     atomics.Uint64 // next sequence to reserve for a writer
	_        pad
	cursor   atomics.Uint64 // highest sequence committed and visible to readers
	_        pad
	read     atomics.Uint64 // next sequence a reader will consume
	_        pad
	slots    []ringSlot
	mask     uint64
	capacity uint64
}

type pad [48]byte

// NewRing creates a Ring with the given capacity, rounded up to the next
// power of two and clamped to [16, maxCapacity].
func NewRing(capacity int) *Ring {
	n := adjustCapacity(capacity)
	r := &Ring{
		slots:    make([]ringSlot, n),
		mask:     uint64(n) - 1,
		capacity: uint64(n),
	}
	r.next.Store(1, atomics.Relaxed)
	r.read.Store(1, atomics.Relaxed)
	return r
}

// Cap returns the effective (power-of-two) capacity.
func (r *Ring) Cap() int {
	return int(r.capacity)
}

// Empty reports whether the ring currently has no committed, unread
// events. This is the precondition a caller should check before dropping
// a Ring -- evo documents the equivalent as an enforced-by-assertion
// destructor precondition; Go has no destructors, so this is exposed as an
// explicit check instead of an automatic drain-on-destroy (see DESIGN.md).
func (r *Ring) Empty() bool {
	return r.read.Load(atomics.Acquire) > r.cursor.Load(atomics.Acquire)
}

// Enqueue takes ownership of ev and adds it to the ring, taking ownership
// unconditionally. It spin-waits (sleeping spinSleepNs between attempts,
// default 1ns) while the ring is full, and again while committing in
// order; it never blocks on a lock.
//
// Caution: calling Enqueue from within an Event running on the same
// queue/pool, when the ring is full, self-deadlocks -- only a consumer
// can relieve the back-pressure this call is waiting on.
func (r *Ring) Enqueue(ev Event, spinSleepNs ...uint64) {
	ns := uint64(1)
	if len(spinSleepNs) > 0 && spinSleepNs[0] > 0 {
		ns = spinSleepNs[0]
	}
	sleep := time.Duration(ns)

	var sw spin.Wait
	seq := r.next.Add(1, atomics.AcqRel) - 1
	for seq-r.read.Load(atomics.Acquire) >= r.capacity {
		sw.Once()
		time.Sleep(sleep)
	}

	atomics.Fence(atomics.Acquire)
	r.slots[seq&r.mask].ev = ev
	atomics.Fence(atomics.Release)

	prev := seq - 1
	for !r.cursor.CompareAndSwap(prev, seq, atomics.AcqRel, atomics.Acquire) {
		sw.Once()
		time.Sleep(sleep)
	}
}

// TryNotify performs a best-effort, non-blocking wake of one consumer
// waiting on cond -- evo's notify_multiwait(): dropped if cond's mutex is
// contended, since a missed notification self-heals via DrainMultiWait's
// bounded wait.
func (r *Ring) TryNotify(cond *atomics.Cond) {
	cond.TryNotifyOne()
}

// DrainSingle pops and invokes every currently-committed event.
//
// Only one goroutine may call DrainSingle on a given Ring at a time --
// results are undefined otherwise.
func (r *Ring) DrainSingle() bool {
	start := r.read.Load(atomics.Acquire)
	cur := start
	for cur <= r.cursor.Load(atomics.Acquire) {
		idx := cur & r.mask
		ev := r.slots[idx].ev
		r.slots[idx].ev = nil
		cur = r.read.Add(1, atomics.AcqRel)
		ev.Invoke()
	}
	return cur > start
}

// DrainMulti pops and invokes events, serialising only the pop step with
// mu so multiple goroutines may call this concurrently; the event itself
// runs with mu unlocked. Do not mix calls to DrainMulti and DrainSingle (or
// DrainMultiWait) on the same Ring.
func (r *Ring) DrainMulti(mu *atomics.Mutex) bool {
	mu.Lock()
	count := 0
	for {
		cur := r.read.Load(atomics.Relaxed)
		if cur > r.cursor.Load(atomics.Acquire) {
			break
		}
		idx := cur & r.mask
		ev := r.slots[idx].ev
		r.slots[idx].ev = nil
		r.read.Add(1, atomics.Release)
		mu.Unlock()
		ev.Invoke()
		count++
		mu.Lock()
	}
	mu.Unlock()
	return count > 0
}

// DrainMultiWait is DrainMulti, but blocks on cond (bounded by waitTimeout)
// when the ring is empty, looping until stopFlag is non-zero. Producers
// should call TryNotify after Enqueue to wake an idle consumer promptly;
// the bounded wait here is what makes a missed notification self-heal.
func (r *Ring) DrainMultiWait(cond *atomics.Cond, stopFlag *atomics.Int32, waitTimeout time.Duration) {
	cond.L.Lock()
	for {
		for {
			cur := r.read.Load(atomics.Relaxed)
			if cur > r.cursor.Load(atomics.Acquire) {
				break
			}
			idx := cur & r.mask
			ev := r.slots[idx].ev
			r.slots[idx].ev = nil
			r.read.Add(1, atomics.Release)
			cond.L.Unlock()
			ev.Invoke()
			cond.L.Lock()
		}
		if stopFlag.Load(atomics.Relaxed) != 0 {
			break
		}
		cond.Wait(waitTimeout)
	}
	cond.L.Unlock()
}

func adjustCapacity(size int) int {
	n := size
	if n <= minCapacity {
		return minCapacity
	}
	if n >= maxCapacity {
		return maxCapacity
	}
	return roundToPow2(n)
}

func roundToPow2(n int) int {
	if n&(n-1) == 0 {
		return n
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
