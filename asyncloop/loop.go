// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncloop

import (
	"time"

	"code.hybscloud.com/evoq"
	"code.hybscloud.com/evoq/atomics"
)

// Loop binds an evoq.Ring (drained single-consumer, once per iteration) to
// a Poller, and participates in a parent/child chain where only the
// top-of-chain owns the Poller.
type Loop struct {
	ring   *evoq.Ring
	poller Poller // nil for a child; always set on the top of the chain

	parent *Loop
	child  *Loop

	outstanding atomics.Int32 // non-zero while this loop has client work in flight
	idleWait    time.Duration
}

// NewLoop creates the top of a chain, owning poller and a fresh Ring of the
// given capacity for events bound to this loop.
func NewLoop(poller Poller, ringCapacity int) *Loop {
	return &Loop{
		ring:     evoq.NewRing(ringCapacity),
		poller:   poller,
		idleWait: 50 * time.Millisecond,
	}
}

// NewChild attaches a new Loop at the end of l's chain. A child shares the
// top-of-chain's Poller; only the top ever calls RunOnce against it.
func (l *Loop) NewChild() *Loop {
	top := l
	for top.child != nil {
		top = top.child
	}
	child := &Loop{
		ring:     evoq.NewRing(16),
		parent:   top,
		idleWait: top.idleWait,
	}
	top.child = child
	return child
}

// Ring returns the Loop's own event ring, for producers enqueueing work
// bound to this loop's iterations.
func (l *Loop) Ring() *evoq.Ring { return l.ring }

func (l *Loop) top() *Loop {
	n := l
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// RunOnce drains this loop's ring then, if this is the top of the chain,
// runs one Poller iteration. A child calling RunOnce only drains its own
// ring; it never drives the Poller -- only the top of the chain owns the
// loop.
func (l *Loop) RunOnce() bool {
	l.ring.DrainSingle()
	if l.poller == nil {
		return true
	}
	return l.poller.RunOnce(l.idleWait)
}

// Wake interrupts a blocked RunOnce on the top of the chain.
func (l *Loop) Wake() {
	l.top().pollerOrPanic().Wake()
}

// Shutdown idempotently schedules the loop to stop; safe from any
// goroutine.
func (l *Loop) Shutdown() {
	l.top().pollerOrPanic().Shutdown()
}

func (l *Loop) pollerOrPanic() Poller {
	if l.poller == nil {
		panic("asyncloop: only the top of the chain owns a Poller")
	}
	return l.poller
}

// SetTimer arms a one-shot timer on the top-of-chain Poller; the callback
// may call Timer.Reset to re-arm itself.
func (l *Loop) SetTimer(d time.Duration, cb func()) *Timer {
	return l.top().pollerOrPanic().ScheduleTimer(d, cb)
}

// SetOutstanding marks whether this loop currently has client work in
// flight (e.g. a request awaiting a response). RunLocalUntilIdle on an
// ancestor keeps running while any descendant reports true.
func (l *Loop) SetOutstanding(v bool) {
	if v {
		l.outstanding.Store(1, atomics.Release)
	} else {
		l.outstanding.Store(0, atomics.Release)
	}
}

func (l *Loop) active() bool {
	return l.outstanding.Load(atomics.Acquire) != 0
}

// RunLocalUntilIdle runs iterations, starting from this loop and walking
// its child chain, until every loop from here down reports no outstanding
// client work. Only callable on the top of the chain.
func (l *Loop) RunLocalUntilIdle() bool {
	if l.poller == nil {
		return false
	}
	if !l.RunOnce() {
		return false
	}
	for n := l; n != nil; n = n.child {
		for n.active() {
			if !l.RunOnce() {
				return false
			}
		}
	}
	return true
}
