// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomics

import (
	"sync"
	"time"
)

// Cond is a condition variable bound to a Mutex, with a bounded Wait so a
// consumer recovers from a missed notification within the given timeout --
// this is the discipline RingEventQueue's multi-consumer drain relies on
// (see package evoq), since NotifyOne below is best-effort.
type Cond struct {
	L *Mutex

	mu  sync.Mutex // guards broadcast/one below, distinct from L
	all chan struct{}
	one chan struct{}
}

// NewCond returns a Cond bound to l.
func NewCond(l *Mutex) *Cond {
	return &Cond{
		L:   l,
		all: make(chan struct{}),
		one: make(chan struct{}, 1),
	}
}

// Wait releases L, waits up to timeout (or indefinitely if timeout <= 0)
// for a notification, then reacquires L before returning.
// Reports whether it woke due to a notification (false on timeout).
func (c *Cond) Wait(timeout time.Duration) bool {
	c.mu.Lock()
	all := c.all
	one := c.one
	c.mu.Unlock()

	c.L.Unlock()
	defer c.L.Lock()

	if timeout <= 0 {
		select {
		case <-all:
		case <-one:
		}
		return true
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-all:
		return true
	case <-one:
		return true
	case <-t.C:
		return false
	}
}

// NotifyOne wakes at most one waiter. If no waiter is blocked in Wait, one
// pending notification is kept and consumed by the next Wait; further
// NotifyOne calls while one is pending are dropped. Callers relying on
// NotifyOne should still use a bounded Wait timeout to recover from a
// dropped signal.
func (c *Cond) NotifyOne() {
	select {
	case c.one <- struct{}{}:
	default:
	}
}

// NotifyAll wakes every waiter currently blocked in Wait.
func (c *Cond) NotifyAll() {
	c.mu.Lock()
	close(c.all)
	c.all = make(chan struct{})
	c.mu.Unlock()
}

// LockNotifyOne locks L, calls NotifyOne, then unlocks L.
func (c *Cond) LockNotifyOne() {
	c.L.Lock()
	c.NotifyOne()
	c.L.Unlock()
}

// LockNotifyAll locks L, calls NotifyAll, then unlocks L.
func (c *Cond) LockNotifyAll() {
	c.L.Lock()
	c.NotifyAll()
	c.L.Unlock()
}

// TryNotifyOne locks L only if immediately available, and if so notifies
// one waiter -- the non-blocking "producer wakes a consumer" pattern from
// evo's EventQueue::notify_multiwait / Logger::log_direct.
func (c *Cond) TryNotifyOne() {
	if c.L.TryLock() {
		c.NotifyOne()
		c.L.Unlock()
	}
}
