// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evoq

import (
	"sync"
	"time"

	"code.hybscloud.com/evoq/atomics"
)

// Pool is an N-goroutine consumer pool driving a Ring under a single
// condition variable, with cooperative shutdown. It is the direct
// counterpart of evo::EventThreadPool (event_thread.h).
type Pool struct {
	ring     *Ring
	cond     *atomics.Cond
	shutdown atomics.Int32
	waitTO   time.Duration

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex // guards started, Start/Shutdown/Join bookkeeping
}

// NewPool creates a Pool over a fresh Ring of the given capacity.
// waitTimeout bounds how long an idle worker waits on the condition
// variable before re-checking for work or shutdown -- an
// implementation-defined tuning knob.
func NewPool(capacity int, waitTimeout time.Duration) *Pool {
	if waitTimeout <= 0 {
		waitTimeout = time.Millisecond
	}
	return &Pool{
		ring:   NewRing(capacity),
		cond:   atomics.NewCond(atomics.NewMutex()),
		waitTO: waitTimeout,
	}
}

// Start launches n worker goroutines, each draining the ring via
// DrainMultiWait until shutdown. Start is not safe to call concurrently
// with itself, and must not be called again after Shutdown.
func (p *Pool) Start(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for p.shutdown.Load(atomics.Acquire) == 0 {
				p.ring.DrainMultiWait(p.cond, &p.shutdown, p.waitTO)
			}
		}()
	}
}

// Enqueue adds ev to the pool's ring and best-effort wakes one idle
// worker. Enqueueing after all workers have exited (i.e. after Shutdown
// has fully drained) is a caller error -- producers must stop before
// calling Shutdown.
func (p *Pool) Enqueue(ev Event, spinSleepNs ...uint64) {
	p.ring.Enqueue(ev, spinSleepNs...)
	p.ring.TryNotify(p.cond)
}

// Shutdown signals all workers to stop once the ring is drained of
// whatever is currently visible, and wakes any idle worker immediately.
// Shutdown is idempotent. Events still queued at the moment of shutdown
// are not guaranteed to be drained -- callers needing a guaranteed drain
// must stop producers and wait for Ring.Empty() first.
func (p *Pool) Shutdown() {
	p.shutdown.Store(1, atomics.Release)
	p.cond.LockNotifyAll()
}

// Join blocks until every worker goroutine has exited. Join only returns
// once, and repeated calls after workers have exited return immediately.
func (p *Pool) Join() {
	p.wg.Wait()
}

// Ring returns the pool's underlying Ring, for callers that need to check
// Ring.Empty() before shutting down, or that want to drive it directly.
func (p *Pool) Ring() *Ring {
	return p.ring
}
