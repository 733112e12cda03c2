// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package asyncloop

import (
	"time"

	"code.hybscloud.com/evoq/atomics"
)

// Poller is the four-operation contract a Loop requires of its underlying
// multiplexer: run one iteration, wake it from any thread, shut it down,
// and schedule a one-shot timer. Real epoll/kqueue/IOCP backends are out of
// scope; ChanPoller is the channel-based stand-in shipped here.
type Poller interface {
	// RunOnce blocks until there is something to do (a wake, a due timer,
	// or the idle interval elapsing) then returns. false signals that the
	// poller has been shut down (or hit an internal error) and the caller
	// should stop iterating.
	RunOnce(idle time.Duration) bool
	// Wake interrupts a blocked RunOnce from any goroutine.
	Wake()
	// Shutdown idempotently schedules the loop to stop; safe from any
	// goroutine.
	Shutdown()
	// ScheduleTimer arms a one-shot timer and invokes cb once it is due.
	// ChanPoller invokes cb on the timer's own goroutine (not the one
	// driving RunOnce) and then wakes RunOnce. The returned Timer may be
	// reset from within cb (or elsewhere) to re-arm it.
	ScheduleTimer(d time.Duration, cb func()) *Timer
}

// Timer is a re-armable one-shot timer handle.
type Timer struct {
	t *time.Timer
	d time.Duration
	cb func()
}

// Reset re-arms the timer to fire again after d (or after its original
// duration if d is 0), per the timer-single-shot contract: a timer fires
// once and only fires again if the handler calls Reset.
func (tm *Timer) Reset(d time.Duration) {
	if d <= 0 {
		d = tm.d
	}
	tm.d = d
	tm.t.Reset(d)
}

// Stop cancels a pending timer; a timer that already fired is a no-op.
func (tm *Timer) Stop() {
	tm.t.Stop()
}

// ChanPoller is a Poller built on Go channels and time.Timer: Wake sends a
// best-effort notification on a buffered channel, RunOnce selects on that
// channel plus an idle ticker, and ScheduleTimer spawns one timer per call.
type ChanPoller struct {
	wake     chan struct{}
	shutdown chan struct{}
	closed   atomics.Int32
}

// NewChanPoller creates a ready-to-use ChanPoller.
func NewChanPoller() *ChanPoller {
	return &ChanPoller{
		wake:     make(chan struct{}, 1),
		shutdown: make(chan struct{}),
	}
}

func (p *ChanPoller) RunOnce(idle time.Duration) bool {
	if idle <= 0 {
		idle = time.Second
	}
	select {
	case <-p.shutdown:
		return false
	case <-p.wake:
		return true
	case <-time.After(idle):
		return true
	}
}

func (p *ChanPoller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *ChanPoller) Shutdown() {
	if p.closed.CompareAndSwap(0, 1, atomics.AcqRel, atomics.Acquire) {
		close(p.shutdown)
	}
}

func (p *ChanPoller) ScheduleTimer(d time.Duration, cb func()) *Timer {
	tm := &Timer{d: d, cb: cb}
	tm.t = time.AfterFunc(d, func() {
		cb()
		p.Wake()
	})
	return tm
}
