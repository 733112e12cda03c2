// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evoq

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolInvokesAllEvents(t *testing.T) {
	p := NewPool(64, time.Millisecond)
	p.Start(4)

	const n = 20000
	var invoked int64
	for i := 0; i < n; i++ {
		p.Enqueue(EventFunc(func() bool {
			atomic.AddInt64(&invoked, 1)
			return true
		}))
	}

	for !p.Ring().Empty() {
		time.Sleep(time.Millisecond)
	}
	// give the last wakeup a moment to finish invoking
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(&invoked) < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	p.Shutdown()
	p.Join()

	if got := atomic.LoadInt64(&invoked); got != n {
		t.Fatalf("invoked %d events, want %d", got, n)
	}
}

func TestPoolShutdownIdempotent(t *testing.T) {
	p := NewPool(16, time.Millisecond)
	p.Start(2)
	p.Shutdown()
	p.Shutdown() // must not panic or block
	p.Join()
	p.Join() // Join after workers exited must return immediately
}

func TestPoolShutdownStopsWorkers(t *testing.T) {
	p := NewPool(16, time.Millisecond)
	p.Start(3)
	p.Shutdown()

	done := make(chan struct{})
	go func() {
		p.Join()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after Shutdown")
	}
}
