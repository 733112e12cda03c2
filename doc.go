// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package evoq provides a lock-free bounded event queue (Ring) and a
// worker-pool consumer model (Pool) built on it -- the asynchronous event
// core that the sock, iobuf, asyncloop and logger packages sit on top of.
//
// # Single-consumer usage
//
//	r := evoq.NewRing(1024)
//	r.Enqueue(evoq.EventFunc(func() bool {
//	    // ... do work ...
//	    return true // ownership released, safe to forget
//	}))
//	r.DrainSingle() // called repeatedly by one dedicated goroutine
//
// # Worker-pool usage
//
//	pool := evoq.NewPool(1024, time.Millisecond)
//	pool.Start(4)
//	pool.Enqueue(evoq.EventFunc(func() bool { return true }))
//	pool.Shutdown()
//	pool.Join()
//
// Caution: an Event invoked on a Pool must not call Pool.Enqueue on the
// same pool when the ring is full -- that self-deadlocks, since only a
// consumer goroutine can relieve the back-pressure the Enqueue call would
// be spinning on.
package evoq
