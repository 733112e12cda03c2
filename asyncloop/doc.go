// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package asyncloop binds an evoq.Ring to an event-loop iteration, one-shot
// timers, and a parent/child loop chain -- the collaborator contract a
// multiplexer (epoll/kqueue/IOCP) is expected to satisfy, kept opaque here
// behind the Poller interface.
//
//	top := asyncloop.NewLoop(asyncloop.NewChanPoller(), 16)
//	top.SetTimer(100*time.Millisecond, func() { fmt.Println("tick") })
//	for top.RunOnce() {
//	}
//
//	child := top.NewChild()
//	child.SetOutstanding(true) // a request is in flight
//	top.RunLocalUntilIdle()
package asyncloop
