// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evoq

// Event is a polymorphic unit of deferred work enqueued on a Ring.
//
// Invoke runs the event once and reports whether the caller now owns the
// handle: true means the consumer may let it go (Go's GC reclaims it once
// unreferenced, the natural stand-in for evo's "free the event" step),
// false means ownership was transferred elsewhere and the consumer must
// not assume the event is done.
//
// Invoke must not panic -- the queue has no recovery path for a failed
// invocation, matching evo::Event's "must not throw" contract.
type Event interface {
	Invoke() bool
}

// EventFunc adapts a plain func() bool to Event, mirroring evo::EventLambda
// for callers who don't want to declare a concrete event type.
type EventFunc func() bool

// Invoke calls f.
func (f EventFunc) Invoke() bool {
	return f()
}
