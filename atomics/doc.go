// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package atomics provides the memory-ordering primitives the rest of this
// module is built on: typed atomics (Uint64, Int64, Uint32, Int32, Bool)
// with an explicit Order parameter per operation, a Flag for building
// locks, SpinLock and SleepLock, and a timed Mutex/Cond pair.
//
// # Quick start
//
//	var next atomics.Uint64
//	seq := next.Add(1, atomics.AcqRel)
//
//	var closed atomics.Bool
//	closed.Store(true, atomics.Release)
//	if closed.Load(atomics.Acquire) {
//	    // ...
//	}
//
//	m := atomics.NewMutex()
//	c := atomics.NewCond(m)
//	m.Lock()
//	for !ready {
//	    c.Wait(time.Second)
//	}
//	m.Unlock()
package atomics
