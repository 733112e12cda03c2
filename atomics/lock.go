// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomics

import (
	"time"

	"code.hybscloud.com/spin"
)

// Flag is a lightweight test-and-set flag, the building block for SpinLock
// and SleepLock.
type Flag struct {
	v Bool
}

// TestAndSet atomically sets the flag and returns its previous value.
func (f *Flag) TestAndSet(order Order) bool {
	for {
		old := f.v.Load(Relaxed)
		if old {
			return true
		}
		if f.v.CompareAndSwap(false, true, order, Relaxed) {
			return false
		}
	}
}

// Clear atomically clears the flag.
func (f *Flag) Clear(order Order) {
	f.v.Store(false, order)
}

// SpinLock is a Flag used as a mutual-exclusion lock with a pure spin wait
// (no sleep), suitable for very short critical sections.
type SpinLock struct {
	flag Flag
}

// Lock spins until the flag is acquired.
func (l *SpinLock) Lock() {
	var sw spin.Wait
	for l.flag.TestAndSet(Acquire) {
		sw.Once()
	}
}

// TryLock attempts to acquire the lock without waiting.
func (l *SpinLock) TryLock() bool {
	return !l.flag.TestAndSet(Acquire)
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	l.flag.Clear(Release)
}

// SleepLock is the same Flag-based lock as SpinLock, but sleeps a
// caller-supplied duration between attempts instead of pure spinning --
// evo's "sleep-lock" for longer expected hold times.
type SleepLock struct {
	flag Flag
}

// Lock acquires the lock, sleeping sleepDur between attempts. A zero
// sleepDur falls back to a 1ns sleep, matching evo's spin-wait default.
func (l *SleepLock) Lock(sleepDur time.Duration) {
	if sleepDur <= 0 {
		sleepDur = time.Nanosecond
	}
	for l.flag.TestAndSet(Acquire) {
		time.Sleep(sleepDur)
	}
}

// Unlock releases the lock.
func (l *SleepLock) Unlock() {
	l.flag.Clear(Release)
}
