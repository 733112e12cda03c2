// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package atomics

import (
	"sync"
	"testing"
	"time"
)

func TestUint64AddCompareAndSwap(t *testing.T) {
	var v Uint64
	if got := v.Add(1, AcqRel); got != 1 {
		t.Fatalf("Add = %d, want 1", got)
	}
	if !v.CompareAndSwap(1, 5, AcqRel, Acquire) {
		t.Fatal("CompareAndSwap(1,5) should succeed")
	}
	if v.CompareAndSwap(1, 9, AcqRel, Acquire) {
		t.Fatal("CompareAndSwap(1,9) should fail, value is now 5")
	}
	if got := v.Load(Acquire); got != 5 {
		t.Fatalf("Load = %d, want 5", got)
	}
}

func TestFlagTestAndSet(t *testing.T) {
	var f Flag
	if f.TestAndSet(Acquire) {
		t.Fatal("first TestAndSet should report flag was clear")
	}
	if !f.TestAndSet(Acquire) {
		t.Fatal("second TestAndSet should report flag was already set")
	}
	f.Clear(Release)
	if f.TestAndSet(Acquire) {
		t.Fatal("TestAndSet after Clear should report flag was clear")
	}
}

func TestSpinLockMutualExclusion(t *testing.T) {
	var l SpinLock
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()
	if counter != 5000 {
		t.Fatalf("counter = %d, want 5000", counter)
	}
}

func TestMutexTryAndTimedLock(t *testing.T) {
	m := NewMutex()
	if !m.TryLock() {
		t.Fatal("TryLock on free mutex should succeed")
	}
	if m.TryLock() {
		t.Fatal("TryLock on held mutex should fail")
	}
	if m.TimedLock(10 * time.Millisecond) {
		t.Fatal("TimedLock on held mutex should time out")
	}
	m.Unlock()
	if !m.TimedLock(10 * time.Millisecond) {
		t.Fatal("TimedLock on free mutex should succeed")
	}
}

func TestCondWaitTimeout(t *testing.T) {
	m := NewMutex()
	c := NewCond(m)
	m.Lock()
	start := time.Now()
	woke := c.Wait(20 * time.Millisecond)
	if woke {
		t.Fatal("Wait should have timed out")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("Wait returned before the timeout elapsed")
	}
	m.Unlock()
}

func TestCondNotifyOneWakesSingleWaiter(t *testing.T) {
	m := NewMutex()
	c := NewCond(m)
	done := make(chan bool, 1)

	go func() {
		m.Lock()
		woke := c.Wait(time.Second)
		m.Unlock()
		done <- woke
	}()

	time.Sleep(20 * time.Millisecond) // let the goroutine reach Wait
	c.LockNotifyOne()

	select {
	case woke := <-done:
		if !woke {
			t.Fatal("waiter should have woken from NotifyOne, not timeout")
		}
	case <-time.After(time.Second):
		t.Fatal("waiter never woke")
	}
}

func TestCondNotifyAllWakesAllWaiters(t *testing.T) {
	m := NewMutex()
	c := NewCond(m)
	const n = 8
	var wg sync.WaitGroup
	woke := make([]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Lock()
			woke[i] = c.Wait(2 * time.Second)
			m.Unlock()
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	c.LockNotifyAll()
	wg.Wait()

	for i, w := range woke {
		if !w {
			t.Fatalf("waiter %d never woke from NotifyAll", i)
		}
	}
}
