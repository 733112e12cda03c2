// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evoq

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/evoq/atomics"
)

func TestRingCapacityRounding(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{0, 16},
		{1, 16},
		{16, 16},
		{17, 32},
		{1000, 1024},
		{1 << 20, 1 << 20},
	}
	for _, c := range cases {
		r := NewRing(c.requested)
		if got := r.Cap(); got != c.want {
			t.Errorf("NewRing(%d).Cap() = %d, want %d", c.requested, got, c.want)
		}
	}
}

// recordingEvent tracks invocation and destruction exactly once each, to
// verify exactly-once delivery and at-most-one-owner destroy.
type recordingEvent struct {
	seq      int
	invoked  int32
	owned    bool
	onInvoke func(seq int)
}

func (e *recordingEvent) Invoke() bool {
	atomic.AddInt32(&e.invoked, 1)
	if e.onInvoke != nil {
		e.onInvoke(e.seq)
	}
	return e.owned
}

// TestRingS1SingleProducerSingleConsumer covers capacity 16, one producer
// enqueuing 1,000,000 events, one consumer draining via DrainSingle; events
// must be observed in order and each invoked exactly once.
func TestRingS1SingleProducerSingleConsumer(t *testing.T) {
	const n = 1_000_000
	r := NewRing(16)

	var seen []int
	done := make(chan struct{})
	go func() {
		defer close(done)
		count := 0
		for count < n {
			if r.DrainSingle() {
				// DrainSingle already invoked everything available;
				// seen is appended inside Invoke via onInvoke.
			}
			count = len(seen)
		}
	}()

	for i := 1; i <= n; i++ {
		i := i
		r.Enqueue(&recordingEvent{seq: i, owned: true, onInvoke: func(seq int) {
			seen = append(seen, seq)
		}})
	}
	<-done

	if len(seen) != n {
		t.Fatalf("observed %d events, want %d", len(seen), n)
	}
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("out-of-order delivery at index %d: got %d, want %d", i, v, i+1)
		}
	}
}

// TestRingS2MultiProducerMultiConsumer is scenario S2: four producers each
// enqueue 250,000 events, two consumers drain via DrainMulti; every event
// is invoked exactly once, and each producer's own events arrive in its
// own enqueue order to whichever consumer handles them.
func TestRingS2MultiProducerMultiConsumer(t *testing.T) {
	const (
		producers    = 4
		perProducer  = 250_000
		totalEvents  = producers * perProducer
		numConsumers = 2
	)
	r := NewRing(16)
	mu := atomics.NewMutex()

	var invoked int64
	var mu2 sync.Mutex
	lastSeenByProducer := make([]int, producers)

	var prodWG sync.WaitGroup
	for p := 0; p < producers; p++ {
		prodWG.Add(1)
		go func(p int) {
			defer prodWG.Done()
			for i := 1; i <= perProducer; i++ {
				i := i
				r.Enqueue(&recordingEvent{owned: true, onInvoke: func(seq int) {
					mu2.Lock()
					if i <= lastSeenByProducer[p] {
						t.Errorf("producer %d: event %d observed out of order after %d", p, i, lastSeenByProducer[p])
					}
					lastSeenByProducer[p] = i
					mu2.Unlock()
					atomic.AddInt64(&invoked, 1)
				}})
			}
		}(p)
	}

	stop := make(chan struct{})
	var consWG sync.WaitGroup
	for c := 0; c < numConsumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for {
				select {
				case <-stop:
					r.DrainMulti(mu)
					return
				default:
					r.DrainMulti(mu)
				}
			}
		}()
	}

	prodWG.Wait()
	for atomic.LoadInt64(&invoked) < totalEvents {
		time.Sleep(time.Millisecond)
	}
	close(stop)
	consWG.Wait()

	if got := atomic.LoadInt64(&invoked); got != totalEvents {
		t.Fatalf("invoked %d events, want %d", got, totalEvents)
	}
}

// TestRingS3BackPressureBlocks is scenario S3: with the ring full and the
// consumer paused, the next Enqueue must not return until the consumer has
// drained at least one slot.
func TestRingS3BackPressureBlocks(t *testing.T) {
	r := NewRing(16)
	for i := 0; i < 16; i++ {
		r.Enqueue(&recordingEvent{owned: true})
	}

	enqueued := make(chan struct{})
	go func() {
		r.Enqueue(&recordingEvent{owned: true})
		close(enqueued)
	}()

	select {
	case <-enqueued:
		t.Fatal("Enqueue on a full ring returned before any slot was drained")
	case <-time.After(30 * time.Millisecond):
	}

	r.DrainSingle() // drains every committed event, freeing slots for the blocked producer

	select {
	case <-enqueued:
	case <-time.After(time.Second):
		t.Fatal("Enqueue never returned after the consumer drained a slot")
	}
}

// TestRingInvokedExactlyOnce checks the directly observable half of
// property 3 (an event is "destroyed", here: becomes unreferenced /
// collectible, only if Invoke returned true): Invoke is called exactly once
// regardless of its return value.
func TestRingInvokedExactlyOnce(t *testing.T) {
	const n = 500
	r := NewRing(n)
	events := make([]*recordingEvent, n)
	for i := range events {
		events[i] = &recordingEvent{owned: i%2 == 0}
		r.Enqueue(events[i])
	}
	r.DrainSingle()
	for i, e := range events {
		if e.invoked != 1 {
			t.Fatalf("event %d invoked %d times, want 1", i, e.invoked)
		}
	}
}

func TestRingEmpty(t *testing.T) {
	r := NewRing(16)
	if !r.Empty() {
		t.Fatal("freshly created ring should be Empty")
	}
	r.Enqueue(&recordingEvent{owned: true})
	if r.Empty() {
		t.Fatal("ring with a committed event should not be Empty")
	}
	r.DrainSingle()
	if !r.Empty() {
		t.Fatal("ring should be Empty again after draining")
	}
}
